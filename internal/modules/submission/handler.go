package submission

import (
	"errors"
	"io"
	"net/http"

	"harvesthaven/internal/domain"
	"harvesthaven/internal/middleware"
	"harvesthaven/internal/pkg/logger"
	"harvesthaven/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	s := protected.Group("/submissions")
	{
		s.POST("", h.Create)
		s.GET("", h.List)
		s.POST("/suggest-description", h.SuggestDescription)
		s.GET("/:id", h.Get)
		s.PUT("/:id/form", h.UpdateForm)
		s.POST("/:id/submit", h.Submit)
		s.POST("/:id/payment", h.ConfirmPayment)
		s.POST("/:id/back", h.Back)
		s.POST("/:id/commit", h.Commit)
		s.DELETE("/:id", h.Discard)
	}
}

func caller(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return id, ok
}

// Create handles POST /api/v1/submissions
func (h *Handler) Create(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	var form *domain.SubmissionForm
	if req.Form != nil {
		f, fieldErrs := req.Form.ToForm()
		if fieldErrs != nil {
			response.ValidationFailed(c, fieldErrs)
			return
		}
		form = &f
	}

	d, err := h.service.Create(c.Request.Context(), me, form)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// List handles GET /api/v1/submissions
func (h *Handler) List(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	ds, err := h.service.List(c.Request.Context(), me)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"drafts": ds, "count": len(ds)})
}

// Get handles GET /api/v1/submissions/:id
func (h *Handler) Get(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), me, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d})
}

// UpdateForm handles PUT /api/v1/submissions/:id/form
func (h *Handler) UpdateForm(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	var in FormInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	form, fieldErrs := in.ToForm()
	if fieldErrs != nil {
		response.ValidationFailed(c, fieldErrs)
		return
	}

	d, err := h.service.UpdateForm(c.Request.Context(), me, c.Param("id"), form)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d})
}

// Submit handles POST /api/v1/submissions/:id/submit (form -> payment)
func (h *Handler) Submit(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	d, err := h.service.Submit(c.Request.Context(), me, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d, "payment": d.PaymentInstructions})
}

// ConfirmPayment handles POST /api/v1/submissions/:id/payment (payment -> confirmation)
func (h *Handler) ConfirmPayment(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	d, err := h.service.ConfirmPayment(c.Request.Context(), me, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d})
}

// Back handles POST /api/v1/submissions/:id/back
func (h *Handler) Back(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	d, err := h.service.Back(c.Request.Context(), me, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d})
}

// Commit handles POST /api/v1/submissions/:id/commit (confirmation -> committed)
func (h *Handler) Commit(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	l, d, err := h.service.Commit(c.Request.Context(), me, c.Param("id"), req.Reference)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, CommitResponse{Listing: l, Draft: d, Message: committedMessage})
}

// Discard handles DELETE /api/v1/submissions/:id
func (h *Handler) Discard(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.Discard(c.Request.Context(), me, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// SuggestDescription handles POST /api/v1/submissions/suggest-description
func (h *Handler) SuggestDescription(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"description": SuggestDescription(req)})
}

func handleError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, ErrInvalidReference):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_REFERENCE", msgReferenceLen)
	case errors.Is(err, ErrPaymentNotVerified):
		response.Error(c, http.StatusPaymentRequired, "PAYMENT_NOT_VERIFIED", "We could not verify this payment. Check the reference or go back and pay again.")
	case errors.Is(err, ErrPaymentUnavailable):
		logger.FromGin(c).Warn("payment gateway unavailable", zap.Error(err))
		response.Error(c, http.StatusServiceUnavailable, "PAYMENT_UNAVAILABLE", "Payment service is unavailable, please try again shortly")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "This step is not available at the current stage")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Submission not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only manage your own submissions")
	default:
		logger.FromGin(c).Error("submission request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
