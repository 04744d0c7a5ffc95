package admin

import (
	"errors"
	"io"
	"net/http"

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

// RegisterRoutes expects a group already guarded by JWTAuth and AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// listing moderation
	admin.GET("/properties", h.GetProperties)
	admin.GET("/properties/pending", h.GetPendingProperties)
	admin.POST("/properties/:id/approve", h.ApproveProperty)
	admin.POST("/properties/:id/reject", h.RejectProperty)
	admin.DELETE("/properties/:id", h.DeleteProperty)

	// users
	admin.GET("/users", h.GetUsers)

	// statistics
	admin.GET("/stats", h.GetStats)
}

// GetProperties handles GET /api/v1/admin/properties?status=
func (h *Handler) GetProperties(c *gin.Context) {
	props, err := h.service.ListListings(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListingListResponse{Properties: props, Count: len(props)})
}

// GetPendingProperties handles GET /api/v1/admin/properties/pending
func (h *Handler) GetPendingProperties(c *gin.Context) {
	props, err := h.service.ListListings(c.Request.Context(), "pending")
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListingListResponse{Properties: props, Count: len(props)})
}

func (h *Handler) ApproveProperty(c *gin.Context) {
	me, _ := middleware.CurrentIdentity(c)

	l, err := h.service.Approve(c.Request.Context(), me, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": l})
}

func (h *Handler) RejectProperty(c *gin.Context) {
	me, _ := middleware.CurrentIdentity(c)

	var req RejectListingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	l, err := h.service.Reject(c.Request.Context(), me, c.Param("id"), req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": l})
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	me, _ := middleware.CurrentIdentity(c)

	l, err := h.service.Delete(c.Request.Context(), me, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": l.ID})
}

func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case errors.Is(err, ErrNotPending):
		response.Error(c, http.StatusConflict, "NOT_PENDING", "Only pending properties can be reviewed")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be pending, approved or rejected")
	default:
		logger.FromGin(c).Error("admin request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
