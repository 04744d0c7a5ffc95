package catalog

import (
	"errors"
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

func (h *Handler) RegisterRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.GET("/properties", h.Search)
	public.GET("/properties/:id", h.GetProperty)

	protected.GET("/properties/:id/contact", h.GetContact)
	protected.GET("/me/properties", h.MyProperties)
	protected.DELETE("/me/properties/:id", h.DeleteMyProperty)
}

// Search handles GET /api/v1/properties
func (h *Handler) Search(c *gin.Context) {
	criteria := CriteriaFromQuery(c.Query)

	props, err := h.service.Search(c.Request.Context(), criteria)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := SearchResponse{Properties: props, Count: len(props), Criteria: criteria}
	if len(props) == 0 {
		resp.Message = NoMatchesMessage
	}
	response.Success(c, http.StatusOK, resp)
}

// GetProperty handles GET /api/v1/properties/:id
func (h *Handler) GetProperty(c *gin.Context) {
	detail, err := h.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": detail})
}

// GetContact handles GET /api/v1/properties/:id/contact
func (h *Handler) GetContact(c *gin.Context) {
	info, err := h.service.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contact": info})
}

// MyProperties handles GET /api/v1/me/properties (owner dashboard)
func (h *Handler) MyProperties(c *gin.Context) {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var criteria *Criteria
	if len(c.Request.URL.Query()) > 0 {
		cr := OwnerCriteriaFromQuery(c.Query)
		criteria = &cr
	}

	props, err := h.service.ListOwned(c.Request.Context(), caller.ID, criteria)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": props, "count": len(props)})
}

// DeleteMyProperty handles DELETE /api/v1/me/properties/:id
func (h *Handler) DeleteMyProperty(c *gin.Context) {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.DeleteOwned(c.Request.Context(), caller, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only manage your own properties")
	default:
		logger.FromGin(c).Error("catalog request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
