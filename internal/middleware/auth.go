package middleware

import (
	"net/http"
	"strings"

	"harvesthaven/internal/domain"
	"harvesthaven/internal/pkg/jwt"
	"harvesthaven/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates the bearer token and puts user_id and role into the gin context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// CurrentIdentity reads the caller set by JWTAuth. Name and email are not carried in the token.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	id := c.GetString(ctxUserID)
	if id == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{ID: id, Role: domain.UserRole(c.GetString(ctxRole))}, true
}
