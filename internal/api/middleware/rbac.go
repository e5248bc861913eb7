package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	apperrors "storecast.io/notifier/internal/pkg/errors"
)

// RoleStaff is the role allowed to manage campaigns, newsletters and users.
const RoleStaff = "staff"

// RequireRole returns middleware that lets the request through only when the
// authenticated caller holds one of roles. It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(string(ctxKeyRoles))
		if !exists {
			AbortWithError(c, apperrors.Forbidden(apperrors.CodeForbidden, "no roles in context"))
			return
		}
		have, ok := v.([]string)
		if !ok {
			AbortWithError(c, apperrors.Forbidden(apperrors.CodeForbidden, "invalid roles type"))
			return
		}
		for _, r := range roles {
			if slices.Contains(have, r) {
				c.Next()
				return
			}
		}
		AbortWithError(c, apperrors.Forbidden(apperrors.CodeForbidden, "insufficient permissions"))
	}
}
