package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

// AdminOnly requires an authenticated administrator.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := Actor(c)
		if !a.Authenticated() {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !a.Admin {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}
