package middleware

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/access"
	"foodgram/internal/pkg/response"
)

// WritePermission runs the object-independent phase of the access policy.
// The object phase happens in the service once the target is loaded.
func WritePermission(p *access.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := Actor(c)
		if !p.HasPermission(AccessRequest(c), a) {
			response.FromError(c, access.Denied(a))
			c.Abort()
			return
		}
		c.Next()
	}
}
