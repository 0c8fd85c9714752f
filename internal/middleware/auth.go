package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/access"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxActor  = "actor"
)

// JWTAuth resolves the actor from an optional bearer token. Requests without
// an Authorization header continue as anonymous; a present but unusable
// header is rejected.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be a Bearer token")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxActor, claims.Actor())

		c.Next()
	}
}

// RequireAuth rejects anonymous actors.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Actor(c).Authenticated() {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		c.Next()
	}
}

// Actor returns the identity set by JWTAuth, or the anonymous actor.
func Actor(c *gin.Context) access.Actor {
	if a, ok := c.Get(ctxActor); ok {
		if actor, ok := a.(access.Actor); ok {
			return actor
		}
	}
	return access.Actor{}
}

// AccessRequest extracts what the access policy needs from the request.
func AccessRequest(c *gin.Context) access.Request {
	return access.Request{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Referer: c.Request.Referer(),
	}
}
