package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/users", h.List)
		public.GET("/users/:id", h.Get)
	}

	// Protected routes (auth required)
	if protected != nil {
		protected.GET("/users/me", h.Me)
		protected.GET("/users/subscriptions", h.Subscriptions)
		protected.POST("/users/:id/subscribe", h.Subscribe)
		protected.DELETE("/users/:id/subscribe", h.Unsubscribe)
	}
}

// List godoc
// @Summary List users
// @Tags Users
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *Handler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), middleware.Actor(c), pagination.FromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Param id path int true "User id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Me godoc
// @Summary Current user
// @Tags Users
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Subscriptions godoc
// @Summary Authors the current user follows
// @Tags Users
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes shown per author"
// @Success 200 {object} map[string]interface{}
// @Router /users/subscriptions [get]
func (h *Handler) Subscriptions(c *gin.Context) {
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	page, err := h.svc.Subscriptions(c.Request.Context(), middleware.Actor(c), pagination.FromQuery(c), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Subscribe godoc
// @Summary Follow an author
// @Tags Users
// @Security BearerAuth
// @Param id path int true "Author id"
// @Param recipes_limit query int false "Recipes shown in the response"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Already subscribed or self-subscription"
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	sub, err := h.svc.Subscribe(c.Request.Context(), middleware.Actor(c), id, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// Unsubscribe godoc
// @Summary Stop following an author
// @Tags Users
// @Security BearerAuth
// @Param id path int true "Author id"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

// recipesLimit parses ?recipes_limit=; absent means every recipe, zero is
// rejected since the repository reads it as "no limit".
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "recipes_limit must be a positive integer")
		return 0, false
	}
	return n, true
}
