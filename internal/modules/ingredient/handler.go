package ingredient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	if public != nil {
		public.GET("/ingredients", h.List)
		public.GET("/ingredients/:id", h.Get)
	}

	// Admin routes
	if admin != nil {
		admin.POST("/ingredients", h.Create)
		admin.PATCH("/ingredients/:id", h.Update)
		admin.DELETE("/ingredients/:id", h.Delete)
	}
}

// List godoc
// @Summary List ingredients
// @Tags Ingredients
// @Param name query string false "Name prefix, case-insensitive"
// @Success 200 {object} map[string]interface{}
// @Router /ingredients [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get an ingredient
// @Tags Ingredients
// @Param id path int true "Ingredient id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ingredients/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}
	ing, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ing)
}

// Create godoc
// @Summary Add an ingredient
// @Tags Ingredients
// @Security BearerAuth
// @Param request body CreateIngredientRequest true "Ingredient"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /ingredients [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	ing, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ing)
}

// Update godoc
// @Summary Change an ingredient
// @Tags Ingredients
// @Security BearerAuth
// @Param id path int true "Ingredient id"
// @Param request body UpdateIngredientRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ingredients/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}
	var req UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	ing, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ing)
}

// Delete godoc
// @Summary Delete an ingredient
// @Tags Ingredients
// @Security BearerAuth
// @Param id path int true "Ingredient id"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /ingredients/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ingredientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ingredient ID")
		return 0, false
	}
	return id, true
}
