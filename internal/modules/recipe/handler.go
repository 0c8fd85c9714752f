package recipe

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/access"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc    *Service
	policy *access.Policy
}

func NewHandler(svc *Service, policy *access.Policy) *Handler {
	return &Handler{svc: svc, policy: policy}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	// Public routes; the actor, if any, only affects the annotations
	if public != nil {
		public.GET("/recipes", h.List)
		public.GET("/recipes/:id", h.Get)

		writes := public.Group("/recipes", middleware.WritePermission(h.policy))
		writes.POST("", h.Create)
		writes.PATCH("/:id", h.Update)
		writes.DELETE("/:id", h.Delete)
	}

	// Protected routes (auth required)
	if protected != nil {
		protected.POST("/recipes/:id/favorite", h.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", h.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)
	}
}

// List godoc
// @Summary List recipes
// @Description Newest first. is_favorited and is_in_shopping_cart filter only for an authenticated user.
// @Tags Recipes
// @Param author query int false "Author id"
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param is_favorited query int false "1 to keep favorites only"
// @Param is_in_shopping_cart query int false "1 to keep cart recipes only"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /recipes [get]
func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c)
	q := ListQuery{
		Tags:             c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
		Page:             p.Page,
		Limit:            p.Limit,
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || authorID <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid author id")
			return
		}
		q.AuthorID = authorID
	}

	page, err := h.svc.List(c.Request.Context(), middleware.Actor(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get godoc
// @Summary Get a recipe
// @Tags Recipes
// @Param id path int true "Recipe id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Create godoc
// @Summary Create a recipe
// @Description The current user becomes the author.
// @Tags Recipes
// @Security BearerAuth
// @Param request body CreateRecipeRequest true "Recipe"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// Update godoc
// @Summary Update a recipe
// @Description Author or administrator only. Tags and ingredients are replaced when present.
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Param request body UpdateRecipeRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), middleware.AccessRequest(c), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete a recipe
// @Description Author or administrator only. Removes ingredient rows, favorites and cart entries too.
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.AccessRequest(c), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Already in favorites"
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/favorite [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	h.addLink(c, h.svc.AddFavorite)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeLink(c, h.svc.RemoveFavorite)
}

// AddToCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Already in the cart"
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) AddToCart(c *gin.Context) {
	h.addLink(c, h.svc.AddToCart)
}

// RemoveFromCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeLink(c, h.svc.RemoveFromCart)
}

type (
	addFunc    func(ctx context.Context, actor access.Actor, recipeID int64) (*RecipeShort, error)
	removeFunc func(ctx context.Context, actor access.Actor, recipeID int64) error
)

func (h *Handler) addLink(c *gin.Context, add addFunc) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	short, err := add(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, short)
}

func (h *Handler) removeLink(c *gin.Context, remove removeFunc) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe ID")
		return 0, false
	}
	return id, true
}
