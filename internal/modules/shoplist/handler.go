package shoplist

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes expects an authenticated group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/recipes/download_shopping_cart", h.Download)
}

// Download godoc
// @Summary Download the shopping list
// @Description Sums the ingredients of every recipe in the cart, one "<name> - <amount> <unit>" line per ingredient
// @Tags Recipes
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string "shoplist.txt"
// @Failure 401 {object} map[string]interface{}
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	actor := middleware.Actor(c)

	report, err := h.svc.DownloadShoppingList(c.Request.Context(), actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+Filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", report)
}
