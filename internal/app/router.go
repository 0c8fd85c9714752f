// Package app wires repositories, services and handlers into a gin engine.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"foodgram/internal/access"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/ingredient"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/shoplist"
	"foodgram/internal/modules/tag"
	"foodgram/internal/modules/user"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
)

type Options struct {
	DB          *gorm.DB
	JWT         *jwtsvc.Service
	Policy      *access.Policy
	Logger      *zap.Logger
	CORSOrigins []string
}

func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy := opts.Policy
	if policy == nil {
		policy = access.New(false)
	}

	linkRepo := repository.NewLinkRepository(opts.DB)
	userRepo := repository.NewUserRepository(opts.DB)
	tagRepo := repository.NewTagRepository(opts.DB)
	ingredientRepo := repository.NewIngredientRepository(opts.DB)
	recipeRepo := repository.NewRecipeRepository(opts.DB, linkRepo)
	shopRepo := repository.NewShoppingListRepository(opts.DB)

	userHandler := user.NewHandler(user.NewService(userRepo, linkRepo, recipeRepo, log))
	tagHandler := tag.NewHandler(tag.NewService(tagRepo))
	ingredientHandler := ingredient.NewHandler(ingredient.NewService(ingredientRepo))
	recipeHandler := recipe.NewHandler(
		recipe.NewService(recipeRepo, linkRepo, ingredientRepo, tagRepo, policy, log),
		policy,
	)
	shoplistHandler := shoplist.NewHandler(shoplist.NewService(shopRepo))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(opts.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.JWTAuth(opts.JWT))
	{
		protected := api.Group("", middleware.RequireAuth())
		admin := api.Group("", middleware.AdminOnly())

		userHandler.RegisterRoutes(api, protected)
		tagHandler.RegisterRoutes(api, admin)
		ingredientHandler.RegisterRoutes(api, admin)
		recipeHandler.RegisterRoutes(api, protected)
		shoplistHandler.RegisterRoutes(protected)
	}

	return r
}
