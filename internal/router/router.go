package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	ingredientController *controller.IngredientController
	tagController        *controller.TagController
	recipeController     *controller.RecipeController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	ingredientController *controller.IngredientController,
	tagController *controller.TagController,
	recipeController *controller.RecipeController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		ingredientController: ingredientController,
		tagController:        tagController,
		recipeController:     recipeController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})

	if r.config.Media.Backend != "s3" && strings.HasPrefix(r.config.Media.BaseURL, "/") {
		router.Static(r.config.Media.BaseURL, r.config.Media.Dir)
	}

	authenticated := r.authMiddleware.Authenticate()
	optional := r.authMiddleware.OptionalAuthenticate()

	api := router.Group("/api")
	{
		auth := api.Group("/auth/token")
		{
			auth.POST("/login/", r.authController.Login)
			auth.POST("/logout/", authenticated, r.authController.Logout)
		}

		users := api.Group("/users")
		{
			users.GET("/", optional, r.userController.List)
			users.POST("/", r.userController.Register)
			users.GET("/me/", authenticated, r.userController.Me)
			users.POST("/set_password/", authenticated, r.userController.SetPassword)
			users.GET("/subscriptions/", authenticated, r.userController.Subscriptions)
			users.GET("/:id/", optional, r.userController.Get)
			users.POST("/:id/subscribe/", authenticated, r.userController.Subscribe)
			users.DELETE("/:id/subscribe/", authenticated, r.userController.Unsubscribe)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("/", r.ingredientController.List)
			ingredients.GET("/:id/", r.ingredientController.Get)
		}

		tags := api.Group("/tags")
		{
			tags.GET("/", r.tagController.List)
			tags.GET("/:id/", r.tagController.Get)
			tags.POST("/",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.tagController.Create,
			)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("/", optional, r.recipeController.List)
			recipes.POST("/", authenticated, r.recipeController.Create)
			recipes.GET("/download_shopping_cart/", authenticated, r.recipeController.DownloadShoppingCart)
			recipes.GET("/:id/", optional, r.recipeController.Get)
			recipes.PATCH("/:id/", authenticated, r.recipeController.Update)
			recipes.PUT("/:id/", authenticated, r.recipeController.Update)
			recipes.DELETE("/:id/", authenticated, r.recipeController.Delete)
			recipes.POST("/:id/favorite/", authenticated, r.recipeController.AddFavorite)
			recipes.DELETE("/:id/favorite/", authenticated, r.recipeController.RemoveFavorite)
			recipes.POST("/:id/shopping_cart/", authenticated, r.recipeController.AddToShoppingCart)
			recipes.DELETE("/:id/shopping_cart/", authenticated, r.recipeController.RemoveFromShoppingCart)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			// credentials cannot be combined with a wildcard origin
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cors.New(cfg)
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}
