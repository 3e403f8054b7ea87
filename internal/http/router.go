package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/foodgram-backend/internal/http/handlers"
	httpMW "github.com/yungbote/foodgram-backend/internal/http/middleware"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	LoginLimiter   *httpMW.RateLimiter

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	TagHandler        *httpH.TagHandler
	IngredientHandler *httpH.IngredientHandler
	RecipeHandler     *httpH.RecipeHandler
	HealthHandler     *httpH.HealthHandler

	// MediaDir is served under /media when objects are stored on local disk.
	MediaDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.SecurityHeaders())
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MediaDir != "" {
		r.Static(gcp.LocalMediaRoute, cfg.MediaDir)
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	optionalAuth := requireAuth
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
		optionalAuth = cfg.AuthMiddleware.OptionalAuth()
	}

	api := r.Group("/api")

	// Auth
	if cfg.AuthHandler != nil {
		login := []gin.HandlerFunc{cfg.AuthHandler.Login}
		if cfg.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{cfg.LoginLimiter.Middleware()}, login...)
		}
		api.POST("/auth/token/login/", login...)
		api.POST("/auth/token/logout/", requireAuth, cfg.AuthHandler.Logout)
	}

	// Users
	if uh := cfg.UserHandler; uh != nil {
		users := api.Group("/users")
		users.POST("/", uh.Register)
		users.GET("/", optionalAuth, uh.List)
		users.GET("/me/", requireAuth, uh.GetMe)
		users.PUT("/me/avatar/", requireAuth, uh.SetAvatar)
		users.DELETE("/me/avatar/", requireAuth, uh.DeleteAvatar)
		users.POST("/set_password/", requireAuth, uh.SetPassword)
		users.GET("/subscriptions/", requireAuth, uh.Subscriptions)
		users.GET("/:id/", optionalAuth, uh.Get)
		users.POST("/:id/subscribe/", requireAuth, uh.Subscribe)
		users.DELETE("/:id/subscribe/", requireAuth, uh.Unsubscribe)
	}

	// Reference data
	if th := cfg.TagHandler; th != nil {
		api.GET("/tags/", th.List)
		api.GET("/tags/:id/", th.Get)
		api.POST("/tags/", requireAuth, th.Create)
	}
	if ih := cfg.IngredientHandler; ih != nil {
		api.GET("/ingredients/", ih.List)
		api.GET("/ingredients/:id/", ih.Get)
		api.POST("/ingredients/", requireAuth, ih.Create)
	}

	// Recipes
	if rh := cfg.RecipeHandler; rh != nil {
		recipes := api.Group("/recipes")
		recipes.GET("/", optionalAuth, rh.List)
		recipes.POST("/", requireAuth, rh.Create)
		recipes.GET("/download_shopping_cart/", requireAuth, rh.DownloadShoppingCart)
		recipes.GET("/:id/", optionalAuth, rh.Get)
		recipes.PATCH("/:id/", requireAuth, rh.Update)
		recipes.DELETE("/:id/", requireAuth, rh.Delete)
		recipes.POST("/:id/favorite/", requireAuth, rh.AddFavorite)
		recipes.DELETE("/:id/favorite/", requireAuth, rh.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", requireAuth, rh.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", requireAuth, rh.RemoveFromCart)
	}

	return r
}
