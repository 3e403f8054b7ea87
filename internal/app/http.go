package app

import (
	"time"

	"gorm.io/gorm"

	apphttp "github.com/yungbote/foodgram-backend/internal/http"
	httpH "github.com/yungbote/foodgram-backend/internal/http/handlers"
	httpMW "github.com/yungbote/foodgram-backend/internal/http/middleware"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type Middleware struct {
	Auth         *httpMW.AuthMiddleware
	LoginLimiter *httpMW.RateLimiter
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Tag        *httpH.TagHandler
	Ingredient *httpH.IngredientHandler
	Recipe     *httpH.RecipeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Auth:       httpH.NewAuthHandler(services.Auth),
		User:       httpH.NewUserHandler(services.Auth, services.User, services.Subscription),
		Tag:        httpH.NewTagHandler(services.Tag),
		Ingredient: httpH.NewIngredientHandler(services.Ingredient),
		Recipe:     httpH.NewRecipeHandler(services.Recipe, services.Favorite, services.Cart),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:         httpMW.NewAuthMiddleware(log, services.Auth),
		LoginLimiter: httpMW.NewRateLimiter(cfg.LoginRatePerMin, cfg.LoginBurst, 10*time.Minute),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware, mediaDir string) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		AuthMiddleware:    middleware.Auth,
		LoginLimiter:      middleware.LoginLimiter,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		TagHandler:        handlers.Tag,
		IngredientHandler: handlers.Ingredient,
		RecipeHandler:     handlers.Recipe,
		HealthHandler:     handlers.Health,
		MediaDir:          mediaDir,
	}
}
