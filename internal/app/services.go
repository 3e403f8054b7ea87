package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type Services struct {
	Avatar services.AvatarService
	Image  services.ImageService

	Auth         services.AuthService
	User         services.UserService
	Tag          services.TagService
	Ingredient   services.IngredientService
	Recipe       services.RecipeService
	Favorite     services.FavoriteService
	Cart         services.CartService
	Subscription services.SubscriptionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, bucket gcp.BucketService, c cache.Cache) (Services, error) {
	log.Info("Wiring services...")

	avatar, err := services.NewAvatarService(log, r.User, bucket)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}
	image := services.NewImageService(log, bucket)

	return Services{
		Avatar:       avatar,
		Image:        image,
		Auth:         services.NewAuthService(db, log, r.User, r.UserToken, avatar, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:         services.NewUserService(db, log, r.User, r.Subscription, avatar, cfg.PageSize),
		Tag:          services.NewTagService(log, r.Tag, c),
		Ingredient:   services.NewIngredientService(log, r.Ingredient, c),
		Recipe:       services.NewRecipeService(db, log, r.Recipe, r.Ingredient, r.Tag, r.Favorite, r.ShoppingCart, r.Subscription, image, cfg.PageSize),
		Favorite:     services.NewFavoriteService(db, log, r.Recipe, r.Favorite),
		Cart:         services.NewCartService(db, log, r.Recipe, r.ShoppingCart),
		Subscription: services.NewSubscriptionService(db, log, r.User, r.Recipe, r.Subscription, cfg.PageSize),
	}, nil
}
