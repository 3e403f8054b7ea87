package repos

import (
	"github.com/yungbote/foodgram-backend/internal/data/repos/auth"
	"github.com/yungbote/foodgram-backend/internal/data/repos/recipes"
	"github.com/yungbote/foodgram-backend/internal/data/repos/social"
	"github.com/yungbote/foodgram-backend/internal/data/repos/user"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type IngredientRepo = recipes.IngredientRepo
type TagRepo = recipes.TagRepo
type RecipeRepo = recipes.RecipeRepo
type RecipeFilter = recipes.RecipeFilter

type FavoriteRepo = social.FavoriteRepo
type ShoppingCartRepo = social.ShoppingCartRepo
type SubscriptionRepo = social.SubscriptionRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewIngredientRepo(db *gorm.DB, log *logger.Logger) IngredientRepo {
	return recipes.NewIngredientRepo(db, log)
}
func NewTagRepo(db *gorm.DB, log *logger.Logger) TagRepo       { return recipes.NewTagRepo(db, log) }
func NewRecipeRepo(db *gorm.DB, log *logger.Logger) RecipeRepo { return recipes.NewRecipeRepo(db, log) }

func NewFavoriteRepo(db *gorm.DB, log *logger.Logger) FavoriteRepo {
	return social.NewFavoriteRepo(db, log)
}
func NewShoppingCartRepo(db *gorm.DB, log *logger.Logger) ShoppingCartRepo {
	return social.NewShoppingCartRepo(db, log)
}
func NewSubscriptionRepo(db *gorm.DB, log *logger.Logger) SubscriptionRepo {
	return social.NewSubscriptionRepo(db, log)
}
