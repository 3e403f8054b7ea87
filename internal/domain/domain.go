package domain

import (
	"github.com/yungbote/foodgram-backend/internal/domain/auth"
	"github.com/yungbote/foodgram-backend/internal/domain/recipes"
	"github.com/yungbote/foodgram-backend/internal/domain/social"
	"github.com/yungbote/foodgram-backend/internal/domain/user"
)

type User = user.User

type UserToken = auth.UserToken

type Ingredient = recipes.Ingredient
type Tag = recipes.Tag
type Recipe = recipes.Recipe
type RecipeIngredient = recipes.RecipeIngredient

type Favorite = social.Favorite
type ShoppingCartItem = social.ShoppingCartItem
type Subscription = social.Subscription

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	}
}
