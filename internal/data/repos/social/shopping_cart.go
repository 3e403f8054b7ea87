package social

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type ShoppingCartRepo interface {
	Add(dbc dbctx.Context, userID, recipeID uint) error
	Remove(dbc dbctx.Context, userID, recipeID uint) (int64, error)
	Exists(dbc dbctx.Context, userID, recipeID uint) (bool, error)
	RecipeIDsFor(dbc dbctx.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type shoppingCartRepo struct{ m *membership }

func NewShoppingCartRepo(db *gorm.DB, baseLog *logger.Logger) ShoppingCartRepo {
	return &shoppingCartRepo{m: &membership{
		db:        db,
		log:       baseLog.With("repo", "ShoppingCartRepo"),
		table:     "shopping_cart",
		targetCol: "recipe_id",
		newRow: func(userID, recipeID uint) any {
			return &types.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
		},
	}}
}

func (r *shoppingCartRepo) Add(dbc dbctx.Context, userID, recipeID uint) error {
	return r.m.add(dbc, userID, recipeID)
}

func (r *shoppingCartRepo) Remove(dbc dbctx.Context, userID, recipeID uint) (int64, error) {
	return r.m.remove(dbc, userID, recipeID)
}

func (r *shoppingCartRepo) Exists(dbc dbctx.Context, userID, recipeID uint) (bool, error) {
	return r.m.exists(dbc, userID, recipeID)
}

func (r *shoppingCartRepo) RecipeIDsFor(dbc dbctx.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.m.targetsFor(dbc, userID, recipeIDs)
}
