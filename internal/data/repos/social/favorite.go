package social

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type FavoriteRepo interface {
	Add(dbc dbctx.Context, userID, recipeID uint) error
	Remove(dbc dbctx.Context, userID, recipeID uint) (int64, error)
	Exists(dbc dbctx.Context, userID, recipeID uint) (bool, error)
	RecipeIDsFor(dbc dbctx.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type favoriteRepo struct{ m *membership }

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{m: &membership{
		db:        db,
		log:       baseLog.With("repo", "FavoriteRepo"),
		table:     "favorite",
		targetCol: "recipe_id",
		newRow: func(userID, recipeID uint) any {
			return &types.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}}
}

func (r *favoriteRepo) Add(dbc dbctx.Context, userID, recipeID uint) error {
	return r.m.add(dbc, userID, recipeID)
}

func (r *favoriteRepo) Remove(dbc dbctx.Context, userID, recipeID uint) (int64, error) {
	return r.m.remove(dbc, userID, recipeID)
}

func (r *favoriteRepo) Exists(dbc dbctx.Context, userID, recipeID uint) (bool, error) {
	return r.m.exists(dbc, userID, recipeID)
}

func (r *favoriteRepo) RecipeIDsFor(dbc dbctx.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.m.targetsFor(dbc, userID, recipeIDs)
}
