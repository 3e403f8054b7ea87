package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// recipeList is a per-user set of recipes: favorites or the shopping cart.
type recipeList interface {
	Add(dbc dbctx.Context, userID, recipeID uint) error
	Remove(dbc dbctx.Context, userID, recipeID uint) (int64, error)
	Exists(dbc dbctx.Context, userID, recipeID uint) (bool, error)
}

type recipeListMessages struct {
	code       string
	present    string
	notPresent string
}

type recipeListOps struct {
	db         *gorm.DB
	log        *logger.Logger
	recipeRepo repos.RecipeRepo
	list       recipeList
	msgs       recipeListMessages
}

func (o *recipeListOps) add(ctx context.Context, recipeID uint) (RecipeShortView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return RecipeShortView{}, err
	}
	var view RecipeShortView
	err = o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		rows, err := o.recipeRepo.GetByIDs(dbc, []uint{recipeID})
		if err != nil {
			return fmt.Errorf("load recipe: %w", err)
		}
		if len(rows) == 0 {
			return apierr.NotFound("recipe_not_found", "recipe not found")
		}
		exists, err := o.list.Exists(dbc, rd.UserID, recipeID)
		if err != nil {
			return fmt.Errorf("check %s: %w", o.msgs.code, err)
		}
		if exists {
			return apierr.BadRequest(o.msgs.code+"_exists", o.msgs.present)
		}
		if err := o.list.Add(dbc, rd.UserID, recipeID); err != nil {
			return fmt.Errorf("add to %s: %w", o.msgs.code, err)
		}
		view = newRecipeShortView(rows[0])
		return nil
	})
	if err != nil {
		return RecipeShortView{}, err
	}
	o.log.Debug("Recipe added", "list", o.msgs.code, "recipe_id", recipeID)
	return view, nil
}

func (o *recipeListOps) remove(ctx context.Context, recipeID uint) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx}
	exists, err := o.recipeRepo.Exists(dbc, recipeID)
	if err != nil {
		return fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return apierr.NotFound("recipe_not_found", "recipe not found")
	}
	n, err := o.list.Remove(dbc, rd.UserID, recipeID)
	if err != nil {
		return fmt.Errorf("remove from %s: %w", o.msgs.code, err)
	}
	if n == 0 {
		return apierr.BadRequest(o.msgs.code+"_missing", o.msgs.notPresent)
	}
	return nil
}

type FavoriteService interface {
	Add(ctx context.Context, recipeID uint) (RecipeShortView, error)
	Remove(ctx context.Context, recipeID uint) error
}

type favoriteService struct {
	ops *recipeListOps
}

func NewFavoriteService(db *gorm.DB, log *logger.Logger, recipeRepo repos.RecipeRepo, favoriteRepo repos.FavoriteRepo) FavoriteService {
	return &favoriteService{ops: &recipeListOps{
		db:         db,
		log:        log.With("service", "FavoriteService"),
		recipeRepo: recipeRepo,
		list:       favoriteRepo,
		msgs: recipeListMessages{
			code:       "favorite",
			present:    "Already in favorites",
			notPresent: "The recipe is not in favorites",
		},
	}}
}

func (fs *favoriteService) Add(ctx context.Context, recipeID uint) (RecipeShortView, error) {
	return fs.ops.add(ctx, recipeID)
}

func (fs *favoriteService) Remove(ctx context.Context, recipeID uint) error {
	return fs.ops.remove(ctx, recipeID)
}
