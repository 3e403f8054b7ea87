package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/modules/shoppinglist"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type CartService interface {
	Add(ctx context.Context, recipeID uint) (RecipeShortView, error)
	Remove(ctx context.Context, recipeID uint) error
	// Download aggregates the ingredients of every recipe in the caller's cart.
	Download(ctx context.Context) (shoppinglist.Report, error)
}

type cartService struct {
	ops      *recipeListOps
	exporter *shoppinglist.Exporter
}

func NewCartService(db *gorm.DB, log *logger.Logger, recipeRepo repos.RecipeRepo, cartRepo repos.ShoppingCartRepo) CartService {
	serviceLog := log.With("service", "CartService")
	return &cartService{
		ops: &recipeListOps{
			db:         db,
			log:        serviceLog,
			recipeRepo: recipeRepo,
			list:       cartRepo,
			msgs: recipeListMessages{
				code:       "shopping_cart",
				present:    "The recipe is already in shopping cart",
				notPresent: "The recipe is not in shopping cart",
			},
		},
		exporter: shoppinglist.NewExporter(recipeRepo, serviceLog),
	}
}

func (cs *cartService) Add(ctx context.Context, recipeID uint) (RecipeShortView, error) {
	return cs.ops.add(ctx, recipeID)
}

func (cs *cartService) Remove(ctx context.Context, recipeID uint) error {
	return cs.ops.remove(ctx, recipeID)
}

func (cs *cartService) Download(ctx context.Context) (shoppinglist.Report, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return shoppinglist.Report{}, err
	}
	return cs.exporter.Export(ctx, rd.UserID)
}
