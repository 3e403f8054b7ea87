package recipes

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const ingredientBatchSize = 500

type IngredientRepo interface {
	// Create inserts ingredients, skipping (name, measurement_unit) pairs that already exist,
	// and reports how many rows were inserted.
	Create(dbc dbctx.Context, ingredients []*types.Ingredient) (int64, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Ingredient, error)
	SearchByNamePrefix(dbc dbctx.Context, prefix string, limit int) ([]*types.Ingredient, error)
	List(dbc dbctx.Context) ([]*types.Ingredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

func (r *ingredientRepo) Create(dbc dbctx.Context, ingredients []*types.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := dbc.Pick(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, ingredientBatchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *ingredientRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Ingredient, error) {
	var results []*types.Ingredient
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Pick(r.db).Where("id IN ?", ids).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ingredientRepo) SearchByNamePrefix(dbc dbctx.Context, prefix string, limit int) ([]*types.Ingredient, error) {
	var results []*types.Ingredient
	q := dbc.Pick(r.db).Order("name ASC").Order("id ASC")
	if p := strings.ToLower(strings.TrimSpace(prefix)); p != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(p)+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ingredientRepo) List(dbc dbctx.Context) ([]*types.Ingredient, error) {
	return r.SearchByNamePrefix(dbc, "", 0)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
