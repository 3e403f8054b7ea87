package recipes

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/modules/shoppinglist"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// RecipeFilter narrows recipe listings. Zero values mean "no constraint"; TagSlugs match
// recipes carrying any of the slugs.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

type RecipeRepo interface {
	Create(dbc dbctx.Context, recipe *types.Recipe) (*types.Recipe, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Recipe, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
	List(dbc dbctx.Context, f RecipeFilter, limit, offset int) ([]*types.Recipe, error)
	Count(dbc dbctx.Context, f RecipeFilter) (int64, error)
	Update(dbc dbctx.Context, id uint, fields map[string]any) error
	Delete(dbc dbctx.Context, ids []uint) error
	ReplaceIngredients(dbc dbctx.Context, recipeID uint, items []types.RecipeIngredient) error
	ReplaceTags(dbc dbctx.Context, recipeID uint, tagIDs []uint) error
	ListByAuthor(dbc dbctx.Context, authorID uint, limit int) ([]*types.Recipe, error)
	CountByAuthors(dbc dbctx.Context, authorIDs []uint) (map[uint]int64, error)
	ListCartLines(dbc dbctx.Context, userID uint) ([]shoppinglist.CartLine, error)
	CartLines(ctx context.Context, userID uint) ([]shoppinglist.CartLine, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) Create(dbc dbctx.Context, recipe *types.Recipe) (*types.Recipe, error) {
	if err := dbc.Pick(r.db).Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func preloadDetail(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Recipe, error) {
	var results []*types.Recipe
	if len(ids) == 0 {
		return results, nil
	}
	if err := preloadDetail(dbc.Pick(r.db)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *recipeRepo) Exists(dbc dbctx.Context, id uint) (bool, error) {
	var count int64
	if err := dbc.Pick(r.db).Model(&types.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyFilter(q *gorm.DB, f RecipeFilter) *gorm.DB {
	if f.AuthorID != 0 {
		q = q.Where("recipe.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where(`recipe.id IN (
			SELECT recipe_tag.recipe_id FROM recipe_tag
			JOIN tag ON tag.id = recipe_tag.tag_id
			WHERE tag.slug IN ?)`, f.TagSlugs)
	}
	if f.FavoritedBy != 0 {
		q = q.Where("recipe.id IN (SELECT recipe_id FROM favorite WHERE user_id = ?)", f.FavoritedBy)
	}
	if f.InCartOf != 0 {
		q = q.Where("recipe.id IN (SELECT recipe_id FROM shopping_cart WHERE user_id = ?)", f.InCartOf)
	}
	return q
}

func (r *recipeRepo) List(dbc dbctx.Context, f RecipeFilter, limit, offset int) ([]*types.Recipe, error) {
	var results []*types.Recipe
	q := applyFilter(preloadDetail(dbc.Pick(r.db)).Model(&types.Recipe{}), f).
		Order("recipe.created_at DESC").
		Order("recipe.id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *recipeRepo) Count(dbc dbctx.Context, f RecipeFilter) (int64, error) {
	var count int64
	err := applyFilter(dbc.Pick(r.db).Model(&types.Recipe{}), f).Count(&count).Error
	return count, err
}

func (r *recipeRepo) Update(dbc dbctx.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return dbc.Pick(r.db).Model(&types.Recipe{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes recipes together with their ingredient rows, tag links, favorites and
// cart entries. Callers should pass a transaction.
func (r *recipeRepo) Delete(dbc dbctx.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	tx := dbc.Pick(r.db)
	for _, stmt := range []string{
		"DELETE FROM recipe_ingredient WHERE recipe_id IN ?",
		"DELETE FROM recipe_tag WHERE recipe_id IN ?",
		"DELETE FROM favorite WHERE recipe_id IN ?",
		"DELETE FROM shopping_cart WHERE recipe_id IN ?",
	} {
		if err := tx.Exec(stmt, ids).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&types.Recipe{}).Error
}

func (r *recipeRepo) ReplaceIngredients(dbc dbctx.Context, recipeID uint, items []types.RecipeIngredient) error {
	tx := dbc.Pick(r.db)
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&types.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([]*types.RecipeIngredient, 0, len(items))
	for _, it := range items {
		rows = append(rows, &types.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: it.IngredientID,
			Amount:       it.Amount,
		})
	}
	return tx.Omit("Ingredient").Create(&rows).Error
}

func (r *recipeRepo) ReplaceTags(dbc dbctx.Context, recipeID uint, tagIDs []uint) error {
	tx := dbc.Pick(r.db)
	if err := tx.Exec("DELETE FROM recipe_tag WHERE recipe_id = ?", recipeID).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]any{"recipe_id": recipeID, "tag_id": id})
	}
	return tx.Table("recipe_tag").Create(rows).Error
}

func (r *recipeRepo) ListByAuthor(dbc dbctx.Context, authorID uint, limit int) ([]*types.Recipe, error) {
	var results []*types.Recipe
	q := dbc.Pick(r.db).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *recipeRepo) CountByAuthors(dbc dbctx.Context, authorIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uint
		N        int64
	}
	if err := dbc.Pick(r.db).
		Model(&types.Recipe{}).
		Select("author_id, COUNT(*) AS n").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.N
	}
	return out, nil
}

func (r *recipeRepo) CartLines(ctx context.Context, userID uint) ([]shoppinglist.CartLine, error) {
	return r.ListCartLines(dbctx.Context{Ctx: ctx}, userID)
}

// ListCartLines lists every ingredient requirement of the recipes in the user's cart, in
// cart order and then recipe ingredient order.
func (r *recipeRepo) ListCartLines(dbc dbctx.Context, userID uint) ([]shoppinglist.CartLine, error) {
	var rows []struct {
		Name   string
		Unit   string
		Amount int
	}
	if err := dbc.Pick(r.db).
		Table("shopping_cart").
		Select("ingredient.name AS name, ingredient.measurement_unit AS unit, recipe_ingredient.amount AS amount").
		Joins("JOIN recipe_ingredient ON recipe_ingredient.recipe_id = shopping_cart.recipe_id").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Where("shopping_cart.user_id = ?", userID).
		Order("shopping_cart.id ASC").
		Order("recipe_ingredient.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]shoppinglist.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, shoppinglist.CartLine{
			IngredientName: row.Name,
			Unit:           row.Unit,
			Amount:         row.Amount,
		})
	}
	return lines, nil
}
