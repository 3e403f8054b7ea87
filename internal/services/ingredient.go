package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const ingredientCacheNamespace = "ingredients"

type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

func (in *IngredientInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.MeasurementUnit = strings.TrimSpace(in.MeasurementUnit)
}

type IngredientService interface {
	// List returns ingredients whose name starts with name, case-insensitively. An empty name lists all.
	List(ctx context.Context, name string) ([]types.Ingredient, error)
	Get(ctx context.Context, id uint) (types.Ingredient, error)
	Create(ctx context.Context, in IngredientInput) (types.Ingredient, error)
	// Import bulk-inserts rows, skipping any (name, unit) pair that already exists.
	Import(ctx context.Context, rows []IngredientInput) (int64, error)
}

type ingredientService struct {
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
	cache          cache.Cache
}

func NewIngredientService(log *logger.Logger, ingredientRepo repos.IngredientRepo, c cache.Cache) IngredientService {
	if c == nil {
		c = cache.Nop()
	}
	return &ingredientService{
		log:            log.With("service", "IngredientService"),
		ingredientRepo: ingredientRepo,
		cache:          c,
	}
}

func (is *ingredientService) List(ctx context.Context, name string) ([]types.Ingredient, error) {
	key := "q:" + strings.ToLower(strings.TrimSpace(name))
	var cached []types.Ingredient
	if is.cache.GetJSON(ctx, ingredientCacheNamespace, key, &cached) {
		return cached, nil
	}
	rows, err := is.ingredientRepo.SearchByNamePrefix(dbctx.Context{Ctx: ctx}, name, 0)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	out := make([]types.Ingredient, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	is.cache.SetJSON(ctx, ingredientCacheNamespace, key, out)
	return out, nil
}

func (is *ingredientService) Get(ctx context.Context, id uint) (types.Ingredient, error) {
	rows, err := is.ingredientRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uint{id})
	if err != nil {
		return types.Ingredient{}, fmt.Errorf("load ingredient: %w", err)
	}
	if len(rows) == 0 {
		return types.Ingredient{}, apierr.NotFound("ingredient_not_found", "ingredient not found")
	}
	return *rows[0], nil
}

func (is *ingredientService) Create(ctx context.Context, in IngredientInput) (types.Ingredient, error) {
	if err := requireStaff(ctx); err != nil {
		return types.Ingredient{}, err
	}
	in.normalize()
	if err := checkStruct(&in); err != nil {
		return types.Ingredient{}, err
	}
	ing := &types.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit}
	n, err := is.ingredientRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Ingredient{ing})
	if err != nil {
		return types.Ingredient{}, fmt.Errorf("create ingredient: %w", err)
	}
	if n == 0 {
		return types.Ingredient{}, apierr.BadRequest("ingredient_exists", "ingredient with this name and measurement unit already exists")
	}
	is.cache.Invalidate(ctx, ingredientCacheNamespace)
	return *ing, nil
}

func (is *ingredientService) Import(ctx context.Context, rows []IngredientInput) (int64, error) {
	batch := make([]*types.Ingredient, 0, len(rows))
	seen := make(map[IngredientInput]bool, len(rows))
	for i := range rows {
		in := rows[i]
		in.normalize()
		if err := checkStruct(&in); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if seen[in] {
			continue
		}
		seen[in] = true
		batch = append(batch, &types.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit})
	}
	n, err := is.ingredientRepo.Create(dbctx.Context{Ctx: ctx}, batch)
	if err != nil {
		return 0, fmt.Errorf("import ingredients: %w", err)
	}
	if n > 0 {
		is.cache.Invalidate(ctx, ingredientCacheNamespace)
	}
	is.log.Info("Ingredients imported", "rows", len(rows), "inserted", n)
	return n, nil
}
