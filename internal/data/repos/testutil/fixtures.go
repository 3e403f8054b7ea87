package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
)

var seedSeq atomic.Int64

func next() int64 { return seedSeq.Add(1) }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	n := next()
	if email == "" {
		email = fmt.Sprintf("user%d@example.com", n)
	}
	u := &types.User{
		Email:     email,
		Username:  fmt.Sprintf("user%d", n),
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, name, unit string) *types.Ingredient {
	tb.Helper()
	ing := &types.Ingredient{Name: name, MeasurementUnit: unit}
	if err := tx.WithContext(ctx).Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Tag {
	tb.Helper()
	n := next()
	tag := &types.Tag{Name: slug, Slug: slug, Color: fmt.Sprintf("#%06X", n)}
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}

// IngredientAmount pairs an ingredient with the amount a seeded recipe needs.
type IngredientAmount struct {
	Ingredient *types.Ingredient
	Amount     int
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uint, name string, tags []*types.Tag, items ...IngredientAmount) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        "text",
		ImageURL:    "http://example.com/" + name + ".png",
		CookingTime: 10,
	}
	if err := tx.WithContext(ctx).Omit("Tags", "Ingredients").Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	for _, it := range items {
		ri := &types.RecipeIngredient{RecipeID: r.ID, IngredientID: it.Ingredient.ID, Amount: it.Amount}
		if err := tx.WithContext(ctx).Omit("Ingredient").Create(ri).Error; err != nil {
			tb.Fatalf("seed recipe ingredient: %v", err)
		}
	}
	if len(tags) > 0 {
		vals := make([]types.Tag, 0, len(tags))
		for _, t := range tags {
			vals = append(vals, *t)
		}
		if err := tx.WithContext(ctx).Model(r).Association("Tags").Append(vals); err != nil {
			tb.Fatalf("seed recipe tags: %v", err)
		}
	}
	return r
}
