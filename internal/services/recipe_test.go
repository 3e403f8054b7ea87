package services

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	types "github.com/yungbote/foodgram-backend/internal/domain"
)

func TestRecipeCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t)
	flour := env.seedIngredient(t, "flour", "g")
	salt := env.seedIngredient(t, "salt", "tsp")
	breakfast := env.seedTag(t, "breakfast")

	in := recipeInput(t, "  Pancakes ", []uint{breakfast.ID},
		RecipeIngredientInput{ID: flour.ID, Amount: 200},
		RecipeIngredientInput{ID: salt.ID, Amount: 1},
	)
	view, err := env.recipes.Create(authed(author), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.ID == 0 || view.Name != "Pancakes" || view.CookingTime != 30 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Author.ID != author.ID || view.Author.IsSubscribed {
		t.Fatalf("unexpected author card: %+v", view.Author)
	}
	if len(view.Tags) != 1 || view.Tags[0].Slug != "breakfast" {
		t.Fatalf("unexpected tags: %+v", view.Tags)
	}
	if len(view.Ingredients) != 2 || view.Ingredients[0].Name != "flour" || view.Ingredients[0].Amount != 200 ||
		view.Ingredients[1].MeasurementUnit != "tsp" {
		t.Fatalf("unexpected ingredients: %+v", view.Ingredients)
	}
	if !strings.HasPrefix(view.Image, "http://media.test/media/recipe_image/recipes/") || !strings.HasSuffix(view.Image, ".png") {
		t.Fatalf("unexpected image url: %q", view.Image)
	}
	key := strings.TrimPrefix(view.Image, "http://media.test/media/recipe_image/")
	if _, err := os.Stat(filepath.Join(env.mediaRoot, "recipe_image", key)); err != nil {
		t.Fatalf("image not stored: %v", err)
	}

	got, err := env.recipes.Get(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != view.ID || got.IsFavorited || got.IsInShoppingCart {
		t.Fatalf("anonymous get: %+v", got)
	}
	_, err = env.recipes.Get(context.Background(), view.ID+100)
	wantStatus(t, err, http.StatusNotFound)
}

func TestRecipeCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t)
	flour := env.seedIngredient(t, "flour", "g")
	tag := env.seedTag(t, "lunch")
	ok := RecipeIngredientInput{ID: flour.ID, Amount: 1}

	cases := []struct {
		name string
		in   func() RecipeInput
		want string
	}{
		{"no ingredients", func() RecipeInput { return recipeInput(t, "x", []uint{tag.ID}) }, "Ingredients should not be empty"},
		{"zero amount", func() RecipeInput {
			return recipeInput(t, "x", []uint{tag.ID}, RecipeIngredientInput{ID: flour.ID, Amount: 0})
		}, "Amount of ingredient can not be less than 1"},
		{"unknown ingredient", func() RecipeInput {
			return recipeInput(t, "x", []uint{tag.ID}, RecipeIngredientInput{ID: 9999, Amount: 1})
		}, "Ingredient with id 9999 does not exist"},
		{"duplicate ingredient", func() RecipeInput { return recipeInput(t, "x", []uint{tag.ID}, ok, ok) }, "Ingredients must be unique"},
		{"duplicate tag", func() RecipeInput { return recipeInput(t, "x", []uint{tag.ID, tag.ID}, ok) }, "Tags must be unique"},
		{"unknown tag", func() RecipeInput { return recipeInput(t, "x", []uint{9999}, ok) }, "tags"},
		{"missing tags", func() RecipeInput {
			in := recipeInput(t, "x", nil, ok)
			in.Tags = nil
			return in
		}, "Ingredients or tags are not provided"},
		{"blank name", func() RecipeInput { return recipeInput(t, "   ", []uint{tag.ID}, ok) }, "name"},
		{"long name", func() RecipeInput { return recipeInput(t, strings.Repeat("n", 201), []uint{tag.ID}, ok) }, "name"},
		{"cooking time", func() RecipeInput {
			in := recipeInput(t, "x", []uint{tag.ID}, ok)
			zero := 0
			in.CookingTime = &zero
			return in
		}, "cooking_time"},
		{"missing image", func() RecipeInput {
			in := recipeInput(t, "x", []uint{tag.ID}, ok)
			in.Image = nil
			return in
		}, "image"},
		{"bad image", func() RecipeInput {
			in := recipeInput(t, "x", []uint{tag.ID}, ok)
			bad := "data:image/png;base64,aGVsbG8="
			in.Image = &bad
			return in
		}, "image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.recipes.Create(authed(author), tc.in())
			wantBadRequest(t, err)
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q should mention %q", err.Error(), tc.want)
			}
		})
	}

	_, err := env.recipes.Create(context.Background(), recipeInput(t, "x", []uint{tag.ID}, ok))
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestRecipeUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t)
	stranger := env.register(t)
	staff := env.registerStaff(t)
	flour := env.seedIngredient(t, "flour", "g")
	sugar := env.seedIngredient(t, "sugar", "g")
	t1 := env.seedTag(t, "sweet")
	t2 := env.seedTag(t, "quick")

	created, err := env.recipes.Create(authed(author), recipeInput(t, "Cake", []uint{t1.ID},
		RecipeIngredientInput{ID: flour.ID, Amount: 300}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newName := "Better cake"
	_, err = env.recipes.Update(authed(stranger), created.ID, RecipeInput{Name: &newName})
	wantStatus(t, err, http.StatusForbidden)

	items := []RecipeIngredientInput{{ID: sugar.ID, Amount: 50}, {ID: flour.ID, Amount: 250}}
	tags := []uint{t2.ID}
	updated, err := env.recipes.Update(authed(author), created.ID, RecipeInput{Name: &newName, Ingredients: &items, Tags: &tags})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != newName || updated.Text != "Mix and bake." || updated.Image != created.Image {
		t.Fatalf("partial update changed the wrong fields: %+v", updated)
	}
	if len(updated.Ingredients) != 2 || updated.Ingredients[0].ID != sugar.ID || updated.Ingredients[1].Amount != 250 {
		t.Fatalf("ingredients not replaced: %+v", updated.Ingredients)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != t2.ID {
		t.Fatalf("tags not replaced: %+v", updated.Tags)
	}

	img := pngDataURI(t)
	reimaged, err := env.recipes.Update(authed(author), created.ID, RecipeInput{Image: &img})
	if err != nil {
		t.Fatalf("Update image: %v", err)
	}
	if reimaged.Image == created.Image {
		t.Fatalf("expected a new image url")
	}
	oldKey := strings.TrimPrefix(created.Image, "http://media.test/media/recipe_image/")
	if _, err := os.Stat(filepath.Join(env.mediaRoot, "recipe_image", oldKey)); !os.IsNotExist(err) {
		t.Fatalf("old image should be removed, stat err=%v", err)
	}

	empty := []RecipeIngredientInput{}
	_, err = env.recipes.Update(authed(author), created.ID, RecipeInput{Ingredients: &empty})
	wantBadRequest(t, err)

	wantStatus(t, env.recipes.Delete(authed(stranger), created.ID), http.StatusForbidden)
	if err := env.recipes.Delete(authed(staff), created.ID); err != nil {
		t.Fatalf("staff Delete: %v", err)
	}
	_, err = env.recipes.Get(context.Background(), created.ID)
	wantStatus(t, err, http.StatusNotFound)
	wantStatus(t, env.recipes.Delete(authed(author), created.ID), http.StatusNotFound)
}

func TestRecipeListFiltersAndMarks(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t)
	bob := env.register(t)
	flour := env.seedIngredient(t, "flour", "g")
	soup := env.seedTag(t, "soup")
	dessert := env.seedTag(t, "dessert")
	item := RecipeIngredientInput{ID: flour.ID, Amount: 1}

	var ids []uint
	for i, c := range []struct {
		owner *types.User
		tag   uint
	}{{alice, soup.ID}, {bob, dessert.ID}, {alice, soup.ID}} {
		v, err := env.recipes.Create(authed(c.owner), recipeInput(t, "r", []uint{c.tag}, item))
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, v.ID)
	}

	all, err := env.recipes.List(context.Background(), RecipeListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if all.Count != 3 || len(all.Results) != 3 {
		t.Fatalf("list all: count=%d results=%d", all.Count, len(all.Results))
	}
	if all.Results[0].ID != ids[2] || all.Results[2].ID != ids[0] {
		t.Fatalf("expected newest first, got %d..%d", all.Results[0].ID, all.Results[2].ID)
	}

	paged, err := env.recipes.List(context.Background(), RecipeListQuery{Page: PageRequest{Page: 2, Limit: 2}})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if paged.Count != 3 || len(paged.Results) != 1 || paged.HasNext() {
		t.Fatalf("page 2: count=%d results=%d next=%v", paged.Count, len(paged.Results), paged.HasNext())
	}

	byTag, err := env.recipes.List(context.Background(), RecipeListQuery{Tags: []string{"soup"}})
	if err != nil || byTag.Count != 2 {
		t.Fatalf("tag filter: count=%d err=%v", byTag.Count, err)
	}
	byTags, err := env.recipes.List(context.Background(), RecipeListQuery{Tags: []string{"soup", "dessert"}})
	if err != nil || byTags.Count != 3 {
		t.Fatalf("tag filter OR: count=%d err=%v", byTags.Count, err)
	}
	byAuthor, err := env.recipes.List(context.Background(), RecipeListQuery{AuthorID: bob.ID})
	if err != nil || byAuthor.Count != 1 || byAuthor.Results[0].ID != ids[1] {
		t.Fatalf("author filter: %+v err=%v", byAuthor, err)
	}

	if _, err := env.favorites.Add(authed(bob), ids[0]); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if _, err := env.cart.Add(authed(bob), ids[2]); err != nil {
		t.Fatalf("cart: %v", err)
	}
	if _, err := env.subscriptions.Subscribe(authed(bob), alice.ID, 0); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	fav, err := env.recipes.List(authed(bob), RecipeListQuery{IsFavorited: true})
	if err != nil || fav.Count != 1 || !fav.Results[0].IsFavorited || fav.Results[0].ID != ids[0] {
		t.Fatalf("favorited filter: %+v err=%v", fav, err)
	}
	if !fav.Results[0].Author.IsSubscribed {
		t.Fatalf("author should be marked subscribed")
	}
	inCart, err := env.recipes.List(authed(bob), RecipeListQuery{IsInShoppingCart: true})
	if err != nil || inCart.Count != 1 || !inCart.Results[0].IsInShoppingCart {
		t.Fatalf("cart filter: %+v err=%v", inCart, err)
	}
	anon, err := env.recipes.List(context.Background(), RecipeListQuery{IsFavorited: true})
	if err != nil || anon.Count != 0 || len(anon.Results) != 0 {
		t.Fatalf("anonymous favorites: %+v err=%v", anon, err)
	}
}
