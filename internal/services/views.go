package services

import (
	types "github.com/yungbote/foodgram-backend/internal/domain"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// PageRequest is a 1-based page number and page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to valid bounds, using def as the page size when unset.
func (p PageRequest) Normalize(def int) PageRequest {
	if def <= 0 {
		def = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

type Page[T any] struct {
	Count   int64
	Page    PageRequest
	Results []T
}

func (p Page[T]) HasNext() bool {
	return int64(p.Page.Page*p.Page.Limit) < p.Count
}

type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

func newUserView(u *types.User, subscribed bool) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       u.AvatarURL,
	}
}

type IngredientAmountView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []types.Tag            `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []IngredientAmountView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShortView is the compact card returned by favorite, cart and subscription endpoints.
type RecipeShortView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func newRecipeShortView(r *types.Recipe) RecipeShortView {
	return RecipeShortView{ID: r.ID, Name: r.Name, Image: r.ImageURL, CookingTime: r.CookingTime}
}

type AuthorView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// recipeMarks holds the per-viewer annotations for a batch of recipes.
type recipeMarks struct {
	favorited  map[uint]bool
	inCart     map[uint]bool
	subscribed map[uint]bool
}

func newRecipeView(r *types.Recipe, m recipeMarks) RecipeView {
	v := RecipeView{
		ID:               r.ID,
		Tags:             r.Tags,
		IsFavorited:      m.favorited[r.ID],
		IsInShoppingCart: m.inCart[r.ID],
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if v.Tags == nil {
		v.Tags = []types.Tag{}
	}
	if r.Author != nil {
		v.Author = newUserView(r.Author, m.subscribed[r.AuthorID])
	}
	v.Ingredients = make([]IngredientAmountView, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		iv := IngredientAmountView{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			iv.Name = ri.Ingredient.Name
			iv.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		v.Ingredients = append(v.Ingredients, iv)
	}
	return v
}
