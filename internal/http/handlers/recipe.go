package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type RecipeHandler struct {
	recipeService   services.RecipeService
	favoriteService services.FavoriteService
	cartService     services.CartService
}

func NewRecipeHandler(
	recipeService services.RecipeService,
	favoriteService services.FavoriteService,
	cartService services.CartService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		cartService:     cartService,
	}
}

// GET /recipes/?page=&limit=&author=&tags=&tags=&is_favorited=1&is_in_shopping_cart=1
func (rh *RecipeHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	author, ok := intQuery(c, "author")
	if !ok {
		return
	}
	q := services.RecipeListQuery{
		Page:             page,
		Tags:             c.QueryArray("tags"),
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}
	if author > 0 {
		q.AuthorID = uint(author)
	}
	out, err := rh.recipeService.List(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	respondPage(c, out)
}

func (rh *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := rh.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, r)
}

func (rh *RecipeHandler) Create(c *gin.Context) {
	var req services.RecipeInput
	if !bindJSON(c, &req) {
		return
	}
	r, err := rh.recipeService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, r)
}

// PATCH /recipes/:id/ replaces only the fields present in the body.
func (rh *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.RecipeInput
	if !bindJSON(c, &req) {
		return
	}
	r, err := rh.recipeService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, r)
}

func (rh *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := rh.recipeService.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (rh *RecipeHandler) AddFavorite(c *gin.Context) {
	rh.addToList(c, rh.favoriteService.Add)
}

func (rh *RecipeHandler) RemoveFavorite(c *gin.Context) {
	rh.removeFromList(c, rh.favoriteService.Remove)
}

func (rh *RecipeHandler) AddToCart(c *gin.Context) {
	rh.addToList(c, rh.cartService.Add)
}

func (rh *RecipeHandler) RemoveFromCart(c *gin.Context) {
	rh.removeFromList(c, rh.cartService.Remove)
}

func (rh *RecipeHandler) addToList(c *gin.Context, add func(ctx context.Context, recipeID uint) (services.RecipeShortView, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	short, err := add(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, short)
}

func (rh *RecipeHandler) removeFromList(c *gin.Context, remove func(ctx context.Context, recipeID uint) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /recipes/download_shopping_cart/
func (rh *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	report, err := rh.cartService.Download(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, []byte(report.Text))
}
