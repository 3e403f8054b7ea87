package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const maxRecipeNameLength = 200

type RecipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is a create or partial-update payload. Nil fields are left unchanged on update.
type RecipeInput struct {
	Ingredients *[]RecipeIngredientInput `json:"ingredients"`
	Tags        *[]uint                  `json:"tags"`
	Image       *string                  `json:"image"`
	Name        *string                  `json:"name"`
	Text        *string                  `json:"text"`
	CookingTime *int                     `json:"cooking_time"`
}

type RecipeListQuery struct {
	Page             PageRequest
	AuthorID         uint
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

type RecipeService interface {
	List(ctx context.Context, q RecipeListQuery) (Page[RecipeView], error)
	Get(ctx context.Context, id uint) (RecipeView, error)
	Create(ctx context.Context, in RecipeInput) (RecipeView, error)
	Update(ctx context.Context, id uint, in RecipeInput) (RecipeView, error)
	Delete(ctx context.Context, id uint) error
}

type recipeService struct {
	db               *gorm.DB
	log              *logger.Logger
	recipeRepo       repos.RecipeRepo
	ingredientRepo   repos.IngredientRepo
	tagRepo          repos.TagRepo
	favoriteRepo     repos.FavoriteRepo
	cartRepo         repos.ShoppingCartRepo
	subscriptionRepo repos.SubscriptionRepo
	imageService     ImageService
	pageSize         int
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	ingredientRepo repos.IngredientRepo,
	tagRepo repos.TagRepo,
	favoriteRepo repos.FavoriteRepo,
	cartRepo repos.ShoppingCartRepo,
	subscriptionRepo repos.SubscriptionRepo,
	imageService ImageService,
	pageSize int,
) RecipeService {
	return &recipeService{
		db:               db,
		log:              log.With("service", "RecipeService"),
		recipeRepo:       recipeRepo,
		ingredientRepo:   ingredientRepo,
		tagRepo:          tagRepo,
		favoriteRepo:     favoriteRepo,
		cartRepo:         cartRepo,
		subscriptionRepo: subscriptionRepo,
		imageService:     imageService,
		pageSize:         pageSize,
	}
}

func (rs *recipeService) List(ctx context.Context, q RecipeListQuery) (Page[RecipeView], error) {
	page := q.Page.Normalize(rs.pageSize)
	viewer := ctxutil.CurrentUserID(ctx)
	empty := Page[RecipeView]{Page: page, Results: []RecipeView{}}
	if viewer == 0 && (q.IsFavorited || q.IsInShoppingCart) {
		return empty, nil
	}

	filter := repos.RecipeFilter{AuthorID: q.AuthorID, TagSlugs: q.Tags}
	if q.IsFavorited {
		filter.FavoritedBy = viewer
	}
	if q.IsInShoppingCart {
		filter.InCartOf = viewer
	}

	var (
		count int64
		rows  []*types.Recipe
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := rs.recipeRepo.Count(dbctx.Context{Ctx: gctx}, filter)
		if err != nil {
			return fmt.Errorf("count recipes: %w", err)
		}
		count = n
		return nil
	})
	g.Go(func() error {
		r, err := rs.recipeRepo.List(dbctx.Context{Ctx: gctx}, filter, page.Limit, page.Offset())
		if err != nil {
			return fmt.Errorf("list recipes: %w", err)
		}
		rows = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page[RecipeView]{}, err
	}

	views, err := rs.views(dbctx.Context{Ctx: ctx}, viewer, rows)
	if err != nil {
		return Page[RecipeView]{}, err
	}
	return Page[RecipeView]{Count: count, Page: page, Results: views}, nil
}

func (rs *recipeService) Get(ctx context.Context, id uint) (RecipeView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	r, err := rs.load(dbc, id)
	if err != nil {
		return RecipeView{}, err
	}
	views, err := rs.views(dbc, ctxutil.CurrentUserID(ctx), []*types.Recipe{r})
	if err != nil {
		return RecipeView{}, err
	}
	return views[0], nil
}

func (rs *recipeService) Create(ctx context.Context, in RecipeInput) (RecipeView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return RecipeView{}, err
	}
	if err := rs.validate(dbctx.Context{Ctx: ctx}, &in, true); err != nil {
		return RecipeView{}, err
	}

	img, err := rs.imageService.UploadRecipeImage(dbctx.Context{Ctx: ctx}, *in.Image)
	if err != nil {
		return RecipeView{}, err
	}

	var id uint
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		recipe := &types.Recipe{
			AuthorID:       rd.UserID,
			Name:           *in.Name,
			Text:           *in.Text,
			ImageBucketKey: img.Key,
			ImageURL:       img.URL,
			CookingTime:    *in.CookingTime,
		}
		if _, err := rs.recipeRepo.Create(dbc, recipe); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := rs.recipeRepo.ReplaceIngredients(dbc, recipe.ID, ingredientRows(*in.Ingredients)); err != nil {
			return fmt.Errorf("store recipe ingredients: %w", err)
		}
		if err := rs.recipeRepo.ReplaceTags(dbc, recipe.ID, *in.Tags); err != nil {
			return fmt.Errorf("store recipe tags: %w", err)
		}
		id = recipe.ID
		return nil
	})
	if err != nil {
		rs.imageService.DeleteRecipeImage(ctx, img.Key)
		return RecipeView{}, err
	}
	rs.log.Info("Recipe created", "recipe_id", id, "author_user_id", rd.UserID)
	return rs.Get(ctx, id)
}

func (rs *recipeService) Update(ctx context.Context, id uint, in RecipeInput) (RecipeView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return RecipeView{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	current, err := rs.load(dbc, id)
	if err != nil {
		return RecipeView{}, err
	}
	if err := canModify(rd, current); err != nil {
		return RecipeView{}, err
	}
	if err := rs.validate(dbc, &in, false); err != nil {
		return RecipeView{}, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.CookingTime != nil {
		fields["cooking_time"] = *in.CookingTime
	}
	var newImage StoredImage
	if in.Image != nil {
		newImage, err = rs.imageService.UploadRecipeImage(dbc, *in.Image)
		if err != nil {
			return RecipeView{}, err
		}
		fields["image_bucket_key"] = newImage.Key
		fields["image_url"] = newImage.URL
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := rs.recipeRepo.Update(txc, id, fields); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if in.Ingredients != nil {
			if err := rs.recipeRepo.ReplaceIngredients(txc, id, ingredientRows(*in.Ingredients)); err != nil {
				return fmt.Errorf("replace recipe ingredients: %w", err)
			}
		}
		if in.Tags != nil {
			if err := rs.recipeRepo.ReplaceTags(txc, id, *in.Tags); err != nil {
				return fmt.Errorf("replace recipe tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		rs.imageService.DeleteRecipeImage(ctx, newImage.Key)
		return RecipeView{}, err
	}
	if newImage.Key != "" {
		rs.imageService.DeleteRecipeImage(ctx, current.ImageBucketKey)
	}
	return rs.Get(ctx, id)
}

func (rs *recipeService) Delete(ctx context.Context, id uint) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	current, err := rs.load(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return err
	}
	if err := canModify(rd, current); err != nil {
		return err
	}
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return rs.recipeRepo.Delete(dbctx.Context{Ctx: ctx, Tx: tx}, []uint{id})
	})
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	rs.imageService.DeleteRecipeImage(ctx, current.ImageBucketKey)
	rs.log.Info("Recipe deleted", "recipe_id", id)
	return nil
}

func (rs *recipeService) load(dbc dbctx.Context, id uint) (*types.Recipe, error) {
	rows, err := rs.recipeRepo.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("recipe_not_found", "recipe not found")
	}
	return rows[0], nil
}

// views renders recipes with the viewer's favorite, cart and subscription marks.
func (rs *recipeService) views(dbc dbctx.Context, viewer uint, rows []*types.Recipe) ([]RecipeView, error) {
	marks := recipeMarks{favorited: map[uint]bool{}, inCart: map[uint]bool{}, subscribed: map[uint]bool{}}
	if viewer != 0 && len(rows) > 0 {
		recipeIDs := make([]uint, 0, len(rows))
		authorIDs := make([]uint, 0, len(rows))
		for _, r := range rows {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}
		var err error
		if marks.favorited, err = rs.favoriteRepo.RecipeIDsFor(dbc, viewer, recipeIDs); err != nil {
			return nil, fmt.Errorf("load favorites: %w", err)
		}
		if marks.inCart, err = rs.cartRepo.RecipeIDsFor(dbc, viewer, recipeIDs); err != nil {
			return nil, fmt.Errorf("load shopping cart: %w", err)
		}
		if marks.subscribed, err = subscribedTo(dbc, rs.subscriptionRepo, viewer, authorIDs); err != nil {
			return nil, err
		}
	}
	out := make([]RecipeView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newRecipeView(r, marks))
	}
	return out, nil
}

func canModify(rd *ctxutil.RequestData, r *types.Recipe) error {
	if rd.IsStaff || r.AuthorID == rd.UserID {
		return nil
	}
	return apierr.Forbidden("permission_denied", "only the author can change this recipe")
}

func ingredientRows(items []RecipeIngredientInput) []types.RecipeIngredient {
	out := make([]types.RecipeIngredient, 0, len(items))
	for _, it := range items {
		out = append(out, types.RecipeIngredient{IngredientID: it.ID, Amount: it.Amount})
	}
	return out
}

// validate trims text fields in place. On create every field is required; on update only the
// fields present are checked.
func (rs *recipeService) validate(dbc dbctx.Context, in *RecipeInput, creating bool) error {
	bad := func(msg string) error { return apierr.BadRequest("validation_error", msg) }

	if creating {
		switch {
		case in.Name == nil:
			return bad("name: this field is required")
		case in.Text == nil:
			return bad("text: this field is required")
		case in.CookingTime == nil:
			return bad("cooking_time: this field is required")
		case in.Image == nil || strings.TrimSpace(*in.Image) == "":
			return bad("image: this field is required")
		case in.Ingredients == nil || in.Tags == nil:
			return bad("Ingredients or tags are not provided")
		}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return bad("name: this field may not be blank")
		}
		if len([]rune(name)) > maxRecipeNameLength {
			return bad(fmt.Sprintf("name: ensure this field has no more than %d characters", maxRecipeNameLength))
		}
		in.Name = &name
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return bad("text: this field may not be blank")
		}
		in.Text = &text
	}
	if in.CookingTime != nil && *in.CookingTime < 1 {
		return bad("cooking_time: ensure this value is greater than or equal to 1")
	}
	if in.Ingredients != nil {
		if err := rs.validateIngredients(dbc, *in.Ingredients); err != nil {
			return err
		}
	}
	if in.Tags != nil {
		if err := rs.validateTags(dbc, *in.Tags); err != nil {
			return err
		}
	}
	return nil
}

func (rs *recipeService) validateIngredients(dbc dbctx.Context, items []RecipeIngredientInput) error {
	if len(items) == 0 {
		return apierr.BadRequest("validation_error", "ingredients: Ingredients should not be empty")
	}
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.Amount < 1 {
			return apierr.BadRequest("validation_error", "ingredients: Amount of ingredient can not be less than 1")
		}
		if !seen[it.ID] {
			seen[it.ID] = true
			ids = append(ids, it.ID)
		}
	}
	found, err := rs.ingredientRepo.GetByIDs(dbc, ids)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	exists := make(map[uint]bool, len(found))
	for _, ing := range found {
		exists[ing.ID] = true
	}
	for _, it := range items {
		if !exists[it.ID] {
			return apierr.BadRequest("validation_error", fmt.Sprintf("ingredients: Ingredient with id %d does not exist", it.ID))
		}
	}
	if len(ids) < len(items) {
		return apierr.BadRequest("validation_error", "ingredients: Ingredients must be unique")
	}
	return nil
}

func (rs *recipeService) validateTags(dbc dbctx.Context, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return apierr.BadRequest("validation_error", "tags: this list may not be empty")
	}
	unique := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		unique[id] = true
	}
	if len(unique) < len(tagIDs) {
		return apierr.BadRequest("validation_error", "tags: Tags must be unique")
	}
	found, err := rs.tagRepo.GetByIDs(dbc, tagIDs)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	if len(found) != len(tagIDs) {
		exists := make(map[uint]bool, len(found))
		for _, t := range found {
			exists[t.ID] = true
		}
		for _, id := range tagIDs {
			if !exists[id] {
				return apierr.BadRequest("validation_error", fmt.Sprintf("tags: invalid pk %d, object does not exist", id))
			}
		}
	}
	return nil
}
