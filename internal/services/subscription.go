package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// DefaultRecipesLimit caps the recipes embedded in an author card when the caller sets no limit.
const DefaultRecipesLimit = 10

type SubscriptionService interface {
	Subscribe(ctx context.Context, authorID uint, recipesLimit int) (AuthorView, error)
	Unsubscribe(ctx context.Context, authorID uint) error
	ListSubscriptions(ctx context.Context, page PageRequest, recipesLimit int) (Page[AuthorView], error)
}

type subscriptionService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	recipeRepo       repos.RecipeRepo
	subscriptionRepo repos.SubscriptionRepo
	pageSize         int
}

func NewSubscriptionService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	subscriptionRepo repos.SubscriptionRepo,
	pageSize int,
) SubscriptionService {
	return &subscriptionService{
		db:               db,
		log:              log.With("service", "SubscriptionService"),
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
		subscriptionRepo: subscriptionRepo,
		pageSize:         pageSize,
	}
}

func (ss *subscriptionService) Subscribe(ctx context.Context, authorID uint, recipesLimit int) (AuthorView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return AuthorView{}, err
	}
	var card AuthorView
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		author, err := loadUser(dbc, ss.userRepo, authorID)
		if err != nil {
			return err
		}
		if author.ID == rd.UserID {
			return apierr.BadRequest("self_subscription", "Can not subscribe to yourself")
		}
		exists, err := ss.subscriptionRepo.Exists(dbc, rd.UserID, author.ID)
		if err != nil {
			return fmt.Errorf("check subscription: %w", err)
		}
		if exists {
			return apierr.BadRequest("already_subscribed", "You are already subscribed to that author")
		}
		if err := ss.subscriptionRepo.Add(dbc, rd.UserID, author.ID); err != nil {
			return fmt.Errorf("add subscription: %w", err)
		}
		cards, err := ss.cards(dbc, []*types.User{author}, map[uint]bool{author.ID: true}, recipesLimit)
		if err != nil {
			return err
		}
		card = cards[0]
		return nil
	})
	if err != nil {
		return AuthorView{}, err
	}
	ss.log.Info("Subscribed", "user_id", rd.UserID, "author_user_id", authorID)
	return card, nil
}

func (ss *subscriptionService) Unsubscribe(ctx context.Context, authorID uint) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := loadUser(dbc, ss.userRepo, authorID); err != nil {
		return err
	}
	n, err := ss.subscriptionRepo.Remove(dbc, rd.UserID, authorID)
	if err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	if n == 0 {
		return apierr.BadRequest("not_subscribed", "Not subscribed")
	}
	return nil
}

func (ss *subscriptionService) ListSubscriptions(ctx context.Context, page PageRequest, recipesLimit int) (Page[AuthorView], error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return Page[AuthorView]{}, err
	}
	page = page.Normalize(ss.pageSize)
	dbc := dbctx.Context{Ctx: ctx}

	count, err := ss.subscriptionRepo.CountAuthors(dbc, rd.UserID)
	if err != nil {
		return Page[AuthorView]{}, fmt.Errorf("count subscriptions: %w", err)
	}
	ids, err := ss.subscriptionRepo.ListAuthorIDs(dbc, rd.UserID, page.Limit, page.Offset())
	if err != nil {
		return Page[AuthorView]{}, fmt.Errorf("list subscriptions: %w", err)
	}
	users, err := ss.userRepo.GetByIDs(dbc, ids)
	if err != nil {
		return Page[AuthorView]{}, fmt.Errorf("load authors: %w", err)
	}
	byID := make(map[uint]*types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	authors := make([]*types.User, 0, len(ids))
	subscribed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			authors = append(authors, u)
			subscribed[id] = true
		}
	}
	cards, err := ss.cards(dbc, authors, subscribed, recipesLimit)
	if err != nil {
		return Page[AuthorView]{}, err
	}
	return Page[AuthorView]{Count: count, Page: page, Results: cards}, nil
}

// cards builds author cards in the order given, each with its newest recipes and recipe count.
func (ss *subscriptionService) cards(dbc dbctx.Context, authors []*types.User, subscribed map[uint]bool, recipesLimit int) ([]AuthorView, error) {
	if recipesLimit <= 0 {
		recipesLimit = DefaultRecipesLimit
	}
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := ss.recipeRepo.CountByAuthors(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	out := make([]AuthorView, 0, len(authors))
	for _, a := range authors {
		recipes, err := ss.recipeRepo.ListByAuthor(dbc, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list author recipes: %w", err)
		}
		short := make([]RecipeShortView, 0, len(recipes))
		for _, r := range recipes {
			short = append(short, newRecipeShortView(r))
		}
		out = append(out, AuthorView{
			UserView:     newUserView(a, subscribed[a.ID]),
			Recipes:      short,
			RecipesCount: counts[a.ID],
		})
	}
	return out, nil
}
