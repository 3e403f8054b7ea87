package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (UserView, error)
	GetByID(ctx context.Context, id uint) (UserView, error)
	List(ctx context.Context, page PageRequest) (Page[UserView], error)
	SetAvatar(ctx context.Context, data string) (string, error)
	DeleteAvatar(ctx context.Context) error
}

type userService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	subscriptionRepo repos.SubscriptionRepo
	avatarService    AvatarService
	pageSize         int
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	subscriptionRepo repos.SubscriptionRepo,
	avatarService AvatarService,
	pageSize int,
) UserService {
	return &userService{
		db:               db,
		log:              log.With("service", "UserService"),
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		avatarService:    avatarService,
		pageSize:         pageSize,
	}
}

func (us *userService) GetMe(ctx context.Context) (UserView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return UserView{}, err
	}
	u, err := loadUser(dbctx.Context{Ctx: ctx}, us.userRepo, rd.UserID)
	if err != nil {
		return UserView{}, err
	}
	return newUserView(u, false), nil
}

func (us *userService) GetByID(ctx context.Context, id uint) (UserView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	u, err := loadUser(dbc, us.userRepo, id)
	if err != nil {
		return UserView{}, err
	}
	subscribed, err := subscribedTo(dbc, us.subscriptionRepo, ctxutil.CurrentUserID(ctx), []uint{u.ID})
	if err != nil {
		return UserView{}, err
	}
	return newUserView(u, subscribed[u.ID]), nil
}

func (us *userService) List(ctx context.Context, page PageRequest) (Page[UserView], error) {
	page = page.Normalize(us.pageSize)
	dbc := dbctx.Context{Ctx: ctx}
	count, err := us.userRepo.Count(dbc)
	if err != nil {
		return Page[UserView]{}, fmt.Errorf("count users: %w", err)
	}
	users, err := us.userRepo.List(dbc, page.Limit, page.Offset())
	if err != nil {
		return Page[UserView]{}, fmt.Errorf("list users: %w", err)
	}
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := subscribedTo(dbc, us.subscriptionRepo, ctxutil.CurrentUserID(ctx), ids)
	if err != nil {
		return Page[UserView]{}, err
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, newUserView(u, subscribed[u.ID]))
	}
	return Page[UserView]{Count: count, Page: page, Results: out}, nil
}

func (us *userService) SetAvatar(ctx context.Context, data string) (string, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(data) == "" {
		return "", apierr.BadRequest("validation_error", "avatar: this field is required")
	}
	raw, _, err := DecodeDataURI(data)
	if err != nil {
		return "", err
	}
	var url string
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := loadUser(dbc, us.userRepo, rd.UserID)
		if err != nil {
			return err
		}
		if err := us.avatarService.CreateAndUploadUserAvatarFromImage(dbc, u, raw); err != nil {
			return apierr.BadRequest("invalid_image", "avatar: "+err.Error())
		}
		url = u.AvatarURL
		return nil
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

func (us *userService) DeleteAvatar(ctx context.Context) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := loadUser(dbc, us.userRepo, rd.UserID)
		if err != nil {
			return err
		}
		return us.avatarService.DeleteUserAvatar(dbc, u)
	})
}

func loadUser(dbc dbctx.Context, userRepo repos.UserRepo, id uint) (*types.User, error) {
	users, err := userRepo.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", "user not found")
	}
	return users[0], nil
}

// subscribedTo reports which of authorIDs the viewer follows. Anonymous viewers follow nobody.
func subscribedTo(dbc dbctx.Context, subs repos.SubscriptionRepo, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	if viewerID == 0 || len(authorIDs) == 0 {
		return map[uint]bool{}, nil
	}
	m, err := subs.AuthorIDsFor(dbc, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	return m, nil
}
