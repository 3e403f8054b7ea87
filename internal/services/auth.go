package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	CreateStaffUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
	LogoutUser(ctx context.Context) error
	SetPassword(ctx context.Context, currentPassword, newPassword string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  string
	accessTTL     time.Duration
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		now:           time.Now,
	}
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	return as.createUser(ctx, in, false)
}

// CreateStaffUser registers a user that may manage tags, ingredients and any recipe.
func (as *authService) CreateStaffUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	return as.createUser(ctx, in, true)
}

func (as *authService) createUser(ctx context.Context, in RegisterInput, staff bool) (*types.User, error) {
	in.normalize()
	if err := checkStruct(&in); err != nil {
		return nil, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		Email:     in.Email,
		Username:  in.Username,
		Password:  hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		emailTaken, err := as.userRepo.EmailExists(dbc, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if emailTaken {
			return apierr.BadRequest("email_taken", "email: user with this email already exists")
		}
		usernameTaken, err := as.userRepo.UsernameExists(dbc, user.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if usernameTaken {
			return apierr.BadRequest("username_taken", "username: a user with that username already exists")
		}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if staff {
			if err := as.userRepo.SetStaff(dbc, user.ID, true); err != nil {
				return fmt.Errorf("grant staff: %w", err)
			}
			user.IsStaff = true
		}
		if as.avatarService != nil {
			if err := as.avatarService.CreateAndUploadUserAvatar(dbc, user); err != nil {
				as.log.Warn("Initials avatar not created", "user_id", user.ID, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID, "staff", staff)
	return user, nil
}

var errBadCredentials = apierr.BadRequest("invalid_credentials", "unable to log in with provided credentials")

// LoginUser returns the caller's live token if one exists, otherwise issues a new one.
func (as *authService) LoginUser(ctx context.Context, email, password string) (string, error) {
	in := struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}{Email: normalizeEmail(email), Password: password}
	if err := checkStruct(&in); err != nil {
		return "", err
	}

	var accessToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		users, err := as.userRepo.GetByEmails(dbc, []string{in.Email})
		if err != nil {
			return fmt.Errorf("load user by email: %w", err)
		}
		if len(users) == 0 || !checkPassword(users[0].Password, in.Password) {
			return errBadCredentials
		}
		user := users[0]

		existing, err := as.userTokenRepo.GetByUserIDs(dbc, []uint{user.ID})
		if err != nil {
			return fmt.Errorf("load user tokens: %w", err)
		}
		now := as.now()
		var expired []string
		for _, t := range existing {
			if t.ExpiresAt.After(now) {
				accessToken = t.AccessToken
				continue
			}
			expired = append(expired, t.AccessToken)
		}
		if len(expired) > 0 {
			if err := as.userTokenRepo.FullDeleteByAccessTokens(dbc, expired); err != nil {
				return fmt.Errorf("delete expired tokens: %w", err)
			}
		}
		if accessToken != "" {
			return nil
		}

		tok, expiresAt, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		row := &types.UserToken{UserID: user.ID, AccessToken: tok, ExpiresAt: expiresAt}
		if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
			return fmt.Errorf("store access token: %w", err)
		}
		accessToken = tok
		return nil
	})
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	if err := as.userTokenRepo.FullDeleteByAccessTokens(dbctx.Context{Ctx: ctx}, []string{rd.TokenString}); err != nil {
		return fmt.Errorf("delete user token: %w", err)
	}
	return nil
}

func (as *authService) SetPassword(ctx context.Context, currentPassword, newPassword string) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	userID := rd.UserID
	in := struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,max=128"`
	}{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := checkStruct(&in); err != nil {
		return err
	}
	if err := validatePassword("new_password", newPassword); err != nil {
		return err
	}

	dbc := dbctx.Context{Ctx: ctx}
	users, err := as.userRepo.GetByIDs(dbc, []uint{userID})
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return apierr.Unauthorized("not_authenticated", "user no longer exists")
	}
	if !checkPassword(users[0].Password, currentPassword) {
		return apierr.BadRequest("invalid_password", "current_password: invalid password")
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := as.userRepo.UpdatePassword(dbc, userID, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, time.Time, error) {
	now := as.now()
	expiresAt := now.Add(as.accessTTL)
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// SetContextFromToken attaches the caller to ctx. An empty token leaves ctx anonymous.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	invalid := apierr.Unauthorized("invalid_token", "invalid token")

	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, invalid
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, invalid
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return ctx, invalid
	}
	userID := uint(id)

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("load user token: %w", err)
	}
	if len(rows) == 0 || rows[0].UserID != userID {
		return ctx, invalid
	}
	users, err := as.userRepo.GetByIDs(dbc, []uint{userID})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return ctx, invalid
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		IsStaff:     users[0].IsStaff,
	}), nil
}

func (as *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := as.userTokenRepo.DeleteExpired(dbctx.Context{Ctx: ctx}, as.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	return n, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

// requireUser returns the authenticated caller or a 401.
func requireUser(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return nil, apierr.Unauthorized("not_authenticated", "authentication credentials were not provided")
	}
	return rd, nil
}

func requireStaff(ctx context.Context) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	if !rd.IsStaff {
		return apierr.Forbidden("permission_denied", "you do not have permission to perform this action")
	}
	return nil
}
