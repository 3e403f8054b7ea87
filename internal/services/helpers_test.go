package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	db        *gorm.DB
	log       *logger.Logger
	bucket    gcp.BucketService
	mediaRoot string

	userRepo repos.UserRepo

	auth          AuthService
	users         UserService
	tags          TagService
	ingredients   IngredientService
	recipes       RecipeService
	favorites     FavoriteService
	cart          CartService
	subscriptions SubscriptionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	root := t.TempDir()
	bucket, err := gcp.NewLocalBucketService(log, root, "http://media.test")
	if err != nil {
		t.Fatalf("NewLocalBucketService: %v", err)
	}

	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	ingredientRepo := repos.NewIngredientRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)
	recipeRepo := repos.NewRecipeRepo(db, log)
	favoriteRepo := repos.NewFavoriteRepo(db, log)
	cartRepo := repos.NewShoppingCartRepo(db, log)
	subscriptionRepo := repos.NewSubscriptionRepo(db, log)

	avatars, err := NewAvatarService(log, userRepo, bucket)
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	images := NewImageService(log, bucket)

	return &testEnv{
		db:            db,
		log:           log,
		bucket:        bucket,
		mediaRoot:     root,
		userRepo:      userRepo,
		auth:          NewAuthService(db, log, userRepo, tokenRepo, avatars, testSecret, time.Hour),
		users:         NewUserService(db, log, userRepo, subscriptionRepo, avatars, DefaultPageSize),
		tags:          NewTagService(log, tagRepo, cache.Nop()),
		ingredients:   NewIngredientService(log, ingredientRepo, cache.Nop()),
		recipes:       NewRecipeService(db, log, recipeRepo, ingredientRepo, tagRepo, favoriteRepo, cartRepo, subscriptionRepo, images, DefaultPageSize),
		favorites:     NewFavoriteService(db, log, recipeRepo, favoriteRepo),
		cart:          NewCartService(db, log, recipeRepo, cartRepo),
		subscriptions: NewSubscriptionService(db, log, userRepo, recipeRepo, subscriptionRepo, DefaultPageSize),
	}
}

var userSeq atomic.Int64

func validRegistration() RegisterInput {
	n := userSeq.Add(1)
	return RegisterInput{
		Email:     fmt.Sprintf("cook%d@example.com", n),
		Username:  fmt.Sprintf("cook%d", n),
		FirstName: "Julia",
		LastName:  "Child",
		Password:  "s3cret-pass",
	}
}

func (e *testEnv) register(t *testing.T) *types.User {
	t.Helper()
	u, err := e.auth.RegisterUser(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	return u
}

func (e *testEnv) registerStaff(t *testing.T) *types.User {
	t.Helper()
	u, err := e.auth.CreateStaffUser(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("CreateStaffUser: %v", err)
	}
	return u
}

// authed returns a context authenticated as u.
func authed(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		TokenString: "test",
		UserID:      u.ID,
		IsStaff:     u.IsStaff,
	})
}

func (e *testEnv) seedIngredient(t *testing.T, name, unit string) *types.Ingredient {
	t.Helper()
	return testutil.SeedIngredient(t, context.Background(), e.db, name, unit)
}

func (e *testEnv) seedTag(t *testing.T, slug string) *types.Tag {
	t.Helper()
	return testutil.SeedTag(t, context.Background(), e.db, slug)
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func recipeInput(t *testing.T, name string, tags []uint, items ...RecipeIngredientInput) RecipeInput {
	t.Helper()
	img := pngDataURI(t)
	text := "Mix and bake."
	cooking := 30
	return RecipeInput{
		Ingredients: &items,
		Tags:        &tags,
		Image:       &img,
		Name:        &name,
		Text:        &text,
		CookingTime: &cooking,
	}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected status %d, got nil error", status)
	}
	if got, _ := apierr.StatusOf(err); got != status {
		t.Fatalf("status: want=%d got=%d (err=%v)", status, got, err)
	}
}

func wantBadRequest(t *testing.T, err error) {
	t.Helper()
	wantStatus(t, err, http.StatusBadRequest)
}
