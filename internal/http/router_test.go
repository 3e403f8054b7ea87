package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/foodgram-backend/internal/http/handlers"
	httpMW "github.com/yungbote/foodgram-backend/internal/http/middleware"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	auth   services.AuthService
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	mediaDir := t.TempDir()
	bucket, err := gcp.NewLocalBucketService(log, mediaDir, "http://media.test")
	if err != nil {
		t.Fatalf("NewLocalBucketService: %v", err)
	}

	userRepo := repos.NewUserRepo(db, log)
	recipeRepo := repos.NewRecipeRepo(db, log)
	ingredientRepo := repos.NewIngredientRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)
	favoriteRepo := repos.NewFavoriteRepo(db, log)
	cartRepo := repos.NewShoppingCartRepo(db, log)
	subscriptionRepo := repos.NewSubscriptionRepo(db, log)

	avatars, err := services.NewAvatarService(log, userRepo, bucket)
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	auth := services.NewAuthService(db, log, userRepo, repos.NewUserTokenRepo(db, log), avatars, "router-secret", time.Hour)
	users := services.NewUserService(db, log, userRepo, subscriptionRepo, avatars, services.DefaultPageSize)
	subs := services.NewSubscriptionService(db, log, userRepo, recipeRepo, subscriptionRepo, services.DefaultPageSize)
	recipes := services.NewRecipeService(db, log, recipeRepo, ingredientRepo, tagRepo, favoriteRepo, cartRepo, subscriptionRepo,
		services.NewImageService(log, bucket), services.DefaultPageSize)

	engine := NewRouter(RouterConfig{
		Log:               log,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, auth),
		LoginLimiter:      httpMW.NewRateLimiter(600, 100, time.Minute),
		AuthHandler:       httpH.NewAuthHandler(auth),
		UserHandler:       httpH.NewUserHandler(auth, users, subs),
		TagHandler:        httpH.NewTagHandler(services.NewTagService(log, tagRepo, cache.Nop())),
		IngredientHandler: httpH.NewIngredientHandler(services.NewIngredientService(log, ingredientRepo, cache.Nop())),
		RecipeHandler: httpH.NewRecipeHandler(recipes,
			services.NewFavoriteService(db, log, recipeRepo, favoriteRepo),
			services.NewCartService(db, log, recipeRepo, cartRepo)),
		HealthHandler: httpH.NewHealthHandler(db),
		MediaDir:      mediaDir,
	})
	return &apiClient{t: t, engine: engine, auth: auth}
}

func (a *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *apiClient) expect(rec *httptest.ResponseRecorder, status int, dst any) {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("status: want=%d got=%d body=%s", status, rec.Code, rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
			a.t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

// signup registers a user over HTTP and returns its id and token.
func (a *apiClient) signup(name string) (uint, string) {
	a.t.Helper()
	var created struct {
		ID uint `json:"id"`
	}
	a.expect(a.do(http.MethodPost, "/api/users/", "", map[string]string{
		"email":      name + "@example.com",
		"username":   name,
		"first_name": "Test",
		"last_name":  "Cook",
		"password":   "pan-and-oven",
	}), http.StatusCreated, &created)

	var login struct {
		Token string `json:"auth_token"`
	}
	a.expect(a.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{
		"email":    name + "@example.com",
		"password": "pan-and-oven",
	}), http.StatusOK, &login)
	if login.Token == "" {
		a.t.Fatalf("empty auth token")
	}
	return created.ID, login.Token
}

func (a *apiClient) staffToken() string {
	a.t.Helper()
	in := services.RegisterInput{Email: "chef@example.com", Username: "chef", FirstName: "Head", LastName: "Chef", Password: "kitchen-boss"}
	if _, err := a.auth.CreateStaffUser(context.Background(), in); err != nil {
		a.t.Fatalf("CreateStaffUser: %v", err)
	}
	token, err := a.auth.LoginUser(context.Background(), in.Email, in.Password)
	if err != nil {
		a.t.Fatalf("LoginUser: %v", err)
	}
	return token
}

func pngData(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHealthcheck(t *testing.T) {
	api := newAPI(t)
	rec := api.do(http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestUserAuthFlow(t *testing.T) {
	api := newAPI(t)
	id, token := api.signup("ada")

	var me struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	api.expect(api.do(http.MethodGet, "/api/users/me/", token, nil), http.StatusOK, &me)
	if me.ID != id || me.Username != "ada" || me.Avatar == "" {
		t.Fatalf("unexpected me: %+v", me)
	}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	api.expect(api.do(http.MethodGet, "/api/users/me/", "", nil), http.StatusUnauthorized, &env)
	if env.Error.Code != "not_authenticated" {
		t.Fatalf("error code: %q", env.Error.Code)
	}
	api.expect(api.do(http.MethodGet, "/api/users/me/", "garbage", nil), http.StatusUnauthorized, nil)

	var avatar struct {
		Avatar string `json:"avatar"`
	}
	api.expect(api.do(http.MethodPut, "/api/users/me/avatar/", token, map[string]string{"avatar": pngData(t)}), http.StatusOK, &avatar)
	if !strings.HasPrefix(avatar.Avatar, "http://media.test/media/avatar/") {
		t.Fatalf("avatar url: %q", avatar.Avatar)
	}
	mediaPath := strings.TrimPrefix(avatar.Avatar, "http://media.test")
	if rec := api.do(http.MethodGet, mediaPath, "", nil); rec.Code != http.StatusOK {
		t.Fatalf("media not served at %s: %d", mediaPath, rec.Code)
	}
	api.expect(api.do(http.MethodDelete, "/api/users/me/avatar/", token, nil), http.StatusNoContent, nil)

	api.expect(api.do(http.MethodPost, "/api/users/set_password/", token, map[string]string{
		"current_password": "pan-and-oven",
		"new_password":     "whisk-and-bowl",
	}), http.StatusNoContent, nil)

	api.expect(api.do(http.MethodPost, "/api/auth/token/logout/", token, nil), http.StatusNoContent, nil)
	api.expect(api.do(http.MethodGet, "/api/users/me/", token, nil), http.StatusUnauthorized, nil)

	api.expect(api.do(http.MethodGet, "/api/users/abc/", "", nil), http.StatusNotFound, nil)
	api.expect(api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", id), "", nil), http.StatusOK, nil)

	var page struct {
		Count   int64             `json:"count"`
		Next    *string           `json:"next"`
		Results []json.RawMessage `json:"results"`
	}
	api.expect(api.do(http.MethodGet, "/api/users/", "", nil), http.StatusOK, &page)
	if page.Count != 1 || len(page.Results) != 1 || page.Next != nil {
		t.Fatalf("users page: %+v", page)
	}
	api.expect(api.do(http.MethodGet, "/api/users/?page=5", "", nil), http.StatusNotFound, nil)
}

func TestRecipeFlow(t *testing.T) {
	api := newAPI(t)
	staff := api.staffToken()
	authorID, author := api.signup("julia")
	_, reader := api.signup("james")

	var tag struct {
		ID   uint   `json:"id"`
		Slug string `json:"slug"`
	}
	api.expect(api.do(http.MethodPost, "/api/tags/", author, map[string]string{"name": "Dinner", "color": "#112233", "slug": "dinner"}), http.StatusForbidden, nil)
	api.expect(api.do(http.MethodPost, "/api/tags/", staff, map[string]string{"name": "Dinner", "color": "#112233", "slug": "dinner"}), http.StatusCreated, &tag)

	var flour, salt struct {
		ID uint `json:"id"`
	}
	api.expect(api.do(http.MethodPost, "/api/ingredients/", staff, map[string]string{"name": "flour", "measurement_unit": "g"}), http.StatusCreated, &flour)
	api.expect(api.do(http.MethodPost, "/api/ingredients/", staff, map[string]string{"name": "salt", "measurement_unit": "tsp"}), http.StatusCreated, &salt)

	var found []struct {
		Name string `json:"name"`
	}
	api.expect(api.do(http.MethodGet, "/api/ingredients/?name=fl", "", nil), http.StatusOK, &found)
	if len(found) != 1 || found[0].Name != "flour" {
		t.Fatalf("ingredient search: %+v", found)
	}

	newRecipe := func(name string, flourAmount int) uint {
		var r struct {
			ID uint `json:"id"`
		}
		api.expect(api.do(http.MethodPost, "/api/recipes/", author, map[string]any{
			"name":         name,
			"text":         "Knead and bake.",
			"cooking_time": 45,
			"image":        pngData(t),
			"tags":         []uint{tag.ID},
			"ingredients": []map[string]any{
				{"id": flour.ID, "amount": flourAmount},
				{"id": salt.ID, "amount": 1},
			},
		}), http.StatusCreated, &r)
		return r.ID
	}
	bread := newRecipe("Bread", 200)
	pie := newRecipe("Pie", 300)

	api.expect(api.do(http.MethodPost, "/api/recipes/", "", map[string]any{"name": "x"}), http.StatusUnauthorized, nil)
	api.expect(api.do(http.MethodPatch, fmt.Sprintf("/api/recipes/%d/", bread), reader, map[string]any{"name": "Mine"}), http.StatusForbidden, nil)

	var updated struct {
		Name        string `json:"name"`
		CookingTime int    `json:"cooking_time"`
	}
	api.expect(api.do(http.MethodPatch, fmt.Sprintf("/api/recipes/%d/", bread), author, map[string]any{"cooking_time": 50}), http.StatusOK, &updated)
	if updated.Name != "Bread" || updated.CookingTime != 50 {
		t.Fatalf("patched recipe: %+v", updated)
	}

	api.expect(api.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", pie), reader, nil), http.StatusCreated, nil)
	api.expect(api.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", pie), reader, nil), http.StatusBadRequest, nil)
	for _, id := range []uint{bread, pie} {
		api.expect(api.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart/", id), reader, nil), http.StatusCreated, nil)
	}

	var list struct {
		Count   int64 `json:"count"`
		Results []struct {
			ID               uint `json:"id"`
			IsFavorited      bool `json:"is_favorited"`
			IsInShoppingCart bool `json:"is_in_shopping_cart"`
			Author           struct {
				ID           uint `json:"id"`
				IsSubscribed bool `json:"is_subscribed"`
			} `json:"author"`
		} `json:"results"`
	}
	api.expect(api.do(http.MethodGet, "/api/recipes/?is_favorited=1", reader, nil), http.StatusOK, &list)
	if list.Count != 1 || list.Results[0].ID != pie || !list.Results[0].IsFavorited || !list.Results[0].IsInShoppingCart {
		t.Fatalf("favorited list: %+v", list)
	}
	api.expect(api.do(http.MethodGet, fmt.Sprintf("/api/recipes/?author=%d&tags=dinner", authorID), "", nil), http.StatusOK, &list)
	if list.Count != 2 || list.Results[0].ID != pie || list.Results[0].IsFavorited {
		t.Fatalf("anonymous list: %+v", list)
	}

	rec := api.do(http.MethodGet, "/api/recipes/download_shopping_cart/", reader, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "Flour (g):  500\nSalt (tsp):  2\n" {
		t.Fatalf("shopping list: %q", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="shopping_cart.txt"` {
		t.Fatalf("content disposition: %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("content type: %q", ct)
	}

	var card struct {
		ID           uint `json:"id"`
		IsSubscribed bool `json:"is_subscribed"`
		RecipesCount int  `json:"recipes_count"`
		Recipes      []struct {
			ID uint `json:"id"`
		} `json:"recipes"`
	}
	api.expect(api.do(http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe/?recipes_limit=1", authorID), reader, nil), http.StatusCreated, &card)
	if card.ID != authorID || !card.IsSubscribed || card.RecipesCount != 2 || len(card.Recipes) != 1 {
		t.Fatalf("subscription card: %+v", card)
	}
	var subs struct {
		Count int64 `json:"count"`
	}
	api.expect(api.do(http.MethodGet, "/api/users/subscriptions/", reader, nil), http.StatusOK, &subs)
	if subs.Count != 1 {
		t.Fatalf("subscriptions count: %d", subs.Count)
	}
	api.expect(api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe/", authorID), reader, nil), http.StatusNoContent, nil)
	api.expect(api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe/", authorID), reader, nil), http.StatusBadRequest, nil)

	api.expect(api.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d/", bread), author, nil), http.StatusNoContent, nil)
	api.expect(api.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d/", bread), "", nil), http.StatusNotFound, nil)
}
