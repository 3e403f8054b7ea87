package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	"github.com/yungbote/foodgram-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := LoadConfig(testutil.Logger(t))
	if cfg.Port != "8080" || cfg.PageSize != services.DefaultPageSize || cfg.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "500")
	t.Setenv("ACCESS_TOKEN_TTL", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := LoadConfig(testutil.Logger(t))
	if cfg.PageSize != services.DefaultPageSize {
		t.Fatalf("out of range page size should fall back, got %d", cfg.PageSize)
	}
	if cfg.AccessTokenTTL != time.Minute {
		t.Fatalf("ttl: %v", cfg.AccessTokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
}

func TestNewWiresLocalStack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "foodgram.db"))
	t.Setenv("OBJECT_STORAGE_MODE", "local")
	t.Setenv("LOCAL_MEDIA_DIR", filepath.Join(dir, "media"))
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("METRICS_ENABLED", "")

	a, err := New(testutil.Logger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("tags: %d %s", rec.Code, rec.Body.String())
	}

	n, err := a.Services.Auth.PurgeExpiredTokens(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("PurgeExpiredTokens: n=%d err=%v", n, err)
	}
}
