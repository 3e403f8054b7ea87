package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
)

func serve(t *testing.T, target string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/recipes/", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRespondServiceError(t *testing.T) {
	rec := serve(t, "/api/recipes/", func(c *gin.Context) {
		RespondServiceError(c, fmt.Errorf("load: %w", apierr.NotFound("recipe_not_found", "recipe not found")))
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "recipe_not_found" || env.Error.Message != "load: recipe not found" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	rec = serve(t, "/api/recipes/", func(c *gin.Context) {
		RespondServiceError(c, errors.New("pq: connection refused"))
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "internal server error" {
		t.Fatalf("internal error leaked: %q", env.Error.Message)
	}
}

func TestRespondPageLinks(t *testing.T) {
	rec := serve(t, "/api/recipes/?page=2&limit=2&tags=lunch", func(c *gin.Context) {
		RespondPage(c, 5, 2, 2, true, []int{3, 4})
	})
	var env struct {
		Count    int64   `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []int   `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Count != 5 || len(env.Results) != 2 {
		t.Fatalf("unexpected page: %+v", env)
	}
	if env.Next == nil || *env.Next != "http://example.com/api/recipes/?limit=2&page=3&tags=lunch" {
		t.Fatalf("next: %v", env.Next)
	}
	if env.Previous == nil || *env.Previous != "http://example.com/api/recipes/?limit=2&tags=lunch" {
		t.Fatalf("previous: %v", env.Previous)
	}

	rec = serve(t, "/api/recipes/", func(c *gin.Context) {
		RespondPage(c, 1, 1, 6, false, []int{1})
	})
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Next != nil || env.Previous != nil {
		t.Fatalf("single page should have no links: %+v", env)
	}
}
