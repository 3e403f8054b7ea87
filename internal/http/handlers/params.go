package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/services"
)

// pathID parses the :id segment. Anything that is not a positive integer cannot name a
// row, so it is answered with 404.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.RespondServiceError(c, apierr.NotFound("not_found", "not found"))
		return 0, false
	}
	return uint(id), true
}

func pageRequest(c *gin.Context) (services.PageRequest, bool) {
	var p services.PageRequest
	for _, f := range []struct {
		name string
		dst  *int
	}{{"page", &p.Page}, {"limit", &p.Limit}} {
		raw := strings.TrimSpace(c.Query(f.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusNotFound, "invalid_page", errors.New("invalid page"))
			return p, false
		}
		*f.dst = n
	}
	return p, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondServiceError(c, apierr.BadRequest("invalid_query", name+": enter a whole number"))
		return 0, false
	}
	return n, true
}

func boolQuery(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

func respondPage[T any](c *gin.Context, p services.Page[T]) {
	if p.Page.Page > 1 && len(p.Results) == 0 {
		response.RespondError(c, http.StatusNotFound, "invalid_page", errors.New("invalid page"))
		return
	}
	results := p.Results
	if results == nil {
		results = []T{}
	}
	response.RespondPage(c, p.Count, p.Page.Page, p.Page.Limit, p.HasNext(), results)
}
