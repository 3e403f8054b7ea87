package response

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a service error onto its status. Internal errors are logged
// by the caller and never echoed to the client.
func RespondServiceError(c *gin.Context, err error) {
	status, code := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, status, code, errors.New("internal server error"))
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// PageEnvelope is the paginated list body.
type PageEnvelope struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// RespondPage writes a page with next/previous links built from the request URL, keeping
// every other query parameter.
func RespondPage(c *gin.Context, count int64, page, limit int, hasNext bool, results any) {
	env := PageEnvelope{Count: count, Results: results}
	if hasNext {
		next := pageURL(c, page+1, limit)
		env.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1, limit)
		env.Previous = &prev
	}
	c.JSON(http.StatusOK, env)
}

func pageURL(c *gin.Context, page, limit int) string {
	u := url.URL{Scheme: "http", Host: c.Request.Host, Path: c.Request.URL.Path}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
