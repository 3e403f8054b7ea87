package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects requests without a valid token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.attach(c) {
			return
		}
		if ctxutil.CurrentUserID(c.Request.Context()) == 0 {
			response.RespondServiceError(c, apierr.Unauthorized("not_authenticated", "authentication credentials were not provided"))
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous requests
// through. A token that is sent but invalid is still rejected.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.attach(c) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context) bool {
	tokenString := extractToken(c)
	if tokenString == "" {
		return true
	}
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("Rejected token", "error", err)
		response.RespondServiceError(c, err)
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

// extractToken accepts "Token <t>" and "Bearer <t>" authorization headers.
func extractToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
