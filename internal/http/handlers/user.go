package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type UserHandler struct {
	authService         services.AuthService
	userService         services.UserService
	subscriptionService services.SubscriptionService
}

func NewUserHandler(
	authService services.AuthService,
	userService services.UserService,
	subscriptionService services.SubscriptionService,
) *UserHandler {
	return &UserHandler{
		authService:         authService,
		userService:         userService,
		subscriptionService: subscriptionService,
	}
}

// POST /users/
func (uh *UserHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.authService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"email":      u.Email,
		"id":         u.ID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	})
}

// GET /users/
func (uh *UserHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	out, err := uh.userService.List(c.Request.Context(), page)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	respondPage(c, out)
}

// GET /users/:id/
func (uh *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := uh.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /users/me/
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// POST /users/set_password/
func (uh *UserHandler) SetPassword(c *gin.Context) {
	var req struct {
		NewPassword     string `json:"new_password"`
		CurrentPassword string `json:"current_password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := uh.authService.SetPassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// PUT /users/me/avatar/
// body: { "avatar": "data:image/png;base64,..." }
func (uh *UserHandler) SetAvatar(c *gin.Context) {
	var req struct {
		Avatar string `json:"avatar"`
	}
	if !bindJSON(c, &req) {
		return
	}
	url, err := uh.userService.SetAvatar(c.Request.Context(), req.Avatar)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"avatar": url})
}

// DELETE /users/me/avatar/
func (uh *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := uh.userService.DeleteAvatar(c.Request.Context()); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /users/subscriptions/?recipes_limit=
func (uh *UserHandler) Subscriptions(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "recipes_limit")
	if !ok {
		return
	}
	out, err := uh.subscriptionService.ListSubscriptions(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	respondPage(c, out)
}

// POST /users/:id/subscribe/?recipes_limit=
func (uh *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "recipes_limit")
	if !ok {
		return
	}
	card, err := uh.subscriptionService.Subscribe(c.Request.Context(), id, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, card)
}

// DELETE /users/:id/subscribe/
func (uh *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := uh.subscriptionService.Unsubscribe(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
