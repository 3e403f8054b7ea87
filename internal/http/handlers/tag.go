package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (th *TagHandler) List(c *gin.Context) {
	tags, err := th.tagService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tags)
}

func (th *TagHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := th.tagService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tag)
}

// Create is staff only.
func (th *TagHandler) Create(c *gin.Context) {
	var req services.TagInput
	if !bindJSON(c, &req) {
		return
	}
	tag, err := th.tagService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, tag)
}
