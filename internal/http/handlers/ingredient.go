package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// GET /ingredients/?name=<prefix>
func (ih *IngredientHandler) List(c *gin.Context) {
	rows, err := ih.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (ih *IngredientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ing, err := ih.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, ing)
}

func (ih *IngredientHandler) Create(c *gin.Context) {
	var req services.IngredientInput
	if !bindJSON(c, &req) {
		return
	}
	ing, err := ih.ingredientService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, ing)
}
