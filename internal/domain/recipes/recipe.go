package recipes

import (
	"time"

	"github.com/yungbote/foodgram-backend/internal/domain/user"
)

type Recipe struct {
	ID             uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID       uint               `gorm:"not null;index;column:author_id" json:"-"`
	Author         *user.User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Name           string             `gorm:"not null;size:200;column:name" json:"name"`
	Text           string             `gorm:"not null;type:text;column:text" json:"text"`
	ImageBucketKey string             `gorm:"column:image_bucket_key" json:"-"`
	ImageURL       string             `gorm:"column:image_url" json:"image"`
	CookingTime    int                `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1;column:cooking_time" json:"cooking_time"`
	Tags           []Tag              `gorm:"many2many:recipe_tag;joinForeignKey:RecipeID;joinReferences:TagID" json:"tags"`
	Ingredients    []RecipeIngredient `gorm:"foreignKey:RecipeID;references:ID" json:"ingredients"`
	CreatedAt      time.Time          `gorm:"not null;autoCreateTime;index" json:"-"`
	UpdatedAt      time.Time          `gorm:"not null;autoUpdateTime" json:"-"`
}

func (Recipe) TableName() string { return "recipe" }

// RecipeIngredient is the amount of one ingredient a recipe needs.
type RecipeIngredient struct {
	ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;column:recipe_id" json:"-"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;index;column:ingredient_id" json:"-"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;references:ID" json:"ingredient,omitempty"`
	Amount       int         `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1;column:amount" json:"amount"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }
