package social

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;column:user_id" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index;column:recipe_id" json:"recipe_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }

type ShoppingCartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe;column:user_id" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe;index;column:recipe_id" json:"recipe_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ShoppingCartItem) TableName() string { return "shopping_cart" }

// Subscription means UserID follows AuthorID.
type Subscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author;column:user_id" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author;index;column:author_id" json:"author_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Subscription) TableName() string { return "subscription" }
