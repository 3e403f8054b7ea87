package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes GORM tags cannot express. The statements run on both
// Postgres and SQLite.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_recipe_created_at_desc ON recipe (created_at DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_ingredient_name_lower ON ingredient (LOWER(name));`,
		`CREATE INDEX IF NOT EXISTS idx_recipe_tag_tag_id ON recipe_tag (tag_id);`,
		`CREATE INDEX IF NOT EXISTS idx_shopping_cart_user_created ON shopping_cart (user_id, created_at);`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
