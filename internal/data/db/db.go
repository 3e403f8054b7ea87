package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/platform/envutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// Open connects to the database selected by DB_DRIVER (postgres or sqlite).
func Open(log *logger.Logger) (*gorm.DB, error) {
	switch driver := strings.ToLower(envutil.String("DB_DRIVER", "postgres", log)); driver {
	case "postgres", "postgresql":
		pg, err := NewPostgresService(log)
		if err != nil {
			return nil, err
		}
		return pg.DB(), nil
	case "sqlite", "sqlite3":
		lite, err := NewSQLiteService(envutil.String("SQLITE_PATH", "foodgram.db", log), log)
		if err != nil {
			return nil, err
		}
		return lite.DB(), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Migrate runs AutoMigrateAll followed by EnsureIndexes.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return err
	}
	return EnsureIndexes(db)
}
