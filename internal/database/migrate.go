package database

import (
	"gorm.io/gorm"

	"github.com/feastly/backend/internal/models"
)

// RunMigrations brings the schema up to date. The schema is owned by
// the model definitions, so auto-migration is the single source of
// truth for every dialect.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.RecipeFavorite{},
	)
}
