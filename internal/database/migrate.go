package database

import (
	"chatter/internal/models"

	"gorm.io/gorm"
)

// MigrationModels lists every model automigrated at startup, parents before
// children so foreign keys resolve.
func MigrationModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reply{},
		&models.Reaction{},
	}
}

// Migrate applies the schema for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(MigrationModels()...)
}
