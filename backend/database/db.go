package database

import (
	"transect-admin/backend/config"
	"transect-admin/backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() error {
	var err error
	DB, err = gorm.Open(sqlite.Open(config.C.DatabasePath), &gorm.Config{})
	if err != nil {
		return err
	}
	return Migrate(DB)
}

// Migrate creates/updates the schema. Split out so tests can run it against
// an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Line{},
		&models.TeamMember{},
		&models.Outing{},
		&models.Issue{},
		&models.Audit{},
		&models.User{},
		&models.LogEntry{},
	)
}
