// Package database owns the gorm connection and schema migration.
// File: database/database.go
package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
)

// DB is the shared gorm handle, set by Connect.
var DB *gorm.DB

// Connect opens the database connection and runs the automigration.
// Postgres is the intended production database; an empty URL or a
// sqlite:// URL opens a local sqlite file instead, for development.
func Connect(dbURL string) error {
	dialector := postgres.Open(dbURL)
	switch {
	case dbURL == "":
		dialector = sqlite.Open("ctfhub.db")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	DB = db
	logger.Info.Println("Connect: database connection established")
	return Migrate(db)
}

// Migrate creates or updates the schema for every entity. Safe to run
// multiple times.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Team{},
		&models.Member{},
		&models.Ctf{},
		&models.Category{},
		&models.Tag{},
		&models.Challenge{},
		&models.ChallengeFile{},
	)
}
