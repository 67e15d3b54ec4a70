package db

import (
	"errors"
	"log"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/internal/config"
)

// Migrate applies the SQL migrations in dir when enabled, otherwise falls
// back to AutoMigrate (dev convenience).
func Migrate(db *gorm.DB, cfg *config.Config, dir string) error {
	if cfg.App.Migrations {
		log.Println("[DB] running SQL migrations from", dir)
		return RunSQLMigrations(cfg.Database.URL(), dir)
	}
	return AutoMigrate(db)
}

// RunSQLMigrations executes migrations in dir using the golang-migrate file source.
func RunSQLMigrations(url, dir string) error {
	m, err := migrate.New("file://"+dir, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
