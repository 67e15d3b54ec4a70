// Package db opens the database, applies migrations and seeds the admin account.
package db

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/config"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
)

// Connect opens PostgreSQL, retrying while the server starts.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel), TranslateError: true}

	dsn := cfg.ConnString()
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] connection attempt %d/10 failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Println("[DB] connected:", maskDSN(dsn))
	return db, nil
}

var passwordRe = regexp.MustCompile(`(password=)(\S+)`)
var urlPasswordRe = regexp.MustCompile(`(://[^:/]+:)([^@]+)(@)`)

func maskDSN(dsn string) string {
	dsn = passwordRe.ReplaceAllString(dsn, `${1}***`)
	return urlPasswordRe.ReplaceAllString(dsn, `${1}***${3}`)
}

// Models lists every table managed by AutoMigrate, parents first.
func Models() []any {
	return []any{
		&models.User{},
		&models.JobOffer{}, &models.JobApplication{},
		&models.Formation{}, &models.UserPayment{}, &models.FormationCompletion{},
		&models.Capsule{},
		&models.Interview{}, &models.InterviewApplication{},
		&models.DiffusionWorkshop{},
		&models.Notification{},
		&models.Test{}, &models.Question{}, &models.TestResult{},
	}
}

// AutoMigrate creates or updates the schema from the models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"users", "job_offers", "formations", "tests"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// SeedAdmin creates the admin account when no admin exists. It is idempotent.
func SeedAdmin(db *gorm.DB, seed config.AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", auth.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrateur",
		Email:    strings.ToLower(seed.Email),
		Password: string(hash),
		Role:     auth.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("[DB] seeded admin account %s", admin.Email)
	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite reports "UNIQUE constraint failed"
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
