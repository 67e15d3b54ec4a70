package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/config"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(d); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSeedAdminIdempotent(t *testing.T) {
	d := openTestDB(t)
	seed := config.AdminSeed{Email: "Admin@Elite.test", Password: "secret123"}
	if err := SeedAdmin(d, seed); err != nil {
		t.Fatal(err)
	}
	if err := SeedAdmin(d, seed); err != nil {
		t.Fatal(err)
	}
	var admins []models.User
	d.Where("role = ?", auth.RoleAdmin).Find(&admins)
	if len(admins) != 1 {
		t.Fatalf("expected 1 admin, got %d", len(admins))
	}
	if admins[0].Email != "admin@elite.test" {
		t.Errorf("email = %q", admins[0].Email)
	}
}

func TestUniqueIndexes(t *testing.T) {
	d := openTestDB(t)
	u := models.User{Name: "A", Email: "a@b.com", Password: "x", Role: auth.RoleUtilisateur}
	d.Create(&u)
	f := models.Formation{Title: "F", Description: "d"}
	d.Create(&f)

	c := models.FormationCompletion{UserID: u.ID, FormationID: f.ID}
	if err := d.Create(&c).Error; err != nil {
		t.Fatal(err)
	}
	dup := models.FormationCompletion{UserID: u.ID, FormationID: f.ID}
	if err := d.Create(&dup).Error; !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil) || IsUniqueViolation(errors.New("boom")) {
		t.Error("false positives")
	}
	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Error("gorm duplicated key")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("pg 23505")
	}
}

func TestMaskDSN(t *testing.T) {
	if got := maskDSN("host=x password=secret dbname=y"); got != "host=x password=*** dbname=y" {
		t.Errorf("got %q", got)
	}
	if got := maskDSN("postgres://u:secret@h:5432/db"); got != "postgres://u:***@h:5432/db" {
		t.Errorf("got %q", got)
	}
}
