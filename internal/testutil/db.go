// Package testutil provides shared test fixtures: an isolated in-memory
// database with the full schema, and seeded accounts.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"clientdesk/internal/database"
	"clientdesk/internal/models"
)

// Password is the plaintext credential every seeded user gets.
const Password = "password"

// DB opens an isolated in-memory database with the schema applied.
// TranslateError stays on so unique-index violations surface exactly as
// they do against postgres.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// a fresh :memory: database per connection would lose the schema
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedUser creates a user with the given role and the shared Password.
func SeedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Name:         email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

// SeedClient creates a client with unique-enough fields derived from name.
func SeedClient(t *testing.T, db *gorm.DB, name, email string) *models.Client {
	t.Helper()

	client := models.Client{
		Name:    name,
		Email:   email,
		Phone:   "555-0100",
		Company: name + " Co",
		Address: "1 Main St",
		Status:  models.ClientActive,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client %s: %v", name, err)
	}
	return &client
}

// SeedProject creates a pending project owned by user for client.
func SeedProject(t *testing.T, db *gorm.DB, clientID, userID uint, title string) *models.Project {
	t.Helper()

	project := models.Project{
		ClientID: clientID,
		UserID:   userID,
		Title:    title,
		Status:   models.StatusPending,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}
	return &project
}
