package database

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"clientdesk/internal/models"
)

// Init opens the database, applies migrations and seeds the default
// accounts. TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func Init(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info().Int("attempt", i).Int("max", maxAttempts).Msg("connecting to database")

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}

		log.Warn().Err(err).Msg("database connection failed")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database after %d attempts: %w", maxAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seedDefaultAdmin(db)
	seedDemoUser(db)

	return db, nil
}

// Migrate creates the schema for every persisted entity. Exposed so tests
// can apply it to their own databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.File{},
		&models.AuditLog{},
	)
}

// the admin account comes only from config, never from registration
func seedDefaultAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@clientdesk.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		log.Warn().Err(err).Msg("failed to check for admin user")
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Warn().Err(err).Msg("failed to hash default admin password")
		return
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Warn().Err(err).Msg("failed to create default admin")
		return
	}

	log.Info().Str("email", email).Msg("created default admin user")
}

func seedDemoUser(db *gorm.DB) {
	const email = "user@clientdesk.local"

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Warn().Err(err).Msg("failed to check for demo user")
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("User123!"), bcrypt.DefaultCost)
	if err != nil {
		log.Warn().Err(err).Msg("failed to hash demo user password")
		return
	}

	user := models.User{
		Name:         "Demo User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Warn().Err(err).Msg("failed to create demo user")
		return
	}

	log.Info().Str("email", email).Msg("created demo user")
}
