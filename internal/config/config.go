package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	RedisAddr     string // optional; sessions use the cookie store when empty
	UploadDir     string

	// AttachmentsStrict makes a failed blob write fail the parent request
	// instead of being logged and swallowed.
	AttachmentsStrict bool
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:             os.Getenv("DB_DSN"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		AttachmentsStrict: os.Getenv("ATTACHMENTS_STRICT") == "true",
	}

	if cfg.DBDSN == "" {
		log.Fatal().Msg("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is not set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
