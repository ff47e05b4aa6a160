package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clientdesk/internal/config"
	"clientdesk/internal/database"
	"clientdesk/internal/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	db, err := database.Init(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	r, err := server.NewRouter(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("router init failed")
	}

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("starting server")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
