package main

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/server"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("config file not loaded, using defaults")
		cfg = config.Default()
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	srv := server.New(database, cfg, log)

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
