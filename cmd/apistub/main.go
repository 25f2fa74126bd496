// Command apistub runs the in-memory reservation API locally.  It
// exists for development and demos: point reservationctl's API_URL at
// it and the whole client works without the real backend.  All data
// lives in memory and is lost on exit.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/reservation-client/internal/apistub"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Str("service", "apistub").Logger()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	srv := apistub.New(apistub.Config{
		JWTSecret: os.Getenv("JWT_SECRET"), // empty falls back to the dev default
	})

	addr := ":" + port
	log.Info().Str("addr", addr).Msg("stub reservation API listening")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
