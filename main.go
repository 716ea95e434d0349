package main

import (
	"io"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/router"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title			Hearthledger API
// @description	The backend for Hearthledger, a household finance tracker with budget allocation and payment reconciliation.
// @license.name	AGPL-3.0
//
// @BasePath		/
func main() {
	// A .env file is optional, set environment variables take precedence
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		ginMode = "release"
	}
	gin.SetMode(ginMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		log.Fatal().Msg("environment variable API_URL must be set")
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg("environment variable API_URL must be a valid URL")
	}

	dbFile, ok := os.LookupEnv("DB_FILE")
	if !ok {
		dbFile = "data/hearthledger.db"
	}

	err = models.Connect(dbFile)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	r, teardown, err := router.Config(url)
	defer teardown()
	if err != nil {
		log.Fatal().Err(err).Msg("router initialization failed")
	}

	router.AttachRoutes(r.Group("/"))

	log.Info().Msg("backend startup complete")

	if err := r.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
