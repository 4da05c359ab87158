package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ajayk/studisdb/internal/pkg/logger"
	"github.com/ajayk/studisdb/internal/server"
)

// @title StudisDB API
// @version 1.0
// @description REST API for academic records: students, teachers, subjects, terms and roles, with reference population on reads

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
