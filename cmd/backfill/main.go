package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/config"
	"github.com/ajayk/studisdb/internal/db"
	"github.com/ajayk/studisdb/internal/pkg/logger"
)

// One-off backfill: gives every student document the default bio and
// curriculum sub-documents if they are missing.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer database.Close()

	st := store.NewPostgresStore(database.Pool)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	students, err := st.Find(ctx, models.EntityStudent, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list students")
		os.Exit(1)
	}

	updated := 0
	for _, student := range students {
		patch := store.Record{}
		if _, ok := student["studentBioDetails"]; !ok {
			patch["studentBioDetails"] = models.DefaultStudentBioDetails()
		}
		if _, ok := student["curriculumPrimary"]; !ok {
			patch["curriculumPrimary"] = models.DefaultCurriculumPrimary()
		}
		if len(patch) == 0 {
			continue
		}
		patch["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

		if _, err := st.Update(ctx, models.EntityStudent, store.ID(student), patch); err != nil {
			logger.Error().Err(err).Str("id", store.ID(student)).Msg("Failed to backfill student")
			continue
		}
		updated++
	}

	logger.Info().Int("scanned", len(students)).Int("updated", updated).Msg("Backfill complete")
}
