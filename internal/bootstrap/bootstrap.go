package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ajayk/studisdb/docs" // generated swagger docs
	appControllers "github.com/ajayk/studisdb/internal/app/controllers"
	appMigrations "github.com/ajayk/studisdb/internal/app/migrations"
	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/projection"
	appRoutes "github.com/ajayk/studisdb/internal/app/routes"
	appServices "github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/config"
	"github.com/ajayk/studisdb/internal/db"
	appMiddleware "github.com/ajayk/studisdb/internal/middleware"
	pkgAuth "github.com/ajayk/studisdb/internal/pkg/auth"
	"github.com/ajayk/studisdb/internal/pkg/filestorage"
	"github.com/ajayk/studisdb/internal/pkg/helpers"
	"github.com/ajayk/studisdb/internal/pkg/logger"
	"github.com/ajayk/studisdb/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             store.Store
	Services          *appServices.Services
	AuthController    *appControllers.AuthController
	RoleController    *appControllers.RoleController
	AdminController   *appControllers.AdminController
	TeacherController *appControllers.TeacherController
	SubjectController *appControllers.SubjectController
	YearSemController *appControllers.YearSemController
	StudentController *appControllers.StudentController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	JWTService        *pkgAuth.JWTService
	FileStorage       *filestorage.LocalStorage
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default roles.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), store.NewPostgresStore(dbPool), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes the store, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Store = store.NewPostgresStore(dbPool)

	baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	policies := make(map[models.EntityType]projection.Policy, len(models.AllTypes()))
	for _, t := range models.AllTypes() {
		policy, perr := projection.ParsePolicy(cfg.DeletePolicyFor(string(t)))
		if perr != nil {
			return nil, fmt.Errorf("delete policy for %s: %w", t, perr)
		}
		policies[t] = policy
	}

	deps.Services = appServices.NewServices(deps.Store, deps.JWTService, lgr, appServices.Options{
		StrictReferences: cfg.Integrity.StrictReferences,
		DeletePolicies:   policies,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth)
	deps.RoleController = appControllers.NewRoleController(deps.Services.Roles)
	deps.AdminController = appControllers.NewAdminController(deps.Services.Admins)
	deps.TeacherController = appControllers.NewTeacherController(deps.Services.Teachers)
	deps.SubjectController = appControllers.NewSubjectController(deps.Services.Subjects)
	deps.YearSemController = appControllers.NewYearSemController(deps.Services.YearSems)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Students, deps.FileStorage)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RoleController,
		deps.AdminController,
		deps.TeacherController,
		deps.SubjectController,
		deps.YearSemController,
		deps.StudentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
