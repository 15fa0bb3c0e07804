package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/keydrop/keydrop/internal/config"
	"github.com/keydrop/keydrop/internal/db"
	"github.com/keydrop/keydrop/internal/repository"
	"github.com/keydrop/keydrop/internal/service"
	"github.com/keydrop/keydrop/internal/storage"
)

// App is the application context: configuration plus every service, built
// once at startup and passed to the request layer. There is no process-wide
// mutable state outside of it.
type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	AuthService   *service.AuthService
	KeyService    *service.KeyService
	UploadService *service.UploadService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	accountRepository := repository.NewAccountRepository(database)
	keyRepository := repository.NewAPIKeyRepository(database)
	fileRepository := repository.NewStoredFileRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(
		accountRepository,
		cfg.SecretKey,
		cfg.IsProduction(),
		cfg.SessionExpiry,
	)
	keyService := service.NewKeyService(keyRepository)
	uploadService := service.NewUploadService(fileRepository, fileStorage)

	return &App{
		Cfg:           cfg,
		DB:            database,
		AuthService:   authService,
		KeyService:    keyService,
		UploadService: uploadService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
