package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"healthdocs-backend/internal/analyses"
	"healthdocs-backend/internal/documents"
	"healthdocs-backend/internal/shared/config"
	"healthdocs-backend/internal/shared/server"
	"healthdocs-backend/internal/shared/storage/db"
	"healthdocs-backend/internal/shared/storage/object"
	localstore "healthdocs-backend/internal/shared/storage/object/local"
	miniostore "healthdocs-backend/internal/shared/storage/object/minio"
	"healthdocs-backend/internal/users"
)

// App holds shared process-wide dependencies: constructed once at startup,
// never torn down mid-process, reconstructed only on restart.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo
	AnalysesRepo  analyses.Repo

	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "minio":
		return miniostore.New(miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.BucketName,
			Region:    cfg.BucketRegion,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.BucketName), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
	} else {
		analysesMem := analyses.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.AnalysesRepo = analysesMem
		app.DocumentsRepo = documents.NewMemoryRepo(analysesMem)
	}

	app.DocumentsService = &documents.Service{
		Store:           app.Store,
		Docs:            app.DocumentsRepo,
		Users:           app.UsersRepo,
		Analyses:        app.AnalysesRepo,
		Bucket:          app.Config.BucketName,
		UploadURLTTL:    app.Config.UploadURLTTL,
		ListURLTTL:      app.Config.ListURLTTL,
		AnalysisVersion: app.Config.AnalysisVersion,
	}
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
