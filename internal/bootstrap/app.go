package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"scholardocs/internal/applications"
	"scholardocs/internal/documents"
	"scholardocs/internal/email"
	"scholardocs/internal/extract"
	"scholardocs/internal/extract/ocr"
	"scholardocs/internal/notifications"
	"scholardocs/internal/realtime"
	"scholardocs/internal/scheduler"
	"scholardocs/internal/scholarships"
	"scholardocs/internal/shared/config"
	"scholardocs/internal/shared/server"
	"scholardocs/internal/shared/storage/db"
	"scholardocs/internal/shared/storage/object"
	gcsstore "scholardocs/internal/shared/storage/object/gcs"
	localstore "scholardocs/internal/shared/storage/object/local"
	s3store "scholardocs/internal/shared/storage/object/s3"
	"scholardocs/internal/users"
)

// App holds shared dependencies wired from configuration.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	Hub    *realtime.Hub
	OCR    ocr.Engine
	Email  email.Sender

	ApplicationsRepo  applications.Repo
	DocumentsRepo     documents.Repo
	NotificationsRepo notifications.Repo
	ScholarshipsRepo  scholarships.Repo
	UsersRepo         users.Repo

	DocumentsService     *documents.Service
	NotificationsService *notifications.Service
	Scheduler            *scheduler.Scheduler

	DocumentsHandler     *documents.Handler
	NotificationsHandler *notifications.Handler
	RealtimeHandler      *realtime.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine, err := buildOCR(cfg)
	if err != nil {
		return nil, err
	}

	sender, err := buildEmail(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub()
	go hub.Run()

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Hub:    hub,
		OCR:    engine,
		Email:  sender,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:               app.Config,
		DocumentsHandler:     app.DocumentsHandler,
		NotificationsHandler: app.NotificationsHandler,
		RealtimeHandler:      app.RealtimeHandler,
	})

	return app, nil
}

// Close releases long-lived resources. Safe to call once, after the
// server has stopped serving requests.
func (a *App) Close() error {
	if a.Hub != nil {
		a.Hub.Stop()
	}
	var firstErr error
	if a.OCR != nil {
		if err := a.OCR.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
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

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SignedURLTTL)
	case "gcs":
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=gcs requires GCS_BUCKET")
		}
		return gcsstore.New(ctx, cfg.GCSBucket, cfg.S3Prefix, cfg.SignedURLTTL)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildOCR(cfg config.Config) (ocr.Engine, error) {
	engine, err := ocr.NewTesseract(cfg.OCRLanguage, cfg.OCRWorkers)
	if err != nil {
		// Image uploads degrade to unverified without OCR; PDF and Word
		// extraction still work, so dev can run without tesseract installed.
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: OCR unavailable; image extraction disabled: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("init ocr: %w", err)
	}
	return engine, nil
}

func buildEmail(ctx context.Context, cfg config.Config) (email.Sender, error) {
	if strings.TrimSpace(cfg.EmailRegion) == "" {
		log.Printf("bootstrap: SES_REGION empty; email sending disabled")
		return email.Disabled{}, nil
	}
	sender, err := email.NewSES(ctx, cfg.EmailRegion, cfg.EmailFrom)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: SES init failed; email sending disabled: %v", err)
			return email.Disabled{}, nil
		}
		return nil, fmt.Errorf("init ses: %w", err)
	}
	return sender, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.NotificationsRepo = &notifications.PGRepo{DB: app.DB}
		app.ScholarshipsRepo = &scholarships.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.NotificationsRepo = notifications.NewMemoryRepo()
		app.ScholarshipsRepo = scholarships.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.NotificationsService = &notifications.Service{
		Repo: app.NotificationsRepo,
		Push: app.Hub,
	}

	app.DocumentsService = &documents.Service{
		Store:     app.Store,
		Extractor: &extract.Extractor{OCR: app.OCR},
		Repo:      app.DocumentsRepo,
		Apps:      app.ApplicationsRepo,
		Notifier:  app.NotificationsService,
	}

	app.Scheduler = scheduler.New(
		app.ScholarshipsRepo,
		app.UsersRepo,
		app.NotificationsService,
		app.Email,
		app.Config.DeadlineScanInterval,
		app.Config.NewScholarshipScanInterval,
	)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService, app.Config.UploadTmpDir)
	app.NotificationsHandler = notifications.NewHandler(app.NotificationsService)
	app.RealtimeHandler = realtime.NewHandler(app.Hub)
}
