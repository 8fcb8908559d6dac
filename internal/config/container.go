package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pdf-summarizer/internal/domain"
	"pdf-summarizer/internal/infra/storage"
	"pdf-summarizer/internal/infra/supabase"
	"pdf-summarizer/internal/repository"
	"pdf-summarizer/internal/service"
	"pdf-summarizer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *AppConfig
	Logger domain.Logger

	DB       *sql.DB
	Supabase *supabase.Client

	UserRepository     domain.UserRepository
	DocumentRepository domain.DocumentRepository
	BlobStorage        storage.Storage
	Extractor          domain.TextExtractor
	Summarizer         *service.AIService

	AuthService     domain.AuthService
	DocumentService domain.DocumentService
}

// NewContainer wires every component from cfg. On error, whatever was
// already opened is closed.
func NewContainer(ctx context.Context, cfg *AppConfig) (c *Container, err error) {
	c = &Container{
		Config: cfg,
		Logger: logger.NewLogger(cfg.LogLevel, cfg.LogFormat),
	}
	defer func() {
		if err != nil {
			_ = c.Close()
			c = nil
		}
	}()

	if err := c.initStore(ctx); err != nil {
		return c, err
	}

	c.Extractor = newExtractor(cfg.PDFExtractor, c.Logger)

	c.Summarizer, err = service.NewAIService(ctx, service.AIConfig{
		ProjectID: cfg.GoogleCloudProject,
		Location:  cfg.GoogleCloudLocation,
		Model:     cfg.GeminiModel,
		APIKey:    cfg.GoogleAPIKey,
	}, c.Logger)
	if err != nil {
		return c, err
	}

	c.BlobStorage, err = storage.New(cfg.storageOptions())
	if err != nil {
		return c, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	c.AuthService = service.NewAuthService(c.UserRepository, c.Logger, 0)
	c.DocumentService = service.NewDocumentService(c.Extractor, c.Summarizer, c.BlobStorage, c.DocumentRepository, c.Logger)

	c.Logger.Info("Container initialized",
		"store", cfg.StoreBackend,
		"extractor", cfg.PDFExtractor,
		"blob_storage", cfg.BlobStorage,
	)
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.StoreBackend {
	case StoreBackendSupabase:
		client, err := supabase.NewClient(c.Config.SupabaseURL, c.Config.SupabaseKey, c.Logger)
		if err != nil {
			return err
		}
		c.Supabase = client
		c.UserRepository = repository.NewSupabaseUserRepository(client, c.Logger)
		c.DocumentRepository = repository.NewSupabaseDocumentRepository(client, c.Logger)
		return nil

	default:
		db, err := repository.OpenPostgres(ctx, c.Config.DatabaseURL)
		if err != nil {
			return err
		}
		c.DB = db
		if c.Config.AutoMigrate {
			if err := repository.RunMigrations(ctx, db); err != nil {
				return err
			}
			c.Logger.Info("Database migrations applied")
		}
		c.UserRepository = repository.NewPostgresUserRepository(db)
		c.DocumentRepository = repository.NewPostgresDocumentRepository(db)
		return nil
	}
}

func newExtractor(name string, log domain.Logger) domain.TextExtractor {
	if name == ExtractorPure {
		return service.NewPurePDFProcessor(log)
	}
	return service.NewPDFProcessor(log)
}

func (c *AppConfig) storageOptions() storage.Options {
	return storage.Options{
		Backend:   c.BlobStorage,
		LocalPath: c.UploadPath,
		S3: storage.S3Options{
			Endpoint:        c.S3.Endpoint,
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
		},
		Supabase: storage.SupabaseOptions{
			BaseURL: c.SupabaseURL,
			APIKey:  c.SupabaseKey,
			Bucket:  c.SupabaseStorageBucket,
		},
	}
}

// Close releases the database, model client and blob storage.
func (c *Container) Close() error {
	var errs []error
	if c.Summarizer != nil {
		errs = append(errs, c.Summarizer.Close())
	}
	if c.BlobStorage != nil {
		errs = append(errs, c.BlobStorage.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
