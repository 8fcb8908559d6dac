package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendSupabase = "supabase"

	ExtractorFitz = "fitz"
	ExtractorPure = "pure"

	BlobStorageLocal    = "local"
	BlobStorageS3       = "s3"
	BlobStorageSupabase = "supabase"

	minSessionSecretLength = 32
)

// S3Config holds settings for the S3 blob archive.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// AppConfig is loaded once at startup and passed explicitly to every component.
type AppConfig struct {
	ServerPort  string `yaml:"server_port"`
	UploadPath  string `yaml:"upload_path"`
	MaxFileSize int64  `yaml:"max_file_size"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	StoreBackend string `yaml:"store_backend"`
	DatabaseURL  string `yaml:"database_url"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
	SupabaseURL  string `yaml:"supabase_url"`
	SupabaseKey  string `yaml:"supabase_key"`

	SessionSecret string `yaml:"session_secret"`
	SessionMaxAge int    `yaml:"session_max_age"`
	CookieSecure  bool   `yaml:"cookie_secure"`

	GoogleAPIKey        string `yaml:"google_api_key"`
	GoogleCloudProject  string `yaml:"google_cloud_project"`
	GoogleCloudLocation string `yaml:"google_cloud_location"`
	GeminiModel         string `yaml:"gemini_model"`

	PDFExtractor          string   `yaml:"pdf_extractor"`
	BlobStorage           string   `yaml:"blob_storage"`
	SupabaseStorageBucket string   `yaml:"supabase_storage_bucket"`
	S3                    S3Config `yaml:"s3"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *AppConfig {
	return &AppConfig{
		ServerPort:            "8080",
		UploadPath:            "./uploads",
		MaxFileSize:           50 * 1024 * 1024, // 50MB default
		LogLevel:              "info",
		LogFormat:             "text",
		StoreBackend:          StoreBackendPostgres,
		AutoMigrate:           true,
		SessionMaxAge:         7 * 24 * 60 * 60,
		GoogleCloudLocation:   "us-central1",
		GeminiModel:           "gemini-2.0-flash-001",
		PDFExtractor:          ExtractorFitz,
		BlobStorage:           BlobStorageLocal,
		SupabaseStorageBucket: "pdfs",
		CORSAllowedOrigins:    []string{"http://localhost:3000"},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and environment variables, in that order, then validates it.
func Load() (*AppConfig, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	// Cloud Run (and many PaaS) provide the listening port via PORT.
	// Keep SERVER_PORT for local/dev compatibility.
	c.ServerPort = getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", c.ServerPort))
	c.UploadPath = getEnvOrDefault("UPLOAD_PATH", c.UploadPath)
	c.MaxFileSize = getEnvInt64OrDefault("MAX_FILE_SIZE", c.MaxFileSize)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)

	c.StoreBackend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", c.StoreBackend))
	c.DatabaseURL = getEnvOrDefault("DATABASE_URL", c.DatabaseURL)
	c.AutoMigrate = getEnvBoolOrDefault("AUTO_MIGRATE", c.AutoMigrate)
	c.SupabaseURL = getEnvOrDefault("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseKey = getEnvOrDefault("SUPABASE_ANON_KEY", c.SupabaseKey)

	c.SessionSecret = getEnvOrDefault("SESSION_SECRET", c.SessionSecret)
	c.SessionMaxAge = int(getEnvInt64OrDefault("SESSION_MAX_AGE", int64(c.SessionMaxAge)))
	c.CookieSecure = getEnvBoolOrDefault("COOKIE_SECURE", c.CookieSecure)

	c.GoogleAPIKey = getEnvOrDefault("GOOGLE_API_KEY", c.GoogleAPIKey)
	c.GoogleCloudProject = getEnvOrDefault("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	c.GoogleCloudLocation = getEnvOrDefault("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	c.GeminiModel = getEnvOrDefault("GEMINI_MODEL", c.GeminiModel)

	c.PDFExtractor = strings.ToLower(getEnvOrDefault("PDF_EXTRACTOR", c.PDFExtractor))
	c.BlobStorage = strings.ToLower(getEnvOrDefault("BLOB_STORAGE", c.BlobStorage))
	c.SupabaseStorageBucket = getEnvOrDefault("SUPABASE_STORAGE_BUCKET", c.SupabaseStorageBucket)
	c.S3.Bucket = getEnvOrDefault("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnvOrDefault("S3_REGION", c.S3.Region)
	c.S3.Endpoint = getEnvOrDefault("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.AccessKeyID = getEnvOrDefault("S3_ACCESS_KEY_ID", c.S3.AccessKeyID)
	c.S3.SecretAccessKey = getEnvOrDefault("S3_SECRET_ACCESS_KEY", c.S3.SecretAccessKey)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.UploadPath == "" {
		errs = append(errs, errors.New("UPLOAD_PATH is required"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}

	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case StoreBackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	} else if len(c.SessionSecret) < minSessionSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLength))
	}
	if c.SessionMaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}

	if c.GoogleAPIKey == "" {
		errs = append(errs, errors.New("GOOGLE_API_KEY is required"))
	}
	if c.GoogleCloudProject == "" {
		errs = append(errs, errors.New("GOOGLE_CLOUD_PROJECT is required"))
	}

	switch c.PDFExtractor {
	case ExtractorFitz, ExtractorPure:
	default:
		errs = append(errs, fmt.Errorf("unknown PDF_EXTRACTOR %q", c.PDFExtractor))
	}

	switch c.BlobStorage {
	case BlobStorageLocal:
	case BlobStorageS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			errs = append(errs, errors.New("S3_BUCKET and S3_REGION are required for s3 blob storage"))
		}
	case BlobStorageSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for supabase blob storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_STORAGE %q", c.BlobStorage))
	}

	return errors.Join(errs...)
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
