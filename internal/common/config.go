package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	LogLevel string
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Crop     CropConfig
	Storage  StorageConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string // "postgres" | "sqlite"
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine              string // "tesseract" | "gosseract"
	Tesseract           string
	Language            string
	TessdataDir         string
	HeicConverter       string
	ArtifactCacheDir    string
	PSM                 int
	EnableTSVConfidence bool
}

// CropConfig holds defaults for the automatic crop step.
type CropConfig struct {
	MaxDimension int
	JPEGQuality  int
}

// StorageConfig holds blob storage configuration
type StorageConfig struct {
	Root          string
	Bucket        string
	PublicBaseURL string
}

// IngestConfig holds inbox watcher and worker configuration
type IngestConfig struct {
	InboxDir       string
	Debounce       time.Duration
	PairWindow     time.Duration
	Workers        int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Driver:           getEnv("DB_DRIVER", "sqlite"),
			DSN:              getEnv("DB_URL", "file:cards.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Engine:              getEnv("OCR_ENGINE", "tesseract"),
			Tesseract:           getEnv("TESSERACT_BIN", "tesseract"),
			Language:            getEnv("OCR_LANG", "eng"),
			TessdataDir:         getEnv("TESSDATA_PREFIX", ""),
			HeicConverter:       getEnv("HEIC_CONVERTER", "magick"),
			ArtifactCacheDir:    getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			PSM:                 getEnvAsInt("OCR_PSM", 0),
			EnableTSVConfidence: getEnvAsBool("OCR_TSV_CONFIDENCE", false),
		},
		Crop: CropConfig{
			MaxDimension: getEnvAsInt("CROP_MAX_DIMENSION", 2000),
			JPEGQuality:  getEnvAsInt("CROP_JPEG_QUALITY", 95),
		},
		Storage: StorageConfig{
			Root:          getEnv("STORAGE_ROOT", "./storage"),
			Bucket:        getEnv("STORAGE_BUCKET", "Cards_images"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:8081/storage"),
		},
		Ingest: IngestConfig{
			InboxDir:       getEnv("INBOX_DIR", "./inbox"),
			Debounce:       getEnvAsDuration("INGEST_DEBOUNCE", 500*time.Millisecond),
			PairWindow:     getEnvAsDuration("INGEST_PAIR_WINDOW", 5*time.Second),
			Workers:        getEnvAsInt("INGEST_WORKERS", 2),
			ProcessTimeout: getEnvAsDuration("INGEST_TIMEOUT", 2*time.Minute),
		},
	}
}

// fileConfig mirrors the TOML layout. Durations are strings ("5s").
type fileConfig struct {
	LogLevel string `toml:"log_level"`
	Database struct {
		Driver           string `toml:"driver"`
		DSN              string `toml:"dsn"`
		MaxConns         int32  `toml:"max_conns"`
		MinConns         int32  `toml:"min_conns"`
		DialTimeout      string `toml:"dial_timeout"`
		StatementTimeout string `toml:"statement_timeout"`
	} `toml:"database"`
	Server struct {
		GRPCAddr string `toml:"grpc_addr"`
	} `toml:"server"`
	OCR struct {
		Engine              string `toml:"engine"`
		Tesseract           string `toml:"tesseract"`
		Language            string `toml:"language"`
		TessdataDir         string `toml:"tessdata_dir"`
		HeicConverter       string `toml:"heic_converter"`
		ArtifactCacheDir    string `toml:"artifact_cache_dir"`
		PSM                 int    `toml:"psm"`
		EnableTSVConfidence bool   `toml:"tsv_confidence"`
	} `toml:"ocr"`
	Crop struct {
		MaxDimension int `toml:"max_dimension"`
		JPEGQuality  int `toml:"jpeg_quality"`
	} `toml:"crop"`
	Storage struct {
		Root          string `toml:"root"`
		Bucket        string `toml:"bucket"`
		PublicBaseURL string `toml:"public_base_url"`
	} `toml:"storage"`
	Ingest struct {
		InboxDir       string `toml:"inbox_dir"`
		Debounce       string `toml:"debounce"`
		PairWindow     string `toml:"pair_window"`
		Workers        int    `toml:"workers"`
		ProcessTimeout string `toml:"process_timeout"`
	} `toml:"ingest"`
}

// LoadConfigFile starts from the environment and overlays every key defined in
// the TOML file at path. An empty path returns the environment config.
func LoadConfigFile(path string) (*Config, error) {
	cfg := LoadConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	setStr := func(dst *string, v string, key ...string) {
		if meta.IsDefined(key...) {
			*dst = strings.TrimSpace(v)
		}
	}
	setDur := func(dst *time.Duration, v string, key ...string) error {
		if !meta.IsDefined(key...) {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", strings.Join(key, "."), err)
		}
		*dst = d
		return nil
	}

	setStr(&cfg.LogLevel, raw.LogLevel, "log_level")

	setStr(&cfg.Database.Driver, raw.Database.Driver, "database", "driver")
	setStr(&cfg.Database.DSN, raw.Database.DSN, "database", "dsn")
	if meta.IsDefined("database", "max_conns") {
		cfg.Database.MaxConns = raw.Database.MaxConns
	}
	if meta.IsDefined("database", "min_conns") {
		cfg.Database.MinConns = raw.Database.MinConns
	}
	if err := setDur(&cfg.Database.DialTimeout, raw.Database.DialTimeout, "database", "dial_timeout"); err != nil {
		return nil, err
	}
	if err := setDur(&cfg.Database.StatementTimeout, raw.Database.StatementTimeout, "database", "statement_timeout"); err != nil {
		return nil, err
	}

	setStr(&cfg.Server.GRPCAddr, raw.Server.GRPCAddr, "server", "grpc_addr")

	setStr(&cfg.OCR.Engine, raw.OCR.Engine, "ocr", "engine")
	setStr(&cfg.OCR.Tesseract, raw.OCR.Tesseract, "ocr", "tesseract")
	setStr(&cfg.OCR.Language, raw.OCR.Language, "ocr", "language")
	setStr(&cfg.OCR.TessdataDir, raw.OCR.TessdataDir, "ocr", "tessdata_dir")
	setStr(&cfg.OCR.HeicConverter, raw.OCR.HeicConverter, "ocr", "heic_converter")
	setStr(&cfg.OCR.ArtifactCacheDir, raw.OCR.ArtifactCacheDir, "ocr", "artifact_cache_dir")
	if meta.IsDefined("ocr", "psm") {
		cfg.OCR.PSM = raw.OCR.PSM
	}
	if meta.IsDefined("ocr", "tsv_confidence") {
		cfg.OCR.EnableTSVConfidence = raw.OCR.EnableTSVConfidence
	}

	if meta.IsDefined("crop", "max_dimension") {
		cfg.Crop.MaxDimension = raw.Crop.MaxDimension
	}
	if meta.IsDefined("crop", "jpeg_quality") {
		cfg.Crop.JPEGQuality = raw.Crop.JPEGQuality
	}

	setStr(&cfg.Storage.Root, raw.Storage.Root, "storage", "root")
	setStr(&cfg.Storage.Bucket, raw.Storage.Bucket, "storage", "bucket")
	setStr(&cfg.Storage.PublicBaseURL, raw.Storage.PublicBaseURL, "storage", "public_base_url")

	setStr(&cfg.Ingest.InboxDir, raw.Ingest.InboxDir, "ingest", "inbox_dir")
	if err := setDur(&cfg.Ingest.Debounce, raw.Ingest.Debounce, "ingest", "debounce"); err != nil {
		return nil, err
	}
	if err := setDur(&cfg.Ingest.PairWindow, raw.Ingest.PairWindow, "ingest", "pair_window"); err != nil {
		return nil, err
	}
	if err := setDur(&cfg.Ingest.ProcessTimeout, raw.Ingest.ProcessTimeout, "ingest", "process_timeout"); err != nil {
		return nil, err
	}
	if meta.IsDefined("ingest", "workers") {
		cfg.Ingest.Workers = raw.Ingest.Workers
	}

	return cfg, nil
}

// SlogLevel maps LogLevel onto slog; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("DB_DRIVER", c.Database.Driver, OneOf("postgres", "sqlite"))
	v.Field("DB_URL", c.Database.DSN, Required)
	v.Field("OCR_ENGINE", c.OCR.Engine, OneOf("tesseract", "gosseract"))
	v.Field("HEIC_CONVERTER", c.OCR.HeicConverter, OneOf("", "heif-convert", "magick", "sips"))
	v.Field("STORAGE_ROOT", c.Storage.Root, Required)
	v.Field("STORAGE_BUCKET", c.Storage.Bucket, Required)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	if c.Crop.JPEGQuality < 1 || c.Crop.JPEGQuality > 100 {
		return NewAppError("CONFIG_ERROR", "CROP_JPEG_QUALITY must be within 1..100", ErrInvalidInput)
	}
	return nil
}
