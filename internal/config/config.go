package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Catalog sources.
const (
	CatalogSourceBuiltin  = "builtin"
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// Gateway serve modes.
const (
	ModeHTTP = "http"
	ModeMCP  = "mcp"
)

// Config holds configuration for the gateway.
type Config struct {
	Mode     string
	HTTPPort string

	Catalog   CatalogConfig
	Admission AdmissionConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Audit     AuditConfig
}

// CatalogConfig selects where the provider catalog is loaded from.
type CatalogConfig struct {
	Source string // builtin, file or postgres
	File   string // YAML path when Source == file
}

// AdmissionConfig holds token budget settings.
type AdmissionConfig struct {
	InputShare float64 // fraction of the context window reserved for input
}

// DatabaseConfig holds database connection settings; only consulted when the
// catalog source is postgres.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// RedisConfig holds Redis connection settings for the audit queue.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// AuditConfig holds configuration for the dispatch audit trail.
type AuditConfig struct {
	Enabled       bool
	UseRedis      bool          // buffer records in Redis instead of memory
	QueueName     string        // audit queue name/key
	BatchSize     int           // records per flush
	FlushInterval time.Duration // flush a partial batch after this long

	FilePathTemplate string // JSONL file template, one %s for the timestamp
	FileMaxSize      int64  // bytes before rotation
	FileMaxFiles     int    // rotated files to keep

	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Prefix  string
	PodName   string
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvFloat(key string, defaultValue float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	floatVal, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultValue
	}
	return floatVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Mode:     getEnvString("GATEWAY_MODE", ModeHTTP),
		HTTPPort: getEnvString("HTTP_PORT", "8080"),
		Catalog: CatalogConfig{
			Source: getEnvString("CATALOG_SOURCE", CatalogSourceBuiltin),
			File:   getEnvString("CATALOG_FILE", ""),
		},
		Admission: AdmissionConfig{
			InputShare: getEnvFloat("ADMISSION_INPUT_SHARE", 0.8),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
			QueryTimeout:    getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnvString("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Audit: AuditConfig{
			Enabled:          getEnvString("AUDIT_ENABLED", "true") == "true",
			UseRedis:         getEnvString("AUDIT_USE_REDIS", "false") == "true",
			QueueName:        getEnvString("AUDIT_QUEUE_NAME", "dispatch"),
			BatchSize:        getEnvInt("AUDIT_BATCH_SIZE", 100),
			FlushInterval:    getEnvDuration("AUDIT_FLUSH_INTERVAL", 5*time.Second),
			FilePathTemplate: getEnvString("AUDIT_FILE_PATH_TEMPLATE", "/var/log/model-gateway/audit-%s.jsonl"),
			FileMaxSize:      getEnvInt64("AUDIT_FILE_MAX_SIZE", 10_485_760), // default 10 MB
			FileMaxFiles:     getEnvInt("AUDIT_FILE_MAX_FILES", 5),
			S3Enabled:        getEnvString("AUDIT_S3_ENABLED", "false") == "true",
			S3Bucket:         getEnvString("AUDIT_S3_BUCKET", ""),
			S3Region:         getEnvString("AUDIT_S3_REGION", "us-east-1"),
			S3Prefix:         getEnvString("AUDIT_S3_PREFIX", "audit/"),
			PodName:          getEnvString("POD_NAME", "gateway-0"),
		},
	}

	switch cfg.Mode {
	case ModeHTTP, ModeMCP:
	default:
		return nil, fmt.Errorf("GATEWAY_MODE must be %q or %q, got %q", ModeHTTP, ModeMCP, cfg.Mode)
	}

	switch cfg.Catalog.Source {
	case CatalogSourceBuiltin:
	case CatalogSourceFile:
		if cfg.Catalog.File == "" {
			return nil, fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case CatalogSourcePostgres:
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.Catalog.Source)
	}

	if cfg.Audit.S3Enabled && cfg.Audit.S3Bucket == "" {
		return nil, fmt.Errorf("AUDIT_S3_BUCKET is required when AUDIT_S3_ENABLED=true")
	}

	return cfg, nil
}
