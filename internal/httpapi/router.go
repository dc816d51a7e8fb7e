package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"model_gateway/internal/admission"
	"model_gateway/internal/catalog"
	"model_gateway/internal/config"
	"model_gateway/internal/gateway"
	"model_gateway/internal/logging"
	"model_gateway/internal/queue"
	"model_gateway/internal/restrictions"
	"model_gateway/internal/storage"
	"model_gateway/internal/utils"
)

// Dependencies aggregates the services the HTTP layer needs and owns their
// shutdown.
type Dependencies struct {
	Dispatcher *gateway.Dispatcher
	AuditSink  *logging.AuditSink // nil when auditing is disabled
	AuditFile  *logging.AuditWriter
	DB         *storage.DB // nil unless the catalog came from postgres
	Logger     *utils.Logger
}

// NewRouter wires catalog, restrictions, dispatcher and audit trail from
// configuration and returns the HTTP mux. Configuration is loaded exactly
// once here; after this call everything the dispatcher reads is immutable.
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	deps, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/dispatch", deps.handleDispatch)
	mux.HandleFunc("/v1/models", deps.handleListModels)
	mux.HandleFunc("/healthz", deps.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return mux, deps, nil
}

// Build constructs the dispatcher and audit pipeline without the mux; the
// MCP serve mode reuses it.
func Build(cfg *config.Config) (*Dependencies, error) {
	logger := utils.NewLogger("gateway")

	deps := &Dependencies{Logger: logger}

	cat, lists, err := loadCatalogAndRestrictions(cfg, deps)
	if err != nil {
		return nil, err
	}

	eval := restrictions.NewWithCatalog(lists, cat)
	if unknown := eval.ValidateAgainstCatalog(cat, logger); len(unknown) > 0 {
		logger.Warn("Some allow-list entries are unknown to the catalog", "count", len(unknown))
	}

	sink, err := buildAuditSink(cfg, deps)
	if err != nil {
		return nil, err
	}

	ctrl := admission.NewController(cfg.Admission.InputShare)
	deps.Dispatcher = gateway.NewDispatcher(cat, eval, ctrl, sink)

	return deps, nil
}

func loadCatalogAndRestrictions(cfg *config.Config, deps *Dependencies) (*catalog.Catalog, map[string][]string, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		cat, err := catalog.LoadFile(cfg.Catalog.File)
		if err != nil {
			return nil, nil, err
		}
		return cat, restrictions.FromEnv(), nil

	case config.CatalogSourcePostgres:
		db, err := storage.NewDB(storage.DBConfig{
			DSN:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			QueryTimeout:    cfg.Database.QueryTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.DB = db

		repo := storage.NewCatalogRepository(db)
		ctx := context.Background()
		backends, err := repo.LoadBackends(ctx)
		if err != nil {
			return nil, nil, err
		}
		cat, err := catalog.New(backends)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid catalog in database: %w", err)
		}
		lists, err := repo.LoadRestrictions(ctx)
		if err != nil {
			return nil, nil, err
		}
		return cat, lists, nil

	default:
		cat, err := catalog.Builtin()
		if err != nil {
			return nil, nil, err
		}
		return cat, restrictions.FromEnv(), nil
	}
}

func buildAuditSink(cfg *config.Config, deps *Dependencies) (logging.Sink, error) {
	if !cfg.Audit.Enabled {
		return logging.NewNoopSink(), nil
	}

	qcfg := queue.DefaultConfig(cfg.Audit.QueueName)
	qcfg.BatchSize = cfg.Audit.BatchSize
	qcfg.BatchTimeout = cfg.Audit.FlushInterval
	qcfg.UseRedis = cfg.Audit.UseRedis
	qcfg.RedisAddr = cfg.Redis.Address
	qcfg.RedisPassword = cfg.Redis.Password
	qcfg.RedisDB = cfg.Redis.DB

	q, err := queue.New(qcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit queue: %w", err)
	}

	fileWriter, err := logging.NewAuditWriter(cfg.Audit.FilePathTemplate, cfg.Audit.FileMaxSize, cfg.Audit.FileMaxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit file: %w", err)
	}
	deps.AuditFile = fileWriter

	var s3Writer *logging.S3Writer
	if cfg.Audit.S3Enabled {
		s3Writer, err = logging.NewS3Writer(context.Background(),
			cfg.Audit.S3Bucket, cfg.Audit.S3Region, cfg.Audit.S3Prefix, cfg.Audit.PodName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 audit writer: %w", err)
		}
	}

	sink := logging.NewAuditSink(q, qcfg, s3Writer, fileWriter)
	sink.Start(context.Background())
	deps.AuditSink = sink

	return sink, nil
}

// Shutdown flushes the audit trail and closes connections.
func (d *Dependencies) Shutdown(ctx context.Context) {
	if d.AuditSink != nil {
		if err := d.AuditSink.Shutdown(ctx); err != nil {
			d.Logger.Error("Failed to shut down audit sink", "error", err)
		}
	}
	if d.AuditFile != nil {
		if err := d.AuditFile.Close(); err != nil {
			d.Logger.Error("Failed to close audit file", "error", err)
		}
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
