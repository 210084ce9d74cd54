package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/gridironai/gameday/external/espn"
	"github.com/gridironai/gameday/internal/config"
	"github.com/gridironai/gameday/internal/infrastructure/archive"
	"github.com/gridironai/gameday/internal/infrastructure/repository/postgres"
	"github.com/gridironai/gameday/internal/interfaces/httpapi"
	"github.com/gridironai/gameday/internal/platform/cache"
	"github.com/gridironai/gameday/internal/platform/id"
	"github.com/gridironai/gameday/internal/platform/logging"
	"github.com/gridironai/gameday/internal/platform/resilience"
	"github.com/gridironai/gameday/internal/usecase"
)

// NewHTTPServer wires the upstream client, caches, services and HTTP router
// into a ready-to-run server. The returned cleanup drains the payload archive
// queue and closes the database connection; it is safe to call when no
// archive was configured.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	appLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(appLogger)

	clientCfg := espn.ClientConfig{
		SiteBaseURL: cfg.ESPNSiteBaseURL,
		CoreBaseURL: cfg.ESPNCoreBaseURL,
		UserAgent:   cfg.ESPNUserAgent,
		Timeout:     cfg.ESPNTimeout,
		Logger:      appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	}

	var (
		db       *sqlx.DB
		recorder *archive.Recorder
	)
	if cfg.DBURL != "" {
		var err error
		db, err = sqlx.Connect("postgres", cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect archive database: %w", err)
		}
		recorder = archive.NewRecorder(postgres.NewRawPayloadRepository(db), appLogger, cfg.ArchiveQueueSize)
		clientCfg.Recorder = recorder
		logger.Info("raw payload archive enabled", "queue_size", cfg.ArchiveQueueSize)
	} else {
		logger.Info("raw payload archive disabled", "reason", "DB_URL empty")
	}

	client := espn.NewClient(clientCfg)

	boardSvc := usecase.NewBoardService(client, cache.NewStore(cfg.ScoreboardTTL), appLogger)
	injurySvc := usecase.NewInjuryService(client, boardSvc, cache.NewStore(cfg.InjuriesTTL), id.NewRandomGenerator(), appLogger)
	tendencySvc := usecase.NewTendencyService(client, boardSvc, cache.NewStore(cfg.TendenciesTTL), cfg.DefaultSampleGames, appLogger)
	spotlightSvc := usecase.NewSpotlightService()

	handler := httpapi.NewHandler(boardSvc, injurySvc, tendencySvc, spotlightSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(ctx context.Context) error {
		if recorder != nil {
			if err := recorder.Close(ctx); err != nil {
				return fmt.Errorf("close archive recorder: %w", err)
			}
		}
		if db != nil {
			if err := db.Close(); err != nil {
				return fmt.Errorf("close archive database: %w", err)
			}
		}
		_ = appLogger.Sync()
		return nil
	}

	return server, cleanup, nil
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server and cleanup.
const ShutdownTimeout = 10 * time.Second
