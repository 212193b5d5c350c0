package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	mockclassifier "github.com/quantfold/riskdex/internal/classifier/mock"
	"github.com/quantfold/riskdex/internal/config"
	"github.com/quantfold/riskdex/internal/db"
	dbMemory "github.com/quantfold/riskdex/internal/db/memory"
	dbRedis "github.com/quantfold/riskdex/internal/db/redis"
	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/index/keyword"
	"github.com/quantfold/riskdex/internal/index/vector"
	logpkg "github.com/quantfold/riskdex/internal/logger"
	"github.com/quantfold/riskdex/internal/metrics"
	alertrepo "github.com/quantfold/riskdex/internal/repository/alert"
	documentrepo "github.com/quantfold/riskdex/internal/repository/document"
	"github.com/quantfold/riskdex/internal/repository/embcache"
	chiTransport "github.com/quantfold/riskdex/internal/transport/chi"
	openaiTransport "github.com/quantfold/riskdex/internal/transport/openai"
	alertuc "github.com/quantfold/riskdex/internal/usecase/alert"
	healthuc "github.com/quantfold/riskdex/internal/usecase/health"
	ingestuc "github.com/quantfold/riskdex/internal/usecase/ingest"
	searchuc "github.com/quantfold/riskdex/internal/usecase/search"
	statsuc "github.com/quantfold/riskdex/internal/usecase/stats"
	"github.com/quantfold/riskdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting riskdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("classifier", cfg.Classifier.Provider),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "memory":
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register classifier metrics explicitly (no init())
	metrics.RegisterClassifierMetrics()

	// Build classifier at the composition root
	var model domain.Classifier
	var embedder domain.Embedder
	var modelChecker healthuc.ClassifierChecker
	switch cfg.Classifier.Provider {
	case "openai":
		c := openaiTransport.NewClassifier(&openaiTransport.Config{
			APIKey:        cfg.Classifier.APIKey,
			BaseURL:       cfg.Classifier.BaseURL,
			EmbedModel:    cfg.Classifier.EmbedModel,
			ClassifyModel: cfg.Classifier.ClassifyModel,
			Dimensions:    cfg.Classifier.Dimensions,
			Provider:      cfg.Classifier.Provider,
			Logger:        logger,
		})
		model = c
		embedder = c
		modelChecker = c
	case "mock":
		logger.Warn("Using MOCK classifier: risk levels and embeddings are heuristic, not model-derived")
		c := mockclassifier.New(cfg.Classifier.Dimensions)
		model = c
		embedder = c
		modelChecker = c
	default:
		logger.Fatal("Unknown classifier provider", zap.String("provider", cfg.Classifier.Provider))
	}
	logger.Info("Classifier created",
		zap.String("provider", cfg.Classifier.Provider),
		zap.String("embed_model", cfg.Classifier.EmbedModel),
		zap.String("classify_model", cfg.Classifier.ClassifyModel),
		zap.Int("dimensions", cfg.Classifier.Dimensions),
	)

	// Query embeddings are cached in the store keyed by content hash.
	queryEmbedder := embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)

	// Create repositories and in-process indexes
	docRepo := documentrepo.New(store)
	alertRepo := alertrepo.New(store)
	vectors := vector.New(cfg.Classifier.Dimensions)
	keywords := keyword.New()

	// Create use case services
	alertEngine := alertuc.NewEngine(alertRepo, logger)
	ingestSvc := ingestuc.New(docRepo, vectors, keywords, model, alertEngine, logger)
	searchSvc := searchuc.New(docRepo, vectors, keywords, queryEmbedder, alertEngine, logger)
	statsSvc := statsuc.New(docRepo, alertRepo, vectors)
	healthSvc := healthuc.New(store, modelChecker)

	// Warm up indexes from persisted documents
	n, err := ingestSvc.Reload(ctx)
	if err != nil {
		logger.Fatal("Failed to rebuild indexes", zap.Error(err))
	}
	logger.Info("Indexes rebuilt", zap.Int("documents", n))

	// Create chi server
	server := chiTransport.NewServer(ingestSvc, searchSvc, alertEngine, statsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
