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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/config"
	"github.com/kailas-cloud/askgames/internal/db"
	dbRedis "github.com/kailas-cloud/askgames/internal/db/redis"
	"github.com/kailas-cloud/askgames/internal/domain"
	logpkg "github.com/kailas-cloud/askgames/internal/logger"
	"github.com/kailas-cloud/askgames/internal/metrics"
	catalogrepo "github.com/kailas-cloud/askgames/internal/repository/catalog"
	"github.com/kailas-cloud/askgames/internal/repository/embcache"
	"github.com/kailas-cloud/askgames/internal/repository/indexes"
	searchrepo "github.com/kailas-cloud/askgames/internal/repository/search"
	"github.com/kailas-cloud/askgames/internal/repository/usagelog"
	chiTransport "github.com/kailas-cloud/askgames/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/askgames/internal/transport/openai"
	answeruc "github.com/kailas-cloud/askgames/internal/usecase/answer"
	askuc "github.com/kailas-cloud/askgames/internal/usecase/ask"
	cataloguc "github.com/kailas-cloud/askgames/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/askgames/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/askgames/internal/usecase/retrieval"
	"github.com/kailas-cloud/askgames/internal/version"
)

func main() {
	// Secrets come from .env in local setups; absent file is fine.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting askgames API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index_pattern", cfg.Retrieval.IndexPattern),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		MaxRetries: cfg.Database.MaxRetries,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search store not ready", zap.Error(err))
	}
	logger.Info("Connected to search store")

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	// Repositories
	resolver := indexes.New(store, logger)
	searchRepo := searchrepo.New(store, boostsFromConfig(cfg.Retrieval.Boosts))
	catalogRepo := catalogrepo.New(store)

	// Use case services
	planner := retrievaluc.NewPlanner(cfg.Retrieval.PriceCues, cfg.Retrieval.PriceTolerance, cfg.Retrieval.TopK)
	retriever := retrievaluc.New(searchRepo, embedder, resolver, planner, retrievaluc.Options{
		IndexPattern:     cfg.Retrieval.IndexPattern,
		DescriptionChars: cfg.Retrieval.DescriptionChars,
		SearchTimeout:    time.Duration(cfg.Database.SearchTimeoutSec) * time.Second,
	}, logger)
	formatter := retrievaluc.NewFormatter(cfg.Retrieval.ContextWords)
	generator := answeruc.New(buildProviders(cfg, logger), cfg.Params(), logger)

	var recorder askuc.Recorder
	if cfg.UsageLog.Path != "" {
		rec := usagelog.New(cfg.UsageLog.Path, logger)
		defer func() { _ = rec.Close() }()
		recorder = rec
	}

	askSvc := askuc.New(retriever, formatter, generator, recorder, logger)
	catalogSvc := cataloguc.New(catalogRepo, resolver, cfg.Retrieval.IndexPattern)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(askSvc, catalogSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	if !cfg.Embedding.Cache {
		return base
	}
	ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Second
	return embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)
}

// buildProviders orders the chat providers: local first when enabled, remote last.
func buildProviders(cfg config.Config, logger *zap.Logger) []answeruc.Provider {
	timeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second

	var providers []answeruc.Provider
	if cfg.LLM.Local.Enabled {
		providers = append(providers, openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:   cfg.LLM.Local.APIKey,
			BaseURL:  cfg.LLM.Local.BaseURL,
			Model:    cfg.LLM.Local.Model,
			Provider: "local",
			Timeout:  timeout,
			Logger:   logger,
		}))
	}
	if cfg.LLM.Remote.Enabled {
		providers = append(providers, openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:   cfg.LLM.Remote.APIKey,
			BaseURL:  cfg.LLM.Remote.BaseURL,
			Model:    cfg.LLM.Remote.Model,
			Provider: "remote",
			Timeout:  timeout,
			Logger:   logger,
		}))
	}
	return providers
}

func boostsFromConfig(b config.BoostConfig) []db.FieldBoost {
	return []db.FieldBoost{
		{Field: domain.FieldName, Weight: b.Name},
		{Field: domain.FieldPriceCat, Weight: b.PriceCat},
		{Field: domain.FieldGenresText, Weight: b.Genres},
		{Field: domain.FieldShortDesc, Weight: b.ShortDesc},
		{Field: domain.FieldDetailedDesc, Weight: b.DetailedDesc},
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
