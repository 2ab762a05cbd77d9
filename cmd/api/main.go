package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/metalife/leadbot/internal/api/router"
	"github.com/metalife/leadbot/internal/auth"
	"github.com/metalife/leadbot/internal/chat"
	appconfig "github.com/metalife/leadbot/internal/config"
	"github.com/metalife/leadbot/internal/flow"
	"github.com/metalife/leadbot/internal/leads"
	"github.com/metalife/leadbot/internal/observability/metrics"
	"github.com/metalife/leadbot/internal/transcript"
	"github.com/metalife/leadbot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadbot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"assign_strategy", cfg.AssignStrategy,
	)

	ctx := context.Background()

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		leadsRepo leads.Repository
		usersRepo auth.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		usersRepo = auth.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		leadsRepo = leads.NewInMemoryRepository()
		usersRepo = auth.NewInMemoryRepository()
	}

	seedCfg := auth.SeedConfig{
		Agents:           cfg.Agents,
		DirectorPassword: cfg.SeedDirectorPassword,
		AgentPassword:    cfg.SeedAgentPassword,
	}
	if err := auth.Seed(ctx, usersRepo, seedCfg, logger); err != nil {
		logger.Error("failed to seed accounts", "error", err)
		os.Exit(1)
	}

	// Transcript logging is optional; without Redis the chat still works.
	var transcriptStore *transcript.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		transcriptStore = transcript.NewStore(redis.NewClient(opts), cfg.TranscriptMaxMessages, cfg.TranscriptTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, transcripts disabled")
	}

	assigner, err := flow.NewAssigner(cfg.AssignStrategy, cfg.Agents)
	if err != nil {
		logger.Error("failed to build assigner", "error", err, "strategy", cfg.AssignStrategy)
		os.Exit(1)
	}

	graph := flow.NewGraph(flow.Config{
		AskPaymentFrequency: cfg.AskPaymentFrequency,
		AskRetirementAge:    cfg.AskRetirementAge,
		AskRetirementGoal:   cfg.AskRetirementGoal,
	})

	chatMetrics := metrics.NewChatMetrics(nil)
	engine := flow.NewEngine(graph, assigner, leadsRepo, logger,
		flow.WithMetrics(chatMetrics),
		flow.WithWhatsAppLink(cfg.WhatsAppLink),
	)

	chatHandler := chat.NewHandler(engine, transcriptStore, logger)
	leadsHandler := leads.NewHandler(leadsRepo, logger)
	authHandler := auth.NewHandler(usersRepo, cfg.AuthJWTSecret, cfg.AuthTokenTTL, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		LeadsHandler:       leadsHandler,
		AuthHandler:        authHandler,
		AuthSecret:         cfg.AuthJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
