package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/teilomillet/legalease/config"
	apperrors "github.com/teilomillet/legalease/errors"
	"github.com/teilomillet/legalease/logging"
	"github.com/teilomillet/legalease/server"
	"github.com/teilomillet/legalease/server/circuitbreaker"
	"github.com/teilomillet/legalease/server/handlers"
	"github.com/teilomillet/legalease/server/metrics"
	"github.com/teilomillet/legalease/server/processing"
	"github.com/teilomillet/legalease/server/provider"
	"github.com/teilomillet/legalease/server/routing"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "legalease.yaml", "Path to configuration file")
	envFile    = flag.String("env", ".env", "Path to environment file")
	validate   = flag.Bool("validate", false, "Validate configuration and exit")
	version    = flag.Bool("version", false, "Print version and exit")
)

const Version = "v0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("legalease %s\n", Version)
		os.Exit(0)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	prompts, err := processing.NewPrompts(cfg.Processing.Templates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid prompt templates: %v\n", err)
		os.Exit(1)
	}

	if *validate {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	logger, level, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		// stderr sync fails on some platforms
		_ = logger.Sync()
	}()
	apperrors.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()
	model, closeModel := buildModel(ctx, cfg, m, logger)
	defer closeModel()

	h := handlers.New(handlers.Options{
		Model:     model,
		Prompts:   prompts,
		Metrics:   m,
		Documents: cfg.Documents,
		Logger:    logger,
	})
	router := routing.NewRouter(cfg, h, m, logger)
	srv := server.NewServer(cfg.Server, router, logger)

	if watcher, err := config.NewConfigWatcher(*configFile, logger); err != nil {
		logger.Warn("config hot reload disabled", zap.String("config_path", *configFile), zap.Error(err))
	} else {
		defer watcher.Close()
		go logging.FollowLevel(ctx, watcher, level, logger)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting legalease",
		zap.String("version", Version),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("model_configured", model != nil),
	)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// buildModel returns the guarded model client, or nil when it cannot be
// built. The server still starts without one and AI endpoints report
// the missing configuration.
func buildModel(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (provider.Client, func()) {
	noop := func() {}

	raw, err := provider.New(ctx, cfg.LLM)
	if err != nil {
		logger.Error("AI model not configured",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", cfg.LLM.Model),
			zap.Error(err),
		)
		return nil, noop
	}

	breaker, err := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		Name:             "model",
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
		Interval:         cfg.CircuitBreaker.Interval,
		Timeout:          cfg.CircuitBreaker.Timeout,
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
	}, logger, m.Registry())
	if err != nil {
		logger.Error("circuit breaker disabled", zap.Error(err))
		breaker = nil
	}

	closeFn := noop
	if c, ok := raw.(io.Closer); ok {
		closeFn = func() {
			if err := c.Close(); err != nil {
				logger.Warn("failed to close model client", zap.Error(err))
			}
		}
	}

	logger.Info("AI model configured",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Duration("timeout", cfg.LLM.Timeout),
		zap.Bool("dedupe_inflight", cfg.LLM.DedupeInflight),
	)
	return provider.NewGuarded(raw, provider.GuardOptions{
		Timeout: cfg.LLM.Timeout,
		Breaker: breaker,
		Dedupe:  cfg.LLM.DedupeInflight,
		Metrics: m,
		Logger:  logger,
	}), closeFn
}
