package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/audittrail/audittrail/internal/application/audit"
	"github.com/audittrail/audittrail/internal/application/classify"
	"github.com/audittrail/audittrail/internal/config"
	memoryevents "github.com/audittrail/audittrail/pkg/adapters/events/memory"
	redisevents "github.com/audittrail/audittrail/pkg/adapters/events/redis"
	"github.com/audittrail/audittrail/pkg/adapters/llm"
	"github.com/audittrail/audittrail/pkg/adapters/metrics/prometheus"
	memorystorage "github.com/audittrail/audittrail/pkg/adapters/storage/memory"
	redisstorage "github.com/audittrail/audittrail/pkg/adapters/storage/redis"
	"github.com/audittrail/audittrail/pkg/api/http"
	"github.com/audittrail/audittrail/pkg/api/websocket"
	"github.com/audittrail/audittrail/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting AuditTrail",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize adapters: Redis when configured, in-memory otherwise
	var (
		eventBus    ports.EventBus
		reportStore ports.ReportStore
		redisClient *goredis.Client
	)

	if cfg.RedisEnabled() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus, err = redisevents.NewStreamsEventBus(
			redisClient,
			"audittrail-observers",
			fmt.Sprintf("audittrail-%d", os.Getpid()),
			logger,
		)
		if err != nil {
			logger.Fatal("failed to create event bus", zap.Error(err))
		}

		reportStore = redisstorage.NewReportStore(redisClient, cfg.Audit.ReportTTL, logger)
	} else {
		logger.Info("REDIS_ADDR not set, using in-memory adapters")
		eventBus = memoryevents.NewInMemoryEventBus()
		reportStore = memorystorage.NewInMemoryReportStore()
	}

	// Build LLM clients for every provider with a credential
	clients, err := llm.NewClients(&cfg.Providers, logger)
	if err != nil {
		logger.Fatal("failed to create LLM clients", zap.Error(err))
	}
	if len(clients) == 0 {
		logger.Warn("no provider credentials configured; audit requests will fail")
	}

	adapters := make([]*audit.ProviderAdapter, len(clients))
	for i, client := range clients {
		adapters[i] = audit.NewProviderAdapter(
			client,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
			cfg.LLM.RequestTimeout,
			logger,
		)
	}

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	manager := audit.NewManager(
		audit.NewValidator(cfg.Audit.MinQuestionLength),
		classify.NewClassifier(),
		audit.NewCoordinator(adapters, logger),
		eventBus,
		reportStore,
		metricsCollector,
		logger,
	)

	// Initialize API server
	serverCfg := &http.Config{
		Port:    cfg.HTTPPort,
		Manager: manager,
		Logger:  logger,
		Version: Version,
	}
	if redisClient != nil {
		serverCfg.CheckStorage = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	httpServer := http.NewServer(serverCfg)

	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("AuditTrail started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("providers", len(clients)))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Audit.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("AuditTrail shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
