// Package main provides the main entry point for the spam caller registry service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amirphl/spam-guard/app/handlers"
	"github.com/amirphl/spam-guard/app/router"
	"github.com/amirphl/spam-guard/app/services"
	businessflow "github.com/amirphl/spam-guard/business_flow"
	"github.com/amirphl/spam-guard/config"
	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	"github.com/glebarez/sqlite"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.Config
	stopFuncs []func()
}

// @title Spam Guard API
// @version 1.0
// @description Lookup and registration service for phone numbers flagged as spam callers.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting spam guard",
		zap.String("environment", cfg.Deployment.Environment),
		zap.String("db_driver", cfg.Database.Driver),
	)

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.router.Start(cfg.ServerAddr()); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Release background workers and connections after in-flight requests drain
	for i := len(app.stopFuncs) - 1; i >= 0; i-- {
		app.stopFuncs[i]()
	}

	logger.Info("Server stopped")
}

// initializeLogger builds the process logger. File output is rotated by lumberjack.
func initializeLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEncoder zapcore.Encoder
	if cfg.Format == "console" {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var cores []zapcore.Core
	if cfg.Output == "stdout" || cfg.Output == "both" {
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level))
	}
	if cfg.Output == "file" || cfg.Output == "both" {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(lumberJackLogger),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// initializeDatabase opens the configured database with connection pooling and creates the schema
func initializeDatabase(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("driver", cfg.Driver),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rc, nil
}

// initializeEventBus connects to NATS when an URL is configured
func initializeEventBus(cfg config.EventsConfig, appName string, logger *zap.Logger) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return nc, nil
}

// startHealthMonitor schedules periodic dependency checks. The returned function stops the scheduler.
func startHealthMonitor(schedule string, rc *redis.Client, nc *nats.Conn, logger *zap.Logger) (func(), error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if rc != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := rc.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis healthcheck failed", zap.Error(err))
			}
			cancel()
		}
		if nc != nil && nc.Status() != nats.CONNECTED {
			logger.Warn("NATS healthcheck failed", zap.String("status", nc.Status().String()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid health check schedule %q: %w", schedule, err)
	}

	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

// initializeApplication wires storage, adapters, flows and handlers
func initializeApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	stopFuncs = append(stopFuncs, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
		logger.Info("Verdict cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	nc, err := initializeEventBus(cfg.Events, cfg.Deployment.Name, logger)
	if err != nil {
		return nil, err
	}
	if nc != nil {
		stopFuncs = append(stopFuncs, func() { _ = nc.Drain() })
		logger.Info("Call event publishing enabled", zap.String("subject", cfg.Events.Subject))
	}

	if rc != nil || nc != nil {
		stop, err := startHealthMonitor(cfg.Health.CheckSpec, rc, nc, logger)
		if err != nil {
			return nil, err
		}
		stopFuncs = append(stopFuncs, stop)
	}

	// Initialize repositories
	spamRepo := repository.NewSpamNumberRepository(db)
	eventRepo := repository.NewCallEventRepository(db)

	// Initialize adapters
	verdictCache := services.NewRedisVerdictCache(rc, cfg.Cache.Prefix, cfg.Cache.TTL)
	publisher := services.NewNATSEventPublisher(nc, cfg.Events.Subject)

	// Initialize business flows
	spamFlow := businessflow.NewSpamNumberFlow(spamRepo, verdictCache, db)
	eventFlow := businessflow.NewCallEventFlow(eventRepo, publisher)
	decisionFlow := businessflow.NewDecisionFlow(spamRepo, verdictCache)
	exportFlow := businessflow.NewSpamExportFlow(spamRepo)

	// Initialize handlers
	r := router.NewFiberRouter(cfg, router.Handlers{
		SpamNumber: handlers.NewSpamNumberHandler(spamFlow, exportFlow),
		CallEvent:  handlers.NewCallEventHandler(eventFlow),
		Decision:   handlers.NewDecisionHandler(decisionFlow),
	}, logger)

	return &Application{
		router:    r,
		config:    cfg,
		stopFuncs: stopFuncs,
	}, nil
}
