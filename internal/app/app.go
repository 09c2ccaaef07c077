package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ldrouet/marque/internal/config"
	"github.com/ldrouet/marque/internal/httpserver"
	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/logger"
	"github.com/ldrouet/marque/internal/redis"
	"github.com/ldrouet/marque/internal/scheduler"
	"github.com/ldrouet/marque/internal/seed"
	"github.com/ldrouet/marque/internal/session"
	"github.com/ldrouet/marque/internal/storage"
	"github.com/ldrouet/marque/internal/store"
	"github.com/ldrouet/marque/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	server        *httpserver.Server
	redisClient   *goredis.Client
	storageCloser io.Closer
	purger        *scheduler.TrashPurger
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Storage backend: sqlite by default, memory for dev and tests.
	adapter, users, closer, err := openStorage(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open storage: %v", err)
		os.Exit(1)
	}

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	manager := store.NewManager(adapter)

	// Seed a demo account if configured. Idempotent, safe to re-run.
	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			loggerClient.Errorf("Failed to load seed file: %v", err)
			os.Exit(1)
		}
		if err := seed.Apply(context.Background(), f, users, manager, loggerClient); err != nil {
			loggerClient.Errorf("Failed to apply seed file: %v", err)
			os.Exit(1)
		}
	}

	purger := scheduler.NewTrashPurger(manager, loggerClient, cfg.PurgeInterval, cfg.PurgeThreshold)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		Stores:         manager,
		Sessions:       sessions,
		Users:          users,
		AuthRateBurst:  cfg.AuthRateBurst,
		AuthRatePerMin: cfg.AuthRatePerMin,
		SecureCookies:  cfg.SecureCookies,
		CORSOrigin:     cfg.CORSOrigin,
		TrustProxy:     cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        server,
		redisClient:   redisClient,
		storageCloser: closer,
		purger:        purger,
	}
}

// openStorage picks the persistence adapter from config. The memory backend
// also serves as the user store; so does sqlite.
func openStorage(cfg *config.Config, log logger.Logger) (storage.Adapter, storage.UserStore, io.Closer, error) {
	switch cfg.StorageBackend {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		mem := storage.NewMemory()
		return mem, mem, nil, nil

	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			var err error
			path, err = storage.DefaultSQLitePath()
			if err != nil {
				return nil, nil, nil, err
			}
		}
		db, err := storage.NewSQLite(path)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Infof("SQLite storage opened at %s", db.Path())
		return db, db, db, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Marque v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Marque %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start trash purger
	if err := a.purger.Start(ctx); err != nil {
		return fmt.Errorf("failed to start trash purger: %w", err)
	}
	a.logger.Info("trash purger started",
		logger.Duration("interval", a.cfg.PurgeInterval),
		logger.Duration("threshold", a.cfg.PurgeThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.purger.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if a.storageCloser != nil {
		if err := a.storageCloser.Close(); err != nil {
			a.logger.Warnf("failed to close storage: %v", err)
		}
	}

	a.logger.Info("✅ Marque stopped cleanly")
	return nil
}
