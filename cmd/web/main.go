package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/bitebox/frontend/config"
	"github.com/pageza/bitebox/frontend/internal/database"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/server"
	"github.com/pageza/bitebox/frontend/internal/session"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Hour
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("failed to load configuration", "error", err)
	}
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	gin.SetMode(cfg.Environment.GinMode())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the redis session store and the rate limits. Without it
	// the limits are off.
	var rdb *redis.Client
	if cfg.RedisConfigured() {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			if cfg.SessionStore == config.StoreRedis {
				log.Fatalw("redis session store unavailable", "error", err)
			}
			log.Warnw("continuing without Redis; rate limiting disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	store, err := openStore(ctx, cfg, rdb, log)
	if err != nil {
		log.Fatalw("failed to open session store", "store", cfg.SessionStore, "error", err)
	}

	// Create and start server
	srv, err := server.New(server.Options{
		Config: cfg,
		Store:  store,
		Redis:  rdb,
		Logger: log,
	})
	if err != nil {
		log.Fatalw("failed to build server", "error", err)
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalw("server error", "error", err)
		}
	case sig := <-quit:
		log.Infow("received signal", "signal", sig.String())
	}

	log.Infow("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}
	log.Infow("server stopped")
}

// openStore builds the configured session store.
func openStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, log *logger.Logger) (session.Store, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		return session.NewRedisStore(rdb), nil
	case config.StoreSQL:
		db, err := database.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		store, err := session.NewSQLStore(db)
		if err != nil {
			return nil, err
		}
		go purgeExpired(ctx, store, log)
		return store, nil
	default:
		log.Infow("using in-memory sessions; they are lost on restart")
		return session.NewMemoryStore(), nil
	}
}

// purgeExpired removes dead session rows until ctx is done.
func purgeExpired(ctx context.Context, store *session.SQLStore, log *logger.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warnw("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				log.Debugw("purged expired sessions", "count", n)
			}
		}
	}
}
