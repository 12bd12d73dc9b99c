package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/redis/go-redis/v9"

	"semaphore/portal/internal/action"
	"semaphore/portal/internal/api"
	"semaphore/portal/internal/auth"
	"semaphore/portal/internal/cache"
	"semaphore/portal/internal/config"
	"semaphore/portal/internal/guard"
	internalhttp "semaphore/portal/internal/http"
	"semaphore/portal/internal/logger"
	"semaphore/portal/internal/metrics"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("env file load failed: %v", err)
	}
	cfg := config.Load()

	logs := logger.New(log.Default(), cfg.RollbarToken, cfg.Env)
	defer logs.Close(5 * time.Second)

	var redisClient *redis.Client
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		store = cache.NewRedisStore(redisClient)
	}

	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithCache(store, cfg.ReadCacheTTL),
		api.WithObserver(metrics.ObserveBackend),
	)
	svc := api.NewServices(client)
	actions := action.New(svc, action.WithObserver(func(ctx context.Context, resource, operation string, res action.Result[json.RawMessage]) {
		metrics.ObserveAction(resource, operation, res.Success)
		if !res.Success {
			logs.Warn("action failed", map[string]interface{}{
				"resource":  resource,
				"operation": operation,
				"code":      res.Code,
				"message":   res.Message,
			}, auth.SessionFrom(ctx))
		}
	}))
	lookup := guard.NewLookup(svc.Permissions, redisClient, cfg.PermissionCacheTTL)

	server := internalhttp.NewServer(cfg, svc, actions, lookup)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var g run.Group
	g.Add(func() error {
		logs.Info("portal http listening", map[string]interface{}{
			"addr":    cfg.HTTPAddr,
			"backend": client.BaseURL(),
			"cache":   cfg.RedisAddr != "",
		})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	})
	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))

	var signalErr run.SignalError
	if err := g.Run(); err != nil && !errors.As(err, &signalErr) {
		logs.Error("http server error", err)
		logs.Close(5 * time.Second)
		log.Fatalf("http server error: %v", err)
	}
}
