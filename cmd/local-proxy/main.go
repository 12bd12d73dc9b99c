package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"

	"semaphore/portal/internal/config"
	"semaphore/portal/internal/proxy"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("env file load failed: %v", err)
	}
	cfg := config.Load()

	httpServer := &http.Server{
		Addr:              cfg.ProxyListenAddr,
		Handler:           proxy.New(cfg.ProxyUpstream),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var g run.Group
	g.Add(func() error {
		log.Printf("local proxy listening on %s -> %s", cfg.ProxyListenAddr, cfg.ProxyUpstream)
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
		log.Fatalf("proxy server error: %v", err)
	}
}
