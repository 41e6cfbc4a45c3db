package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/cache"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/services"
	"admin-dashboard/internal/telemetry"
	"admin-dashboard/internal/web"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(telemetry.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}),
	})
	slog.SetDefault(logger)

	slog.Info("Starting admin dashboard", "port", cfg.HTTPPort, "api_url", cfg.APIURL)

	redisClient, err := cache.NewClient(cfg.RedisAddr)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

	views, err := web.NewRenderer()
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	serviceClient := services.NewServiceClient(cfg, redisClient)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret, cfg.CookieSecure)
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, tokens are checked for expiry only")
	}

	handler := api.NewHandler(cfg, serviceClient, redisClient, authMiddleware, views)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	handler.Register(mux)

	// Event streams run until their request context ends, so the base
	// context is cancelled as soon as shutdown starts.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           telemetry.RequestID(mux),
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	server.RegisterOnShutdown(cancelBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}
