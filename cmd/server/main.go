package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/config"
	httpHandler "github.com/mmuslimabdulj/shop-chat-relay/internal/delivery/http"
	"github.com/mmuslimabdulj/shop-chat-relay/internal/delivery/ws"
	"github.com/mmuslimabdulj/shop-chat-relay/internal/middleware"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	logger := newLogger(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("open message store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	hub := ws.NewHub(store, logger,
		ws.WithRoom(cfg.Room),
		ws.WithSystemSender(cfg.SystemSender),
		ws.WithHistoryLimit(cfg.HistoryLimit),
	)
	handler := httpHandler.NewHandler(ctx, hub, cfg, logger)

	wsLimiter := middleware.NewIPRateLimiter(cfg.WebSocketLimit())
	wsLimiter.TrustProxyHeaders(cfg.TrustProxy)
	go wsLimiter.RunCleanup(ctx, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.HandleStatus)
	mux.HandleFunc("/healthz", handler.HandleHealth)
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, logger, handler.HandleWebSocket))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.SecurityHeaders(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("chat relay running",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.String("room", cfg.Room),
			zap.String("allowed_origin", cfg.AllowedOrigin),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// hijacked websockets are not covered by Shutdown; they close on ctx
	if err := handler.Drain(shutdownCtx); err != nil {
		logger.Warn("connections still open at shutdown deadline", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}

// newLogger maps LOG_LEVEL onto a zap logger
func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	switch level {
	case "silent", "off":
		return zap.NewNop()
	case "debug":
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
