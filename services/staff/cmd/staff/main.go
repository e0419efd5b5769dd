package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	"github.com/Skotchmaster/little_lovely/pkg/config"
	"github.com/Skotchmaster/little_lovely/pkg/logging"
	"github.com/Skotchmaster/little_lovely/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/little_lovely/pkg/middleware/logging"

	"github.com/Skotchmaster/little_lovely/services/staff/internal/catalogclient"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/httpserver"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/session"
)

func main() {
	if err := godotenv.Load("services/staff/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "staff"
	}
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")
	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var sessions session.Repository
	switch cfg.SessionStore {
	case "memory":
		logger.Warn("session_store_memory", "reason", "sessions are lost on restart")
		sessions = session.NewMemoryRepository()
	default:
		config.MustNonEmpty(cfg.RedisAddr, "REDIS_ADDR")
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		defer rdb.Close()
		sessions = session.NewRedisRepository(rdb)
	}

	renderer, err := httpserver.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure

	httpserver.Register(e, &httpserver.Deps{
		StaffHandler: &httpserver.StaffHTTP{
			Sessions:   sessions,
			Auth:       authclient.NewClient(cfg.AuthHTTPURL),
			Catalog:    catalogclient.NewClient(cfg.CatalogURL),
			JWTSecret:  cfg.JWTAccessSecret,
			SessionTTL: cfg.SessionTTL,

			CookieSecure: cfg.CookieSecure,
		},
		Renderer: renderer,
		CSRF:     csrfCfg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("staff_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	logger.Info("staff_stopped")
}
