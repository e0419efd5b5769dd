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

	"github.com/Skotchmaster/little_lovely/gateway/internal/httpserver"
	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	"github.com/Skotchmaster/little_lovely/pkg/config"
	"github.com/Skotchmaster/little_lovely/pkg/logging"
	"github.com/Skotchmaster/little_lovely/pkg/middleware/csrf"
)

func main() {
	if err := godotenv.Load("gateway/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")
	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustNonEmpty(cfg.StaffURL, "STAFF_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	listenAddr := config.EnvDefault("GATEWAY_ADDR", ":8080")

	logger := logging.New(cfg.LogLevel).With("service", "gateway")
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready"}

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:    cfg.AuthHTTPURL,
		CatalogURL: cfg.CatalogURL,
		StaffURL:   cfg.StaffURL,
		JWTSecret:  cfg.JWTAccessSecret,
		Refresher:  authclient.NewClient(cfg.AuthHTTPURL),
		CSRFConfig: csrfCfg,
		Logger:     logger,
	}); err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("gateway_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("gateway_shutdown_error", "error", err)
	}
	logger.Info("gateway_stopped")
}
