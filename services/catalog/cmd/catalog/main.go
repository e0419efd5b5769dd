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

	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	"github.com/Skotchmaster/little_lovely/pkg/config"
	pkgdb "github.com/Skotchmaster/little_lovely/pkg/db"
	"github.com/Skotchmaster/little_lovely/pkg/events"
	"github.com/Skotchmaster/little_lovely/pkg/logging"
	loggingmw "github.com/Skotchmaster/little_lovely/pkg/middleware/logging"

	"github.com/Skotchmaster/little_lovely/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/models"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/repo"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/search"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/service"
)

func main() {
	if err := godotenv.Load("services/catalog/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, models.All()...)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var publisher events.Publisher = events.Noop
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	svc := &service.CatalogService{
		Repo:      &repo.GormRepo{DB: db},
		Publisher: publisher,
	}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Error("elasticsearch_unavailable", "error", err)
		} else {
			idx := &search.Index{ES: es, Name: cfg.ESIndex}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := idx.EnsureIndex(ctx); err != nil {
				logger.Error("elasticsearch_index_setup_failed", "index", cfg.ESIndex, "error", err)
			}
			cancel()
			svc.Index = idx
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		JWTSecret:      cfg.JWTAccessSecret,
		AuthClient:     authclient.NewClient(cfg.AuthHTTPURL),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog_listening", "addr", srv.Addr)
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
	_ = pkgdb.Close(db)

	logger.Info("catalog_stopped")
}
