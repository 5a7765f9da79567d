package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/recipe-api/internal/infra/config"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	http_ "github.com/mkrupp/recipe-api/internal/infra/transport/http"
	"github.com/mkrupp/recipe-api/internal/svc/recipesvc"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc"
)

const (
	appName = "recipe"
	svcName = "api"
)

type MetricsConfig struct {
	// Enabled exposes GET /metrics
	Enabled bool `env:"ENABLED" default:"true"`
}

type Config struct {
	config.EnvConfig

	Log      logging.LoggerConfig        `envPrefix:"LOG_"`
	DB       storage.SQLiteConfig        `envPrefix:"DB_"`
	Account  usersvc.AccountConfig       `envPrefix:"ACCOUNT_"`
	Token    usersvc.TokenConfig         `envPrefix:"TOKEN_"`
	UserHTTP usersvc.HTTPTransportConfig `envPrefix:"USER_HTTP_"`
	Catalog  recipesvc.CatalogConfig     `envPrefix:"CATALOG_"`
	HTTP     http_.HTTPTransportConfig   `envPrefix:"HTTP_"`
	Metrics  MetricsConfig               `envPrefix:"METRICS_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.LoadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		panic(err)
	}

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.recipeapi")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

	db, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	handler, err := newHandler(db, cfg)
	if err != nil {
		return fmt.Errorf("new handler: %w", err)
	}

	if err := http_.ListenAndServe(ctx, handler, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
