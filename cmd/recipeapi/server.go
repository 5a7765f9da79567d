package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	http_ "github.com/mkrupp/recipe-api/internal/infra/transport/http"
	"github.com/mkrupp/recipe-api/internal/repo/account"
	"github.com/mkrupp/recipe-api/internal/repo/catalog"
	"github.com/mkrupp/recipe-api/internal/repo/token"
	"github.com/mkrupp/recipe-api/internal/svc/recipesvc"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc/authclient"
)

const healthCheckTimeout = 2 * time.Second

// newHandler wires repositories, services and transports onto one router.
func newHandler(db *storage.DB, cfg Config) (http.Handler, error) {
	accounts, err := usersvc.NewAccountService(account.NewSQLiteAccountRepository(db), cfg.Account)
	if err != nil {
		return nil, fmt.Errorf("new account service: %w", err)
	}

	tokens := usersvc.NewTokenService(accounts, token.NewSQLiteTokenRepository(db), cfg.Token)
	authClient := authclient.NewLocalClient(tokens)
	catalogSvc := recipesvc.NewCatalogService(catalog.NewSQLiteCatalogRepository(db), cfg.Catalog)

	router := http_.NewRouter()

	if cfg.Metrics.Enabled {
		metrics := http_.NewMetrics(appName)
		if err := metrics.Register(collectors.NewDBStatsCollector(db.DB, appName)); err != nil {
			return nil, fmt.Errorf("register db stats: %w", err)
		}

		router.Use(metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	router.Get("/healthz", healthHandler(db))

	usersvc.NewHTTPTransport(accounts, tokens, authClient, cfg.UserHTTP).Register(router)
	recipesvc.NewHTTPTransport(authClient, catalogSvc.Endpoints()...).Register(router)

	return router, nil
}

func healthHandler(db *storage.DB) http.HandlerFunc {
	log := logging.GetLogger("cmd.recipeapi.health")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.ErrorContext(ctx, "database ping failed", "error", err)
			_ = http_.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})

			return
		}

		_ = http_.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
