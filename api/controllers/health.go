package controllers

import (
	"context"
	"net/http"

	"github.com/jaylife/storefront-api/api/responses"
	"github.com/jaylife/storefront-api/pkg/config"
	"github.com/jaylife/storefront-api/pkg/logger"
)

// Pinger is the readiness surface shared by the db, redis, and storefront
// clients. Nil pingers are skipped, they mean the dependency is not wired.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-JayLife-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-JayLife-Env", cfg.App.Env)

		ctx := r.Context()
		status := http.StatusOK
		report := map[string]string{"status": "ready"}

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				report[name] = "unreachable"
				report["status"] = "degraded"
				status = http.StatusServiceUnavailable
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				continue
			}
			report[name] = "ok"
		}

		responses.WriteJSON(w, status, report)
	}
}
