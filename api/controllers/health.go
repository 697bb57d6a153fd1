package controllers

import (
	"net/http"

	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"github.com/gearboxapp/gearbox-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gearbox-Env", cfg.App.Env)
		responses.WriteData(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the backing stores answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gearbox-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteData(w, map[string]string{"status": "ready"})
	}
}
