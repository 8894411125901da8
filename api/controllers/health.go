package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/anuverse/teamops-backend/api/responses"
	"github.com/anuverse/teamops-backend/pkg/config"
	"github.com/anuverse/teamops-backend/pkg/db"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/anuverse/teamops-backend/pkg/redis"
	"github.com/anuverse/teamops-backend/pkg/storage/gcs"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TeamOps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]func(context.Context) error{}
		if dbP != nil {
			checks["db"] = dbP.Ping
		}
		if redisP != nil {
			checks["redis"] = redisP.Ping
		}
		if gcsP != nil {
			checks["gcs"] = gcsP.Ping
		}

		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		w.Header().Set("X-TeamOps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
