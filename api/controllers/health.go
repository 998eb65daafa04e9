package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/palletline/wms-backend/api/responses"
	"github.com/palletline/wms-backend/pkg/config"
	pkgerrors "github.com/palletline/wms-backend/pkg/errors"
	"github.com/palletline/wms-backend/pkg/logger"
	"github.com/palletline/wms-backend/pkg/types"
)

const readyTimeout = 5 * time.Second

// Pinger is any dependency the readiness probe should verify.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.Payload{"status": "live"})
	}
}

// HealthReady pings each named dependency and fails the probe on the first
// one that does not respond.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, types.Payload{"status": "ready"})
	}
}
