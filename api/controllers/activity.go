package controllers

import (
	"net/http"

	"github.com/palletline/wms-backend/api/responses"
	"github.com/palletline/wms-backend/api/validators"
	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/pkg/logger"
	"github.com/palletline/wms-backend/pkg/types"
)

// ActivityList returns the most recent audit rows, newest first.
func ActivityList(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"activity": activity.FromModels(list)})
	}
}
