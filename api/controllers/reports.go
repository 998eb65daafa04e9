package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/palletline/wms-backend/api/responses"
	"github.com/palletline/wms-backend/internal/reports"
	pkgerrors "github.com/palletline/wms-backend/pkg/errors"
	"github.com/palletline/wms-backend/pkg/logger"
)

// ReportExport streams the named entity collection as a CSV download.
func ReportExport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := strings.TrimSuffix(chi.URLParam(r, "entity"), ".csv")
		if entity == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "report entity is required"))
			return
		}

		export, err := svc.Export(r.Context(), entity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCSV(w, export.FileName, export.Body)
	}
}
