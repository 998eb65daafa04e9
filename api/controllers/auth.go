package controllers

import (
	"net/http"

	"github.com/palletline/wms-backend/api/middleware"
	"github.com/palletline/wms-backend/api/responses"
	"github.com/palletline/wms-backend/api/validators"
	"github.com/palletline/wms-backend/internal/auth"
	"github.com/palletline/wms-backend/internal/users"
	"github.com/palletline/wms-backend/pkg/logger"
	"github.com/palletline/wms-backend/pkg/types"
)

// Login verifies credentials and returns a bearer token plus the account.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Payload{
			"token": result.AccessToken,
			"user":  users.FromModel(result.User),
		})
	}
}

// Logout revokes the caller's session.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{})
	}
}
