package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/api/middleware"
	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/users"
	"github.com/palletline/wms-backend/pkg/enums"
	pkgerrors "github.com/palletline/wms-backend/pkg/errors"
)

// actorFromContext rebuilds the audit actor from claims seeded by the auth
// middleware.
func actorFromContext(ctx context.Context) (activity.Actor, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return activity.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return activity.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid identity")
	}
	return activity.Actor{
		ID:    id,
		Name:  middleware.UserNameFromContext(ctx),
		Email: middleware.UserEmailFromContext(ctx),
	}, nil
}

// callerFromContext adds the role on top of the audit actor for privilege
// checks.
func callerFromContext(ctx context.Context) (users.Caller, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return users.Caller{}, err
	}
	role := enums.UserRole(middleware.RoleFromContext(ctx))
	if !role.IsValid() {
		return users.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role")
	}
	return users.Caller{
		ID:    actor.ID,
		Name:  actor.Name,
		Email: actor.Email,
		Role:  role,
	}, nil
}
