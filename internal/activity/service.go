package activity

import (
	"context"
	"fmt"

	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db/models"
)

const maxListLimit = 500

// Service exposes read access to the audit trail.
type Service interface {
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

type service struct {
	repo         Repository
	defaultLimit int
}

// NewService wires an activity service with the provided repository.
func NewService(repo Repository, cfg config.ActivityConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &service{repo: repo, defaultLimit: defaultLimit}, nil
}

// List returns the most recent audit rows, newest first.
func (s *service) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, limit)
}
