package activity

import (
	"context"

	"gorm.io/gorm"

	"github.com/palletline/wms-backend/pkg/db/models"
)

// Repository manages persistence for audit rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, row *models.ActivityLog) error
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an activity repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, row *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	var rows []models.ActivityLog
	q := r.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
