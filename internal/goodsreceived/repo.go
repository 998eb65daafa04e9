package goodsreceived

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/pkg/db/models"
)

// ErrNotFound is returned when no receipt matches the lookup.
var ErrNotFound = errors.New("goods received record not found")

// Repository manages persistence for inbound receipts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.GoodsReceived) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error)
	Update(ctx context.Context, record *models.GoodsReceived) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a receipt repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.GoodsReceived) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error) {
	var record models.GoodsReceived
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error) {
	q := r.db.WithContext(ctx).Order("date_received DESC")
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	var list []models.GoodsReceived
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, record *models.GoodsReceived) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.GoodsReceived{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
