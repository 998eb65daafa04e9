package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palletline/wms-backend/pkg/db/models"
)

// ErrNotFound is returned when no inventory item matches the lookup.
var ErrNotFound = errors.New("inventory item not found")

// Repository manages persistence for inventory items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	GetBySKUForUpdate(ctx context.Context, clientID uuid.UUID, sku string) (*models.InventoryItem, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate loads the row under SELECT ... FOR UPDATE. Only valid
// inside a transaction.
func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return r.getByID(ctx, id, true)
}

func (r *repository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.InventoryItem, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.InventoryItem
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetBySKUForUpdate loads a client's SKU row under SELECT ... FOR UPDATE.
// Only valid inside a transaction.
func (r *repository) GetBySKUForUpdate(ctx context.Context, clientID uuid.UUID, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "client_id = ? AND sku = ?", clientID, sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error) {
	q := r.db.WithContext(ctx).Order("sku ASC")
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	var list []models.InventoryItem
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
