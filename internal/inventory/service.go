package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/pkg/db"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

const (
	auditCollection = "inventory"

	// placeholderReason is stored when an adjustment arrives without one.
	placeholderReason = "No reason provided"
)

// CreateItemInput carries the fields accepted when creating an item.
// clientName is resolved server-side from clientId, never taken from input.
type CreateItemInput struct {
	SKU      string    `json:"sku" validate:"required"`
	Name     string    `json:"name" validate:"required"`
	ClientID uuid.UUID `json:"clientId" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=0"`
	MinStock int       `json:"minStock" validate:"gte=0"`
	Location *string   `json:"location"`
	Notes    *string   `json:"notes"`
}

// UpdateItemInput carries the fields accepted when patching an item. Quantity
// is deliberately absent: stock moves only through AdjustQuantity, receipts,
// and shipments.
type UpdateItemInput struct {
	SKU      *string `json:"sku" validate:"omitempty,min=1"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
	MinStock *int    `json:"minStock" validate:"omitempty,gte=0"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

// AdjustQuantityInput is one manual stock correction.
type AdjustQuantityInput struct {
	Type     string `json:"type" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Reason   string `json:"reason"`
}

// StockDelta is one SKU-level quantity change applied by a receipt or
// shipment write. Positive deltas add stock, negative deltas remove it.
type StockDelta struct {
	SKU   string
	Name  string
	Delta int
}

// Service defines inventory CRUD plus the quantity ledger.
type Service interface {
	Create(ctx context.Context, actor activity.Actor, input CreateItemInput) (*models.InventoryItem, error)
	Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error)
	AdjustQuantity(ctx context.Context, actor activity.Actor, id uuid.UUID, input AdjustQuantityInput) (*models.InventoryItem, error)

	// ApplyStockDeltas mutates stock levels inside an existing transaction.
	// Removals clamp at zero; unknown SKUs with positive deltas are created.
	ApplyStockDeltas(ctx context.Context, tx *gorm.DB, actor activity.Actor, clientID uuid.UUID, clientName string, deltas []StockDelta) error
}

type service struct {
	repo     Repository
	clients  clients.Repository
	dbClient db.TxRunner
	recorder *activity.Recorder
}

// NewService wires an inventory service.
func NewService(repo Repository, clientsRepo clients.Repository, dbClient db.TxRunner, recorder *activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if clientsRepo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, clients: clientsRepo, dbClient: dbClient, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor activity.Actor, input CreateItemInput) (*models.InventoryItem, error) {
	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		if err == clients.ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "client not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading client")
	}

	item := &models.InventoryItem{
		SKU:           strings.TrimSpace(input.SKU),
		Name:          strings.TrimSpace(input.Name),
		ClientID:      client.ID,
		ClientName:    client.Name,
		Quantity:      input.Quantity,
		MinStock:      input.MinStock,
		Location:      input.Location,
		Notes:         input.Notes,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "creating inventory item")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionCreate,
		Collection:   auditCollection,
		DocumentID:   item.ID.String(),
		DocumentName: item.SKU,
		Details:      fmt.Sprintf("Created inventory item %s with quantity %d", item.SKU, item.Quantity),
	})

	return item, nil
}

func (s *service) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]models.FieldChange{}
	if input.SKU != nil {
		if sku := strings.TrimSpace(*input.SKU); sku != item.SKU {
			changes["sku"] = models.FieldChange{Old: item.SKU, New: sku}
			item.SKU = sku
		}
	}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != item.Name {
			changes["name"] = models.FieldChange{Old: item.Name, New: name}
			item.Name = name
		}
	}
	if input.MinStock != nil && *input.MinStock != item.MinStock {
		changes["minStock"] = models.FieldChange{Old: item.MinStock, New: *input.MinStock}
		item.MinStock = *input.MinStock
	}
	if input.Location != nil {
		item.Location = input.Location
	}
	if input.Notes != nil {
		item.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "updating inventory item")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   item.ID.String(),
		DocumentName: item.SKU,
		Details:      fmt.Sprintf("Updated inventory item %s", item.SKU),
		Changes:      changes,
	})

	return item, nil
}

func (s *service) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	item, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		if err == ErrNotFound {
			return apperrors.New(apperrors.CodeNotFound, "inventory item not found")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting inventory item")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionDelete,
		Collection:   auditCollection,
		DocumentID:   item.ID.String(),
		DocumentName: item.SKU,
		Details:      fmt.Sprintf("Deleted inventory item %s", item.SKU),
	})

	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return s.get(ctx, id)
}

func (s *service) List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error) {
	list, err := s.repo.List(ctx, clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing inventory")
	}
	return list, nil
}

// AdjustQuantity applies one manual correction under a row lock. Removals
// clamp at zero rather than going negative.
func (s *service) AdjustQuantity(ctx context.Context, actor activity.Actor, id uuid.UUID, input AdjustQuantityInput) (*models.InventoryItem, error) {
	adjType, err := enums.ParseAdjustmentType(input.Type)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid adjustment type")
	}
	if input.Quantity < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must not be negative")
	}
	if input.Quantity == 0 && adjType != enums.AdjustmentTypeSet {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must be positive")
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = placeholderReason
	}

	var updated *models.InventoryItem
	var oldQuantity int

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if err == ErrNotFound {
				return apperrors.New(apperrors.CodeNotFound, "inventory item not found")
			}
			return apperrors.Wrap(apperrors.CodeDependency, err, "loading inventory item")
		}

		oldQuantity = item.Quantity
		switch adjType {
		case enums.AdjustmentTypeAdd:
			item.Quantity = oldQuantity + input.Quantity
		case enums.AdjustmentTypeRemove:
			item.Quantity = oldQuantity - input.Quantity
			if item.Quantity < 0 {
				item.Quantity = 0
			}
		case enums.AdjustmentTypeSet:
			item.Quantity = input.Quantity
		}

		if err := repo.Update(ctx, item); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "updating inventory item")
		}
		updated = item
		return nil
	})
	if txErr != nil {
		if typed := apperrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, txErr, "adjusting quantity")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   updated.ID.String(),
		DocumentName: updated.SKU,
		Details:      fmt.Sprintf("Adjusted quantity (%s): %d → %d. Reason: %s", adjType, oldQuantity, updated.Quantity, reason),
		Changes: map[string]models.FieldChange{
			"quantity": {Old: oldQuantity, New: updated.Quantity},
		},
	})

	return updated, nil
}

// ApplyStockDeltas walks the deltas inside the caller's transaction, locking
// each row before mutating it. A positive delta for an unknown SKU creates
// the item so receipts can introduce stock.
func (s *service) ApplyStockDeltas(ctx context.Context, tx *gorm.DB, actor activity.Actor, clientID uuid.UUID, clientName string, deltas []StockDelta) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	repo := s.repo.WithTx(tx)

	for _, delta := range deltas {
		if delta.Delta == 0 {
			continue
		}
		sku := strings.TrimSpace(delta.SKU)
		if sku == "" {
			continue
		}

		item, err := repo.GetBySKUForUpdate(ctx, clientID, sku)
		if err != nil {
			if err == ErrNotFound {
				if delta.Delta <= 0 {
					continue
				}
				created := &models.InventoryItem{
					SKU:           sku,
					Name:          delta.Name,
					ClientID:      clientID,
					ClientName:    clientName,
					Quantity:      delta.Delta,
					CreatedBy:     actor.ID,
					CreatedByName: actor.Name,
				}
				if err := repo.Create(ctx, created); err != nil {
					return apperrors.Wrap(apperrors.CodeDependency, err, "creating inventory item")
				}
				continue
			}
			return apperrors.Wrap(apperrors.CodeDependency, err, "loading inventory item")
		}

		item.Quantity += delta.Delta
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		if err := repo.Update(ctx, item); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "updating inventory item")
		}
	}
	return nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "inventory item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading inventory item")
	}
	return item, nil
}
