package goodsreceived

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/internal/inventory"
	"github.com/palletline/wms-backend/pkg/db"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

const auditCollection = "goodsReceived"

// ItemInput is one inbound line as submitted by the caller.
type ItemInput struct {
	SKU            string `json:"sku" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Quantity       int    `json:"quantity" validate:"gte=0"`
	PalletQuantity int    `json:"palletQuantity" validate:"gte=0"`
	Notes          string `json:"notes"`
}

// CreateInput carries the fields accepted when recording a receipt.
// numberOfSkus and totalUnits are always derived from items, never accepted
// from the caller.
type CreateInput struct {
	DateReceived    time.Time   `json:"dateReceived" validate:"required"`
	ClientID        uuid.UUID   `json:"clientId" validate:"required"`
	ReferenceID     string      `json:"referenceId" validate:"required"`
	NumberOfPallets int         `json:"numberOfPallets" validate:"gte=0"`
	Items           []ItemInput `json:"items" validate:"required,min=1,dive"`
	Status          string      `json:"status" validate:"required"`
	Notes           *string     `json:"notes"`
}

// UpdateInput carries the fields accepted when patching a receipt. A non-nil
// Items replaces the list wholesale and re-derives the aggregates.
type UpdateInput struct {
	DateReceived    *time.Time   `json:"dateReceived"`
	ReferenceID     *string      `json:"referenceId" validate:"omitempty,min=1"`
	NumberOfPallets *int         `json:"numberOfPallets" validate:"omitempty,gte=0"`
	Items           *[]ItemInput `json:"items" validate:"omitempty,min=1,dive"`
	Status          *string      `json:"status"`
	Notes           *string      `json:"notes"`
}

// Service defines CRUD over inbound receipts. Creating a receipt increments
// stock for each line in the same transaction; updating a receipt applies the
// net per-SKU difference between the old and new lines.
type Service interface {
	Create(ctx context.Context, actor activity.Actor, input CreateInput) (*models.GoodsReceived, error)
	Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateInput) (*models.GoodsReceived, error)
	Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error)
}

type service struct {
	repo      Repository
	clients   clients.Repository
	inventory inventory.Service
	dbClient  db.TxRunner
	recorder  *activity.Recorder
}

// NewService wires a goods-received service.
func NewService(repo Repository, clientsRepo clients.Repository, inv inventory.Service, dbClient db.TxRunner, recorder *activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("goods received repository required")
	}
	if clientsRepo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, clients: clientsRepo, inventory: inv, dbClient: dbClient, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor activity.Actor, input CreateInput) (*models.GoodsReceived, error) {
	status, err := enums.ParseGoodsReceivedStatus(input.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid status")
	}
	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		if err == clients.ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "client not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading client")
	}

	record := &models.GoodsReceived{
		DateReceived:    input.DateReceived,
		ClientID:        client.ID,
		ClientName:      client.Name,
		ReferenceID:     strings.TrimSpace(input.ReferenceID),
		NumberOfPallets: input.NumberOfPallets,
		NumberOfSkus:    len(items),
		TotalUnits:      sumUnits(items),
		Status:          status,
		Items:           items,
		Notes:           input.Notes,
		CreatedBy:       actor.ID,
		CreatedByName:   actor.Name,
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "creating goods received record")
		}
		return s.inventory.ApplyStockDeltas(ctx, tx, actor, client.ID, client.Name, stockDeltas(nil, items))
	})
	if txErr != nil {
		if typed := apperrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, txErr, "recording receipt")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionCreate,
		Collection:   auditCollection,
		DocumentID:   record.ID.String(),
		DocumentName: record.ReferenceID,
		Details:      fmt.Sprintf("Received %d units across %d SKUs for %s", record.TotalUnits, record.NumberOfSkus, record.ClientName),
	})

	return record, nil
}

func (s *service) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateInput) (*models.GoodsReceived, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]models.FieldChange{}
	oldItems := record.Items

	if input.DateReceived != nil {
		record.DateReceived = *input.DateReceived
	}
	if input.ReferenceID != nil {
		if ref := strings.TrimSpace(*input.ReferenceID); ref != record.ReferenceID {
			changes["referenceId"] = models.FieldChange{Old: record.ReferenceID, New: ref}
			record.ReferenceID = ref
		}
	}
	if input.NumberOfPallets != nil && *input.NumberOfPallets != record.NumberOfPallets {
		changes["numberOfPallets"] = models.FieldChange{Old: record.NumberOfPallets, New: *input.NumberOfPallets}
		record.NumberOfPallets = *input.NumberOfPallets
	}
	if input.Status != nil {
		status, parseErr := enums.ParseGoodsReceivedStatus(*input.Status)
		if parseErr != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid status")
		}
		if status != record.Status {
			changes["status"] = models.FieldChange{Old: record.Status.String(), New: status.String()}
			record.Status = status
		}
	}
	if input.Notes != nil {
		record.Notes = input.Notes
	}

	itemsChanged := false
	if input.Items != nil {
		items, buildErr := buildItems(*input.Items)
		if buildErr != nil {
			return nil, buildErr
		}
		if sumUnits(items) != record.TotalUnits {
			changes["totalUnits"] = models.FieldChange{Old: record.TotalUnits, New: sumUnits(items)}
		}
		record.Items = items
		record.NumberOfSkus = len(items)
		record.TotalUnits = sumUnits(items)
		itemsChanged = true
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, record); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "updating goods received record")
		}
		if !itemsChanged {
			return nil
		}
		return s.inventory.ApplyStockDeltas(ctx, tx, actor, record.ClientID, record.ClientName, stockDeltas(oldItems, record.Items))
	})
	if txErr != nil {
		if typed := apperrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, txErr, "updating receipt")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   record.ID.String(),
		DocumentName: record.ReferenceID,
		Details:      fmt.Sprintf("Updated receipt %s", record.ReferenceID),
		Changes:      changes,
	})

	return record, nil
}

// Delete removes the receipt only. Stock already booked in stays: reversing
// historical receipts is a manual adjustment, not a delete side effect.
func (s *service) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	record, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		if err == ErrNotFound {
			return apperrors.New(apperrors.CodeNotFound, "goods received record not found")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting goods received record")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionDelete,
		Collection:   auditCollection,
		DocumentID:   record.ID.String(),
		DocumentName: record.ReferenceID,
		Details:      fmt.Sprintf("Deleted receipt %s", record.ReferenceID),
	})

	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error) {
	return s.get(ctx, id)
}

func (s *service) List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error) {
	list, err := s.repo.List(ctx, clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing goods received")
	}
	return list, nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "goods received record not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading goods received record")
	}
	return record, nil
}

func buildItems(inputs []ItemInput) ([]models.GoodsReceivedItem, error) {
	if len(inputs) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "items must not be empty")
	}
	items := make([]models.GoodsReceivedItem, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.SKU) == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "item sku is required")
		}
		if in.Quantity < 0 {
			return nil, apperrors.New(apperrors.CodeValidation, "item quantity must not be negative")
		}
		items = append(items, models.GoodsReceivedItem{
			SKU:            strings.TrimSpace(in.SKU),
			Name:           strings.TrimSpace(in.Name),
			Quantity:       in.Quantity,
			PalletQuantity: in.PalletQuantity,
			Notes:          in.Notes,
		})
	}
	return items, nil
}

func sumUnits(items []models.GoodsReceivedItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// stockDeltas computes the net per-SKU change going from old lines to new
// lines. Creation passes nil old lines so every new line is a pure add.
func stockDeltas(oldItems, newItems []models.GoodsReceivedItem) []inventory.StockDelta {
	net := map[string]*inventory.StockDelta{}
	order := []string{}

	upsert := func(sku, name string, delta int) {
		if existing, ok := net[sku]; ok {
			existing.Delta += delta
			if existing.Name == "" {
				existing.Name = name
			}
			return
		}
		net[sku] = &inventory.StockDelta{SKU: sku, Name: name, Delta: delta}
		order = append(order, sku)
	}

	for _, item := range oldItems {
		upsert(item.SKU, item.Name, -item.Quantity)
	}
	for _, item := range newItems {
		upsert(item.SKU, item.Name, item.Quantity)
	}

	deltas := make([]inventory.StockDelta, 0, len(order))
	for _, sku := range order {
		deltas = append(deltas, *net[sku])
	}
	return deltas
}
