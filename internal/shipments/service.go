package shipments

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
	"github.com/palletline/wms-backend/pkg/logger"
	"github.com/palletline/wms-backend/pkg/storage/gcs"
)

const auditCollection = "shipments"

// ItemInput is one outbound line as submitted by the caller.
type ItemInput struct {
	SKU            string `json:"sku" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Quantity       int    `json:"quantity" validate:"gte=0"`
	CartonQuantity int    `json:"cartonQuantity" validate:"gte=0"`
	PalletInfo     string `json:"palletInfo"`
}

// SkuQuantityInput is one SKU count on a daily bulk entry.
type SkuQuantityInput struct {
	SKU      string `json:"sku" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// PackSizesInput breaks a daily bulk entry down by multipack size.
type PackSizesInput struct {
	SinglePacks int `json:"singlePacks" validate:"gte=0"`
	TwoPacks    int `json:"twoPacks" validate:"gte=0"`
	ThreePacks  int `json:"threePacks" validate:"gte=0"`
	FourPacks   int `json:"fourPacks" validate:"gte=0"`
}

// CreateInput carries the fields accepted when recording a shipment.
// numberOfUnits is always derived server-side, never taken from the caller.
type CreateInput struct {
	Date            time.Time          `json:"date" validate:"required"`
	ClientID        uuid.UUID          `json:"clientId" validate:"required"`
	ShipmentType    string             `json:"shipmentType" validate:"required"`
	ShipmentMode    string             `json:"shipmentMode"`
	NumberOfPallets int                `json:"numberOfPallets" validate:"gte=0"`
	Status          string             `json:"status" validate:"required"`
	Destination     *string            `json:"destination"`
	Carrier         *string            `json:"carrier"`
	TrackingNumber  *string            `json:"trackingNumber"`
	Items           []ItemInput        `json:"items" validate:"omitempty,dive"`
	SkuQuantities   []SkuQuantityInput `json:"skuQuantities" validate:"omitempty,dive"`
	PackSizes       *PackSizesInput    `json:"packSizes"`
	TotalPackages   *int               `json:"totalPackages" validate:"omitempty,gte=0"`
	Notes           *string            `json:"notes"`
}

// UpdateInput carries the fields accepted when patching a shipment. A non-nil
// Items or SkuQuantities replaces the list wholesale and re-derives the
// aggregates.
type UpdateInput struct {
	Date            *time.Time          `json:"date"`
	ShipmentType    *string             `json:"shipmentType"`
	NumberOfPallets *int                `json:"numberOfPallets" validate:"omitempty,gte=0"`
	Status          *string             `json:"status"`
	Destination     *string             `json:"destination"`
	Carrier         *string             `json:"carrier"`
	TrackingNumber  *string             `json:"trackingNumber"`
	Items           *[]ItemInput        `json:"items" validate:"omitempty,dive"`
	SkuQuantities   *[]SkuQuantityInput `json:"skuQuantities" validate:"omitempty,dive"`
	PackSizes       *PackSizesInput     `json:"packSizes"`
	TotalPackages   *int                `json:"totalPackages" validate:"omitempty,gte=0"`
	Notes           *string             `json:"notes"`
}

// Service defines CRUD over outbound shipments plus attachment handling.
// Creating a shipment decrements stock for each line in the same transaction,
// clamping at zero; updating applies the net per-SKU difference.
type Service interface {
	Create(ctx context.Context, actor activity.Actor, input CreateInput) (*models.Shipment, error)
	Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateInput) (*models.Shipment, error)
	Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]models.Shipment, error)

	AddAttachment(ctx context.Context, actor activity.Actor, shipmentID uuid.UUID, input AddAttachmentInput) (*models.Attachment, error)
	RemoveAttachment(ctx context.Context, actor activity.Actor, shipmentID uuid.UUID, attachmentID string) error
}

type service struct {
	repo      Repository
	clients   clients.Repository
	inventory inventory.Service
	dbClient  db.TxRunner
	store     gcs.ObjectStore
	recorder  *activity.Recorder
	logg      *logger.Logger
}

// NewService wires a shipment service.
func NewService(repo Repository, clientsRepo clients.Repository, inv inventory.Service, dbClient db.TxRunner, store gcs.ObjectStore, recorder *activity.Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipments repository required")
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
	return &service{
		repo:      repo,
		clients:   clientsRepo,
		inventory: inv,
		dbClient:  dbClient,
		store:     store,
		recorder:  recorder,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, actor activity.Actor, input CreateInput) (*models.Shipment, error) {
	shipmentType, err := enums.ParseShipmentType(input.ShipmentType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid shipment type")
	}
	status, err := enums.ParseShipmentStatus(input.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid status")
	}
	mode := enums.ShipmentModePallet
	if strings.TrimSpace(input.ShipmentMode) != "" {
		mode, err = enums.ParseShipmentMode(input.ShipmentMode)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid shipment mode")
		}
	}

	items, skuQuantities, err := buildLines(mode, input.Items, input.SkuQuantities)
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

	shipment := &models.Shipment{
		Date:            input.Date,
		ClientID:        client.ID,
		ClientName:      client.Name,
		ShipmentType:    shipmentType,
		ShipmentMode:    mode,
		NumberOfUnits:   derivedUnits(mode, items, skuQuantities),
		NumberOfPallets: input.NumberOfPallets,
		Status:          status,
		Destination:     input.Destination,
		Carrier:         input.Carrier,
		TrackingNumber:  input.TrackingNumber,
		Items:           items,
		Attachments:     []models.Attachment{},
		PackSizes:       packSizesModel(input.PackSizes),
		SkuQuantities:   skuQuantities,
		TotalPackages:   input.TotalPackages,
		Notes:           input.Notes,
		CreatedBy:       actor.ID,
		CreatedByName:   actor.Name,
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, shipment); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "creating shipment")
		}
		return s.inventory.ApplyStockDeltas(ctx, tx, actor, client.ID, client.Name,
			outboundDeltas(nil, nil, items, skuQuantities))
	})
	if txErr != nil {
		if typed := apperrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, txErr, "recording shipment")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionCreate,
		Collection:   auditCollection,
		DocumentID:   shipment.ID.String(),
		DocumentName: shipment.ClientName,
		Details:      fmt.Sprintf("Created %s shipment of %d units for %s", shipment.ShipmentType, shipment.NumberOfUnits, shipment.ClientName),
	})

	return shipment, nil
}

func (s *service) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateInput) (*models.Shipment, error) {
	shipment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]models.FieldChange{}
	oldItems := shipment.Items
	oldSkuQuantities := shipment.SkuQuantities

	if input.Date != nil {
		shipment.Date = *input.Date
	}
	if input.ShipmentType != nil {
		shipmentType, parseErr := enums.ParseShipmentType(*input.ShipmentType)
		if parseErr != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid shipment type")
		}
		if shipmentType != shipment.ShipmentType {
			changes["shipmentType"] = models.FieldChange{Old: shipment.ShipmentType.String(), New: shipmentType.String()}
			shipment.ShipmentType = shipmentType
		}
	}
	if input.Status != nil {
		status, parseErr := enums.ParseShipmentStatus(*input.Status)
		if parseErr != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid status")
		}
		if status != shipment.Status {
			changes["status"] = models.FieldChange{Old: shipment.Status.String(), New: status.String()}
			shipment.Status = status
		}
	}
	if input.NumberOfPallets != nil && *input.NumberOfPallets != shipment.NumberOfPallets {
		changes["numberOfPallets"] = models.FieldChange{Old: shipment.NumberOfPallets, New: *input.NumberOfPallets}
		shipment.NumberOfPallets = *input.NumberOfPallets
	}
	if input.Destination != nil {
		shipment.Destination = input.Destination
	}
	if input.Carrier != nil {
		shipment.Carrier = input.Carrier
	}
	if input.TrackingNumber != nil {
		shipment.TrackingNumber = input.TrackingNumber
	}
	if input.PackSizes != nil {
		shipment.PackSizes = packSizesModel(input.PackSizes)
	}
	if input.TotalPackages != nil {
		shipment.TotalPackages = input.TotalPackages
	}
	if input.Notes != nil {
		shipment.Notes = input.Notes
	}

	linesChanged := false
	if input.Items != nil || input.SkuQuantities != nil {
		newItemInputs := input.Items
		newSkuInputs := input.SkuQuantities
		if newItemInputs == nil {
			converted := itemInputs(shipment.Items)
			newItemInputs = &converted
		}
		if newSkuInputs == nil {
			converted := skuQuantityInputs(shipment.SkuQuantities)
			newSkuInputs = &converted
		}
		items, skuQuantities, buildErr := buildLines(shipment.ShipmentMode, *newItemInputs, *newSkuInputs)
		if buildErr != nil {
			return nil, buildErr
		}
		oldUnits := shipment.NumberOfUnits
		shipment.Items = items
		shipment.SkuQuantities = skuQuantities
		shipment.NumberOfUnits = derivedUnits(shipment.ShipmentMode, items, skuQuantities)
		if shipment.NumberOfUnits != oldUnits {
			changes["numberOfUnits"] = models.FieldChange{Old: oldUnits, New: shipment.NumberOfUnits}
		}
		linesChanged = true
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, shipment); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "updating shipment")
		}
		if !linesChanged {
			return nil
		}
		return s.inventory.ApplyStockDeltas(ctx, tx, actor, shipment.ClientID, shipment.ClientName,
			outboundDeltas(oldItems, oldSkuQuantities, shipment.Items, shipment.SkuQuantities))
	})
	if txErr != nil {
		if typed := apperrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, txErr, "updating shipment")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   shipment.ID.String(),
		DocumentName: shipment.ClientName,
		Details:      fmt.Sprintf("Updated shipment for %s", shipment.ClientName),
		Changes:      changes,
	})

	return shipment, nil
}

// Delete removes the shipment record and best-effort deletes its attachment
// blobs. Stock already shipped out stays out.
func (s *service) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	shipment, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, shipment.ID); err != nil {
		if err == ErrNotFound {
			return apperrors.New(apperrors.CodeNotFound, "shipment not found")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting shipment")
	}

	s.cleanupBlobs(ctx, shipment)

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionDelete,
		Collection:   auditCollection,
		DocumentID:   shipment.ID.String(),
		DocumentName: shipment.ClientName,
		Details:      fmt.Sprintf("Deleted shipment for %s", shipment.ClientName),
	})

	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	return s.get(ctx, id)
}

func (s *service) List(ctx context.Context, clientID *uuid.UUID) ([]models.Shipment, error) {
	list, err := s.repo.List(ctx, clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing shipments")
	}
	return list, nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "shipment not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading shipment")
	}
	return shipment, nil
}

func buildLines(mode enums.ShipmentMode, itemInputs []ItemInput, skuInputs []SkuQuantityInput) ([]models.ShipmentItem, []models.SkuQuantity, error) {
	switch mode {
	case enums.ShipmentModeDailyBulk:
		if len(skuInputs) == 0 {
			return nil, nil, apperrors.New(apperrors.CodeValidation, "skuQuantities must not be empty for daily bulk shipments")
		}
	default:
		if len(itemInputs) == 0 {
			return nil, nil, apperrors.New(apperrors.CodeValidation, "items must not be empty")
		}
	}

	items := make([]models.ShipmentItem, 0, len(itemInputs))
	for _, in := range itemInputs {
		if strings.TrimSpace(in.SKU) == "" {
			return nil, nil, apperrors.New(apperrors.CodeValidation, "item sku is required")
		}
		if in.Quantity < 0 {
			return nil, nil, apperrors.New(apperrors.CodeValidation, "item quantity must not be negative")
		}
		items = append(items, models.ShipmentItem{
			SKU:            strings.TrimSpace(in.SKU),
			Name:           strings.TrimSpace(in.Name),
			Quantity:       in.Quantity,
			CartonQuantity: in.CartonQuantity,
			PalletInfo:     in.PalletInfo,
		})
	}

	skuQuantities := make([]models.SkuQuantity, 0, len(skuInputs))
	for _, in := range skuInputs {
		if strings.TrimSpace(in.SKU) == "" {
			return nil, nil, apperrors.New(apperrors.CodeValidation, "sku is required")
		}
		if in.Quantity < 0 {
			return nil, nil, apperrors.New(apperrors.CodeValidation, "quantity must not be negative")
		}
		skuQuantities = append(skuQuantities, models.SkuQuantity{
			SKU:      strings.TrimSpace(in.SKU),
			Name:     strings.TrimSpace(in.Name),
			Quantity: in.Quantity,
		})
	}

	return items, skuQuantities, nil
}

func derivedUnits(mode enums.ShipmentMode, items []models.ShipmentItem, skuQuantities []models.SkuQuantity) int {
	total := 0
	if mode == enums.ShipmentModeDailyBulk {
		for _, line := range skuQuantities {
			total += line.Quantity
		}
		return total
	}
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func packSizesModel(in *PackSizesInput) *models.PackSizes {
	if in == nil {
		return nil
	}
	return &models.PackSizes{
		SinglePacks: in.SinglePacks,
		TwoPacks:    in.TwoPacks,
		ThreePacks:  in.ThreePacks,
		FourPacks:   in.FourPacks,
	}
}

func itemInputs(items []models.ShipmentItem) []ItemInput {
	out := make([]ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, ItemInput{
			SKU:            item.SKU,
			Name:           item.Name,
			Quantity:       item.Quantity,
			CartonQuantity: item.CartonQuantity,
			PalletInfo:     item.PalletInfo,
		})
	}
	return out
}

func skuQuantityInputs(lines []models.SkuQuantity) []SkuQuantityInput {
	out := make([]SkuQuantityInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, SkuQuantityInput{SKU: line.SKU, Name: line.Name, Quantity: line.Quantity})
	}
	return out
}

// outboundDeltas computes the net per-SKU stock change for an outbound write.
// New lines subtract stock, old lines add it back, so an update only moves
// the difference.
func outboundDeltas(oldItems []models.ShipmentItem, oldSkuQuantities []models.SkuQuantity, newItems []models.ShipmentItem, newSkuQuantities []models.SkuQuantity) []inventory.StockDelta {
	net := map[string]*inventory.StockDelta{}
	order := []string{}

	upsert := func(sku, name string, delta int) {
		if sku == "" {
			return
		}
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
		upsert(item.SKU, item.Name, item.Quantity)
	}
	for _, line := range oldSkuQuantities {
		upsert(line.SKU, line.Name, line.Quantity)
	}
	for _, item := range newItems {
		upsert(item.SKU, item.Name, -item.Quantity)
	}
	for _, line := range newSkuQuantities {
		upsert(line.SKU, line.Name, -line.Quantity)
	}

	deltas := make([]inventory.StockDelta, 0, len(order))
	for _, sku := range order {
		deltas = append(deltas, *net[sku])
	}
	return deltas
}
