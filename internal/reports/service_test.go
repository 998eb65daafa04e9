package reports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/internal/goodsreceived"
	"github.com/palletline/wms-backend/internal/inventory"
	"github.com/palletline/wms-backend/internal/shipments"
	"github.com/palletline/wms-backend/pkg/db/models"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

func TestExportUnknownEntity(t *testing.T) {
	svc := newTestService(t, reportFixtures{})

	_, err := svc.Export(context.Background(), "invoices")
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportFileNameCarriesDate(t *testing.T) {
	svc := newTestService(t, reportFixtures{})

	export, err := svc.Export(context.Background(), "clients")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "clients-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	if export.FileName != want {
		t.Fatalf("expected %q got %q", want, export.FileName)
	}
}

func TestExportInventoryDerivesStatus(t *testing.T) {
	svc := newTestService(t, reportFixtures{
		inventory: []models.InventoryItem{
			{SKU: "SKU-OUT", Name: "A", ClientName: "Acme", Quantity: 0, MinStock: 5},
			{SKU: "SKU-LOW", Name: "B", ClientName: "Acme", Quantity: 3, MinStock: 5},
			{SKU: "SKU-OK", Name: "C", ClientName: "Acme", Quantity: 50, MinStock: 5},
		},
	})

	export, err := svc.Export(context.Background(), "inventory")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	body := string(export.Body)
	for _, want := range []string{"Out of Stock", "Low Stock", "In Stock"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in export, got:\n%s", want, body)
		}
	}
}

func TestExportEscapesCommasInValues(t *testing.T) {
	svc := newTestService(t, reportFixtures{
		clients: []models.Client{
			{Name: "Acme, Inc", Contact: "Jess", CreatedAt: time.Now()},
		},
	})

	export, err := svc.Export(context.Background(), "clients")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(export.Body), `"Acme, Inc"`) {
		t.Fatalf("expected quoted name in export, got:\n%s", export.Body)
	}
}

type reportFixtures struct {
	clients   []models.Client
	inventory []models.InventoryItem
	receipts  []models.GoodsReceived
	shipments []models.Shipment
	activity  []models.ActivityLog
}

func newTestService(t *testing.T, fx reportFixtures) Service {
	t.Helper()
	svc, err := NewService(
		fixtureClientsRepo{list: fx.clients},
		fixtureInventoryRepo{list: fx.inventory},
		fixtureReceiptsRepo{list: fx.receipts},
		fixtureShipmentsRepo{list: fx.shipments},
		fixtureActivityRepo{list: fx.activity},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type fixtureClientsRepo struct{ list []models.Client }

func (f fixtureClientsRepo) WithTx(tx *gorm.DB) clients.Repository { return f }

func (f fixtureClientsRepo) Create(ctx context.Context, client *models.Client) error { return nil }

func (f fixtureClientsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return nil, clients.ErrNotFound
}

func (f fixtureClientsRepo) List(ctx context.Context) ([]models.Client, error) {
	return f.list, nil
}

func (f fixtureClientsRepo) Update(ctx context.Context, client *models.Client) error { return nil }

func (f fixtureClientsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fixtureInventoryRepo struct{ list []models.InventoryItem }

func (f fixtureInventoryRepo) WithTx(tx *gorm.DB) inventory.Repository { return f }

func (f fixtureInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	return nil
}

func (f fixtureInventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return nil, inventory.ErrNotFound
}

func (f fixtureInventoryRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return nil, inventory.ErrNotFound
}

func (f fixtureInventoryRepo) GetBySKUForUpdate(ctx context.Context, clientID uuid.UUID, sku string) (*models.InventoryItem, error) {
	return nil, inventory.ErrNotFound
}

func (f fixtureInventoryRepo) List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error) {
	return f.list, nil
}

func (f fixtureInventoryRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	return nil
}

func (f fixtureInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fixtureReceiptsRepo struct{ list []models.GoodsReceived }

func (f fixtureReceiptsRepo) WithTx(tx *gorm.DB) goodsreceived.Repository { return f }

func (f fixtureReceiptsRepo) Create(ctx context.Context, record *models.GoodsReceived) error {
	return nil
}

func (f fixtureReceiptsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error) {
	return nil, goodsreceived.ErrNotFound
}

func (f fixtureReceiptsRepo) List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error) {
	return f.list, nil
}

func (f fixtureReceiptsRepo) Update(ctx context.Context, record *models.GoodsReceived) error {
	return nil
}

func (f fixtureReceiptsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fixtureShipmentsRepo struct{ list []models.Shipment }

func (f fixtureShipmentsRepo) WithTx(tx *gorm.DB) shipments.Repository { return f }

func (f fixtureShipmentsRepo) Create(ctx context.Context, shipment *models.Shipment) error {
	return nil
}

func (f fixtureShipmentsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	return nil, shipments.ErrNotFound
}

func (f fixtureShipmentsRepo) List(ctx context.Context, clientID *uuid.UUID) ([]models.Shipment, error) {
	return f.list, nil
}

func (f fixtureShipmentsRepo) Update(ctx context.Context, shipment *models.Shipment) error {
	return nil
}

func (f fixtureShipmentsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fixtureActivityRepo struct{ list []models.ActivityLog }

func (f fixtureActivityRepo) WithTx(tx *gorm.DB) activity.Repository { return f }

func (f fixtureActivityRepo) Append(ctx context.Context, row *models.ActivityLog) error { return nil }

func (f fixtureActivityRepo) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return f.list, nil
}
