package goodsreceived

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/internal/inventory"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db/models"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

func TestCreateDerivesAggregates(t *testing.T) {
	repo := &stubReceiptRepo{}
	inv := &stubInventory{}
	svc := newTestService(t, repo, inv, nil)

	record, err := svc.Create(context.Background(), testActor(), CreateInput{
		DateReceived: time.Now(),
		ClientID:     uuid.New(),
		ReferenceID:  "PO-1001",
		Status:       "Completed",
		Items: []ItemInput{
			{SKU: "SKU-A", Name: "Widget A", Quantity: 5},
			{SKU: "SKU-B", Name: "Widget B", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	if record.NumberOfSkus != 2 {
		t.Fatalf("expected 2 SKUs got %d", record.NumberOfSkus)
	}
	if record.TotalUnits != 8 {
		t.Fatalf("expected 8 units got %d", record.TotalUnits)
	}
	if len(inv.applied) != 2 {
		t.Fatalf("expected 2 stock deltas got %d", len(inv.applied))
	}
	if inv.applied[0].Delta != 5 || inv.applied[1].Delta != 3 {
		t.Fatalf("unexpected deltas: %+v", inv.applied)
	}
}

func TestCreateEmptyItems(t *testing.T) {
	svc := newTestService(t, &stubReceiptRepo{}, &stubInventory{}, nil)

	_, err := svc.Create(context.Background(), testActor(), CreateInput{
		DateReceived: time.Now(),
		ClientID:     uuid.New(),
		ReferenceID:  "PO-1001",
		Status:       "Completed",
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateInvalidStatus(t *testing.T) {
	svc := newTestService(t, &stubReceiptRepo{}, &stubInventory{}, nil)

	_, err := svc.Create(context.Background(), testActor(), CreateInput{
		DateReceived: time.Now(),
		ClientID:     uuid.New(),
		ReferenceID:  "PO-1001",
		Status:       "teleported",
		Items:        []ItemInput{{SKU: "SKU-A", Name: "Widget A", Quantity: 1}},
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStockFailureAbortsReceipt(t *testing.T) {
	inv := &stubInventory{err: errors.New("lock timeout")}
	repo := &stubReceiptRepo{}
	svc := newTestService(t, repo, inv, nil)

	_, err := svc.Create(context.Background(), testActor(), CreateInput{
		DateReceived: time.Now(),
		ClientID:     uuid.New(),
		ReferenceID:  "PO-1001",
		Status:       "Completed",
		Items:        []ItemInput{{SKU: "SKU-A", Name: "Widget A", Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected stock failure to surface")
	}
}

func TestUpdateItemsAppliesNetDeltas(t *testing.T) {
	record := baseReceipt([]models.GoodsReceivedItem{
		{SKU: "SKU-A", Name: "Widget A", Quantity: 5},
		{SKU: "SKU-B", Name: "Widget B", Quantity: 3},
	})
	repo := &stubReceiptRepo{record: record}
	inv := &stubInventory{}
	svc := newTestService(t, repo, inv, nil)

	newItems := []ItemInput{
		{SKU: "SKU-A", Name: "Widget A", Quantity: 2},
		{SKU: "SKU-C", Name: "Widget C", Quantity: 4},
	}
	updated, err := svc.Update(context.Background(), testActor(), record.ID, UpdateInput{Items: &newItems})
	if err != nil {
		t.Fatalf("update receipt: %v", err)
	}
	if updated.NumberOfSkus != 2 || updated.TotalUnits != 6 {
		t.Fatalf("expected re-derived aggregates, got skus=%d units=%d", updated.NumberOfSkus, updated.TotalUnits)
	}

	byKey := map[string]int{}
	for _, delta := range inv.applied {
		byKey[delta.SKU] = delta.Delta
	}
	if byKey["SKU-A"] != -3 || byKey["SKU-B"] != -3 || byKey["SKU-C"] != 4 {
		t.Fatalf("unexpected net deltas: %+v", byKey)
	}
}

func TestUpdateItemsSameTotalOmitsTotalUnitsChange(t *testing.T) {
	record := baseReceipt([]models.GoodsReceivedItem{
		{SKU: "SKU-A", Name: "Widget A", Quantity: 5},
		{SKU: "SKU-B", Name: "Widget B", Quantity: 3},
	})
	sink := &captureActivityRepo{}
	recorder := activity.NewRecorder(sink, nil, nil, config.ActivityConfig{QueueSize: 16})
	svc := newTestService(t, &stubReceiptRepo{record: record}, &stubInventory{}, recorder)

	newItems := []ItemInput{
		{SKU: "SKU-A", Name: "Widget A", Quantity: 4},
		{SKU: "SKU-B", Name: "Widget B", Quantity: 4},
	}
	if _, err := svc.Update(context.Background(), testActor(), record.ID, UpdateInput{Items: &newItems}); err != nil {
		t.Fatalf("update receipt: %v", err)
	}

	recorder.Close()
	rows := sink.rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row got %d", len(rows))
	}
	if _, ok := rows[0].Changes["totalUnits"]; ok {
		t.Fatal("unchanged total must not record a totalUnits change")
	}
}

func TestUpdateItemsRecordsTotalUnitsChange(t *testing.T) {
	record := baseReceipt([]models.GoodsReceivedItem{
		{SKU: "SKU-A", Name: "Widget A", Quantity: 5},
	})
	sink := &captureActivityRepo{}
	recorder := activity.NewRecorder(sink, nil, nil, config.ActivityConfig{QueueSize: 16})
	svc := newTestService(t, &stubReceiptRepo{record: record}, &stubInventory{}, recorder)

	newItems := []ItemInput{
		{SKU: "SKU-A", Name: "Widget A", Quantity: 9},
	}
	if _, err := svc.Update(context.Background(), testActor(), record.ID, UpdateInput{Items: &newItems}); err != nil {
		t.Fatalf("update receipt: %v", err)
	}

	recorder.Close()
	rows := sink.rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row got %d", len(rows))
	}
	change, ok := rows[0].Changes["totalUnits"]
	if !ok {
		t.Fatal("expected a totalUnits change entry")
	}
	if change.Old != 5 || change.New != 9 {
		t.Fatalf("unexpected totalUnits change: %+v", change)
	}
}

func TestUpdateWithoutItemsLeavesStockAlone(t *testing.T) {
	record := baseReceipt([]models.GoodsReceivedItem{{SKU: "SKU-A", Name: "Widget A", Quantity: 5}})
	repo := &stubReceiptRepo{record: record}
	inv := &stubInventory{}
	svc := newTestService(t, repo, inv, nil)

	ref := "PO-2002"
	if _, err := svc.Update(context.Background(), testActor(), record.ID, UpdateInput{ReferenceID: &ref}); err != nil {
		t.Fatalf("update receipt: %v", err)
	}
	if inv.calls != 0 {
		t.Fatal("metadata-only update must not touch stock")
	}
}

func TestDeleteKeepsStock(t *testing.T) {
	record := baseReceipt([]models.GoodsReceivedItem{{SKU: "SKU-A", Name: "Widget A", Quantity: 5}})
	repo := &stubReceiptRepo{record: record}
	inv := &stubInventory{}
	svc := newTestService(t, repo, inv, nil)

	if err := svc.Delete(context.Background(), testActor(), record.ID); err != nil {
		t.Fatalf("delete receipt: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected record removed")
	}
	if inv.calls != 0 {
		t.Fatal("deleting a receipt must not reverse booked stock")
	}
}

func TestAuditFailureDoesNotAbortCreate(t *testing.T) {
	failing := &failingActivityRepo{}
	recorder := activity.NewRecorder(failing, nil, nil, config.ActivityConfig{QueueSize: 16})
	repo := &stubReceiptRepo{}
	svc := newTestService(t, repo, &stubInventory{}, recorder)

	record, err := svc.Create(context.Background(), testActor(), CreateInput{
		DateReceived: time.Now(),
		ClientID:     uuid.New(),
		ReferenceID:  "PO-1001",
		Status:       "Completed",
		Items:        []ItemInput{{SKU: "SKU-A", Name: "Widget A", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("audit failure must not surface: %v", err)
	}
	if record == nil || repo.created == nil {
		t.Fatal("primary write must persist even when the audit sink is down")
	}

	recorder.Close()
	if failing.attempts() == 0 {
		t.Fatal("expected the recorder to attempt the audit write")
	}
}

func newTestService(t *testing.T, repo Repository, inv inventory.Service, recorder *activity.Recorder) Service {
	t.Helper()
	svc, err := NewService(repo, stubClientsRepo{}, inv, stubTxRunner{}, recorder)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func testActor() activity.Actor {
	return activity.Actor{ID: uuid.New(), Name: "Jess Ops", Email: "jess@example.com"}
}

func baseReceipt(items []models.GoodsReceivedItem) *models.GoodsReceived {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return &models.GoodsReceived{
		ID:           uuid.New(),
		DateReceived: time.Now(),
		ClientID:     uuid.New(),
		ClientName:   "Acme Ltd",
		ReferenceID:  "PO-1001",
		NumberOfSkus: len(items),
		TotalUnits:   total,
		Status:       "Completed",
		Items:        items,
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubReceiptRepo struct {
	record  *models.GoodsReceived
	err     error
	created *models.GoodsReceived
	updated *models.GoodsReceived
	deleted bool
}

func (s *stubReceiptRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReceiptRepo) Create(ctx context.Context, record *models.GoodsReceived) error {
	if s.err != nil {
		return s.err
	}
	s.created = record
	return nil
}

func (s *stubReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.record == nil {
		return nil, ErrNotFound
	}
	return s.record, nil
}

func (s *stubReceiptRepo) List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.record == nil {
		return nil, nil
	}
	return []models.GoodsReceived{*s.record}, nil
}

func (s *stubReceiptRepo) Update(ctx context.Context, record *models.GoodsReceived) error {
	if s.err != nil {
		return s.err
	}
	s.updated = record
	return nil
}

func (s *stubReceiptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = true
	return nil
}

type stubClientsRepo struct{}

func (stubClientsRepo) WithTx(tx *gorm.DB) clients.Repository { return stubClientsRepo{} }

func (stubClientsRepo) Create(ctx context.Context, client *models.Client) error { return nil }

func (stubClientsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return &models.Client{ID: id, Name: "Acme Ltd"}, nil
}

func (stubClientsRepo) List(ctx context.Context) ([]models.Client, error) { return nil, nil }

func (stubClientsRepo) Update(ctx context.Context, client *models.Client) error { return nil }

func (stubClientsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubInventory struct {
	applied []inventory.StockDelta
	calls   int
	err     error
}

func (s *stubInventory) Create(ctx context.Context, actor activity.Actor, input inventory.CreateItemInput) (*models.InventoryItem, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInventory) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input inventory.UpdateItemInput) (*models.InventoryItem, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInventory) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	return errors.New("not implemented")
}

func (s *stubInventory) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInventory) List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInventory) AdjustQuantity(ctx context.Context, actor activity.Actor, id uuid.UUID, input inventory.AdjustQuantityInput) (*models.InventoryItem, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInventory) ApplyStockDeltas(ctx context.Context, tx *gorm.DB, actor activity.Actor, clientID uuid.UUID, clientName string, deltas []inventory.StockDelta) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.applied = append(s.applied, deltas...)
	return nil
}

type captureActivityRepo struct {
	mu   sync.Mutex
	seen []models.ActivityLog
}

func (c *captureActivityRepo) WithTx(tx *gorm.DB) activity.Repository { return c }

func (c *captureActivityRepo) Append(ctx context.Context, row *models.ActivityLog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, *row)
	return nil
}

func (c *captureActivityRepo) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return c.rows(), nil
}

func (c *captureActivityRepo) rows() []models.ActivityLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ActivityLog, len(c.seen))
	copy(out, c.seen)
	return out
}

type failingActivityRepo struct {
	mu    sync.Mutex
	tries int
}

func (f *failingActivityRepo) WithTx(tx *gorm.DB) activity.Repository { return f }

func (f *failingActivityRepo) Append(ctx context.Context, row *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tries++
	return errors.New("sink down")
}

func (f *failingActivityRepo) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return nil, errors.New("sink down")
}

func (f *failingActivityRepo) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tries
}
