package inventory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db/models"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, &stubClientsRepo{}, stubTxRunner{}, nil)
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateResolvesClientName(t *testing.T) {
	client := &models.Client{ID: uuid.New(), Name: "Acme Ltd"}
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubClientsRepo{client: client}, nil)

	item, err := svc.Create(context.Background(), testActor(), CreateItemInput{
		SKU:      "SKU-1",
		Name:     "Widget",
		ClientID: client.ID,
		Quantity: 5,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.ClientName != "Acme Ltd" {
		t.Fatalf("expected client name resolved server-side, got %q", item.ClientName)
	}
	if repo.created == nil || repo.created.Quantity != 5 {
		t.Fatal("expected item persisted with submitted quantity")
	}
}

func TestCreateUnknownClient(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubClientsRepo{err: clients.ErrNotFound}, nil)

	_, err := svc.Create(context.Background(), testActor(), CreateItemInput{
		SKU:      "SKU-1",
		Name:     "Widget",
		ClientID: uuid.New(),
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustQuantityAdd(t *testing.T) {
	item := baseItem(10)
	repo := &stubRepo{item: item}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)

	updated, err := svc.AdjustQuantity(context.Background(), testActor(), item.ID, AdjustQuantityInput{
		Type:     "add",
		Quantity: 4,
		Reason:   "cycle count",
	})
	if err != nil {
		t.Fatalf("adjust quantity: %v", err)
	}
	if updated.Quantity != 14 {
		t.Fatalf("expected quantity 14 got %d", updated.Quantity)
	}
}

func TestAdjustQuantitySet(t *testing.T) {
	item := baseItem(10)
	repo := &stubRepo{item: item}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)

	updated, err := svc.AdjustQuantity(context.Background(), testActor(), item.ID, AdjustQuantityInput{
		Type:     "set",
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("adjust quantity: %v", err)
	}
	if updated.Quantity != 3 {
		t.Fatalf("expected quantity 3 got %d", updated.Quantity)
	}
}

func TestAdjustQuantityRemoveClampsAtZero(t *testing.T) {
	item := baseItem(10)
	repo := &stubRepo{item: item}
	sink := &captureActivityRepo{}
	recorder := newTestRecorder(sink)
	svc := newTestService(t, repo, &stubClientsRepo{}, recorder)

	updated, err := svc.AdjustQuantity(context.Background(), testActor(), item.ID, AdjustQuantityInput{
		Type:     "remove",
		Quantity: 15,
	})
	if err != nil {
		t.Fatalf("adjust quantity: %v", err)
	}
	if updated.Quantity != 0 {
		t.Fatalf("expected clamp at zero, got %d", updated.Quantity)
	}

	recorder.Close()
	rows := sink.rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row got %d", len(rows))
	}
	if !strings.Contains(rows[0].Details, "10 → 0") {
		t.Fatalf("expected audit details with old and new quantity, got %q", rows[0].Details)
	}
}

func TestAdjustQuantityPlaceholderReason(t *testing.T) {
	item := baseItem(10)
	sink := &captureActivityRepo{}
	recorder := newTestRecorder(sink)
	svc := newTestService(t, &stubRepo{item: item}, &stubClientsRepo{}, recorder)

	if _, err := svc.AdjustQuantity(context.Background(), testActor(), item.ID, AdjustQuantityInput{
		Type:     "add",
		Quantity: 1,
		Reason:   "   ",
	}); err != nil {
		t.Fatalf("adjust quantity: %v", err)
	}

	recorder.Close()
	rows := sink.rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row got %d", len(rows))
	}
	if !strings.Contains(rows[0].Details, "No reason provided") {
		t.Fatalf("expected placeholder reason, got %q", rows[0].Details)
	}
}

func TestAdjustQuantityInvalidType(t *testing.T) {
	svc := newTestService(t, &stubRepo{item: baseItem(1)}, &stubClientsRepo{}, nil)

	_, err := svc.AdjustQuantity(context.Background(), testActor(), uuid.New(), AdjustQuantityInput{
		Type:     "increment",
		Quantity: 1,
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustQuantityUnknownItem(t *testing.T) {
	svc := newTestService(t, &stubRepo{err: ErrNotFound}, &stubClientsRepo{}, nil)

	_, err := svc.AdjustQuantity(context.Background(), testActor(), uuid.New(), AdjustQuantityInput{
		Type:     "add",
		Quantity: 1,
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustQuantityZeroRejectedForAddAndRemove(t *testing.T) {
	for _, adjType := range []string{"add", "remove"} {
		item := baseItem(10)
		repo := &stubRepo{item: item}
		sink := &captureActivityRepo{}
		recorder := newTestRecorder(sink)
		svc := newTestService(t, repo, &stubClientsRepo{}, recorder)

		_, err := svc.AdjustQuantity(context.Background(), testActor(), item.ID, AdjustQuantityInput{
			Type:     adjType,
			Quantity: 0,
		})
		if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeValidation {
			t.Fatalf("expected validation error for zero %s, got %v", adjType, err)
		}
		if repo.updated != nil {
			t.Fatalf("zero %s must not touch the item", adjType)
		}

		recorder.Close()
		if rows := sink.rows(); len(rows) != 0 {
			t.Fatalf("zero %s must not write audit rows, got %d", adjType, len(rows))
		}
	}
}

func TestAdjustQuantityZeroAllowedForSet(t *testing.T) {
	item := baseItem(10)
	repo := &stubRepo{item: item}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)

	updated, err := svc.AdjustQuantity(context.Background(), testActor(), item.ID, AdjustQuantityInput{
		Type:     "set",
		Quantity: 0,
	})
	if err != nil {
		t.Fatalf("adjust quantity: %v", err)
	}
	if updated.Quantity != 0 {
		t.Fatalf("expected quantity 0 got %d", updated.Quantity)
	}
}

func TestUpdateAuditsTrimmedValues(t *testing.T) {
	item := baseItem(10)
	sink := &captureActivityRepo{}
	recorder := newTestRecorder(sink)
	svc := newTestService(t, &stubRepo{item: item}, &stubClientsRepo{}, recorder)

	name := "  Gadget  "
	updated, err := svc.Update(context.Background(), testActor(), item.ID, UpdateItemInput{Name: &name})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Name != "Gadget" {
		t.Fatalf("expected stored name trimmed, got %q", updated.Name)
	}

	recorder.Close()
	rows := sink.rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row got %d", len(rows))
	}
	if got := rows[0].Changes["name"].New; got != "Gadget" {
		t.Fatalf("audit must record the persisted value, got %v", got)
	}
}

func TestUpdateWhitespaceOnlyChangeIsNoop(t *testing.T) {
	item := baseItem(10)
	sink := &captureActivityRepo{}
	recorder := newTestRecorder(sink)
	svc := newTestService(t, &stubRepo{item: item}, &stubClientsRepo{}, recorder)

	name := "  Widget  "
	updated, err := svc.Update(context.Background(), testActor(), item.ID, UpdateItemInput{Name: &name})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Name != "Widget" {
		t.Fatalf("expected name unchanged, got %q", updated.Name)
	}

	recorder.Close()
	rows := sink.rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row got %d", len(rows))
	}
	if _, ok := rows[0].Changes["name"]; ok {
		t.Fatal("whitespace-only edit must not record a name change")
	}
}

func TestApplyStockDeltasCreatesMissingItem(t *testing.T) {
	repo := &stubRepo{err: ErrNotFound}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)
	clientID := uuid.New()

	err := svc.ApplyStockDeltas(context.Background(), &gorm.DB{}, testActor(), clientID, "Acme Ltd", []StockDelta{
		{SKU: "NEW-1", Name: "New Widget", Delta: 7},
	})
	if err != nil {
		t.Fatalf("apply deltas: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected missing SKU to be created")
	}
	if repo.created.Quantity != 7 || repo.created.ClientName != "Acme Ltd" {
		t.Fatalf("unexpected created item: %+v", repo.created)
	}
}

func TestApplyStockDeltasSkipsMissingNegative(t *testing.T) {
	repo := &stubRepo{err: ErrNotFound}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)

	err := svc.ApplyStockDeltas(context.Background(), &gorm.DB{}, testActor(), uuid.New(), "Acme Ltd", []StockDelta{
		{SKU: "GONE-1", Delta: -3},
	})
	if err != nil {
		t.Fatalf("apply deltas: %v", err)
	}
	if repo.created != nil {
		t.Fatal("negative delta for unknown SKU must not create an item")
	}
}

func TestApplyStockDeltasClampsAtZero(t *testing.T) {
	item := baseItem(4)
	repo := &stubRepo{item: item}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)

	err := svc.ApplyStockDeltas(context.Background(), &gorm.DB{}, testActor(), item.ClientID, item.ClientName, []StockDelta{
		{SKU: item.SKU, Delta: -10},
	})
	if err != nil {
		t.Fatalf("apply deltas: %v", err)
	}
	if repo.updated == nil || repo.updated.Quantity != 0 {
		t.Fatalf("expected clamp at zero, got %+v", repo.updated)
	}
}

func TestApplyStockDeltasIgnoresBlankAndZero(t *testing.T) {
	repo := &stubRepo{err: errors.New("should not be touched")}
	svc := newTestService(t, repo, &stubClientsRepo{}, nil)

	err := svc.ApplyStockDeltas(context.Background(), &gorm.DB{}, testActor(), uuid.New(), "Acme Ltd", []StockDelta{
		{SKU: "", Delta: 5},
		{SKU: "SKU-1", Delta: 0},
	})
	if err != nil {
		t.Fatalf("apply deltas: %v", err)
	}
}

func newTestService(t *testing.T, repo Repository, clientsRepo clients.Repository, recorder *activity.Recorder) Service {
	t.Helper()
	svc, err := NewService(repo, clientsRepo, stubTxRunner{}, recorder)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func newTestRecorder(sink activity.Repository) *activity.Recorder {
	return activity.NewRecorder(sink, nil, nil, config.ActivityConfig{QueueSize: 16})
}

func testActor() activity.Actor {
	return activity.Actor{ID: uuid.New(), Name: "Jess Ops", Email: "jess@example.com"}
}

func baseItem(quantity int) *models.InventoryItem {
	return &models.InventoryItem{
		ID:         uuid.New(),
		SKU:        "SKU-1",
		Name:       "Widget",
		ClientID:   uuid.New(),
		ClientName: "Acme Ltd",
		Quantity:   quantity,
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubRepo struct {
	item    *models.InventoryItem
	err     error
	created *models.InventoryItem
	updated *models.InventoryItem
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	s.created = item
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return s.item, s.err
}

func (s *stubRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return s.item, s.err
}

func (s *stubRepo) GetBySKUForUpdate(ctx context.Context, clientID uuid.UUID, sku string) (*models.InventoryItem, error) {
	return s.item, s.err
}

func (s *stubRepo) List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.item == nil {
		return nil, nil
	}
	return []models.InventoryItem{*s.item}, nil
}

func (s *stubRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	s.updated = item
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error { return s.err }

type stubClientsRepo struct {
	client *models.Client
	err    error
}

func (s *stubClientsRepo) WithTx(tx *gorm.DB) clients.Repository { return s }

func (s *stubClientsRepo) Create(ctx context.Context, client *models.Client) error { return s.err }

func (s *stubClientsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.client == nil {
		return &models.Client{ID: id, Name: "Acme Ltd"}, nil
	}
	return s.client, nil
}

func (s *stubClientsRepo) List(ctx context.Context) ([]models.Client, error) { return nil, s.err }

func (s *stubClientsRepo) Update(ctx context.Context, client *models.Client) error { return s.err }

func (s *stubClientsRepo) Delete(ctx context.Context, id uuid.UUID) error { return s.err }

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
