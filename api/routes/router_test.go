package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/auth"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/internal/goodsreceived"
	"github.com/palletline/wms-backend/internal/inventory"
	"github.com/palletline/wms-backend/internal/reports"
	"github.com/palletline/wms-backend/internal/shipments"
	"github.com/palletline/wms-backend/internal/users"
	pkgAuth "github.com/palletline/wms-backend/pkg/auth"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	"github.com/palletline/wms-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return &auth.LoginResult{
		AccessToken: "stub-token",
		User:        &models.User{ID: uuid.New(), Name: "Jess Ops", Email: input.Email, Role: enums.UserRoleStaff},
	}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

type stubUsersService struct{}

func (stubUsersService) Create(ctx context.Context, caller users.Caller, input users.CreateUserInput) (*models.User, error) {
	return &models.User{ID: uuid.New()}, nil
}

func (stubUsersService) Update(ctx context.Context, caller users.Caller, targetID uuid.UUID, input users.UpdateUserInput) (*models.User, error) {
	return &models.User{ID: targetID}, nil
}

func (stubUsersService) Delete(ctx context.Context, caller users.Caller, targetID uuid.UUID) error {
	return nil
}

func (stubUsersService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (stubUsersService) List(ctx context.Context) ([]models.User, error) { return nil, nil }

type stubClientsService struct{}

func (stubClientsService) Create(ctx context.Context, actor activity.Actor, input clients.CreateClientInput) (*models.Client, error) {
	return &models.Client{ID: uuid.New()}, nil
}

func (stubClientsService) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input clients.UpdateClientInput) (*models.Client, error) {
	return &models.Client{ID: id}, nil
}

func (stubClientsService) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	return nil
}

func (stubClientsService) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return &models.Client{ID: id}, nil
}

func (stubClientsService) List(ctx context.Context) ([]models.Client, error) { return nil, nil }

type stubInventoryService struct{}

func (stubInventoryService) Create(ctx context.Context, actor activity.Actor, input inventory.CreateItemInput) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: uuid.New()}, nil
}

func (stubInventoryService) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input inventory.UpdateItemInput) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: id}, nil
}

func (stubInventoryService) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	return nil
}

func (stubInventoryService) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: id}, nil
}

func (stubInventoryService) List(ctx context.Context, clientID *uuid.UUID) ([]models.InventoryItem, error) {
	return nil, nil
}

func (stubInventoryService) AdjustQuantity(ctx context.Context, actor activity.Actor, id uuid.UUID, input inventory.AdjustQuantityInput) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: id}, nil
}

func (stubInventoryService) ApplyStockDeltas(ctx context.Context, tx *gorm.DB, actor activity.Actor, clientID uuid.UUID, clientName string, deltas []inventory.StockDelta) error {
	return nil
}

type stubGoodsReceivedService struct{}

func (stubGoodsReceivedService) Create(ctx context.Context, actor activity.Actor, input goodsreceived.CreateInput) (*models.GoodsReceived, error) {
	return &models.GoodsReceived{ID: uuid.New()}, nil
}

func (stubGoodsReceivedService) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input goodsreceived.UpdateInput) (*models.GoodsReceived, error) {
	return &models.GoodsReceived{ID: id}, nil
}

func (stubGoodsReceivedService) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	return nil
}

func (stubGoodsReceivedService) Get(ctx context.Context, id uuid.UUID) (*models.GoodsReceived, error) {
	return &models.GoodsReceived{ID: id}, nil
}

func (stubGoodsReceivedService) List(ctx context.Context, clientID *uuid.UUID) ([]models.GoodsReceived, error) {
	return nil, nil
}

type stubShipmentsService struct{}

func (stubShipmentsService) Create(ctx context.Context, actor activity.Actor, input shipments.CreateInput) (*models.Shipment, error) {
	return &models.Shipment{ID: uuid.New()}, nil
}

func (stubShipmentsService) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input shipments.UpdateInput) (*models.Shipment, error) {
	return &models.Shipment{ID: id}, nil
}

func (stubShipmentsService) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	return nil
}

func (stubShipmentsService) Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	return &models.Shipment{ID: id}, nil
}

func (stubShipmentsService) List(ctx context.Context, clientID *uuid.UUID) ([]models.Shipment, error) {
	return nil, nil
}

func (stubShipmentsService) AddAttachment(ctx context.Context, actor activity.Actor, shipmentID uuid.UUID, input shipments.AddAttachmentInput) (*models.Attachment, error) {
	return &models.Attachment{ID: uuid.NewString()}, nil
}

func (stubShipmentsService) RemoveAttachment(ctx context.Context, actor activity.Actor, shipmentID uuid.UUID, attachmentID string) error {
	return nil
}

type stubActivityService struct{}

func (stubActivityService) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return nil, nil
}

type stubReportsService struct{}

func (stubReportsService) Export(ctx context.Context, entity string) (*reports.Export, error) {
	return &reports.Export{
		FileName: entity + "-2026-09-01.csv",
		Body:     []byte("\uFEFFsku,name\r\n"),
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, readyErr error) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Dependencies{
		Config:        cfg,
		Logger:        logg,
		Sessions:      stubSessions{},
		DBPinger:      stubPinger{err: readyErr},
		RedisPinger:   stubPinger{},
		GCSPinger:     stubPinger{},
		Auth:          stubAuthService{},
		Users:         stubUsersService{},
		Clients:       stubClientsService{},
		Inventory:     stubInventoryService{},
		GoodsReceived: stubGoodsReceivedService{},
		Shipments:     stubShipmentsService{},
		Activity:      stubActivityService{},
		Reports:       stubReportsService{},
	})
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyFailsOnBrokenDependency(t *testing.T) {
	router := newTestRouter(testConfig(), errors.New("connection refused"))
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed request got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	staff := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for staff got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestLoginIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	body := `{"email":"jess@example.com","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for login got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "stub-token") {
		t.Fatalf("expected token in response, got %s", resp.Body.String())
	}
}

func TestLogoutRequiresToken(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestReportRouteServesCSV(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for report got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("expected csv content type got %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "inventory-2026-09-01.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		Name:   "Jess Ops",
		Email:  "jess@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
