package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/palletline/wms-backend/api/controllers"
	"github.com/palletline/wms-backend/api/middleware"
	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/auth"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/internal/goodsreceived"
	"github.com/palletline/wms-backend/internal/inventory"
	"github.com/palletline/wms-backend/internal/reports"
	"github.com/palletline/wms-backend/internal/shipments"
	"github.com/palletline/wms-backend/internal/users"
	"github.com/palletline/wms-backend/pkg/auth/session"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/logger"
)

// Dependencies bundles everything the router needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	Sessions session.AccessSessionChecker

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	GCSPinger   controllers.Pinger

	Auth          auth.Service
	Users         users.Service
	Clients       clients.Service
	Inventory     inventory.Service
	GoodsReceived goodsreceived.Service
	Shipments     shipments.Service
	Activity      activity.Service
	Reports       reports.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database":       deps.DBPinger,
			"redis":          deps.RedisPinger,
			"object storage": deps.GCSPinger,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/v1/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(deps.Clients, logg))
			r.Post("/", controllers.ClientCreate(deps.Clients, logg))
			r.Get("/{id}", controllers.ClientGet(deps.Clients, logg))
			r.Patch("/{id}", controllers.ClientUpdate(deps.Clients, logg))
			r.Delete("/{id}", controllers.ClientDelete(deps.Clients, logg))
		})

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Get("/{id}", controllers.InventoryGet(deps.Inventory, logg))
			r.Patch("/{id}", controllers.InventoryUpdate(deps.Inventory, logg))
			r.Delete("/{id}", controllers.InventoryDelete(deps.Inventory, logg))
			r.Post("/{id}/adjust", controllers.InventoryAdjust(deps.Inventory, logg))
		})

		r.Route("/v1/goods-received", func(r chi.Router) {
			r.Get("/", controllers.GoodsReceivedList(deps.GoodsReceived, logg))
			r.Post("/", controllers.GoodsReceivedCreate(deps.GoodsReceived, logg))
			r.Get("/{id}", controllers.GoodsReceivedGet(deps.GoodsReceived, logg))
			r.Patch("/{id}", controllers.GoodsReceivedUpdate(deps.GoodsReceived, logg))
			r.Delete("/{id}", controllers.GoodsReceivedDelete(deps.GoodsReceived, logg))
		})

		r.Route("/v1/shipments", func(r chi.Router) {
			r.Get("/", controllers.ShipmentList(deps.Shipments, logg))
			r.Post("/", controllers.ShipmentCreate(deps.Shipments, logg))
			r.Get("/{id}", controllers.ShipmentGet(deps.Shipments, logg))
			r.Patch("/{id}", controllers.ShipmentUpdate(deps.Shipments, logg))
			r.Delete("/{id}", controllers.ShipmentDelete(deps.Shipments, logg))
			r.Post("/{id}/attachments", controllers.ShipmentAttachmentAdd(deps.Shipments, cfg.Attachments, logg))
			r.Delete("/{id}/attachments/{attachmentId}", controllers.ShipmentAttachmentRemove(deps.Shipments, logg))
		})

		r.Get("/v1/activity", controllers.ActivityList(deps.Activity, logg))
		r.Get("/v1/reports/{entity}", controllers.ReportExport(deps.Reports, logg))

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/", controllers.UserList(deps.Users, logg))
			r.Post("/", controllers.UserCreate(deps.Users, logg))
			r.Get("/{id}", controllers.UserGet(deps.Users, logg))
			r.Patch("/{id}", controllers.UserUpdate(deps.Users, logg))
			r.Delete("/{id}", controllers.UserDelete(deps.Users, logg))
		})
	})

	return r
}
