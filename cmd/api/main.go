package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/palletline/wms-backend/api/routes"
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
	"github.com/palletline/wms-backend/pkg/db"
	"github.com/palletline/wms-backend/pkg/logger"
	"github.com/palletline/wms-backend/pkg/metrics"
	"github.com/palletline/wms-backend/pkg/migrate"
	"github.com/palletline/wms-backend/pkg/redis"
	"github.com/palletline/wms-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() { _ = gcsClient.Close() }()

	registry := prometheus.NewRegistry()
	auditMetrics := metrics.NewAuditMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	clientsRepo := clients.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	goodsReceivedRepo := goodsreceived.NewRepository(dbClient.DB())
	shipmentsRepo := shipments.NewRepository(dbClient.DB())
	activityRepo := activity.NewRepository(dbClient.DB())

	recorder := activity.NewRecorder(activityRepo, logg, auditMetrics, cfg.Activity)
	defer recorder.Close()

	authService, err := auth.NewService(usersRepo, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, recorder, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	clientsService, err := clients.NewService(clientsRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventoryRepo, clientsRepo, dbClient, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	goodsReceivedService, err := goodsreceived.NewService(goodsReceivedRepo, clientsRepo, inventoryService, dbClient, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create goods received service", err)
		os.Exit(1)
	}
	shipmentsService, err := shipments.NewService(shipmentsRepo, clientsRepo, inventoryService, dbClient, gcsClient, recorder, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}
	activityService, err := activity.NewService(activityRepo, cfg.Activity)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity service", err)
		os.Exit(1)
	}
	reportsService, err := reports.NewService(clientsRepo, inventoryRepo, goodsReceivedRepo, shipmentsRepo, activityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:        cfg,
			Logger:        logg,
			Registry:      registry,
			Sessions:      sessionManager,
			DBPinger:      dbClient,
			RedisPinger:   redisClient,
			GCSPinger:     gcsClient,
			Auth:          authService,
			Users:         usersService,
			Clients:       clientsService,
			Inventory:     inventoryService,
			GoodsReceived: goodsReceivedService,
			Shipments:     shipmentsService,
			Activity:      activityService,
			Reports:       reportsService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
