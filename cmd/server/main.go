package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appapproval "github.com/garmentflow/backend/internal/application/approval"
	bomapp "github.com/garmentflow/backend/internal/application/bom"
	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	inventoryapp "github.com/garmentflow/backend/internal/application/inventory"
	orderapp "github.com/garmentflow/backend/internal/application/order"
	procurementapp "github.com/garmentflow/backend/internal/application/procurement"
	productionapp "github.com/garmentflow/backend/internal/application/production"
	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/infrastructure/config"
	"github.com/garmentflow/backend/internal/infrastructure/event"
	"github.com/garmentflow/backend/internal/infrastructure/logger"
	"github.com/garmentflow/backend/internal/infrastructure/persistence"
	"github.com/garmentflow/backend/internal/interfaces/http/handler"
	"github.com/garmentflow/backend/internal/interfaces/http/middleware"
	"github.com/garmentflow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting GarmentFlow Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories. Workflow services go through the transaction scope; only
	// the simple query services hold repositories directly.
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	demandRepo := persistence.NewGormDemandRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log.Named("eventbus"))

	// Application services
	bomResolver := bom.NewRepositoryResolver(bomRepo)
	orderService := orderapp.NewOrderService(scope)
	checkService := appfulfillment.NewInventoryCheckService(scope, bomResolver)
	rerunService := appfulfillment.NewRerunService(scope, checkService, bomResolver)
	packetService := appfulfillment.NewPacketService(scope)
	approvalService := appapproval.NewApprovalService(scope)
	resetService := appapproval.NewResetService(scope)
	taskService := productionapp.NewTaskService(scope)
	stockService := inventoryapp.NewStockService(inventoryRepo, movementRepo)
	bomService := bomapp.NewService(bomRepo)
	demandService := procurementapp.NewDemandService(demandRepo)

	orderService.SetEventPublisher(eventBus)
	checkService.SetEventPublisher(eventBus)
	rerunService.SetEventPublisher(eventBus)
	packetService.SetEventPublisher(eventBus)
	approvalService.SetEventPublisher(eventBus)
	resetService.SetEventPublisher(eventBus)
	taskService.SetEventPublisher(eventBus)

	// Cross-context event handlers
	sectionReadyHandler := productionapp.NewSectionReadyHandler(scope)
	itemReadyHandler := appapproval.NewItemReadyHandler(scope)
	eventBus.Subscribe(sectionReadyHandler,
		fulfillment.EventTypeSectionReadyForProduction,
		fulfillment.EventTypeSectionReadyForDyeing,
	)
	eventBus.Subscribe(itemReadyHandler, fulfillment.EventTypeItemReadyForApproval)

	ctx := context.Background()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log.Named("http")),
		logger.Recovery(log.Named("http")),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)

	// Routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(db)).
		Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewOrderItemHandler(orderService, checkService, rerunService, packetService, approvalService)).
		Register(handler.NewApprovalHandler(approvalService, resetService)).
		Register(handler.NewProductionHandler(taskService)).
		Register(handler.NewProcurementHandler(demandService)).
		Register(handler.NewInventoryHandler(stockService)).
		Register(handler.NewBOMHandler(bomService))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
