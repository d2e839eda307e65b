package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hotel-pms/cache"
	"hotel-pms/config"
	"hotel-pms/controllers"
	"hotel-pms/logger"
	"hotel-pms/queue"
	"hotel-pms/routes"
	"hotel-pms/services"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	if err := logger.Init(cfg.IsDev()); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	if envErr != nil {
		log.Info(".env not loaded, using process environment")
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}

	notifiers := services.MultiNotifier{services.NewLogNotifier(log.Named("notify"))}
	if cfg.AMQPEnabled {
		notifiers = append(notifiers, queue.NewPublisher(cfg.RabbitMQURL, cfg.NotifyQueue, log.Named("amqp")))
		log.Info("notifications published to rabbitmq", zap.String("queue", cfg.NotifyQueue))
	}

	roomSvc := services.NewRoomService(db)
	reservationSvc := services.NewReservationService(db, log.Named("reservations"))
	calendarSvc := services.NewCalendarService(roomSvc, reservationSvc)
	inventorySvc := services.NewInventoryService(db)
	supplierSvc := services.NewSupplierService(db)
	purchaseOrderSvc := services.NewPurchaseOrderService(db, log.Named("purchase_orders"))
	invoiceSvc := services.NewInvoiceService(db)
	reportSvc := services.NewReportService(db)

	var (
		revenue     controllers.RevenueReporter = reportSvc
		invalidator controllers.CacheInvalidator
	)
	if cfg.RedisEnabled {
		rdb, err := cache.Connect(context.Background(), cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("redis unavailable, reports served uncached", zap.Error(err))
		} else {
			defer rdb.Close()
			reportCache := cache.NewReportCache(reportSvc, rdb, cfg.ReportCacheTTL, log.Named("cache"))
			revenue, invalidator = reportCache, reportCache
			log.Info("report cache enabled", zap.Duration("ttl", cfg.ReportCacheTTL))
		}
	}

	router := routes.SetupRouter(cfg.CORSOrigins, log, routes.Controllers{
		Rooms:          controllers.NewRoomController(roomSvc, notifiers, log),
		Reservations:   controllers.NewReservationController(reservationSvc, invalidator, notifiers, log),
		Calendar:       controllers.NewCalendarController(calendarSvc, reservationSvc, invalidator, notifiers, log),
		Inventory:      controllers.NewInventoryController(inventorySvc, notifiers, log),
		Suppliers:      controllers.NewSupplierController(supplierSvc, notifiers, log),
		PurchaseOrders: controllers.NewPurchaseOrderController(purchaseOrderSvc, notifiers, log),
		Invoices:       controllers.NewInvoiceController(invoiceSvc, notifiers, log),
		Reports:        controllers.NewReportController(revenue, reportSvc, notifiers, log),
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
