package routes

import (
	"net/http"
	"time"

	"hotel-pms/controllers"
	"hotel-pms/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Controllers struct {
	Rooms          *controllers.RoomController
	Reservations   *controllers.ReservationController
	Calendar       *controllers.CalendarController
	Inventory      *controllers.InventoryController
	Suppliers      *controllers.SupplierController
	PurchaseOrders *controllers.PurchaseOrderController
	Invoices       *controllers.InvoiceController
	Reports        *controllers.ReportController
}

func SetupRouter(origins []string, log *zap.Logger, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			// before /:id
			rooms.GET("/available", ctl.Rooms.GetAvailableRooms)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.PATCH("/:id", ctl.Rooms.UpdateRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateRoomStatus)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", ctl.Reservations.GetReservations)
			reservations.POST("", ctl.Reservations.CreateReservation)
			reservations.POST("/quote", ctl.Reservations.QuoteReservation)
			reservations.GET("/:id", ctl.Reservations.GetReservation)
			reservations.PATCH("/:id/status", ctl.Reservations.UpdateReservationStatus)
			reservations.DELETE("/:id", ctl.Reservations.DeleteReservation)
		}

		calendar := api.Group("/calendar")
		{
			calendar.GET("", ctl.Calendar.GetMonth)
			calendar.POST("/drop", ctl.Calendar.Drop)
		}

		inventory := api.Group("/inventory")
		{
			inventory.GET("", ctl.Inventory.GetItems)
			inventory.POST("", ctl.Inventory.CreateItem)
			inventory.PATCH("/:id", ctl.Inventory.UpdateItem)
			inventory.DELETE("/:id", ctl.Inventory.DeleteItem)
		}

		suppliers := api.Group("/suppliers")
		{
			suppliers.GET("", ctl.Suppliers.GetSuppliers)
			suppliers.POST("", ctl.Suppliers.CreateSupplier)
			suppliers.PATCH("/:id", ctl.Suppliers.UpdateSupplier)
			suppliers.DELETE("/:id", ctl.Suppliers.DeleteSupplier)
		}

		orders := api.Group("/purchase-orders")
		{
			orders.GET("", ctl.PurchaseOrders.GetPurchaseOrders)
			orders.POST("", ctl.PurchaseOrders.CreatePurchaseOrder)
			orders.GET("/:id", ctl.PurchaseOrders.GetPurchaseOrder)
			orders.PATCH("/:id/status", ctl.PurchaseOrders.UpdatePurchaseOrderStatus)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", ctl.Invoices.GetInvoices)
			invoices.PATCH("/:id/status", ctl.Invoices.UpdateInvoiceStatus)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/revenue", ctl.Reports.GetRevenue)
			reports.GET("/low-stock", ctl.Reports.GetLowStock)
		}
	}

	return r
}
