package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-pms/models"
	"hotel-pms/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiHarness struct {
	db          *gorm.DB
	router      *gin.Engine
	notes       *services.RecordingNotifier
	invalidator *countingInvalidator
	reports     *ReportController
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Room{},
		&models.Reservation{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Invoice{},
	))
	return db
}

func newAPIHarness(t *testing.T) apiHarness {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	log := zap.NewNop()
	h := apiHarness{
		db:          db,
		router:      gin.New(),
		notes:       &services.RecordingNotifier{},
		invalidator: &countingInvalidator{},
	}

	rooms := NewRoomController(services.NewRoomService(db), h.notes, log)
	reservations := NewReservationController(services.NewReservationService(db, log), h.invalidator, h.notes, log)
	inventory := NewInventoryController(services.NewInventoryService(db), h.notes, log)
	orders := NewPurchaseOrderController(services.NewPurchaseOrderService(db, log), h.notes, log)
	invoices := NewInvoiceController(services.NewInvoiceService(db), h.notes, log)
	reportSvc := services.NewReportService(db)
	h.reports = NewReportController(reportSvc, reportSvc, h.notes, log)
	h.reports.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	api := h.router.Group("/api")
	api.GET("/rooms", rooms.GetRooms)
	api.GET("/rooms/available", rooms.GetAvailableRooms)
	api.GET("/rooms/:id", rooms.GetRoom)
	api.POST("/rooms", rooms.CreateRoom)
	api.PATCH("/rooms/:id", rooms.UpdateRoom)
	api.PATCH("/rooms/:id/status", rooms.UpdateRoomStatus)
	api.DELETE("/rooms/:id", rooms.DeleteRoom)

	api.GET("/reservations", reservations.GetReservations)
	api.POST("/reservations", reservations.CreateReservation)
	api.POST("/reservations/quote", reservations.QuoteReservation)
	api.GET("/reservations/:id", reservations.GetReservation)
	api.PATCH("/reservations/:id/status", reservations.UpdateReservationStatus)
	api.DELETE("/reservations/:id", reservations.DeleteReservation)

	api.GET("/inventory", inventory.GetItems)
	api.POST("/inventory", inventory.CreateItem)
	api.PATCH("/inventory/:id", inventory.UpdateItem)

	api.GET("/purchase-orders", orders.GetPurchaseOrders)
	api.POST("/purchase-orders", orders.CreatePurchaseOrder)
	api.GET("/purchase-orders/:id", orders.GetPurchaseOrder)
	api.PATCH("/purchase-orders/:id/status", orders.UpdatePurchaseOrderStatus)

	api.GET("/invoices", invoices.GetInvoices)
	api.PATCH("/invoices/:id/status", invoices.UpdateInvoiceStatus)

	api.GET("/reports/revenue", h.reports.GetRevenue)
	api.GET("/reports/low-stock", h.reports.GetLowStock)
	return h
}

func (h apiHarness) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decodeData(t *testing.T, env envelope, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, into), string(env.Data))
}

func assertFailure(t *testing.T, w *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, code, env.Error.Code)
}

func (h apiHarness) createRoom(t *testing.T, number string, capacity int, price string) models.Room {
	t.Helper()
	w, env := h.do(t, http.MethodPost, "/api/rooms", map[string]interface{}{
		"roomNumber": number,
		"capacity":   capacity,
		"price":      price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var room models.Room
	decodeData(t, env, &room)
	return room
}

func TestRoomHandlers(t *testing.T) {
	h := newAPIHarness(t)
	room := h.createRoom(t, "101", 2, "1000")
	assert.Equal(t, models.RoomAvailable, room.Status)
	last, ok := h.notes.Last()
	require.True(t, ok)
	assert.Equal(t, "Room 101 created", last.Message)

	w, env := h.do(t, http.MethodPost, "/api/rooms", map[string]interface{}{"roomNumber": "101", "capacity": 2})
	assertFailure(t, w, env, http.StatusConflict, "error.duplicate")

	w, env = h.do(t, http.MethodGet, "/api/rooms/abc", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")

	w, env = h.do(t, http.MethodGet, "/api/rooms/999", nil)
	assertFailure(t, w, env, http.StatusNotFound, "error.roomNotFound")

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/rooms/%d", room.ID), `{"capacity":0}`)
	assertFailure(t, w, env, http.StatusBadRequest, "error.validation")

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/rooms/%d", room.ID), `{"capacity":4,"name":"Family"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Room
	decodeData(t, env, &updated)
	assert.Equal(t, 4, updated.Capacity)
	assert.Equal(t, "Family", updated.Name)

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/rooms/%d/status", room.ID), `{}`)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/rooms/%d/status", room.ID), `{"status":"OUT_OF_ORDER"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Room 101 is now OUT_OF_ORDER", env.Message)

	w, env = h.do(t, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []models.Room
	decodeData(t, env, &rooms)
	assert.Len(t, rooms, 1)

	w, _ = h.do(t, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", room.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = h.do(t, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", room.ID), nil)
	assertFailure(t, w, env, http.StatusNotFound, "error.roomNotFound")
}

func TestAvailableRoomsQuery(t *testing.T) {
	h := newAPIHarness(t)
	h.createRoom(t, "101", 2, "1000")

	w, env := h.do(t, http.MethodGet, "/api/rooms/available?guests=0", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")

	w, env = h.do(t, http.MethodGet, "/api/rooms/available?checkIn=2025-06-13&checkOut=2025-06-10", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.validation")

	w, env = h.do(t, http.MethodGet, "/api/rooms/available?checkIn=2025-06-10&checkOut=2025-06-12&guests=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res services.AvailabilityResult
	decodeData(t, env, &res)
	assert.Empty(t, res.Rooms)
	assert.Equal(t, services.EmptyNoRoomsForGuest, res.EmptyReason)

	w, env = h.do(t, http.MethodGet, "/api/rooms/available?checkIn=2025-06-10&dayStay=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = services.AvailabilityResult{}
	decodeData(t, env, &res)
	require.Len(t, res.Rooms, 1)
	assert.Equal(t, "101", res.Rooms[0].RoomNumber)
}

func TestReservationHandlers(t *testing.T) {
	h := newAPIHarness(t)
	room := h.createRoom(t, "101", 2, "1200")
	body := map[string]interface{}{
		"guestName":     "Somchai",
		"roomId":        room.ID,
		"checkIn":       "2025-06-10",
		"checkOut":      "2025-06-13",
		"guests":        2,
		"extraBedCount": 1,
	}

	w, env := h.do(t, http.MethodPost, "/api/reservations/quote", body)
	require.Equal(t, http.StatusOK, w.Code)
	var quote services.PriceQuote
	decodeData(t, env, &quote)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, "3620", quote.Total.String())
	assert.Zero(t, h.invalidator.calls, "a quote changes nothing")

	w, env = h.do(t, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Reservation
	decodeData(t, env, &created)
	assert.Equal(t, "Reservation "+created.ConfirmationCode+" created", env.Message)
	assert.Equal(t, "2025-06-10", created.CheckInDate)
	assert.Equal(t, 1, h.invalidator.calls)

	body["checkIn"], body["checkOut"] = "2025-06-12", "2025-06-14"
	w, env = h.do(t, http.MethodPost, "/api/reservations", body)
	assertFailure(t, w, env, http.StatusConflict, "error.roomUnavailable")
	last, ok := h.notes.Last()
	require.True(t, ok)
	assert.Equal(t, models.NotifyError, last.Kind)
	assert.Equal(t, 1, h.invalidator.calls)

	w, env = h.do(t, http.MethodPost, "/api/reservations", `{"guestName":`)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")

	w, env = h.do(t, http.MethodGet, "/api/reservations?status=LOST", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")
	w, env = h.do(t, http.MethodGet, "/api/reservations?roomId=x", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")
	w, env = h.do(t, http.MethodGet, "/api/reservations?from=2025-06-01", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.validation")

	var list []models.Reservation
	w, env = h.do(t, http.MethodGet, fmt.Sprintf("/api/reservations?from=2025-06-01&to=2025-07-01&roomId=%d&status=PENDING", room.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w, env = h.do(t, http.MethodGet, "/api/reservations?from=2025-07-01&to=2025-08-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = nil
	decodeData(t, env, &list)
	assert.Empty(t, list)

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/status", created.ID), `{"status":"CANCELLED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reservation "+created.ConfirmationCode+" is now CANCELLED", env.Message)
	assert.Equal(t, 2, h.invalidator.calls)

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/status", created.ID), `{"status":"CHECKED_IN"}`)
	assertFailure(t, w, env, http.StatusConflict, "error.invalidTransition")

	w, env = h.do(t, http.MethodGet, "/api/reservations/404", nil)
	assertFailure(t, w, env, http.StatusNotFound, "error.reservationNotFound")
	w, env = h.do(t, http.MethodDelete, "/api/reservations/404", nil)
	assertFailure(t, w, env, http.StatusNotFound, "error.reservationNotFound")
	w, _ = h.do(t, http.MethodDelete, fmt.Sprintf("/api/reservations/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInventoryHandlers(t *testing.T) {
	h := newAPIHarness(t)

	w, env := h.do(t, http.MethodPost, "/api/inventory", map[string]interface{}{
		"sku":         "TWL-01",
		"name":        "Bath towel",
		"quantity":    40,
		"minStock":    5,
		"destination": "INTERNAL",
		"unitCost":    "80",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.InventoryItem
	decodeData(t, env, &item)
	assert.Zero(t, item.Quantity)
	assert.Equal(t, models.OutOfStock, item.StockStatus)

	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/inventory/%d", item.ID), `{"quantity":10}`)
	assertFailure(t, w, env, http.StatusBadRequest, "error.quantityManaged")

	w, env = h.do(t, http.MethodGet, "/api/inventory?destination=SPA", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")
	w, env = h.do(t, http.MethodGet, "/api/inventory?stockStatus=PLENTY", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")

	var items []models.InventoryItem
	w, env = h.do(t, http.MethodGet, "/api/inventory?stockStatus=OUT_OF_STOCK&destination=INTERNAL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &items)
	assert.Len(t, items, 1)

	w, env = h.do(t, http.MethodGet, "/api/reports/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items = nil
	decodeData(t, env, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "TWL-01", items[0].SKU)
}

func TestPurchaseOrderHandlers(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	sup := models.Supplier{Name: "Riverside Wholesale"}
	require.NoError(t, services.NewSupplierService(h.db).Create(ctx, &sup))
	towels := models.InventoryItem{SKU: "TWL-01", Name: "Bath towel", MinStock: 5}
	require.NoError(t, services.NewInventoryService(h.db).Create(ctx, &towels))

	w, env := h.do(t, http.MethodPost, "/api/purchase-orders", map[string]interface{}{
		"supplierId": sup.ID,
		"items": []map[string]interface{}{
			{"inventoryItemId": towels.ID, "quantity": 10, "unitCost": "80"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var po models.PurchaseOrder
	decodeData(t, env, &po)
	assert.Equal(t, models.POPending, po.Status)

	w, env = h.do(t, http.MethodPost, "/api/purchase-orders", map[string]interface{}{"supplierId": 404,
		"items": []map[string]interface{}{{"description": "Ice", "quantity": 1}}})
	assertFailure(t, w, env, http.StatusNotFound, "error.supplierNotFound")

	w, env = h.do(t, http.MethodGet, "/api/purchase-orders?supplierId=abc", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")
	w, env = h.do(t, http.MethodGet, "/api/purchase-orders?status=LOST", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")

	path := fmt.Sprintf("/api/purchase-orders/%d/status", po.ID)
	w, env = h.do(t, http.MethodPatch, path, `{"status":"RECEIVED"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Purchase order "+po.OrderNumber+" received, inventory updated", env.Message)

	w, env = h.do(t, http.MethodPatch, path, `{"status":"RECEIVED"}`)
	assertFailure(t, w, env, http.StatusConflict, "error.invalidTransition")

	var orders []models.PurchaseOrder
	w, env = h.do(t, http.MethodGet, fmt.Sprintf("/api/purchase-orders?status=RECEIVED&supplierId=%d", sup.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &orders)
	assert.Len(t, orders, 1)

	w, env = h.do(t, http.MethodGet, "/api/purchase-orders/404", nil)
	assertFailure(t, w, env, http.StatusNotFound, "error.purchaseOrderNotFound")

	var invoices []models.Invoice
	w, env = h.do(t, http.MethodGet, "/api/invoices?type=PAYABLE&status=PAID", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &invoices)
	require.Len(t, invoices, 1)
	assert.NotNil(t, invoices[0].PaidAt)

	w, env = h.do(t, http.MethodGet, "/api/invoices?type=GIFT", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.invalidPayload")
	w, env = h.do(t, http.MethodPatch, "/api/invoices/404/status", `{"status":"PAID"}`)
	assertFailure(t, w, env, http.StatusNotFound, "error.invoiceNotFound")
	w, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/invoices/%d/status", invoices[0].ID), `{"status":"LATE"}`)
	assertFailure(t, w, env, http.StatusBadRequest, "error.validation")
}

func TestRevenueReportHandler(t *testing.T) {
	h := newAPIHarness(t)

	w, env := h.do(t, http.MethodGet, "/api/reports/revenue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rep services.RevenueReport
	decodeData(t, env, &rep)
	assert.Equal(t, "2025-06-01", rep.From)
	assert.Equal(t, "2025-07-01", rep.To)
	assert.Zero(t, rep.Reservations)

	w, env = h.do(t, http.MethodGet, "/api/reports/revenue?from=2025-06-10&to=2025-06-01", nil)
	assertFailure(t, w, env, http.StatusBadRequest, "error.validation")
	assert.Empty(t, h.notes.All(), "reports never notify")
}
