package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
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

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseLocalDate(s)
	require.NoError(t, err)
	return d
}

func rangeOf(t *testing.T, checkIn, checkOut string) utils.DateRange {
	return utils.NewDateRange(date(t, checkIn), date(t, checkOut))
}

func roomID(id uint) *uint { return &id }

func reservation(t *testing.T, id, room uint, checkIn, checkOut string, status models.ReservationStatus) models.Reservation {
	r := models.Reservation{ID: id, RoomID: roomID(room), Status: status, GuestName: fmt.Sprintf("Guest %d", id)}
	r.SetStay(date(t, checkIn), date(t, checkOut))
	return r
}

func seedRoom(t *testing.T, db *gorm.DB, number string, capacity int, price string) models.Room {
	t.Helper()
	room := models.Room{
		RoomNumber: number,
		Capacity:   capacity,
		Price:      decimal.RequireFromString(price),
		Status:     models.RoomAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func nopLogger() *zap.Logger { return zap.NewNop() }

func modelID(id uint) gorm.Model { return gorm.Model{ID: id} }
