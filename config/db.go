package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	// stay dates are zone-less; UTC keeps DATE columns from shifting a day
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("MYSQL_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "hotel_pms")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// dialectorFor picks the gorm driver from the shape of the DSN.
func dialectorFor(dsn string) (gorm.Dialector, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), "postgres"
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), "sqlite"
	case strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"):
		return sqlite.Open(dsn), "sqlite"
	default:
		return mysql.Open(dsn), "mysql"
	}
}

func newGormLogger(log *zap.Logger, dev bool) logger.Interface {
	level := logger.Warn
	if dev {
		level = logger.Info
	}
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ConnectDatabase opens the database, migrates the schema and seeds an empty
// property.
func ConnectDatabase(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	dsn, err := resolveDSN()
	if err != nil {
		return nil, err
	}
	dialector, driver := dialectorFor(dsn)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(log, cfg.IsDev())})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	log.Info("database connected", zap.String("driver", driver))

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.DBSeed {
		SeedDatabase(db, log)
	}

	return db, nil
}

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Room{},
		&models.Reservation{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Invoice{},
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// SeedDatabase fills an empty database with a small room catalog, one
// supplier and a few stock items. Existing data is never touched.
func SeedDatabase(db *gorm.DB, log *zap.Logger) {
	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", Name: "Garden Standard", Type: "Standard", Floor: "1", Capacity: 2,
				Price: dec("1200"), DayStayPrice: decPtr("700"), Status: models.RoomAvailable,
				Amenities: datatypes.JSON(`["wifi","air-conditioning"]`)},
			{RoomNumber: "102", Name: "Garden Standard", Type: "Standard", Floor: "1", Capacity: 2,
				Price: dec("1200"), DayStayPrice: decPtr("700"), Status: models.RoomAvailable,
				Amenities: datatypes.JSON(`["wifi","air-conditioning"]`)},
			{RoomNumber: "201", Name: "Superior Twin", Type: "Superior", Floor: "2", Capacity: 3,
				Price: dec("1800"), Status: models.RoomAvailable,
				Amenities: datatypes.JSON(`["wifi","air-conditioning","balcony"]`)},
			{RoomNumber: "301", Name: "Family Deluxe", Type: "Deluxe", Floor: "3", Capacity: 4,
				Price: dec("2600"), Status: models.RoomAvailable,
				Amenities: datatypes.JSON(`["wifi","air-conditioning","bathtub","sofa-bed"]`)},
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.Warn("failed to seed rooms", zap.Error(err))
		} else {
			log.Info("rooms seeded", zap.Int("count", len(rooms)))
		}
	}

	var supplierCount int64
	db.Model(&models.Supplier{}).Count(&supplierCount)
	if supplierCount > 0 {
		return
	}
	supplier := models.Supplier{
		Name:        "Riverside Wholesale",
		ContactName: "Front office",
		Categories:  datatypes.JSON(`["beverages","housekeeping"]`),
		Rating:      4,
	}
	if err := db.Create(&supplier).Error; err != nil {
		log.Warn("failed to seed supplier", zap.Error(err))
		return
	}
	items := []models.InventoryItem{
		{SKU: "BEV-WATER-600", Name: "Drinking water 600ml", Category: "beverages", Unit: "bottle",
			MinStock: 48, MaxStock: 240, Destination: models.DestinationBoth,
			UnitCost: dec("5"), SellPrice: decPtr("15"), SupplierID: &supplier.ID},
		{SKU: "HK-TOWEL-BATH", Name: "Bath towel", Category: "housekeeping", Unit: "piece",
			MinStock: 20, MaxStock: 80, Destination: models.DestinationInternal,
			UnitCost: dec("120"), SupplierID: &supplier.ID},
	}
	if err := db.Create(&items).Error; err != nil {
		log.Warn("failed to seed inventory", zap.Error(err))
		return
	}
	log.Info("supplier and inventory seeded")
}
