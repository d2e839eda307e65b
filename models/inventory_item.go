package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Destination string

const (
	DestinationRestaurant Destination = "RESTAURANT"
	DestinationMinimarket Destination = "MINIMARKET"
	DestinationBoth       Destination = "BOTH"
	DestinationInternal   Destination = "INTERNAL"
)

func (d Destination) Valid() bool {
	switch d {
	case DestinationRestaurant, DestinationMinimarket, DestinationBoth, DestinationInternal:
		return true
	}
	return false
}

type StockStatus string

const (
	OutOfStock StockStatus = "OUT_OF_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	InStock    StockStatus = "IN_STOCK"
)

func (s StockStatus) Valid() bool {
	return s == OutOfStock || s == LowStock || s == InStock
}

// StockStatusFor is the single place stock status is derived.
func StockStatusFor(quantity, minStock int) StockStatus {
	switch {
	case quantity <= 0:
		return OutOfStock
	case quantity <= minStock:
		return LowStock
	default:
		return InStock
	}
}

// InventoryItem.Quantity starts at 0 and only moves when a purchase order is
// received.
type InventoryItem struct {
	gorm.Model

	SKU         string      `gorm:"column:sku;uniqueIndex;size:64" json:"sku"`
	Name        string      `gorm:"size:255" json:"name"`
	Category    string      `gorm:"size:100;index" json:"category"`
	Unit        string      `gorm:"size:32" json:"unit,omitempty"`
	Quantity    int         `gorm:"not null;default:0" json:"quantity"`
	MinStock    int         `gorm:"column:min_stock;default:0" json:"minStock"`
	MaxStock    int         `gorm:"column:max_stock;default:0" json:"maxStock"`
	Destination Destination `gorm:"size:32;index;default:INTERNAL" json:"destination"`

	UnitCost  decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"unitCost"`
	SellPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"sellPrice,omitempty"`

	SupplierID    *uint      `gorm:"index" json:"supplierId,omitempty"`
	Supplier      *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	LastRestocked *time.Time `json:"lastRestocked,omitempty"`

	StockStatus StockStatus `gorm:"-" json:"stockStatus"`
}

func (i *InventoryItem) AfterFind(tx *gorm.DB) error {
	i.StockStatus = StockStatusFor(i.Quantity, i.MinStock)
	return nil
}

func (i *InventoryItem) AfterSave(tx *gorm.DB) error {
	i.StockStatus = StockStatusFor(i.Quantity, i.MinStock)
	return nil
}
