package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrderStatus string

const (
	PODraft     PurchaseOrderStatus = "DRAFT"
	POPending   PurchaseOrderStatus = "PENDING"
	POApproved  PurchaseOrderStatus = "APPROVED"
	POOrdered   PurchaseOrderStatus = "ORDERED"
	POReceived  PurchaseOrderStatus = "RECEIVED"
	POCancelled PurchaseOrderStatus = "CANCELLED"
)

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PODraft, POPending, POApproved, POOrdered, POReceived, POCancelled:
		return true
	}
	return false
}

func (s PurchaseOrderStatus) Terminal() bool {
	return s == POReceived || s == POCancelled
}

type PurchaseOrder struct {
	gorm.Model

	OrderNumber  string              `gorm:"column:order_number;uniqueIndex;size:32" json:"orderNumber"`
	SupplierID   uint                `gorm:"index;not null" json:"supplierId"`
	Supplier     *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Status       PurchaseOrderStatus `gorm:"size:32;index;default:PENDING" json:"status"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(12,2);default:0" json:"totalAmount"`
	InvoiceID    *uint               `gorm:"index" json:"invoiceId,omitempty"`
	ExpectedDate *time.Time          `json:"expectedDate,omitempty"`
	ReceivedAt   *time.Time          `json:"receivedAt,omitempty"`
	Notes        string              `gorm:"type:text" json:"notes,omitempty"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
}

type PurchaseOrderItem struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	PurchaseOrderID uint `gorm:"index;not null" json:"purchaseOrderId"`
	// InventoryItemID is nil for free-text lines that do not restock anything.
	InventoryItemID *uint           `gorm:"index" json:"inventoryItemId,omitempty"`
	Description     string          `gorm:"size:255" json:"description,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitCost"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lineTotal"`
}
