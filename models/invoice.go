package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceType string

const (
	InvoicePayable    InvoiceType = "PAYABLE"
	InvoiceReceivable InvoiceType = "RECEIVABLE"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

type Invoice struct {
	gorm.Model

	InvoiceNumber   string          `gorm:"column:invoice_number;uniqueIndex;size:32" json:"invoiceNumber"`
	Type            InvoiceType     `gorm:"size:16;index" json:"type"`
	Status          InvoiceStatus   `gorm:"size:16;index;default:PENDING" json:"status"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"amount"`
	SupplierID      *uint           `gorm:"index" json:"supplierId,omitempty"`
	PurchaseOrderID *uint           `gorm:"index" json:"purchaseOrderId,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	Description     string          `gorm:"size:255" json:"description,omitempty"`
}
