package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-pms/models"

	"gorm.io/gorm"
)

type InvoiceService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db, now: time.Now}
}

type InvoiceFilter struct {
	Type   *models.InvoiceType
	Status *models.InvoiceStatus
}

func (s *InvoiceService) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	var list []models.Invoice
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return list, nil
}

func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to load invoice %d: %w", id, err)
	}
	return &inv, nil
}

// UpdateStatus sets the status. Paying stamps paidAt, leaving PAID clears it.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uint, to models.InvoiceStatus) (*models.Invoice, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", ErrValidation, to)
	}
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == to {
		return inv, nil
	}
	if inv.Status == models.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice is cancelled", ErrInvalidTransition)
	}

	fields := map[string]interface{}{"status": to}
	if to == models.InvoicePaid {
		fields["paid_at"] = s.now().UTC()
	} else {
		fields["paid_at"] = nil
	}
	if err := s.DB.WithContext(ctx).Model(inv).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update invoice %d: %w", id, err)
	}
	return s.Get(ctx, id)
}
