package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invoiceTerm is how long after ordering a supplier invoice falls due.
const invoiceTerm = 30 * 24 * time.Hour

type PurchaseOrderService struct {
	DB  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewPurchaseOrderService(db *gorm.DB, log *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{DB: db, log: log, now: time.Now}
}

type PurchaseOrderLineInput struct {
	InventoryItemID *uint           `json:"inventoryItemId"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unitCost"`
}

type CreatePurchaseOrderInput struct {
	SupplierID   uint                       `json:"supplierId"`
	Status       models.PurchaseOrderStatus `json:"status"`
	ExpectedDate string                     `json:"expectedDate"`
	Notes        string                     `json:"notes"`
	Items        []PurchaseOrderLineInput   `json:"items"`
}

// Create stores the order with its lines, opens the payable invoice for it
// and counts the order on the supplier. All of it commits or none does.
func (s *PurchaseOrderService) Create(ctx context.Context, in CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	if in.SupplierID == 0 {
		return nil, fmt.Errorf("%w: supplier is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	switch in.Status {
	case "":
		in.Status = models.POPending
	case models.PODraft, models.POPending:
	default:
		return nil, fmt.Errorf("%w: new purchase orders start DRAFT or PENDING", ErrValidation)
	}

	var expected *time.Time
	if strings.TrimSpace(in.ExpectedDate) != "" {
		d, err := utils.ParseLocalDate(in.ExpectedDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expected date: %v", ErrValidation, err)
		}
		expected = &d
	}

	lines := make([]models.PurchaseOrderItem, 0, len(in.Items))
	total := decimal.Zero
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d: quantity must be positive", ErrValidation, i+1)
		}
		if it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: unit cost must not be negative", ErrValidation, i+1)
		}
		if it.InventoryItemID == nil && strings.TrimSpace(it.Description) == "" {
			return nil, fmt.Errorf("%w: line %d: item or description is required", ErrValidation, i+1)
		}
		lineTotal := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, models.PurchaseOrderItem{
			InventoryItemID: it.InventoryItemID,
			Description:     strings.TrimSpace(it.Description),
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			LineTotal:       lineTotal,
		})
	}

	now := s.now().UTC()
	po := models.PurchaseOrder{
		OrderNumber:  utils.NewDocumentNumber("PO", now),
		SupplierID:   in.SupplierID,
		Status:       in.Status,
		TotalAmount:  total,
		ExpectedDate: expected,
		Notes:        strings.TrimSpace(in.Notes),
		Items:        lines,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSupplier(tx, in.SupplierID); err != nil {
			return err
		}
		for _, l := range lines {
			if l.InventoryItemID == nil {
				continue
			}
			var n int64
			if err := tx.Model(&models.InventoryItem{}).Where("id = ?", *l.InventoryItemID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %d", ErrInventoryItemNotFound, *l.InventoryItemID)
			}
		}

		if err := tx.Create(&po).Error; err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		due := now.Add(invoiceTerm)
		inv := models.Invoice{
			InvoiceNumber:   utils.NewDocumentNumber("INV", now),
			Type:            models.InvoicePayable,
			Status:          models.InvoicePending,
			Amount:          total,
			SupplierID:      &po.SupplierID,
			PurchaseOrderID: &po.ID,
			DueDate:         &due,
			Description:     "Purchase order " + po.OrderNumber,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).Update("invoice_id", inv.ID).Error; err != nil {
			return err
		}
		po.InvoiceID = &inv.ID

		return tx.Model(&models.Supplier{}).Where("id = ?", po.SupplierID).
			UpdateColumn("total_orders", gorm.Expr("total_orders + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order created",
		zap.Uint("purchase_order_id", po.ID),
		zap.String("order_number", po.OrderNumber),
		zap.Uint("supplier_id", po.SupplierID),
		zap.String("total", total.StringFixed(2)),
	)
	return s.Get(ctx, po.ID)
}

type PurchaseOrderFilter struct {
	Status     *models.PurchaseOrderStatus
	SupplierID *uint
}

func (s *PurchaseOrderService) List(ctx context.Context, f PurchaseOrderFilter) ([]models.PurchaseOrder, error) {
	q := s.DB.WithContext(ctx).Preload("Supplier").Preload("Items").Order("created_at DESC")
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.SupplierID != nil {
		q = q.Where("supplier_id = ?", *f.SupplierID)
	}
	var list []models.PurchaseOrder
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return list, nil
}

func (s *PurchaseOrderService) Get(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := s.DB.WithContext(ctx).Preload("Supplier").Preload("Items").First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order %d: %w", id, err)
	}
	return &po, nil
}

var purchaseOrderTransitions = map[models.PurchaseOrderStatus][]models.PurchaseOrderStatus{
	models.PODraft:    {models.POPending, models.POCancelled},
	models.POPending:  {models.POApproved, models.POOrdered, models.POReceived, models.POCancelled},
	models.POApproved: {models.POOrdered, models.POReceived, models.POCancelled},
	models.POOrdered:  {models.POReceived, models.POCancelled},
}

func canTransitionPO(from, to models.PurchaseOrderStatus) bool {
	for _, next := range purchaseOrderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an order along its lifecycle. Receiving restocks every
// resolvable line and settles the linked invoice inside one transaction;
// cancelling cancels a still pending invoice.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, id uint, to models.PurchaseOrderStatus) (*models.PurchaseOrder, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po models.PurchaseOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Items").First(&po, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseOrderNotFound
			}
			return err
		}
		if !canTransitionPO(po.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, po.Status, to)
		}

		byID := tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID)
		switch to {
		case models.POReceived:
			return s.receive(tx, &po)
		case models.POCancelled:
			if err := byID.Update("status", to).Error; err != nil {
				return err
			}
			return tx.Model(&models.Invoice{}).
				Where("purchase_order_id = ? AND status = ?", po.ID, models.InvoicePending).
				Update("status", models.InvoiceCancelled).Error
		default:
			return byID.Update("status", to).Error
		}
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// receive runs the receipt cascade on a locked order.
func (s *PurchaseOrderService) receive(tx *gorm.DB, po *models.PurchaseOrder) error {
	now := s.now().UTC()

	if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).Updates(map[string]interface{}{
		"status":      models.POReceived,
		"received_at": now,
	}).Error; err != nil {
		return fmt.Errorf("failed to mark purchase order received: %w", err)
	}

	restocked := 0
	for _, line := range po.Items {
		if line.InventoryItemID == nil {
			continue
		}
		res := tx.Model(&models.InventoryItem{}).
			Where("id = ?", *line.InventoryItemID).
			Updates(map[string]interface{}{
				"quantity":       gorm.Expr("quantity + ?", line.Quantity),
				"last_restocked": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to restock item %d: %w", *line.InventoryItemID, res.Error)
		}
		if res.RowsAffected == 0 {
			s.log.Warn("purchase order line references a missing inventory item",
				zap.Uint("purchase_order_id", po.ID),
				zap.Uint("inventory_item_id", *line.InventoryItemID),
			)
			continue
		}
		restocked++
	}

	if po.InvoiceID != nil {
		// A cancelled invoice stays cancelled.
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status <> ?", *po.InvoiceID, models.InvoiceCancelled).
			Updates(map[string]interface{}{"status": models.InvoicePaid, "paid_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to settle invoice %d: %w", *po.InvoiceID, res.Error)
		}
		if res.RowsAffected == 0 {
			s.log.Warn("purchase order invoice missing or cancelled, not settled",
				zap.Uint("purchase_order_id", po.ID),
				zap.Uint("invoice_id", *po.InvoiceID),
			)
		}
	}

	s.log.Info("purchase order received",
		zap.Uint("purchase_order_id", po.ID),
		zap.Int("lines", len(po.Items)),
		zap.Int("restocked", restocked),
	)
	return nil
}
