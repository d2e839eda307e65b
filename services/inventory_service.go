package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

type InventoryFilter struct {
	Destination *models.Destination
	Category    string
	StockStatus *models.StockStatus
}

func (s *InventoryService) List(ctx context.Context, f InventoryFilter) ([]models.InventoryItem, error) {
	q := s.DB.WithContext(ctx).Order("name ASC")
	if f.Destination != nil {
		q = q.Where("destination = ?", *f.Destination)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if f.StockStatus == nil {
		return items, nil
	}
	// stock status is derived, so it is filtered after loading
	out := items[:0]
	for _, it := range items {
		if it.StockStatus == *f.StockStatus {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to load inventory item %d: %w", id, err)
	}
	return &item, nil
}

// Create adds a catalog entry. Stock always starts at zero whatever the
// caller sent.
func (s *InventoryService) Create(ctx context.Context, item *models.InventoryItem) error {
	item.SKU = strings.TrimSpace(item.SKU)
	item.Name = strings.TrimSpace(item.Name)
	if item.SKU == "" || item.Name == "" {
		return fmt.Errorf("%w: sku and name are required", ErrValidation)
	}
	if item.MinStock < 0 || item.MaxStock < 0 {
		return fmt.Errorf("%w: stock thresholds must not be negative", ErrValidation)
	}
	if item.UnitCost.IsNegative() {
		return fmt.Errorf("%w: unit cost must not be negative", ErrValidation)
	}
	if item.Destination == "" {
		item.Destination = models.DestinationInternal
	}
	if !item.Destination.Valid() {
		return fmt.Errorf("%w: unknown destination %q", ErrValidation, item.Destination)
	}
	if item.SupplierID != nil {
		if err := ensureSupplier(s.DB.WithContext(ctx), *item.SupplierID); err != nil {
			return err
		}
	}
	item.Quantity = 0
	item.LastRestocked = nil

	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: sku %q", ErrDuplicate, item.SKU)
		}
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

var inventoryPatchColumns = map[string]string{
	"sku":         "sku",
	"name":        "name",
	"category":    "category",
	"unit":        "unit",
	"minStock":    "min_stock",
	"maxStock":    "max_stock",
	"destination": "destination",
	"unitCost":    "unit_cost",
	"sellPrice":   "sell_price",
	"supplierId":  "supplier_id",
}

func (s *InventoryService) Update(ctx context.Context, id uint, patch map[string]interface{}) (*models.InventoryItem, error) {
	fields := make(map[string]interface{}, len(patch))
	for key, v := range patch {
		switch key {
		case "quantity", "lastRestocked":
			return nil, ErrQuantityManaged
		case "id", "createdAt", "updatedAt", "stockStatus":
			continue
		}
		col, ok := inventoryPatchColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown inventory field %q", ErrValidation, key)
		}
		switch key {
		case "destination":
			if d, _ := v.(string); !models.Destination(d).Valid() {
				return nil, fmt.Errorf("%w: unknown destination %v", ErrValidation, v)
			}
		case "minStock", "maxStock":
			if n, _ := v.(float64); n < 0 {
				return nil, fmt.Errorf("%w: %s must not be negative", ErrValidation, key)
			}
		case "unitCost", "sellPrice":
			if v != nil {
				d, err := decimalFromJSON(v)
				if err != nil || d.IsNegative() {
					return nil, fmt.Errorf("%w: %s must be a non-negative amount", ErrValidation, key)
				}
				v = d
			}
		case "supplierId":
			if v != nil {
				n, _ := v.(float64)
				if err := ensureSupplier(s.DB.WithContext(ctx), uint(n)); err != nil {
					return nil, err
				}
				v = uint(n)
			}
		}
		fields[col] = v
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return item, nil
	}
	if err := s.DB.WithContext(ctx).Model(item).Updates(fields).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: sku already used", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update inventory item %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete inventory item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInventoryItemNotFound
	}
	return nil
}

func ensureSupplier(db *gorm.DB, id uint) error {
	var n int64
	if err := db.Model(&models.Supplier{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check supplier %d: %w", id, err)
	}
	if n == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

// decimalFromJSON accepts the shapes a decoded JSON amount can take.
func decimalFromJSON(v interface{}) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	case decimal.Decimal:
		return x, nil
	}
	return decimal.Zero, fmt.Errorf("unsupported amount %v", v)
}
