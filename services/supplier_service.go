package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SupplierService struct {
	DB *gorm.DB
}

func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{DB: db}
}

func (s *SupplierService) List(ctx context.Context) ([]models.Supplier, error) {
	var list []models.Supplier
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return list, nil
}

func (s *SupplierService) Get(ctx context.Context, id uint) (*models.Supplier, error) {
	var sup models.Supplier
	if err := s.DB.WithContext(ctx).First(&sup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to load supplier %d: %w", id, err)
	}
	return &sup, nil
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

func (s *SupplierService) Create(ctx context.Context, sup *models.Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return fmt.Errorf("%w: supplier name is required", ErrValidation)
	}
	if sup.Rating == 0 {
		sup.Rating = 3
	}
	if !validRating(sup.Rating) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	sup.TotalOrders = 0
	if err := s.DB.WithContext(ctx).Create(sup).Error; err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

var supplierPatchColumns = map[string]string{
	"name":        "name",
	"contactName": "contact_name",
	"email":       "email",
	"phone":       "phone",
	"address":     "address",
	"categories":  "categories",
	"rating":      "rating",
	"notes":       "notes",
}

func (s *SupplierService) Update(ctx context.Context, id uint, patch map[string]interface{}) (*models.Supplier, error) {
	fields := make(map[string]interface{}, len(patch))
	for key, v := range patch {
		switch key {
		case "id", "createdAt", "updatedAt", "totalOrders":
			continue
		}
		col, ok := supplierPatchColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown supplier field %q", ErrValidation, key)
		}
		switch key {
		case "name":
			name, _ := v.(string)
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("%w: supplier name is required", ErrValidation)
			}
			v = strings.TrimSpace(name)
		case "rating":
			n, _ := v.(float64)
			if !validRating(int(n)) || n != float64(int(n)) {
				return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
			}
			v = int(n)
		case "categories":
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("%w: categories: %v", ErrValidation, err)
			}
			v = datatypes.JSON(raw)
		}
		fields[col] = v
	}

	sup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return sup, nil
	}
	if err := s.DB.WithContext(ctx).Model(sup).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete refuses suppliers that still have open purchase orders.
func (s *SupplierService) Delete(ctx context.Context, id uint) error {
	var open int64
	if err := s.DB.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("supplier_id = ? AND status NOT IN ?", id,
			[]models.PurchaseOrderStatus{models.POReceived, models.POCancelled}).
		Count(&open).Error; err != nil {
		return fmt.Errorf("failed to check purchase orders of supplier %d: %w", id, err)
	}
	if open > 0 {
		return ErrSupplierInUse
	}

	res := s.DB.WithContext(ctx).Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete supplier %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}
