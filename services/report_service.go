package services

import (
	"context"
	"fmt"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type RevenueReport struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Reservations int             `json:"reservations"`
	Revenue      decimal.Decimal `json:"revenue"`
	LostRevenue  decimal.Decimal `json:"lostRevenue"`
	RoomNights   int             `json:"roomNights"`
	DayStays     int             `json:"dayStays"`
	ByStatus     map[string]int  `json:"byStatus"`
	BySource     map[string]int  `json:"bySource"`
}

// Revenue summarizes the reservations checking in during [from, to).
// Cancelled and no-show stays earn nothing; cancellations count as lost.
func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	from, to = utils.DateOf(from), utils.DateOf(to)
	if !to.After(from) {
		return nil, fmt.Errorf("%w: report end must be after its start", ErrValidation)
	}

	var list []models.Reservation
	if err := s.DB.WithContext(ctx).
		Where("check_in >= ? AND check_in < ?", datatypes.Date(from), datatypes.Date(to)).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	return summarizeRevenue(from, to, list), nil
}

func summarizeRevenue(from, to time.Time, list []models.Reservation) *RevenueReport {
	rep := &RevenueReport{
		From:        utils.FormatLocalDate(from),
		To:          utils.FormatLocalDate(to),
		Revenue:     decimal.Zero,
		LostRevenue: decimal.Zero,
		ByStatus:    map[string]int{},
		BySource:    map[string]int{},
	}
	for _, r := range list {
		rep.Reservations++
		rep.ByStatus[string(r.Status)]++
		rep.BySource[string(r.Source)]++

		switch r.Status {
		case models.ReservationCancelled:
			rep.LostRevenue = rep.LostRevenue.Add(r.TotalAmount)
			continue
		case models.ReservationNoShow:
			continue
		}
		rep.Revenue = rep.Revenue.Add(r.TotalAmount)
		if r.IsDayStay {
			rep.DayStays++
		} else {
			rep.RoomNights += r.Nights
		}
	}
	return rep
}

// LowStock lists items that are low or out, emptiest first.
func (s *ReportService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.DB.WithContext(ctx).
		Where("quantity <= min_stock").
		Order("quantity ASC, name ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return items, nil
}
