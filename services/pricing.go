package services

import (
	"hotel-pms/models"

	"github.com/shopspring/decimal"
)

// Add-on unit prices are house policy, identical for every room.
var (
	ExtraBedPrice  = decimal.NewFromInt(20)
	ExtraWoodPrice = decimal.NewFromInt(15)
)

// BaseAmount prices the room part of a stay: one unit at the day-stay rate
// (falling back to the nightly price) for a day stay, else price × nights.
func BaseAmount(room models.Room, nights int, isDayStay bool) decimal.Decimal {
	if isDayStay {
		if room.DayStayPrice != nil {
			return *room.DayStayPrice
		}
		return room.Price
	}
	return room.Price.Mul(decimal.NewFromInt(int64(nights)))
}

// ComputeTotal adds the add-ons, subtracts the discount and clamps at zero.
func ComputeTotal(base decimal.Decimal, extraBeds, extraWood int, discount decimal.Decimal) decimal.Decimal {
	total := base.
		Add(ExtraBedPrice.Mul(decimal.NewFromInt(int64(extraBeds)))).
		Add(ExtraWoodPrice.Mul(decimal.NewFromInt(int64(extraWood)))).
		Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// PriceQuote is the breakdown returned by the quote endpoint and stored on
// reservations.
type PriceQuote struct {
	Nights         int             `json:"nights"`
	IsDayStay      bool            `json:"isDayStay"`
	BaseAmount     decimal.Decimal `json:"baseAmount"`
	ExtraBedCount  int             `json:"extraBedCount"`
	ExtraBedTotal  decimal.Decimal `json:"extraBedTotal"`
	ExtraWoodCount int             `json:"extraWoodCount"`
	ExtraWoodTotal decimal.Decimal `json:"extraWoodTotal"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
}

func Quote(room models.Room, nights int, isDayStay bool, extraBeds, extraWood int, discount decimal.Decimal) PriceQuote {
	base := BaseAmount(room, nights, isDayStay)
	return PriceQuote{
		Nights:         nights,
		IsDayStay:      isDayStay,
		BaseAmount:     base,
		ExtraBedCount:  extraBeds,
		ExtraBedTotal:  ExtraBedPrice.Mul(decimal.NewFromInt(int64(extraBeds))),
		ExtraWoodCount: extraWood,
		ExtraWoodTotal: ExtraWoodPrice.Mul(decimal.NewFromInt(int64(extraWood))),
		Discount:       discount,
		Total:          ComputeTotal(base, extraBeds, extraWood, discount),
	}
}
