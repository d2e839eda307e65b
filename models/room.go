package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable    RoomStatus = "AVAILABLE"
	RoomOccupied     RoomStatus = "OCCUPIED"
	RoomReserved     RoomStatus = "RESERVED"
	RoomOutOfOrder   RoomStatus = "OUT_OF_ORDER"
	RoomOutOfService RoomStatus = "OUT_OF_SERVICE"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomReserved, RoomOutOfOrder, RoomOutOfService:
		return true
	}
	return false
}

type Room struct {
	gorm.Model

	RoomNumber  string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Name        string `json:"name" gorm:"size:255"`
	Type        string `json:"type" gorm:"size:100"`
	Floor       string `json:"floor" gorm:"type:varchar(10)"`
	Description string `json:"description" gorm:"type:text"`

	Price decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	// Optional overrides. Only DayStayPrice takes part in pricing; weekday and
	// weekend prices are kept for the admin screens.
	DayStayPrice *decimal.Decimal `json:"dayStayPrice,omitempty" gorm:"type:decimal(12,2)"`
	WeekdayPrice *decimal.Decimal `json:"weekdayPrice,omitempty" gorm:"type:decimal(12,2)"`
	WeekendPrice *decimal.Decimal `json:"weekendPrice,omitempty" gorm:"type:decimal(12,2)"`

	Capacity  int            `json:"capacity" gorm:"column:capacity;not null;default:1"`
	Status    RoomStatus     `json:"status" gorm:"size:32;index;default:AVAILABLE"`
	Amenities datatypes.JSON `json:"amenities,omitempty" gorm:"column:amenities"`
}
