package models

import (
	"time"

	"hotel-pms/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "PENDING"
	ReservationConfirmed  ReservationStatus = "CONFIRMED"
	ReservationCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationCancelled  ReservationStatus = "CANCELLED"
	ReservationNoShow     ReservationStatus = "NO_SHOW"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Terminal statuses accept no further transition.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCheckedOut || s == ReservationCancelled || s == ReservationNoShow
}

type ReservationSource string

const (
	SourceDirect     ReservationSource = "DIRECT"
	SourceWebsite    ReservationSource = "WEBSITE"
	SourceBookingCom ReservationSource = "BOOKING_COM"
	SourceExpedia    ReservationSource = "EXPEDIA"
	SourceAirbnb     ReservationSource = "AIRBNB"
	SourceWalkIn     ReservationSource = "WALK_IN"
)

func (s ReservationSource) Valid() bool {
	switch s {
	case SourceDirect, SourceWebsite, SourceBookingCom, SourceExpedia, SourceAirbnb, SourceWalkIn:
		return true
	}
	return false
}

type Reservation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ConfirmationCode string `gorm:"column:confirmation_code;uniqueIndex;size:16" json:"confirmationCode"`
	GuestName        string `gorm:"size:255" json:"guestName"`
	GuestEmail       string `gorm:"size:255" json:"guestEmail,omitempty"`
	GuestPhone       string `gorm:"size:64" json:"guestPhone,omitempty"`

	// RoomID is nil for an unassigned reservation.
	RoomID *uint `gorm:"column:room_id;index" json:"roomId,omitempty"`
	Room   *Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`

	CheckIn      datatypes.Date `gorm:"column:check_in;index" json:"-"`
	CheckOut     datatypes.Date `gorm:"column:check_out;index" json:"-"`
	CheckInTime  *string        `gorm:"size:5" json:"checkInTime,omitempty"`
	CheckOutTime *string        `gorm:"size:5" json:"checkOutTime,omitempty"`
	IsDayStay    bool           `gorm:"column:is_day_stay;default:false" json:"isDayStay"`
	Nights       int            `gorm:"column:nights" json:"nights"`
	Guests       int            `gorm:"column:guests;default:1" json:"guests"`

	ExtraBedCount  int             `gorm:"default:0" json:"extraBedCount"`
	ExtraWoodCount int             `gorm:"default:0" json:"extraWoodCount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discountAmount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"totalAmount"`

	Status ReservationStatus `gorm:"size:32;index;default:PENDING" json:"status"`
	Source ReservationSource `gorm:"size:32;default:DIRECT" json:"source"`
	Notes  string            `gorm:"type:text" json:"notes,omitempty"`

	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	// wire form of the stay dates, filled by AfterFind
	CheckInDate  string `gorm:"-" json:"checkIn"`
	CheckOutDate string `gorm:"-" json:"checkOut"`
}

func (r *Reservation) AfterFind(tx *gorm.DB) error {
	r.fillDates()
	return nil
}

func (r *Reservation) AfterSave(tx *gorm.DB) error {
	r.fillDates()
	return nil
}

func (r *Reservation) fillDates() {
	r.CheckInDate = utils.FormatLocalDate(r.CheckInDay())
	r.CheckOutDate = utils.FormatLocalDate(r.CheckOutDay())
}

func (r Reservation) CheckInDay() time.Time  { return utils.DateOf(time.Time(r.CheckIn)) }
func (r Reservation) CheckOutDay() time.Time { return utils.DateOf(time.Time(r.CheckOut)) }

// StayRange is the literal [checkIn, checkOut) of the row.
func (r Reservation) StayRange() utils.DateRange {
	return utils.NewDateRange(r.CheckInDay(), r.CheckOutDay())
}

// OccupiedRange is the range of days the room is held. A day stay keeps
// checkIn == checkOut on the row but still holds the room for that one day.
func (r Reservation) OccupiedRange() utils.DateRange {
	if r.IsDayStay {
		return utils.NewDateRange(r.CheckInDay(), utils.AddDays(r.CheckInDay(), 1))
	}
	return r.StayRange()
}

// SetStay writes both stay dates as calendar days.
func (r *Reservation) SetStay(checkIn, checkOut time.Time) {
	r.CheckIn = datatypes.Date(utils.DateOf(checkIn))
	r.CheckOut = datatypes.Date(utils.DateOf(checkOut))
	r.fillDates()
}
