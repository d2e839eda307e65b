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
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationService struct {
	DB  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewReservationService(db *gorm.DB, log *zap.Logger) *ReservationService {
	return &ReservationService{DB: db, log: log, now: time.Now}
}

// CreateReservationInput is the booking form. Dates are "YYYY-MM-DD".
type CreateReservationInput struct {
	GuestName      string                   `json:"guestName"`
	GuestEmail     string                   `json:"guestEmail"`
	GuestPhone     string                   `json:"guestPhone"`
	RoomID         *uint                    `json:"roomId"`
	CheckIn        string                   `json:"checkIn"`
	CheckOut       string                   `json:"checkOut"`
	CheckInTime    *string                  `json:"checkInTime"`
	CheckOutTime   *string                  `json:"checkOutTime"`
	Guests         int                      `json:"guests"`
	IsDayStay      bool                     `json:"isDayStay"`
	ExtraBedCount  int                      `json:"extraBedCount"`
	ExtraWoodCount int                      `json:"extraWoodCount"`
	DiscountAmount decimal.Decimal          `json:"discountAmount"`
	Status         models.ReservationStatus `json:"status"`
	Source         models.ReservationSource `json:"source"`
	Notes          string                   `json:"notes"`
}

// stay is the validated, derived part of an input.
type stay struct {
	checkIn  time.Time
	checkOut time.Time
	nights   int
	occupied utils.DateRange
}

func (in *CreateReservationInput) validate() (stay, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	if in.GuestName == "" {
		return stay{}, fmt.Errorf("%w: guest name is required", ErrValidation)
	}
	if in.RoomID == nil || *in.RoomID == 0 {
		return stay{}, fmt.Errorf("%w: room selection is required", ErrValidation)
	}
	if in.Guests == 0 {
		in.Guests = 1
	}
	if in.Guests < 0 {
		return stay{}, fmt.Errorf("%w: guests must be at least 1", ErrValidation)
	}
	if in.ExtraBedCount < 0 || in.ExtraWoodCount < 0 {
		return stay{}, fmt.Errorf("%w: add-on counts must not be negative", ErrValidation)
	}
	if in.DiscountAmount.IsNegative() {
		return stay{}, fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}
	if in.Source == "" {
		in.Source = models.SourceDirect
	}
	if !in.Source.Valid() {
		return stay{}, fmt.Errorf("%w: unknown source %q", ErrValidation, in.Source)
	}
	switch in.Status {
	case "":
		in.Status = models.ReservationPending
	case models.ReservationPending, models.ReservationConfirmed:
	default:
		return stay{}, fmt.Errorf("%w: new reservations start PENDING or CONFIRMED", ErrValidation)
	}

	ci, err := utils.ParseLocalDate(in.CheckIn)
	if err != nil {
		return stay{}, fmt.Errorf("%w: check-in: %v", ErrValidation, err)
	}
	if in.IsDayStay {
		return stay{
			checkIn:  ci,
			checkOut: ci,
			occupied: utils.NewDateRange(ci, utils.AddDays(ci, 1)),
		}, nil
	}
	co, err := utils.ParseLocalDate(in.CheckOut)
	if err != nil {
		return stay{}, fmt.Errorf("%w: check-out: %v", ErrValidation, err)
	}
	nights := utils.NightsBetween(ci, co)
	if nights <= 0 {
		return stay{}, fmt.Errorf("%w: stay must be at least one night", ErrValidation)
	}
	return stay{checkIn: ci, checkOut: co, nights: nights, occupied: utils.NewDateRange(ci, co)}, nil
}

func checkRoomBookable(room models.Room, guests int) error {
	if room.Status == models.RoomOutOfOrder || room.Status == models.RoomOutOfService {
		return fmt.Errorf("%w: room %s is %s", ErrRoomUnavailable, room.RoomNumber, room.Status)
	}
	if guests > room.Capacity {
		return fmt.Errorf("%w: room %s holds at most %d guests", ErrValidation, room.RoomNumber, room.Capacity)
	}
	return nil
}

// Quote prices a booking form without persisting anything.
func (s *ReservationService) Quote(ctx context.Context, in CreateReservationInput) (PriceQuote, error) {
	st, err := in.validate()
	if err != nil {
		return PriceQuote{}, err
	}
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, *in.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PriceQuote{}, ErrRoomNotFound
		}
		return PriceQuote{}, fmt.Errorf("failed to load room: %w", err)
	}
	return Quote(room, st.nights, in.IsDayStay, in.ExtraBedCount, in.ExtraWoodCount, in.DiscountAmount), nil
}

// Create books a room. The room row is locked while its reservations are
// checked so two bookings for the same nights cannot both pass.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	st, err := in.validate()
	if err != nil {
		return nil, err
	}

	var created models.Reservation
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, *in.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to load room %d: %w", *in.RoomID, err)
		}
		if err := checkRoomBookable(room, in.Guests); err != nil {
			return err
		}

		existing, err := liveReservationsForRoom(tx, room.ID, 0)
		if err != nil {
			return err
		}
		if !IsRoomAvailable(st.occupied, existing) {
			return fmt.Errorf("%w: room %s, %s", ErrRoomUnavailable, room.RoomNumber, st.occupied)
		}

		quote := Quote(room, st.nights, in.IsDayStay, in.ExtraBedCount, in.ExtraWoodCount, in.DiscountAmount)
		created = models.Reservation{
			GuestName:      in.GuestName,
			GuestEmail:     strings.TrimSpace(in.GuestEmail),
			GuestPhone:     strings.TrimSpace(in.GuestPhone),
			RoomID:         &room.ID,
			CheckInTime:    in.CheckInTime,
			CheckOutTime:   in.CheckOutTime,
			IsDayStay:      in.IsDayStay,
			Nights:         st.nights,
			Guests:         in.Guests,
			ExtraBedCount:  in.ExtraBedCount,
			ExtraWoodCount: in.ExtraWoodCount,
			DiscountAmount: in.DiscountAmount,
			TotalAmount:    quote.Total,
			Status:         in.Status,
			Source:         in.Source,
			Notes:          strings.TrimSpace(in.Notes),
		}
		created.SetStay(st.checkIn, st.checkOut)

		code, err := s.uniqueConfirmationCode(tx)
		if err != nil {
			return err
		}
		created.ConfirmationCode = code
		if err := tx.Create(&created).Error; err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%w: confirmation code %s", ErrDuplicate, code)
			}
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.Info("reservation created",
		zap.Uint("reservation_id", created.ID),
		zap.String("confirmation_code", created.ConfirmationCode),
		zap.Uint("room_id", *created.RoomID),
		zap.String("stay", st.occupied.String()),
	)
	return s.Get(ctx, created.ID)
}

// uniqueConfirmationCode draws codes until one is unused. Checking before the
// insert keeps a collision from aborting the surrounding transaction.
func (s *ReservationService) uniqueConfirmationCode(tx *gorm.DB) (string, error) {
	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, err := utils.NewConfirmationCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %w", err)
		}
		var n int64
		if err := tx.Model(&models.Reservation{}).Unscoped().
			Where("confirmation_code = ?", code).Count(&n).Error; err != nil {
			return "", fmt.Errorf("failed to check confirmation code: %w", err)
		}
		if n == 0 {
			return code, nil
		}
		s.log.Warn("confirmation code collision, retrying", zap.Int("attempt", attempt))
	}
	return "", fmt.Errorf("%w: no free confirmation code after %d attempts", ErrDuplicate, maxAttempts)
}

// liveReservationsForRoom returns the reservations that can still block the
// room, leaving out the one being edited.
func liveReservationsForRoom(tx *gorm.DB, roomID, exclude uint) ([]models.Reservation, error) {
	var list []models.Reservation
	q := tx.Where("room_id = ? AND status NOT IN ?", roomID, terminalReservationStatuses)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations of room %d: %w", roomID, err)
	}
	return list, nil
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.WithContext(ctx).Preload("Room").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to load reservation %d: %w", id, err)
	}
	return &r, nil
}

type ReservationFilter struct {
	Status *models.ReservationStatus
	RoomID *uint
	// Window keeps reservations occupying at least one of its days.
	Window *utils.DateRange
}

func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Preload("Room").Order("check_in ASC, id ASC")
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.Window != nil {
		// coarse in SQL, exact below; day stays have check_out == check_in
		q = q.Where("check_in < ? AND check_out >= ?",
			datatypes.Date(f.Window.End), datatypes.Date(f.Window.Start))
	}

	var list []models.Reservation
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	if f.Window == nil {
		return list, nil
	}
	out := list[:0]
	for _, r := range list {
		if r.OccupiedRange().Overlaps(*f.Window) {
			out = append(out, r)
		}
	}
	return out, nil
}

var reservationTransitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationPending:   {models.ReservationConfirmed, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationConfirmed: {models.ReservationCheckedIn, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationCheckedIn: {models.ReservationCheckedOut},
}

func canTransition(from, to models.ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves a reservation along its lifecycle. Check-in occupies the
// room and check-out frees it in the same transaction.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, to models.ReservationStatus) (*models.Reservation, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if r.Status == to {
			return nil
		}
		if !canTransition(r.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
		}

		now := s.now().UTC()
		fields := map[string]interface{}{"status": to}
		var roomStatus models.RoomStatus
		switch to {
		case models.ReservationCheckedIn:
			if r.RoomID == nil {
				return fmt.Errorf("%w: assign a room before check-in", ErrValidation)
			}
			fields["checked_in_at"] = now
			roomStatus = models.RoomOccupied
		case models.ReservationCheckedOut:
			fields["checked_out_at"] = now
			roomStatus = models.RoomAvailable
		case models.ReservationCancelled:
			fields["cancelled_at"] = now
		}

		if err := tx.Model(&r).Updates(fields).Error; err != nil {
			return err
		}
		if roomStatus != "" && r.RoomID != nil {
			if err := tx.Model(&models.Room{}).Where("id = ?", *r.RoomID).
				Update("status", roomStatus).Error; err != nil {
				return fmt.Errorf("failed to update room %d status: %w", *r.RoomID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete reservation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// Reschedule commits a calendar drop: new dates and/or a new room, written
// with a single update. The target room must be free for the shifted stay.
func (s *ReservationService) Reschedule(ctx context.Context, req RescheduleRequest) (*models.Reservation, error) {
	if !req.DatesChanged() && !req.RoomChanged {
		return nil, fmt.Errorf("%w: nothing to change", ErrValidation)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, req.ReservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if r.Status.Terminal() {
			return fmt.Errorf("%w: %s reservations cannot be moved", ErrInvalidTransition, r.Status)
		}

		fields := map[string]interface{}{}
		moved := r
		if req.DatesChanged() {
			// Both ends move by the same shift from the stored row.
			checkIn := utils.AddDays(r.CheckInDay(), req.DayShift)
			checkOut := utils.AddDays(r.CheckOutDay(), req.DayShift)
			if !checkIn.Equal(utils.DateOf(req.CheckIn)) ||
				(!req.CheckOut.IsZero() && !checkOut.Equal(utils.DateOf(req.CheckOut))) {
				return fmt.Errorf("%w: reservation %d", ErrStale, r.ID)
			}
			moved.SetStay(checkIn, checkOut)
			fields["check_in"] = moved.CheckIn
			fields["check_out"] = moved.CheckOut
		}
		targetRoomID := r.RoomID
		if req.RoomChanged {
			var room models.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("room_number = ?", req.RoomCode).First(&room).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrRoomNotFound, req.RoomCode)
				}
				return err
			}
			if err := checkRoomBookable(room, r.Guests); err != nil {
				return err
			}
			targetRoomID = &room.ID
			fields["room_id"] = room.ID
		}

		if targetRoomID != nil {
			others, err := liveReservationsForRoom(tx, *targetRoomID, r.ID)
			if err != nil {
				return err
			}
			if !IsRoomAvailable(moved.OccupiedRange(), others) {
				return fmt.Errorf("%w: %s", ErrRoomUnavailable, moved.OccupiedRange())
			}
		}

		return tx.Model(&models.Reservation{}).Where("id = ?", r.ID).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation rescheduled",
		zap.Uint("reservation_id", req.ReservationID),
		zap.Int("day_shift", req.DayShift),
		zap.Bool("room_changed", req.RoomChanged),
		zap.String("room", req.RoomCode),
	)
	return s.Get(ctx, req.ReservationID)
}
