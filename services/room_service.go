package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"
	"hotel-pms/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	return &room, nil
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return fmt.Errorf("%w: room number is required", ErrValidation)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}
	if room.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !room.Status.Valid() {
		return fmt.Errorf("%w: unknown room status %q", ErrValidation, room.Status)
	}

	if err := s.DB.WithContext(ctx).Create(room).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: room number %q", ErrDuplicate, room.RoomNumber)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// roomPatchColumns maps patchable JSON keys to their columns. Identity and
// timestamps are not patchable.
var roomPatchColumns = map[string]string{
	"roomNumber":   "room_number",
	"name":         "name",
	"type":         "type",
	"floor":        "floor",
	"description":  "description",
	"price":        "price",
	"dayStayPrice": "day_stay_price",
	"weekdayPrice": "weekday_price",
	"weekendPrice": "weekend_price",
	"capacity":     "capacity",
	"status":       "status",
	"amenities":    "amenities",
}

// Update applies a partial patch; unspecified fields are untouched.
func (s *RoomService) Update(ctx context.Context, id uint, patch map[string]interface{}) (*models.Room, error) {
	fields := make(map[string]interface{}, len(patch))
	for key, v := range patch {
		switch key {
		case "id", "createdAt", "updatedAt", "deletedAt", "ID", "CreatedAt", "UpdatedAt", "DeletedAt":
			continue
		}
		col, ok := roomPatchColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown room field %q", ErrValidation, key)
		}
		switch key {
		case "status":
			if st, _ := v.(string); !models.RoomStatus(st).Valid() {
				return nil, fmt.Errorf("%w: unknown room status %v", ErrValidation, v)
			}
		case "roomNumber":
			num, _ := v.(string)
			if strings.TrimSpace(num) == "" {
				return nil, fmt.Errorf("%w: room number is required", ErrValidation)
			}
			v = strings.TrimSpace(num)
		case "capacity":
			n, ok := v.(float64)
			if !ok || n < 1 || n != float64(int(n)) {
				return nil, fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
			}
			v = int(n)
		case "price":
			d, err := decimalFromJSON(v)
			if err != nil || d.IsNegative() {
				return nil, fmt.Errorf("%w: price must be a non-negative amount", ErrValidation)
			}
			v = d
		case "dayStayPrice", "weekdayPrice", "weekendPrice":
			if v != nil {
				d, err := decimalFromJSON(v)
				if err != nil || d.IsNegative() {
					return nil, fmt.Errorf("%w: %s must be a non-negative amount", ErrValidation, key)
				}
				v = d
			}
		case "amenities":
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("%w: amenities: %v", ErrValidation, err)
			}
			v = datatypes.JSON(raw)
		}
		fields[col] = v
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return room, nil
	}
	if err := s.DB.WithContext(ctx).Model(room).Updates(fields).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: room number already used", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update room %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *RoomService) SetStatus(ctx context.Context, id uint, status models.RoomStatus) (*models.Room, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown room status %q", ErrValidation, status)
	}
	res := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update room %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRoomNotFound
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a room no live reservation points at.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	var active int64
	if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ? AND status NOT IN ?", id, terminalReservationStatuses).
		Count(&active).Error; err != nil {
		return fmt.Errorf("failed to check reservations of room %d: %w", id, err)
	}
	if active > 0 {
		return ErrRoomInUse
	}

	res := s.DB.WithContext(ctx).Delete(&models.Room{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

var terminalReservationStatuses = []models.ReservationStatus{
	models.ReservationCheckedOut, models.ReservationCancelled, models.ReservationNoShow,
}

// SearchAvailable loads the catalog and the live reservations and runs the
// availability filter over them.
func (s *RoomService) SearchAvailable(ctx context.Context, q AvailabilityQuery) (AvailabilityResult, error) {
	if q.Guests < 1 {
		q.Guests = 1
	}
	if q.Stay != nil && q.Stay.Empty() {
		return AvailabilityResult{}, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}

	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return AvailabilityResult{}, fmt.Errorf("failed to list rooms: %w", err)
	}

	var reservations []models.Reservation
	if q.Stay != nil {
		if err := s.DB.WithContext(ctx).
			Where("room_id IS NOT NULL AND status NOT IN ?", terminalReservationStatuses).
			Find(&reservations).Error; err != nil {
			return AvailabilityResult{}, fmt.Errorf("failed to list reservations: %w", err)
		}
	}

	return FilterBookableRooms(rooms, q, reservations), nil
}

// ParseStay turns the query strings of a search into a stay range. Both empty
// means no dates. A day stay covers the single check-in day.
func ParseStay(checkIn, checkOut string, dayStay bool) (*utils.DateRange, error) {
	checkIn, checkOut = strings.TrimSpace(checkIn), strings.TrimSpace(checkOut)
	if checkIn == "" && checkOut == "" {
		return nil, nil
	}
	ci, err := utils.ParseLocalDate(checkIn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if dayStay {
		r := utils.NewDateRange(ci, utils.AddDays(ci, 1))
		return &r, nil
	}
	co, err := utils.ParseLocalDate(checkOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	r := utils.NewDateRange(ci, co)
	if r.Empty() {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	return &r, nil
}
