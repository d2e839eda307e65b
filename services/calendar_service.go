package services

import (
	"context"
	"fmt"
	"time"

	"hotel-pms/utils"
)

// CalendarService assembles the month grid from the room catalog and the
// reservations touching the month.
type CalendarService struct {
	Rooms        *RoomService
	Reservations *ReservationService
}

func NewCalendarService(rooms *RoomService, reservations *ReservationService) *CalendarService {
	return &CalendarService{Rooms: rooms, Reservations: reservations}
}

func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) (MonthGrid, error) {
	if month < time.January || month > time.December {
		return MonthGrid{}, fmt.Errorf("%w: month must be 1-12", ErrValidation)
	}
	rooms, err := s.Rooms.List(ctx)
	if err != nil {
		return MonthGrid{}, err
	}
	first := utils.FirstOfMonth(year, month)
	window := utils.NewDateRange(first, utils.AddDays(first, utils.DaysInMonth(year, month)))
	reservations, err := s.Reservations.List(ctx, ReservationFilter{Window: &window})
	if err != nil {
		return MonthGrid{}, err
	}
	return BuildMonthGrid(year, month, rooms, reservations), nil
}
