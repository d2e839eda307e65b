package services

import (
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"
)

// BarSpan projects a stay onto a month grid. start is the check-in day (1 if
// the stay began earlier), end is the last occupied night, the day before
// check-out (daysInMonth if the stay runs past the month). ok is false when
// the stay has no day inside the month.
func BarSpan(r models.Reservation, year int, month time.Month) (start, end int, ok bool) {
	occupied := r.OccupiedRange()
	if occupied.Empty() {
		return 0, 0, false
	}
	days := utils.DaysInMonth(year, month)
	first := utils.FirstOfMonth(year, month)
	visible := utils.NewDateRange(first, utils.AddDays(first, days))
	if !occupied.Overlaps(visible) {
		return 0, 0, false
	}

	lastNight := utils.AddDays(occupied.End, -1)

	start = 1
	if utils.IsInMonth(occupied.Start, year, month) {
		start = occupied.Start.Day()
	}
	end = days
	if utils.IsInMonth(lastNight, year, month) {
		end = lastNight.Day()
	}
	return start, end, true
}

type CalendarBar struct {
	ReservationID    uint                     `json:"reservationId"`
	ConfirmationCode string                   `json:"confirmationCode"`
	GuestName        string                   `json:"guestName"`
	RoomCode         string                   `json:"roomCode"`
	Status           models.ReservationStatus `json:"status"`
	StartDay         int                      `json:"startDay"`
	EndDay           int                      `json:"endDay"`
	CheckIn          time.Time                `json:"-"`
	CheckOut         time.Time                `json:"-"`
	CheckInDate      string                   `json:"checkIn"`
	CheckOutDate     string                   `json:"checkOut"`
	IsDayStay        bool                     `json:"isDayStay"`
}

type CalendarRow struct {
	RoomID   uint          `json:"roomId"`
	RoomCode string        `json:"roomCode"`
	RoomName string        `json:"roomName,omitempty"`
	Bars     []CalendarBar `json:"bars"`
}

type MonthGrid struct {
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	DaysInMonth int           `json:"daysInMonth"`
	Rows        []CalendarRow `json:"rows"`
	Unassigned  []CalendarBar `json:"unassigned"`
}

// BuildMonthGrid lays every drawable reservation out on one row per room,
// rooms in source order. Cancelled and no-show stays are not drawn.
func BuildMonthGrid(year int, month time.Month, rooms []models.Room, reservations []models.Reservation) MonthGrid {
	grid := MonthGrid{
		Year:        year,
		Month:       int(month),
		DaysInMonth: utils.DaysInMonth(year, month),
		Rows:        make([]CalendarRow, 0, len(rooms)),
		Unassigned:  []CalendarBar{},
	}

	rowIdx := make(map[uint]int, len(rooms))
	for _, room := range rooms {
		rowIdx[room.ID] = len(grid.Rows)
		grid.Rows = append(grid.Rows, CalendarRow{
			RoomID:   room.ID,
			RoomCode: room.RoomNumber,
			RoomName: room.Name,
			Bars:     []CalendarBar{},
		})
	}

	for _, r := range reservations {
		if r.Status == models.ReservationCancelled || r.Status == models.ReservationNoShow {
			continue
		}
		start, end, ok := BarSpan(r, year, month)
		if !ok {
			continue
		}
		bar := CalendarBar{
			ReservationID:    r.ID,
			ConfirmationCode: r.ConfirmationCode,
			GuestName:        r.GuestName,
			Status:           r.Status,
			StartDay:         start,
			EndDay:           end,
			CheckIn:          r.CheckInDay(),
			CheckOut:         r.CheckOutDay(),
			CheckInDate:      utils.FormatLocalDate(r.CheckInDay()),
			CheckOutDate:     utils.FormatLocalDate(r.CheckOutDay()),
			IsDayStay:        r.IsDayStay,
		}
		if r.RoomID != nil {
			if i, found := rowIdx[*r.RoomID]; found {
				bar.RoomCode = grid.Rows[i].RoomCode
				grid.Rows[i].Bars = append(grid.Rows[i].Bars, bar)
				continue
			}
		}
		grid.Unassigned = append(grid.Unassigned, bar)
	}
	return grid
}

type DragPhase string

const (
	DragIdle     DragPhase = "idle"
	DragDragging DragPhase = "dragging"
)

// DropTarget is the cell currently hovered during a drag.
type DropTarget struct {
	RoomCode string `json:"roomCode"`
	Day      int    `json:"day"`
}

// DragState is the state of one drag gesture on the calendar. The zero value
// is idle. It is owned by whoever drives the gesture; nothing here persists.
type DragState struct {
	Phase            DragPhase
	ReservationID    uint
	OriginalRoomCode string
	OriginalStartDay int
	OriginalEndDay   int
	OriginalCheckIn  time.Time
	OriginalCheckOut time.Time
	Target           *DropTarget
}

// RescheduleRequest is what a committed drop asks the store to change.
type RescheduleRequest struct {
	ReservationID uint
	CheckIn       time.Time
	CheckOut      time.Time
	DayShift      int
	RoomCode      string
	RoomChanged   bool
}

func (r RescheduleRequest) DatesChanged() bool { return r.DayShift != 0 }

// Start captures the bar being dragged.
func (d *DragState) Start(bar CalendarBar) {
	*d = DragState{
		Phase:            DragDragging,
		ReservationID:    bar.ReservationID,
		OriginalRoomCode: bar.RoomCode,
		OriginalStartDay: bar.StartDay,
		OriginalEndDay:   bar.EndDay,
		OriginalCheckIn:  utils.DateOf(bar.CheckIn),
		OriginalCheckOut: utils.DateOf(bar.CheckOut),
	}
}

// Over records the hovered cell. It only drives the highlight.
func (d *DragState) Over(roomCode string, day int) {
	if d.Phase != DragDragging {
		return
	}
	d.Target = &DropTarget{RoomCode: roomCode, Day: day}
}

func (d *DragState) Cancel() {
	*d = DragState{Phase: DragIdle}
}

// Drop ends the gesture on (roomCode, day). Both endpoints move by the same
// shift so the stay keeps its length. ok is false when nothing changes, in
// which case nothing must be persisted. The state is idle afterwards.
func (d *DragState) Drop(roomCode string, day int) (req RescheduleRequest, ok bool) {
	if d.Phase != DragDragging {
		return RescheduleRequest{}, false
	}
	defer d.Cancel()

	shift := day - d.OriginalStartDay
	roomChanged := roomCode != d.OriginalRoomCode
	if shift == 0 && !roomChanged {
		return RescheduleRequest{}, false
	}
	return RescheduleRequest{
		ReservationID: d.ReservationID,
		CheckIn:       utils.AddDays(d.OriginalCheckIn, shift),
		CheckOut:      utils.AddDays(d.OriginalCheckOut, shift),
		DayShift:      shift,
		RoomCode:      roomCode,
		RoomChanged:   roomChanged,
	}, true
}

// RescheduleMessage is the confirmation shown after a successful drop.
func RescheduleMessage(req RescheduleRequest) string {
	switch {
	case req.DatesChanged() && req.RoomChanged:
		return "Dates updated and moved to room " + req.RoomCode
	case req.RoomChanged:
		return "Moved to room " + req.RoomCode
	default:
		return "Dates updated"
	}
}
