package services

import (
	"hotel-pms/models"
	"hotel-pms/utils"
)

// Blocks reports whether an existing reservation holds its room during the
// candidate range. Cancelled, no-show and checked-out stays release the room.
func Blocks(existing models.Reservation, candidate utils.DateRange) bool {
	switch existing.Status {
	case models.ReservationCancelled, models.ReservationNoShow, models.ReservationCheckedOut:
		return false
	}
	return candidate.Overlaps(existing.OccupiedRange())
}

// IsRoomAvailable is true when none of the room's reservations blocks the
// candidate range.
func IsRoomAvailable(candidate utils.DateRange, reservations []models.Reservation) bool {
	for _, r := range reservations {
		if Blocks(r, candidate) {
			return false
		}
	}
	return true
}

// EmptyReason tells an empty search result apart so the client can show the
// right message.
type EmptyReason string

const (
	EmptyNoRooms         EmptyReason = "no_rooms"
	EmptyNoRoomsForGuest EmptyReason = "no_rooms_for_guests"
	EmptyNoRoomsForDates EmptyReason = "no_rooms_for_dates"
)

// AvailabilityQuery is a search for bookable rooms. Stay is nil for a
// date-agnostic search.
type AvailabilityQuery struct {
	Guests int
	Stay   *utils.DateRange
}

type AvailabilityResult struct {
	Rooms       []models.Room `json:"rooms"`
	EmptyReason EmptyReason   `json:"emptyReason,omitempty"`
}

// FilterBookableRooms keeps AVAILABLE rooms that fit the party and, when a
// stay is given, have no blocking reservation. Source order is preserved.
func FilterBookableRooms(rooms []models.Room, q AvailabilityQuery, reservations []models.Reservation) AvailabilityResult {
	byRoom := make(map[uint][]models.Reservation)
	for _, r := range reservations {
		if r.RoomID != nil {
			byRoom[*r.RoomID] = append(byRoom[*r.RoomID], r)
		}
	}

	bookable := make([]models.Room, 0, len(rooms))
	open, fitting := 0, 0
	for _, room := range rooms {
		if room.Status != models.RoomAvailable {
			continue
		}
		open++
		if room.Capacity < q.Guests {
			continue
		}
		fitting++
		if q.Stay != nil && !IsRoomAvailable(*q.Stay, byRoom[room.ID]) {
			continue
		}
		bookable = append(bookable, room)
	}

	res := AvailabilityResult{Rooms: bookable}
	if len(bookable) == 0 {
		switch {
		case open == 0:
			res.EmptyReason = EmptyNoRooms
		case fitting == 0:
			res.EmptyReason = EmptyNoRoomsForGuest
		default:
			res.EmptyReason = EmptyNoRoomsForDates
		}
	}
	return res
}
