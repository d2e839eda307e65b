package services

import (
	"testing"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarSpanClipsAtMonthEdges(t *testing.T) {
	r := reservation(t, 1, 1, "2025-02-28", "2025-03-03", models.ReservationConfirmed)

	start, end, ok := BarSpan(r, 2025, time.March)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)

	start, end, ok = BarSpan(r, 2025, time.February)
	require.True(t, ok)
	assert.Equal(t, 28, start)
	assert.Equal(t, 28, end)

	_, _, ok = BarSpan(r, 2025, time.April)
	assert.False(t, ok)
}

func TestBarSpanCheckoutOnFirstOfMonthIsNotDrawn(t *testing.T) {
	r := reservation(t, 1, 1, "2025-02-26", "2025-03-01", models.ReservationConfirmed)
	_, _, ok := BarSpan(r, 2025, time.March)
	assert.False(t, ok)

	start, end, ok := BarSpan(r, 2025, time.February)
	require.True(t, ok)
	assert.Equal(t, 26, start)
	assert.Equal(t, 28, end)
}

func TestBarSpanDayStay(t *testing.T) {
	r := reservation(t, 1, 1, "2025-06-07", "2025-06-07", models.ReservationConfirmed)
	r.IsDayStay = true
	start, end, ok := BarSpan(r, 2025, time.June)
	require.True(t, ok)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}

func TestBuildMonthGrid(t *testing.T) {
	rooms := []models.Room{
		{Model: modelID(1), RoomNumber: "101"},
		{Model: modelID(2), RoomNumber: "102"},
	}
	unassigned := reservation(t, 4, 0, "2025-03-10", "2025-03-12", models.ReservationPending)
	unassigned.RoomID = nil
	list := []models.Reservation{
		reservation(t, 1, 1, "2025-03-01", "2025-03-04", models.ReservationConfirmed),
		reservation(t, 2, 2, "2025-03-05", "2025-03-06", models.ReservationCancelled),
		reservation(t, 3, 2, "2025-03-30", "2025-04-02", models.ReservationCheckedIn),
		unassigned,
	}

	grid := BuildMonthGrid(2025, time.March, rooms, list)
	assert.Equal(t, 31, grid.DaysInMonth)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, "101", grid.Rows[0].RoomCode)

	require.Len(t, grid.Rows[0].Bars, 1)
	bar := grid.Rows[0].Bars[0]
	assert.Equal(t, 1, bar.StartDay)
	assert.Equal(t, 3, bar.EndDay)
	assert.Equal(t, "101", bar.RoomCode)
	assert.Equal(t, "2025-03-04", bar.CheckOutDate)

	require.Len(t, grid.Rows[1].Bars, 1, "cancelled stays are not drawn")
	assert.Equal(t, uint(3), grid.Rows[1].Bars[0].ReservationID)
	assert.Equal(t, 31, grid.Rows[1].Bars[0].EndDay)

	require.Len(t, grid.Unassigned, 1)
	assert.Equal(t, uint(4), grid.Unassigned[0].ReservationID)
}

func barFor(t *testing.T, r models.Reservation, roomCode string, year int, month time.Month) CalendarBar {
	start, end, ok := BarSpan(r, year, month)
	require.True(t, ok)
	return CalendarBar{
		ReservationID: r.ID,
		RoomCode:      roomCode,
		StartDay:      start,
		EndDay:        end,
		CheckIn:       r.CheckInDay(),
		CheckOut:      r.CheckOutDay(),
	}
}

func TestDropOnOriginIsNoOp(t *testing.T) {
	r := reservation(t, 7, 1, "2025-06-10", "2025-06-13", models.ReservationConfirmed)
	bar := barFor(t, r, "101", 2025, time.June)

	var d DragState
	d.Start(bar)
	d.Over("102", 11)
	d.Over("101", 10)
	_, ok := d.Drop("101", 10)
	assert.False(t, ok)
	assert.Equal(t, DragIdle, d.Phase)
	assert.Nil(t, d.Target)
}

func TestDropShiftKeepsLength(t *testing.T) {
	r := reservation(t, 7, 1, "2025-06-10", "2025-06-13", models.ReservationConfirmed)

	var d DragState
	d.Start(barFor(t, r, "101", 2025, time.June))
	req, ok := d.Drop("101", 12)
	require.True(t, ok)

	assert.Equal(t, uint(7), req.ReservationID)
	assert.Equal(t, 2, req.DayShift)
	assert.Equal(t, "2025-06-12", utils.FormatLocalDate(req.CheckIn))
	assert.Equal(t, "2025-06-15", utils.FormatLocalDate(req.CheckOut))
	assert.Equal(t, 3, utils.NightsBetween(req.CheckIn, req.CheckOut))
	assert.False(t, req.RoomChanged)
	assert.True(t, req.DatesChanged())
	assert.Equal(t, "Dates updated", RescheduleMessage(req))
}

func TestDropOnOtherRoom(t *testing.T) {
	r := reservation(t, 7, 1, "2025-06-10", "2025-06-13", models.ReservationConfirmed)

	var d DragState
	d.Start(barFor(t, r, "101", 2025, time.June))
	req, ok := d.Drop("205", 10)
	require.True(t, ok)
	assert.True(t, req.RoomChanged)
	assert.False(t, req.DatesChanged())
	assert.Equal(t, "Moved to room 205", RescheduleMessage(req))

	d.Start(barFor(t, r, "101", 2025, time.June))
	req, ok = d.Drop("205", 8)
	require.True(t, ok)
	assert.Equal(t, -2, req.DayShift)
	assert.Equal(t, "2025-06-08", utils.FormatLocalDate(req.CheckIn))
	assert.Equal(t, "Dates updated and moved to room 205", RescheduleMessage(req))
}

func TestDropWithoutDragIsIgnored(t *testing.T) {
	var d DragState
	d.Over("101", 3)
	assert.Nil(t, d.Target)
	_, ok := d.Drop("101", 3)
	assert.False(t, ok)

	r := reservation(t, 7, 1, "2025-06-10", "2025-06-13", models.ReservationConfirmed)
	d.Start(barFor(t, r, "101", 2025, time.June))
	d.Cancel()
	_, ok = d.Drop("102", 12)
	assert.False(t, ok)
}
