package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRescheduler struct {
	mock.Mock
}

func (m *mockRescheduler) Reschedule(ctx context.Context, req services.RescheduleRequest) (*models.Reservation, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

type mockMonths struct {
	mock.Mock
}

func (m *mockMonths) Month(ctx context.Context, year int, month time.Month) (services.MonthGrid, error) {
	args := m.Called(ctx, year, month)
	return args.Get(0).(services.MonthGrid), args.Error(1)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type calendarHarness struct {
	router      *gin.Engine
	months      *mockMonths
	rescheduler *mockRescheduler
	invalidator *countingInvalidator
	notes       *services.RecordingNotifier
}

func newCalendarHarness() calendarHarness {
	gin.SetMode(gin.TestMode)
	h := calendarHarness{
		months:      &mockMonths{},
		rescheduler: &mockRescheduler{},
		invalidator: &countingInvalidator{},
		notes:       &services.RecordingNotifier{},
	}
	ctrl := NewCalendarController(h.months, h.rescheduler, h.invalidator, h.notes, zap.NewNop())
	ctrl.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	h.router = gin.New()
	h.router.GET("/api/calendar", ctrl.GetMonth)
	h.router.POST("/api/calendar/drop", ctrl.Drop)
	return h
}

func (h calendarHarness) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func junePayload(targetRoom string, targetDay int) DropPayload {
	return DropPayload{
		ReservationID:  7,
		RoomCode:       "101",
		StartDay:       10,
		EndDay:         12,
		CheckIn:        "2025-06-10",
		CheckOut:       "2025-06-13",
		TargetRoomCode: targetRoom,
		TargetDay:      targetDay,
	}
}

func mustDate(t *testing.T, s string) time.Time {
	d, err := utils.ParseLocalDate(s)
	require.NoError(t, err)
	return d
}

func TestDropOnOriginCellSkipsStore(t *testing.T) {
	h := newCalendarHarness()

	w, env := h.do(t, http.MethodPost, "/api/calendar/drop", junePayload("101", 10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "No changes", env.Message)
	assert.JSONEq(t, `{"changed":false}`, string(env.Data))

	h.rescheduler.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
	assert.Zero(t, h.invalidator.calls)
	assert.Empty(t, h.notes.All())
}

func TestDropShiftsStay(t *testing.T) {
	h := newCalendarHarness()
	checkIn, checkOut := mustDate(t, "2025-06-12"), mustDate(t, "2025-06-15")
	want := mock.MatchedBy(func(req services.RescheduleRequest) bool {
		return req.ReservationID == 7 && req.DayShift == 2 && !req.RoomChanged &&
			req.CheckIn.Equal(checkIn) && req.CheckOut.Equal(checkOut)
	})
	h.rescheduler.On("Reschedule", mock.Anything, want).
		Return(&models.Reservation{ID: 7, Status: models.ReservationConfirmed}, nil).Once()

	w, env := h.do(t, http.MethodPost, "/api/calendar/drop", junePayload("101", 12))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dates updated", env.Message)
	assert.Contains(t, string(env.Data), `"changed":true`)

	h.rescheduler.AssertExpectations(t)
	assert.Equal(t, 1, h.invalidator.calls)
	last, ok := h.notes.Last()
	require.True(t, ok)
	assert.Equal(t, models.NotifySuccess, last.Kind)
	assert.Equal(t, "Dates updated", last.Message)
}

func TestDropOnOtherRoom(t *testing.T) {
	h := newCalendarHarness()
	h.rescheduler.On("Reschedule", mock.Anything, mock.MatchedBy(func(req services.RescheduleRequest) bool {
		return req.RoomChanged && req.RoomCode == "205" && req.DayShift == 0
	})).Return(&models.Reservation{ID: 7}, nil).Once()

	w, env := h.do(t, http.MethodPost, "/api/calendar/drop", junePayload("205", 10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Moved to room 205", env.Message)
	h.rescheduler.AssertExpectations(t)
}

func TestDropConflictMapsToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: room 101", services.ErrRoomUnavailable), http.StatusConflict, "error.roomUnavailable"},
		{services.ErrStale, http.StatusConflict, "error.stale"},
		{services.ErrReservationNotFound, http.StatusNotFound, "error.reservationNotFound"},
		{fmt.Errorf("%w: room 101 holds at most 2 guests", services.ErrValidation), http.StatusBadRequest, "error.validation"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			h := newCalendarHarness()
			h.rescheduler.On("Reschedule", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w, env := h.do(t, http.MethodPost, "/api/calendar/drop", junePayload("101", 11))
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.Equal(t, tc.err.Error(), env.Error.Message)
			assert.Zero(t, h.invalidator.calls)

			last, ok := h.notes.Last()
			require.True(t, ok)
			assert.Equal(t, models.NotifyError, last.Kind)
		})
	}
}

func TestDropHidesInternalErrors(t *testing.T) {
	h := newCalendarHarness()
	h.rescheduler.On("Reschedule", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused")).Once()

	w, env := h.do(t, http.MethodPost, "/api/calendar/drop", junePayload("101", 11))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error.internal", env.Error.Code)
	assert.Equal(t, "Failed to move reservation", env.Error.Message)
}

func TestDropRejectsBadPayload(t *testing.T) {
	h := newCalendarHarness()

	w, env := h.do(t, http.MethodPost, "/api/calendar/drop", map[string]interface{}{"reservationId": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidPayload", env.Error.Code)

	p := junePayload("101", 12)
	p.CheckIn = "10/06/2025"
	w, _ = h.do(t, http.MethodPost, "/api/calendar/drop", p)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h.rescheduler.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
}

func TestGetMonthDefaultsToCurrentMonth(t *testing.T) {
	h := newCalendarHarness()
	h.months.On("Month", mock.Anything, 2025, time.June).
		Return(services.MonthGrid{Year: 2025, Month: 6, DaysInMonth: 30}, nil).Once()
	h.months.On("Month", mock.Anything, 2024, time.February).
		Return(services.MonthGrid{Year: 2024, Month: 2, DaysInMonth: 29}, nil).Once()

	w, env := h.do(t, http.MethodGet, "/api/calendar", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"daysInMonth":30`)

	w, env = h.do(t, http.MethodGet, "/api/calendar?year=2024&month=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"daysInMonth":29`)

	w, _ = h.do(t, http.MethodGet, "/api/calendar?month=june", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h.months.AssertExpectations(t)
}
