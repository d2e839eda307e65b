package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MonthSource interface {
	Month(ctx context.Context, year int, month time.Month) (services.MonthGrid, error)
}

type Rescheduler interface {
	Reschedule(ctx context.Context, req services.RescheduleRequest) (*models.Reservation, error)
}

type CalendarController struct {
	responder
	months      MonthSource
	rescheduler Rescheduler
	reports     CacheInvalidator
	now         func() time.Time
}

func NewCalendarController(months MonthSource, rescheduler Rescheduler, reports CacheInvalidator, notifier services.Notifier, log *zap.Logger) *CalendarController {
	return &CalendarController{
		responder:   responder{notifier: notifier, log: log},
		months:      months,
		rescheduler: rescheduler,
		reports:     reports,
		now:         time.Now,
	}
}

// GET /api/calendar?year=2025&month=3 (defaults to the current month)
func (ctrl *CalendarController) GetMonth(c *gin.Context) {
	now := ctrl.now()
	year, month := now.Year(), int(now.Month())
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid year")
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid month")
			return
		}
		month = v
	}

	grid, err := ctrl.months.Month(c.Request.Context(), year, time.Month(month))
	if err != nil {
		ctrl.fail(c, err, "load calendar", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, grid)
}

// DropPayload describes the dragged bar as the client last saw it and the
// cell it was released on.
type DropPayload struct {
	ReservationID  uint   `json:"reservationId" binding:"required"`
	RoomCode       string `json:"roomCode"`
	StartDay       int    `json:"startDay" binding:"required"`
	EndDay         int    `json:"endDay"`
	CheckIn        string `json:"checkIn" binding:"required"`
	CheckOut       string `json:"checkOut" binding:"required"`
	TargetRoomCode string `json:"targetRoomCode" binding:"required"`
	TargetDay      int    `json:"targetDay" binding:"required"`
}

// POST /api/calendar/drop
//
// A drop on the original cell is answered without touching the database.
func (ctrl *CalendarController) Drop(c *gin.Context) {
	var p DropPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid drop payload: "+err.Error())
		return
	}
	checkIn, err := utils.ParseLocalDate(p.CheckIn)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	checkOut, err := utils.ParseLocalDate(p.CheckOut)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var drag services.DragState
	drag.Start(services.CalendarBar{
		ReservationID: p.ReservationID,
		RoomCode:      strings.TrimSpace(p.RoomCode),
		StartDay:      p.StartDay,
		EndDay:        p.EndDay,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
	})
	req, changed := drag.Drop(strings.TrimSpace(p.TargetRoomCode), p.TargetDay)
	if !changed {
		utils.JSONMessage(c, http.StatusOK, "No changes", gin.H{"changed": false})
		return
	}

	r, err := ctrl.rescheduler.Reschedule(c.Request.Context(), req)
	if err != nil {
		ctrl.fail(c, err, "move reservation", true)
		return
	}
	if ctrl.reports != nil {
		ctrl.reports.Invalidate(c.Request.Context())
	}
	ctrl.succeed(c, http.StatusOK, services.RescheduleMessage(req), gin.H{"changed": true, "reservation": r})
}
