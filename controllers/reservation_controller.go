package controllers

import (
	"context"
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheInvalidator drops derived data after reservations change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type ReservationController struct {
	responder
	ReservationSvc *services.ReservationService
	reports        CacheInvalidator
}

// NewReservationController takes an optional report cache to invalidate.
func NewReservationController(svc *services.ReservationService, reports CacheInvalidator, notifier services.Notifier, log *zap.Logger) *ReservationController {
	return &ReservationController{
		responder:      responder{notifier: notifier, log: log},
		ReservationSvc: svc,
		reports:        reports,
	}
}

func (ctrl *ReservationController) changed(c *gin.Context) {
	if ctrl.reports != nil {
		ctrl.reports.Invalidate(c.Request.Context())
	}
}

// GET /api/reservations?status=&roomId=&from=&to=
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	var f services.ReservationFilter
	if raw := c.Query("status"); raw != "" {
		st := models.ReservationStatus(raw)
		if !st.Valid() {
			badRequest(c, "unknown status "+raw)
			return
		}
		f.Status = &st
	}
	roomID, err := optionalUintQuery(c, "roomId")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	f.RoomID = roomID

	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		window, err := services.ParseStay(from, to, false)
		if err != nil {
			ctrl.fail(c, err, "list reservations", false)
			return
		}
		f.Window = window
	}

	list, err := ctrl.ReservationSvc.List(c.Request.Context(), f)
	if err != nil {
		ctrl.fail(c, err, "list reservations", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/reservations/:id
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	r, err := ctrl.ReservationSvc.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.fail(c, err, "load reservation", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

// POST /api/reservations/quote
func (ctrl *ReservationController) QuoteReservation(c *gin.Context) {
	var in services.CreateReservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid reservation payload: "+err.Error())
		return
	}
	q, err := ctrl.ReservationSvc.Quote(c.Request.Context(), in)
	if err != nil {
		ctrl.fail(c, err, "price reservation", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, q)
}

// POST /api/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var in services.CreateReservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid reservation payload: "+err.Error())
		return
	}
	r, err := ctrl.ReservationSvc.Create(c.Request.Context(), in)
	if err != nil {
		ctrl.fail(c, err, "create reservation", true)
		return
	}
	ctrl.changed(c)
	ctrl.succeed(c, http.StatusCreated, "Reservation "+r.ConfirmationCode+" created", r)
}

// PATCH /api/reservations/:id/status
func (ctrl *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body statusPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "status is required")
		return
	}
	r, err := ctrl.ReservationSvc.UpdateStatus(c.Request.Context(), id, models.ReservationStatus(body.Status))
	if err != nil {
		ctrl.fail(c, err, "update reservation status", true)
		return
	}
	ctrl.changed(c)
	ctrl.succeed(c, http.StatusOK, "Reservation "+r.ConfirmationCode+" is now "+string(r.Status), r)
}

// DELETE /api/reservations/:id
func (ctrl *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.ReservationSvc.Delete(c.Request.Context(), id); err != nil {
		ctrl.fail(c, err, "delete reservation", true)
		return
	}
	ctrl.changed(c)
	ctrl.succeed(c, http.StatusOK, "Reservation deleted", nil)
}
