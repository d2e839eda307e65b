package controllers

import (
	"net/http"
	"strconv"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoomController struct {
	responder
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService, notifier services.Notifier, log *zap.Logger) *RoomController {
	return &RoomController{responder: responder{notifier: notifier, log: log}, RoomSvc: svc}
}

// GET /api/rooms
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.List(c.Request.Context())
	if err != nil {
		ctrl.fail(c, err, "load rooms", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.fail(c, err, "load room", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// GET /api/rooms/available?checkIn=&checkOut=&guests=&dayStay=
func (ctrl *RoomController) GetAvailableRooms(c *gin.Context) {
	guests := 1
	if raw := c.Query("guests"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "guests must be a positive number")
			return
		}
		guests = n
	}
	dayStay, _ := strconv.ParseBool(c.DefaultQuery("dayStay", "false"))

	stay, err := services.ParseStay(c.Query("checkIn"), c.Query("checkOut"), dayStay)
	if err != nil {
		ctrl.fail(c, err, "search rooms", false)
		return
	}

	res, err := ctrl.RoomSvc.SearchAvailable(c.Request.Context(), services.AvailabilityQuery{Guests: guests, Stay: stay})
	if err != nil {
		ctrl.fail(c, err, "search rooms", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		badRequest(c, "invalid room payload: "+err.Error())
		return
	}
	room.ID = 0
	if err := ctrl.RoomSvc.Create(c.Request.Context(), &room); err != nil {
		ctrl.fail(c, err, "create room", true)
		return
	}
	ctrl.succeed(c, http.StatusCreated, "Room "+room.RoomNumber+" created", room)
}

// PATCH|PUT /api/rooms/:id
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid room payload: "+err.Error())
		return
	}
	room, err := ctrl.RoomSvc.Update(c.Request.Context(), id, patch)
	if err != nil {
		ctrl.fail(c, err, "update room", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Room "+room.RoomNumber+" updated", room)
}

// PATCH /api/rooms/:id/status
func (ctrl *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body statusPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "status is required")
		return
	}
	room, err := ctrl.RoomSvc.SetStatus(c.Request.Context(), id, models.RoomStatus(body.Status))
	if err != nil {
		ctrl.fail(c, err, "update room status", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Room "+room.RoomNumber+" is now "+string(room.Status), room)
}

// DELETE /api/rooms/:id
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		ctrl.fail(c, err, "delete room", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Room deleted", nil)
}
