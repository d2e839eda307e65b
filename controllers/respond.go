package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"hotel-pms/middleware"
	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{services.ErrValidation, http.StatusBadRequest, "error.validation"},
	{services.ErrQuantityManaged, http.StatusBadRequest, "error.quantityManaged"},
	{services.ErrRoomNotFound, http.StatusNotFound, "error.roomNotFound"},
	{services.ErrReservationNotFound, http.StatusNotFound, "error.reservationNotFound"},
	{services.ErrInventoryItemNotFound, http.StatusNotFound, "error.inventoryItemNotFound"},
	{services.ErrSupplierNotFound, http.StatusNotFound, "error.supplierNotFound"},
	{services.ErrPurchaseOrderNotFound, http.StatusNotFound, "error.purchaseOrderNotFound"},
	{services.ErrInvoiceNotFound, http.StatusNotFound, "error.invoiceNotFound"},
	{services.ErrRoomUnavailable, http.StatusConflict, "error.roomUnavailable"},
	{services.ErrRoomInUse, http.StatusConflict, "error.roomInUse"},
	{services.ErrSupplierInUse, http.StatusConflict, "error.supplierInUse"},
	{services.ErrDuplicate, http.StatusConflict, "error.duplicate"},
	{services.ErrInvalidTransition, http.StatusConflict, "error.invalidTransition"},
	{services.ErrStale, http.StatusConflict, "error.stale"},
}

func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "error.internal"
}

// responder is embedded by every controller: it writes the JSON envelope and
// mirrors the outcome of mutations to the notifier.
type responder struct {
	notifier services.Notifier
	log      *zap.Logger
}

// fail answers with the mapped status. Internal errors are logged and hidden
// behind a generic message. notify is false for plain reads.
func (r responder) fail(c *gin.Context, err error, action string, notify bool) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		r.log.Error(action+" failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		_ = c.Error(err)
		message = "Failed to " + action
	}
	if notify {
		r.notifier.Notify(c.Request.Context(), models.NotifyError, message)
	}
	utils.JSONError(c, status, code, message)
}

func (r responder) succeed(c *gin.Context, status int, message string, data interface{}) {
	r.notifier.Notify(c.Request.Context(), models.NotifySuccess, message)
	utils.JSONMessage(c, status, message, data)
}

func badRequest(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", message)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Sprintf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

func optionalUintQuery(c *gin.Context, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	id := uint(v)
	return &id, nil
}

type statusPayload struct {
	Status string `json:"status" binding:"required"`
}
