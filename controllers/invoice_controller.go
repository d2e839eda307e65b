package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InvoiceController struct {
	responder
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService, notifier services.Notifier, log *zap.Logger) *InvoiceController {
	return &InvoiceController{responder: responder{notifier: notifier, log: log}, InvoiceSvc: svc}
}

// GET /api/invoices?type=&status=
func (ctrl *InvoiceController) GetInvoices(c *gin.Context) {
	var f services.InvoiceFilter
	if raw := c.Query("type"); raw != "" {
		t := models.InvoiceType(raw)
		if t != models.InvoicePayable && t != models.InvoiceReceivable {
			badRequest(c, "unknown invoice type "+raw)
			return
		}
		f.Type = &t
	}
	if raw := c.Query("status"); raw != "" {
		st := models.InvoiceStatus(raw)
		if !st.Valid() {
			badRequest(c, "unknown invoice status "+raw)
			return
		}
		f.Status = &st
	}
	list, err := ctrl.InvoiceSvc.List(c.Request.Context(), f)
	if err != nil {
		ctrl.fail(c, err, "load invoices", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *InvoiceController) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body statusPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "status is required")
		return
	}
	inv, err := ctrl.InvoiceSvc.UpdateStatus(c.Request.Context(), id, models.InvoiceStatus(body.Status))
	if err != nil {
		ctrl.fail(c, err, "update invoice", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Invoice "+inv.InvoiceNumber+" marked "+string(inv.Status), inv)
}
