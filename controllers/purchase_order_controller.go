package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseOrderController struct {
	responder
	PurchaseOrderSvc *services.PurchaseOrderService
}

func NewPurchaseOrderController(svc *services.PurchaseOrderService, notifier services.Notifier, log *zap.Logger) *PurchaseOrderController {
	return &PurchaseOrderController{responder: responder{notifier: notifier, log: log}, PurchaseOrderSvc: svc}
}

// GET /api/purchase-orders?status=&supplierId=
func (ctrl *PurchaseOrderController) GetPurchaseOrders(c *gin.Context) {
	var f services.PurchaseOrderFilter
	if raw := c.Query("status"); raw != "" {
		st := models.PurchaseOrderStatus(raw)
		if !st.Valid() {
			badRequest(c, "unknown status "+raw)
			return
		}
		f.Status = &st
	}
	supplierID, err := optionalUintQuery(c, "supplierId")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	f.SupplierID = supplierID

	list, err := ctrl.PurchaseOrderSvc.List(c.Request.Context(), f)
	if err != nil {
		ctrl.fail(c, err, "load purchase orders", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *PurchaseOrderController) GetPurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	po, err := ctrl.PurchaseOrderSvc.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.fail(c, err, "load purchase order", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, po)
}

func (ctrl *PurchaseOrderController) CreatePurchaseOrder(c *gin.Context) {
	var in services.CreatePurchaseOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid purchase order payload: "+err.Error())
		return
	}
	po, err := ctrl.PurchaseOrderSvc.Create(c.Request.Context(), in)
	if err != nil {
		ctrl.fail(c, err, "create purchase order", true)
		return
	}
	ctrl.succeed(c, http.StatusCreated, "Purchase order "+po.OrderNumber+" created", po)
}

// PATCH /api/purchase-orders/:id/status
//
// Moving to RECEIVED restocks inventory and pays the linked invoice.
func (ctrl *PurchaseOrderController) UpdatePurchaseOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body statusPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "status is required")
		return
	}
	po, err := ctrl.PurchaseOrderSvc.UpdateStatus(c.Request.Context(), id, models.PurchaseOrderStatus(body.Status))
	if err != nil {
		ctrl.fail(c, err, "update purchase order", true)
		return
	}
	msg := "Purchase order " + po.OrderNumber + " is now " + string(po.Status)
	if po.Status == models.POReceived {
		msg = "Purchase order " + po.OrderNumber + " received, inventory updated"
	}
	ctrl.succeed(c, http.StatusOK, msg, po)
}
