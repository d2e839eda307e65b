package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SupplierController struct {
	responder
	SupplierSvc *services.SupplierService
}

func NewSupplierController(svc *services.SupplierService, notifier services.Notifier, log *zap.Logger) *SupplierController {
	return &SupplierController{responder: responder{notifier: notifier, log: log}, SupplierSvc: svc}
}

func (ctrl *SupplierController) GetSuppliers(c *gin.Context) {
	list, err := ctrl.SupplierSvc.List(c.Request.Context())
	if err != nil {
		ctrl.fail(c, err, "load suppliers", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *SupplierController) CreateSupplier(c *gin.Context) {
	var sup models.Supplier
	if err := c.ShouldBindJSON(&sup); err != nil {
		badRequest(c, "invalid supplier payload: "+err.Error())
		return
	}
	sup.ID = 0
	if err := ctrl.SupplierSvc.Create(c.Request.Context(), &sup); err != nil {
		ctrl.fail(c, err, "create supplier", true)
		return
	}
	ctrl.succeed(c, http.StatusCreated, "Supplier "+sup.Name+" created", sup)
}

func (ctrl *SupplierController) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid supplier payload: "+err.Error())
		return
	}
	sup, err := ctrl.SupplierSvc.Update(c.Request.Context(), id, patch)
	if err != nil {
		ctrl.fail(c, err, "update supplier", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Supplier "+sup.Name+" updated", sup)
}

func (ctrl *SupplierController) DeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.SupplierSvc.Delete(c.Request.Context(), id); err != nil {
		ctrl.fail(c, err, "delete supplier", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Supplier deleted", nil)
}
