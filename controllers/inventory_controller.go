package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryController struct {
	responder
	InventorySvc *services.InventoryService
}

func NewInventoryController(svc *services.InventoryService, notifier services.Notifier, log *zap.Logger) *InventoryController {
	return &InventoryController{responder: responder{notifier: notifier, log: log}, InventorySvc: svc}
}

// GET /api/inventory?destination=&category=&stockStatus=
func (ctrl *InventoryController) GetItems(c *gin.Context) {
	var f services.InventoryFilter
	if raw := c.Query("destination"); raw != "" {
		d := models.Destination(raw)
		if !d.Valid() {
			badRequest(c, "unknown destination "+raw)
			return
		}
		f.Destination = &d
	}
	if raw := c.Query("stockStatus"); raw != "" {
		st := models.StockStatus(raw)
		if !st.Valid() {
			badRequest(c, "unknown stock status "+raw)
			return
		}
		f.StockStatus = &st
	}
	f.Category = c.Query("category")

	items, err := ctrl.InventorySvc.List(c.Request.Context(), f)
	if err != nil {
		ctrl.fail(c, err, "load inventory", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

// POST /api/inventory
func (ctrl *InventoryController) CreateItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "invalid inventory payload: "+err.Error())
		return
	}
	item.ID = 0
	if err := ctrl.InventorySvc.Create(c.Request.Context(), &item); err != nil {
		ctrl.fail(c, err, "create inventory item", true)
		return
	}
	ctrl.succeed(c, http.StatusCreated, item.Name+" added to inventory", item)
}

// PATCH /api/inventory/:id
func (ctrl *InventoryController) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid inventory payload: "+err.Error())
		return
	}
	item, err := ctrl.InventorySvc.Update(c.Request.Context(), id, patch)
	if err != nil {
		ctrl.fail(c, err, "update inventory item", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, item.Name+" updated", item)
}

// DELETE /api/inventory/:id
func (ctrl *InventoryController) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.InventorySvc.Delete(c.Request.Context(), id); err != nil {
		ctrl.fail(c, err, "delete inventory item", true)
		return
	}
	ctrl.succeed(c, http.StatusOK, "Inventory item deleted", nil)
}
