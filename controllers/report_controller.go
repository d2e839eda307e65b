package controllers

import (
	"context"
	"net/http"
	"time"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RevenueReporter interface {
	Revenue(ctx context.Context, from, to time.Time) (*services.RevenueReport, error)
}

type StockReporter interface {
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
}

type ReportController struct {
	responder
	revenue RevenueReporter
	stock   StockReporter
	now     func() time.Time
}

// NewReportController serves revenue through whatever reporter it is given,
// the Redis cache or the plain service.
func NewReportController(revenue RevenueReporter, stock StockReporter, notifier services.Notifier, log *zap.Logger) *ReportController {
	return &ReportController{
		responder: responder{notifier: notifier, log: log},
		revenue:   revenue,
		stock:     stock,
		now:       time.Now,
	}
}

// GET /api/reports/revenue?from=&to= (defaults to the current month)
func (ctrl *ReportController) GetRevenue(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	var window utils.DateRange
	if from == "" && to == "" {
		now := ctrl.now()
		first := utils.FirstOfMonth(now.Year(), now.Month())
		window = utils.NewDateRange(first, utils.AddDays(first, utils.DaysInMonth(now.Year(), now.Month())))
	} else {
		w, err := services.ParseStay(from, to, false)
		if err != nil {
			ctrl.fail(c, err, "build revenue report", false)
			return
		}
		window = *w
	}

	rep, err := ctrl.revenue.Revenue(c.Request.Context(), window.Start, window.End)
	if err != nil {
		ctrl.fail(c, err, "build revenue report", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rep)
}

func (ctrl *ReportController) GetLowStock(c *gin.Context) {
	items, err := ctrl.stock.LowStock(c.Request.Context())
	if err != nil {
		ctrl.fail(c, err, "build stock report", false)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}
