package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/barbershop-admin/internal/repository"
	"github.com/iliyamo/barbershop-admin/internal/utils"
)

// DashboardHandler serves the overview endpoints backing the landing page
// cards and the revenue chart.
type DashboardHandler struct {
	Billing *repository.BillingRepo
	Revenue *repository.RevenueRepo
}

func NewDashboardHandler(b *repository.BillingRepo, r *repository.RevenueRepo) *DashboardHandler {
	return &DashboardHandler{Billing: b, Revenue: r}
}

// Summary handles GET /v1/dashboard/summary: invoice count, customer count,
// and the paid and pending totals, gathered concurrently in the repository.
func (h *DashboardHandler) Summary(c echo.Context) error {
	s, err := h.Billing.CardSummary(c.Request().Context(), repository.Invoices)
	if err != nil {
		logStoreError("dashboard summary failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"invoice_count":  s.Count,
		"customer_count": s.CustomerCount,
		"total_paid":     utils.FormatCurrency(s.PaidCents),
		"total_pending":  utils.FormatCurrency(s.PendingCents),
	})
}

// RevenueChart handles GET /v1/dashboard/revenue: one sample per month for
// the bar chart.
func (h *DashboardHandler) RevenueChart(c echo.Context) error {
	rows, err := h.Revenue.List(c.Request().Context())
	if err != nil {
		logStoreError("dashboard revenue failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
