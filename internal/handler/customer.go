package handler

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/barbershop-admin/internal/cache"
	"github.com/iliyamo/barbershop-admin/internal/model"
	"github.com/iliyamo/barbershop-admin/internal/queue"
	"github.com/iliyamo/barbershop-admin/internal/repository"
	"github.com/iliyamo/barbershop-admin/internal/utils"
	"github.com/iliyamo/barbershop-admin/internal/validate"
)

const customersScope = "customers"
const customersListingPath = "/dashboard/customers"

// CustomerHandler serves the customer directory endpoints.
type CustomerHandler struct {
	Repo    *repository.CustomerRepo
	Cache   *cache.Store
	Publish Publisher
}

func NewCustomerHandler(repo *repository.CustomerRepo, store *cache.Store, publish Publisher) *CustomerHandler {
	return &CustomerHandler{Repo: repo, Cache: store, Publish: publish}
}

// customerRow is a TableRow with the aggregate amounts rendered for display.
type customerRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int64  `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}

// List handles GET /v1/customers?query=. The full filtered set is returned
// with per-customer invoice aggregates; the directory is not paginated.
func (h *CustomerHandler) List(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	rows, err := h.Repo.SearchWithTotals(c.Request().Context(), query)
	if err != nil {
		logStoreError("customer search failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]customerRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, customerRow{
			ID:            r.ID,
			Name:          r.Name,
			Email:         r.Email,
			ImageURL:      r.ImageURL,
			TotalInvoices: r.TotalInvoices,
			TotalPending:  utils.FormatCurrency(r.PendingCents),
			TotalPaid:     utils.FormatCurrency(r.PaidCents),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out, "query": query})
}

// Select handles GET /v1/customers/select: id and name pairs for populating
// the customer dropdown on the billing forms, ordered by name.
func (h *CustomerHandler) Select(c echo.Context) error {
	rows, err := h.Repo.ListForSelect(c.Request().Context())
	if err != nil {
		logStoreError("customer select failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// Get handles GET /v1/customers/:id, shaped for the edit form.
func (h *CustomerHandler) Get(c echo.Context) error {
	cust, err := h.Repo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		logStoreError("customer get failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        cust.ID,
		"name":      cust.Name,
		"email":     cust.Email,
		"image_url": cust.ImageURL,
	})
}

// imagePath normalizes an uploaded file name to its served location. Only
// the base name is kept so a crafted input cannot point outside the
// customer image directory.
func imagePath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return "/customers/" + filepath.Base(name)
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var in validate.CustomerInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Struct(in); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	cust := model.Customer{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		ImageURL: imagePath(in.Image),
	}
	if err := h.Repo.Create(c.Request().Context(), &cust); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		logStoreError("customer create failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"})
	}

	afterWrite(h.Cache, h.Publish, []string{customersScope, dashboardScope},
		mutationEvent("customer", queue.ActionCreated, cust.ID, 0, ""))
	return c.JSON(http.StatusCreated, echo.Map{"id": cust.ID, "redirect": customersListingPath})
}

// Update handles PUT /v1/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var in validate.CustomerInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Struct(in); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	cust := model.Customer{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		ImageURL: imagePath(in.Image),
	}
	if err := h.Repo.Update(c.Request().Context(), &cust); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		default:
			logStoreError("customer update failed", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update customer"})
		}
	}

	afterWrite(h.Cache, h.Publish, []string{customersScope, dashboardScope},
		mutationEvent("customer", queue.ActionUpdated, id, 0, ""))
	return c.JSON(http.StatusOK, echo.Map{"id": id, "redirect": customersListingPath})
}

// Delete handles DELETE /v1/customers/:id. A customer with reservations or
// invoices on file cannot be removed; those records must go first.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer has reservations or invoices on file"})
		default:
			logStoreError("customer delete failed", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete customer"})
		}
	}

	afterWrite(h.Cache, h.Publish, []string{customersScope, dashboardScope},
		mutationEvent("customer", queue.ActionDeleted, id, 0, ""))
	return c.NoContent(http.StatusNoContent)
}
