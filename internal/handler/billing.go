// Package handler implements the HTTP surface of the dashboard. The
// billing handler drives the validate, persist, invalidate, redirect
// sequence for reservations and invoices; one handler instance per entity
// descriptor, sharing all code.
package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/barbershop-admin/internal/cache"
	"github.com/iliyamo/barbershop-admin/internal/model"
	"github.com/iliyamo/barbershop-admin/internal/queue"
	"github.com/iliyamo/barbershop-admin/internal/repository"
	"github.com/iliyamo/barbershop-admin/internal/utils"
	"github.com/iliyamo/barbershop-admin/internal/validate"
)

// BillingHandler serves one billing entity (reservations or invoices).
type BillingHandler struct {
	Ent     repository.Entity
	Repo    *repository.BillingRepo
	Cache   *cache.Store
	Publish Publisher
}

func NewBillingHandler(ent repository.Entity, repo *repository.BillingRepo, store *cache.Store, publish Publisher) *BillingHandler {
	return &BillingHandler{Ent: ent, Repo: repo, Cache: store, Publish: publish}
}

// scopes lists the cache scopes a write to this entity makes stale. Every
// write touches the entity's own listings and the dashboard widgets; the
// customers listing embeds per-customer invoice aggregates, so invoice
// writes must flush it too or it serves stale totals until its TTL lapses.
func (h *BillingHandler) scopes() []string {
	s := []string{h.Ent.Table, dashboardScope}
	if h.Ent.Table == repository.Invoices.Table {
		s = append(s, customersScope)
	}
	return s
}

// latestResp is a LatestRow with the amount rendered for display. The
// repository traffics in cents only; formatting happens here.
type latestResp struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
	Amount   string `json:"amount"`
}

// List handles GET /v1/<entity>?query=&page=. It returns one page of
// filtered rows together with the total page count so clients can render
// pagination controls from a single response.
func (h *BillingHandler) List(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ctx := c.Request().Context()
	rows, err := h.Repo.Search(ctx, h.Ent, query, page)
	if err != nil {
		logStoreError("billing search failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pages, err := h.Repo.PageCount(ctx, h.Ent, query)
	if err != nil {
		logStoreError("billing page count failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":        rows,
		"page":        page,
		"query":       query,
		"total_pages": pages,
	})
}

// Pages handles GET /v1/<entity>/pages?query= and returns only the page
// count for the filter.
func (h *BillingHandler) Pages(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	pages, err := h.Repo.PageCount(c.Request().Context(), h.Ent, query)
	if err != nil {
		logStoreError("billing page count failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"total_pages": pages})
}

// Latest handles GET /v1/<entity>/latest: the five most recent rows with
// display-formatted amounts.
func (h *BillingHandler) Latest(c echo.Context) error {
	rows, err := h.Repo.Latest(c.Request().Context(), h.Ent)
	if err != nil {
		logStoreError("billing latest failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]latestResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, latestResp{
			ID:       r.ID,
			Name:     r.Name,
			Email:    r.Email,
			ImageURL: r.ImageURL,
			Amount:   utils.FormatCurrency(r.AmountCents),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Get handles GET /v1/<entity>/:id and returns the row shaped for the edit
// form (amount back in major units).
func (h *BillingHandler) Get(c echo.Context) error {
	row, err := h.Repo.GetByID(c.Request().Context(), h.Ent, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.Ent.Singular + " not found"})
		}
		logStoreError("billing get failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, row)
}

// Create handles POST /v1/<entity>. Invalid input returns structured field
// errors and performs no write. The creation date is stamped here: today,
// day granularity. On success the listing scopes are invalidated and the
// client is told where to navigate.
func (h *BillingHandler) Create(c echo.Context) error {
	var in validate.BillingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Struct(in); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	rec := model.BillingRecord{
		CustomerID:  in.CustomerID,
		AmountCents: toCents(in.Amount),
		Status:      in.Status,
		Date:        repository.Today(),
	}
	if err := h.Repo.Create(c.Request().Context(), h.Ent, &rec); err != nil {
		if err == repository.ErrBadReference {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown customer"})
		}
		logStoreError("billing create failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create " + h.Ent.Singular})
	}

	afterWrite(h.Cache, h.Publish, h.scopes(),
		mutationEvent(h.Ent.Singular, queue.ActionCreated, rec.ID, rec.AmountCents, rec.Status))
	return c.JSON(http.StatusCreated, echo.Map{"id": rec.ID, "redirect": h.Ent.ListingPath})
}

// Update handles PUT /v1/<entity>/:id. Same validation policy as Create;
// the stored creation date is never touched.
func (h *BillingHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var in validate.BillingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Struct(in); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	cents := toCents(in.Amount)
	err := h.Repo.Update(c.Request().Context(), h.Ent, id, in.CustomerID, cents, in.Status)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.Ent.Singular + " not found"})
		case repository.ErrBadReference:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown customer"})
		default:
			logStoreError("billing update failed", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update " + h.Ent.Singular})
		}
	}

	afterWrite(h.Cache, h.Publish, h.scopes(),
		mutationEvent(h.Ent.Singular, queue.ActionUpdated, id, cents, in.Status))
	return c.JSON(http.StatusOK, echo.Map{"id": id, "redirect": h.Ent.ListingPath})
}

// Delete handles DELETE /v1/<entity>/:id. Deletes invalidate but do not
// redirect: they are invoked from within an already-displayed list, which
// simply refreshes.
func (h *BillingHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.Repo.Delete(c.Request().Context(), h.Ent, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.Ent.Singular + " not found"})
		}
		logStoreError("billing delete failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete " + h.Ent.Singular})
	}

	afterWrite(h.Cache, h.Publish, h.scopes(),
		mutationEvent(h.Ent.Singular, queue.ActionDeleted, id, 0, ""))
	return c.NoContent(http.StatusNoContent)
}
