package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/barbershop-admin/internal/repository"
)

// newInvoiceHandler builds a BillingHandler over a mocked database with the
// cache and publisher disabled, plus the Echo instance requests run through.
func newInvoiceHandler(t *testing.T) (*BillingHandler, sqlmock.Sqlmock, *echo.Echo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewBillingHandler(repository.Invoices, repository.NewBillingRepo(db), nil, nil)
	return h, mock, echo.New()
}

func postForm(e *echo.Echo, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestInvoiceCreateConvertsToCentsAndRedirects(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	mock.ExpectExec("INSERT INTO invoices").
		WithArgs(sqlmock.AnyArg(), "cust-1", int64(5000), "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := postForm(e, "/v1/invoices", url.Values{
		"customerId": {"cust-1"},
		"amount":     {"50"},
		"status":     {"pending"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "/dashboard/invoices", body["redirect"])
	assert.NotEmpty(t, body["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceCreateRoundsFractionalCents(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	mock.ExpectExec("INSERT INTO invoices").
		WithArgs(sqlmock.AnyArg(), "cust-1", int64(1999), "paid", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := postForm(e, "/v1/invoices", url.Values{
		"customerId": {"cust-1"},
		"amount":     {"19.99"},
		"status":     {"paid"},
	})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceCreateRejectsUnknownStatusBeforeAnyWrite(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	c, rec := postForm(e, "/v1/invoices", url.Values{
		"customerId": {"cust-1"},
		"amount":     {"50"},
		"status":     {"cancelled"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "validation failures must come back structured")
	assert.Contains(t, errs, "status")
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement may run on invalid input")
}

func TestInvoiceCreateUnknownCustomer(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	mock.ExpectExec("INSERT INTO invoices").
		WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

	c, rec := postForm(e, "/v1/invoices", url.Values{
		"customerId": {"ghost"},
		"amount":     {"50"},
		"status":     {"paid"},
	})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceUpdateRedirects(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	mock.ExpectExec("UPDATE invoices SET").
		WithArgs("cust-1", int64(3040), "paid", "inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := postForm(e, "/v1/invoices/inv-1", url.Values{
		"customerId": {"cust-1"},
		"amount":     {"30.40"},
		"status":     {"paid"},
	})
	c.SetParamNames("id")
	c.SetParamValues("inv-1")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "/dashboard/invoices", body["redirect"])
}

func TestInvoiceDeleteAnswersNoContent(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	mock.ExpectExec("DELETE FROM invoices").
		WithArgs("inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/v1/invoices/inv-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("inv-1")
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes(), "deletes answer with no redirect payload")
}

func TestInvoiceGetMissing(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	mock.ExpectQuery("SELECT b.id, b.customer_id").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/v1/invoices/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoiceListShapesResponse(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	rows := sqlmock.NewRows([]string{
		"id", "amount", "date", "status", "cid", "name", "email", "image_url",
	}).AddRow("inv-1", int64(15795), "2025-12-06", "pending", "cust-1", "Sandi Kurniawan", "sandi@kurniawan.com", "/customers/sandi-kurniawan.png")

	mock.ExpectQuery("SELECT b.id, b.amount").WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	req := httptest.NewRequest(http.MethodGet, "/v1/invoices?query=sandi&page=1", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.List(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, "sandi", body["query"])
	assert.Equal(t, float64(3), body["total_pages"])
}

func TestInvoiceWritesFlushCustomerListings(t *testing.T) {
	// The customers listing joins invoices for its aggregate columns, so an
	// invoice write must mark it stale alongside the invoice listings and
	// the dashboard. Reservation aggregates appear nowhere outside their
	// own listings.
	inv := NewBillingHandler(repository.Invoices, nil, nil, nil)
	assert.ElementsMatch(t, []string{"invoices", "dashboard", "customers"}, inv.scopes())

	res := NewBillingHandler(repository.Reservations, nil, nil, nil)
	assert.ElementsMatch(t, []string{"reservations", "dashboard"}, res.scopes())
}

func TestInvoiceLatestFormatsAmounts(t *testing.T) {
	h, mock, e := newInvoiceHandler(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "image_url", "amount"}).
		AddRow("inv-1", "Steph Dietz", "steph@dietz.com", "/customers/steph-dietz.png", int64(3040))
	mock.ExpectQuery("ORDER BY b.date DESC").WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/v1/invoices/latest", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Latest(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "$30.40", entry["amount"])
}
