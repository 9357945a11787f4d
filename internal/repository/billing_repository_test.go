package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/barbershop-admin/internal/model"
)

func newBillingMock(t *testing.T) (*BillingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBillingRepo(db), mock
}

func TestBillingCreateStoresCentsAndDate(t *testing.T) {
	repo, mock := newBillingMock(t)

	date := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	rec := model.BillingRecord{
		ID:          "inv-1",
		CustomerID:  "cust-1",
		AmountCents: 5000,
		Status:      model.StatusPending,
		Date:        date,
	}

	mock.ExpectExec("INSERT INTO invoices").
		WithArgs("inv-1", "cust-1", int64(5000), "pending", "2025-06-05").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), Invoices, &rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingCreateAssignsID(t *testing.T) {
	repo, mock := newBillingMock(t)

	rec := model.BillingRecord{
		CustomerID:  "cust-1",
		AmountCents: 100,
		Status:      model.StatusPaid,
		Date:        Today(),
	}
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), Reservations, &rec))
	assert.NotEmpty(t, rec.ID, "a generated id must be handed back to the caller")
}

func TestBillingCreateUnknownCustomer(t *testing.T) {
	repo, mock := newBillingMock(t)

	rec := model.BillingRecord{ID: "inv-1", CustomerID: "ghost", AmountCents: 100, Status: "paid", Date: Today()}
	mock.ExpectExec("INSERT INTO invoices").
		WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

	err := repo.Create(context.Background(), Invoices, &rec)
	assert.ErrorIs(t, err, ErrBadReference)
}

func TestBillingGetByIDConvertsToMajorUnits(t *testing.T) {
	repo, mock := newBillingMock(t)

	rows := sqlmock.NewRows([]string{"id", "customer_id", "amount", "status"}).
		AddRow("inv-1", "cust-1", int64(1999), "paid")
	mock.ExpectQuery("SELECT b.id, b.customer_id, b.amount, b.status FROM invoices").
		WithArgs("inv-1").
		WillReturnRows(rows)

	f, err := repo.GetByID(context.Background(), Invoices, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, 19.99, f.Amount)
	assert.Equal(t, "paid", f.Status)
}

func TestBillingGetByIDMissing(t *testing.T) {
	repo, mock := newBillingMock(t)

	mock.ExpectQuery("SELECT b.id, b.customer_id, b.amount, b.status FROM reservations").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), Reservations, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBillingPageCountRoundsUp(t *testing.T) {
	repo, mock := newBillingMock(t)

	cases := []struct {
		total int
		pages int
	}{
		{0, 0},
		{1, 1},
		{6, 1},
		{7, 2},
		{13, 3},
	}
	for _, c := range cases {
		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(c.total))
		pages, err := repo.PageCount(context.Background(), Invoices, "")
		require.NoError(t, err)
		assert.Equal(t, c.pages, pages, "total=%d", c.total)
	}
}

func TestBillingSearchPagination(t *testing.T) {
	repo, mock := newBillingMock(t)

	p := "%lee%"
	rows := sqlmock.NewRows([]string{
		"id", "amount", "date", "status", "cid", "name", "email", "image_url",
	}).AddRow("inv-1", int64(20348), "2025-11-14", "pending", "cust-2", "Lee Robinson", "lee@robinson.com", "/customers/lee-robinson.png")

	// Page 2 starts after one full page of rows.
	mock.ExpectQuery("SELECT b.id, b.amount").
		WithArgs(p, p, p, p, p, PageSize, PageSize).
		WillReturnRows(rows)

	got, err := repo.Search(context.Background(), Invoices, "Lee", 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lee Robinson", got[0].Name)
	assert.Equal(t, int64(20348), got[0].AmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingUpdateMissingID(t *testing.T) {
	repo, mock := newBillingMock(t)

	mock.ExpectExec("UPDATE invoices SET").
		WithArgs("cust-1", int64(100), "paid", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM invoices").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), Invoices, "nope", "cust-1", 100, "paid")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBillingUpdateNoOpIsSuccess(t *testing.T) {
	repo, mock := newBillingMock(t)

	// Zero affected rows with the row still present means the values were
	// already what was submitted.
	mock.ExpectExec("UPDATE invoices SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM invoices").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := repo.Update(context.Background(), Invoices, "inv-1", "cust-1", 100, "paid")
	assert.NoError(t, err)
}

func TestBillingUpdateSurfacesRowsAffectedError(t *testing.T) {
	repo, mock := newBillingMock(t)

	raErr := errors.New("driver: rows affected unavailable")
	mock.ExpectExec("UPDATE invoices SET").
		WillReturnResult(sqlmock.NewErrorResult(raErr))

	err := repo.Update(context.Background(), Invoices, "inv-1", "cust-1", 100, "paid")
	assert.ErrorIs(t, err, raErr, "an unreadable result must not pass as success")
}

func TestBillingDeleteMissingID(t *testing.T) {
	repo, mock := newBillingMock(t)

	mock.ExpectExec("DELETE FROM reservations").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), Reservations, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBillingCardSummary(t *testing.T) {
	repo, mock := newBillingMock(t)
	mock.MatchExpectationsInOrder(false) // the three aggregates run concurrently

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM invoices").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery("COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"paid", "pending"}).AddRow(int64(104586), int64(125632)))

	s, err := repo.CardSummary(context.Background(), Invoices)
	require.NoError(t, err)
	assert.Equal(t, int64(13), s.Count)
	assert.Equal(t, int64(8), s.CustomerCount)
	assert.Equal(t, int64(104586), s.PaidCents)
	assert.Equal(t, int64(125632), s.PendingCents)
}

func TestTodayIsDayGranularityUTC(t *testing.T) {
	d := Today()
	assert.Equal(t, time.UTC, d.Location())
	assert.Zero(t, d.Hour())
	assert.Zero(t, d.Minute())
	assert.Zero(t, d.Second())
}
