package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/barbershop-admin/internal/model"
)

// BillingRepo provides the read and write operations shared by the
// reservations and invoices tables. Every method takes an Entity descriptor
// choosing the table; each operation is a single statement and atomic at
// the statement level. No multi-statement transactions are used anywhere
// in this layer.
type BillingRepo struct {
	db *sql.DB
}

// NewBillingRepo returns a new BillingRepo bound to the given database.
func NewBillingRepo(db *sql.DB) *BillingRepo { return &BillingRepo{db: db} }

// ListingRow is one row of a filtered billing listing, joined with the
// customer display fields shown next to it.
type ListingRow struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"` // YYYY-MM-DD
	Status      string `json:"status"`
	CustomerID  string `json:"customer_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ImageURL    string `json:"image_url"`
}

// FormRow is the shape used to populate an edit form. Amount is converted
// back to major units so the form shows what the operator originally typed.
type FormRow struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
}

// LatestRow is one entry of the dashboard "latest" widget. The amount stays
// in cents; display formatting is a presentation concern handled upstream.
type LatestRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ImageURL    string `json:"image_url"`
	AmountCents int64  `json:"amount_cents"`
}

// CardSummary aggregates the dashboard cards: how many billing rows exist,
// how many customers exist, and the cents totals per status.
type CardSummary struct {
	Count         int64 `json:"count"`
	CustomerCount int64 `json:"customer_count"`
	PaidCents     int64 `json:"paid_cents"`
	PendingCents  int64 `json:"pending_cents"`
}

// searchFilter returns the WHERE fragment matching the free-text query
// case-insensitively against customer name, customer email, the amount as
// text, the date as text and the status. Search and PageCount share this
// fragment so the page count can never drift from the paged rows.
func searchFilter() string {
	return `(LOWER(c.name) LIKE ? OR
		LOWER(c.email) LIKE ? OR
		CAST(b.amount AS CHAR) LIKE ? OR
		DATE_FORMAT(b.date, '%Y-%m-%d') LIKE ? OR
		LOWER(b.status) LIKE ?)`
}

// searchArgs builds the bind arguments for searchFilter.
func searchArgs(query string) []any {
	p := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return []any{p, p, p, p, p}
}

// Search returns one page of billing rows matching the query, joined with
// customer display fields and ordered by date descending (newest first).
// Pages are 1-based; page sizes and offsets all derive from PageSize.
func (r *BillingRepo) Search(ctx context.Context, ent Entity, query string, page int) ([]ListingRow, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	q := `SELECT b.id, b.amount, DATE_FORMAT(b.date, '%Y-%m-%d') AS date, b.status,
			c.id, c.name, c.email, c.image_url
		FROM ` + ent.Table + ` b
		JOIN customers c ON c.id = b.customer_id
		WHERE ` + searchFilter() + `
		ORDER BY b.date DESC
		LIMIT ? OFFSET ?`

	args := append(searchArgs(query), PageSize, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ListingRow, 0, PageSize)
	for rows.Next() {
		var lr ListingRow
		if err := rows.Scan(
			&lr.ID, &lr.AmountCents, &lr.Date, &lr.Status,
			&lr.CustomerID, &lr.Name, &lr.Email, &lr.ImageURL,
		); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PageCount returns the number of listing pages for the query: the count of
// matching rows divided by PageSize, rounded up. An unmatched query yields
// zero pages.
func (r *BillingRepo) PageCount(ctx context.Context, ent Entity, query string) (int, error) {
	q := `SELECT COUNT(*)
		FROM ` + ent.Table + ` b
		JOIN customers c ON c.id = b.customer_id
		WHERE ` + searchFilter()

	var total int
	if err := r.db.QueryRowContext(ctx, q, searchArgs(query)...).Scan(&total); err != nil {
		return 0, err
	}
	return (total + PageSize - 1) / PageSize, nil
}

// GetByID returns a single row shaped for the edit form, converting the
// stored cents back to major units. sql.ErrNoRows is returned when the id
// does not exist.
func (r *BillingRepo) GetByID(ctx context.Context, ent Entity, id string) (*FormRow, error) {
	q := `SELECT b.id, b.customer_id, b.amount, b.status FROM ` + ent.Table + ` b WHERE b.id = ?`
	var f FormRow
	var cents int64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.CustomerID, &cents, &f.Status); err != nil {
		return nil, err
	}
	f.Amount = float64(cents) / 100
	return &f, nil
}

// Latest returns the LatestLimit most recent rows by date, joined with the
// customer fields the dashboard widget displays.
func (r *BillingRepo) Latest(ctx context.Context, ent Entity) ([]LatestRow, error) {
	q := `SELECT b.id, c.name, c.email, c.image_url, b.amount
		FROM ` + ent.Table + ` b
		JOIN customers c ON c.id = b.customer_id
		ORDER BY b.date DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, LatestLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LatestRow, 0, LatestLimit)
	for rows.Next() {
		var lr LatestRow
		if err := rows.Scan(&lr.ID, &lr.Name, &lr.Email, &lr.ImageURL, &lr.AmountCents); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CardSummary runs the three dashboard aggregates as independent concurrent
// queries and joins on completion of all. If any one fails the whole read
// fails; there are no partial results.
func (r *BillingRepo) CardSummary(ctx context.Context, ent Entity) (*CardSummary, error) {
	var s CardSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM `+ent.Table).Scan(&s.Count)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM customers`).Scan(&s.CustomerCount)
	})
	g.Go(func() error {
		q := `SELECT
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending
			FROM ` + ent.Table
		return r.db.QueryRowContext(gctx, q).Scan(&s.PaidCents, &s.PendingCents)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new billing row. The record's ID is assigned here when
// empty so callers get the generated key back. The store's foreign key
// enforces that the customer exists; a rejected reference is surfaced as
// ErrBadReference.
func (r *BillingRepo) Create(ctx context.Context, ent Entity, rec *model.BillingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	q := `INSERT INTO ` + ent.Table + ` (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.CustomerID, rec.AmountCents, rec.Status, rec.Date.Format("2006-01-02"))
	if err != nil {
		// errno 1452: foreign key constraint fails
		if strings.Contains(err.Error(), "1452") {
			return ErrBadReference
		}
		return err
	}
	return nil
}

// Update rewrites the mutable columns of a row by id. The creation date is
// deliberately left untouched. MySQL reports zero affected rows both for a
// missing id and for a no-op update, so a zero result is disambiguated with
// an existence probe before reporting sql.ErrNoRows.
func (r *BillingRepo) Update(ctx context.Context, ent Entity, id, customerID string, amountCents int64, status string) error {
	q := `UPDATE ` + ent.Table + ` SET customer_id = ?, amount = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, customerID, amountCents, status, id)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrBadReference
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if probeErr := r.db.QueryRowContext(ctx, `SELECT 1 FROM `+ent.Table+` WHERE id = ?`, id).Scan(&one); probeErr != nil {
			return probeErr // sql.ErrNoRows when the id is unknown
		}
	}
	return nil
}

// Delete removes a row by id. sql.ErrNoRows is returned when nothing was
// deleted so handlers can answer 404.
func (r *BillingRepo) Delete(ctx context.Context, ent Entity, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+ent.Table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Today returns the current calendar date truncated to day granularity in
// UTC. Creation dates are stamped with this at the persist step.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
