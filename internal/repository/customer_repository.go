package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/barbershop-admin/internal/model"
)

// CustomerRepo provides CRUD and listing operations for the customers
// table. Emails are normalized to lower case before writes so the unique
// constraint cannot be dodged by casing.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// SelectRow is the minimal shape used to populate customer dropdowns.
type SelectRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TableRow is one row of the customers listing: the customer joined with
// their invoice count and cents totals per status.
type TableRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int64  `json:"total_invoices"`
	PendingCents  int64  `json:"pending_cents"`
	PaidCents     int64  `json:"paid_cents"`
}

// ListForSelect returns every customer's id and name ordered by name
// ascending. The result is deliberately unbounded: customer counts stay in
// the low thousands and the rows feed a form dropdown.
func (r *CustomerRepo) ListForSelect(ctx context.Context) ([]SelectRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SelectRow, 0)
	for rows.Next() {
		var s SelectRow
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchWithTotals returns customers whose name or email matches the query
// case-insensitively, each joined with their invoice count and per-status
// cents totals, ordered by name ascending.
func (r *CustomerRepo) SearchWithTotals(ctx context.Context, query string) ([]TableRow, error) {
	q := `SELECT
			c.id, c.name, c.email, c.image_url,
			COUNT(i.id) AS total_invoices,
			COALESCE(SUM(CASE WHEN i.status = 'pending' THEN i.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount ELSE 0 END), 0) AS total_paid
		FROM customers c
		LEFT JOIN invoices i ON i.customer_id = c.id
		WHERE LOWER(c.name) LIKE ? OR LOWER(c.email) LIKE ?
		GROUP BY c.id, c.name, c.email, c.image_url
		ORDER BY c.name ASC`

	p := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := r.db.QueryContext(ctx, q, p, p)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TableRow, 0)
	for rows.Next() {
		var t TableRow
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Email, &t.ImageURL,
			&t.TotalInvoices, &t.PendingCents, &t.PaidCents,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single customer by primary key. sql.ErrNoRows is
// returned when the id does not exist.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, image_url FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer and assigns its generated ID on the given
// record. A duplicate email surfaces as ErrEmailExists.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, image_url) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.ImageURL)
	if err != nil {
		// errno 1062: duplicate entry on the unique email index
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// Update rewrites a customer's fields in place. A duplicate email surfaces
// as ErrEmailExists; a missing id as sql.ErrNoRows. Zero affected rows is
// disambiguated with an existence probe since MySQL also reports zero for
// no-op updates.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, image_url = ? WHERE id = ?`,
		c.Name, c.Email, c.ImageURL, c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if probeErr := r.db.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = ?`, c.ID).Scan(&one); probeErr != nil {
			return probeErr
		}
	}
	return nil
}

// Delete removes a customer by id. The policy for customers with dependent
// records is restrict, not cascade: when any reservation or invoice still
// references the customer, ErrConflict is returned and nothing is removed.
// The dependent count and the delete are separate single statements; the
// ON DELETE RESTRICT foreign keys in the schema close the race between
// them. sql.ErrNoRows is returned when the id does not exist.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	var dependents int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM reservations WHERE customer_id = ?) +
			(SELECT COUNT(*) FROM invoices WHERE customer_id = ?)`,
		id, id).Scan(&dependents)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return ErrConflict
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		// errno 1451: row is referenced by a foreign key (race with the count above)
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
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
