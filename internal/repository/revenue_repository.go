package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/barbershop-admin/internal/model"
)

// RevenueRepo reads the static monthly revenue reference data backing the
// dashboard chart. The application never writes this table.
type RevenueRepo struct{ db *sql.DB }

// NewRevenueRepo returns a new RevenueRepo bound to the given database.
func NewRevenueRepo(db *sql.DB) *RevenueRepo { return &RevenueRepo{db: db} }

// List returns every revenue sample in stored order.
func (r *RevenueRepo) List(ctx context.Context) ([]model.RevenueSample, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month, revenue FROM revenue`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RevenueSample, 0, 12)
	for rows.Next() {
		var s model.RevenueSample
		if err := rows.Scan(&s.Month, &s.Revenue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
