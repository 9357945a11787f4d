package model

// RevenueSample is one month of revenue reference data from the `revenue`
// table. The application only ever reads these rows.
type RevenueSample struct {
	Month   string // revenue.month (unique key, e.g. "Jan")
	Revenue int64  // revenue.revenue
}
