package repository

// The reservations and invoices tables have an identical shape and an
// identical query surface, so a single repository serves both. Entity is
// the descriptor that picks the table; everything else is written once.

// Pagination constants shared by every paged read. PageCount and Search
// must derive from the same value or the reported page count drifts from
// the rows actually returned.
const (
	PageSize    = 6 // rows per listing page
	LatestLimit = 5 // rows in the dashboard "latest" widget
)

// Entity describes one billing table. Table is interpolated into SQL and
// must never carry user input; only the two package-level descriptors below
// are valid values.
type Entity struct {
	Table       string // SQL table name
	Singular    string // label used in events and error messages
	ListingPath string // dashboard path a successful write invalidates and redirects to
}

// Reservations and Invoices are the only two billing entities.
var (
	Reservations = Entity{Table: "reservations", Singular: "reservation", ListingPath: "/dashboard/reservations"}
	Invoices     = Entity{Table: "invoices", Singular: "invoice", ListingPath: "/dashboard/invoices"}
)
