package model

import "time"

// Billing status values. The store accepts exactly these two; validation
// rejects anything else before a write is attempted.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// BillingRecord mirrors the shape shared by the `reservations` and
// `invoices` tables. Which table a record lives in is decided by the
// repository's entity descriptor, not by the struct.
//
// Fields:
//  ID          – opaque UUID primary key.
//  CustomerID  – reference to customers.id.
//  AmountCents – amount in minor currency units (cents).
//  Status      – StatusPending or StatusPaid.
//  Date        – calendar date the record was created, day granularity.
type BillingRecord struct {
	ID          string    // <table>.id
	CustomerID  string    // <table>.customer_id
	AmountCents int64     // <table>.amount
	Status      string    // <table>.status
	Date        time.Time // <table>.date
}
