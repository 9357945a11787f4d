// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios. For example,
// ErrConflict signals that an operation cannot proceed due to existing
// dependent records (e.g. deleting a customer who still has reservations),
// while ErrBadReference indicates a write referenced a row that does not
// exist.
package repository

import "errors"

// ErrConflict is returned when a delete cannot be performed because of
// conflicting state, such as attempting to remove a customer with
// reservations or invoices on file. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint on users or customers.
var ErrEmailExists = errors.New("email already exists")

// ErrBadReference is returned when the store rejects a write because a
// referenced row is missing, e.g. a reservation naming an unknown
// customer_id. Handlers should translate this into an HTTP 400 response.
var ErrBadReference = errors.New("referenced row does not exist")
