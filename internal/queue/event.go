// Package queue defines message payloads exchanged over the message broker.
package queue

// Mutation actions carried in MutationEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// MutationEvent is published after every successful entity write. It
// carries enough information for downstream consumers to audit, notify or
// feed analytics without querying the primary database. Amount and status
// are zero-valued for customer mutations and for deletes.
type MutationEvent struct {
	Entity      string `json:"entity"` // "customer", "reservation" or "invoice"
	Action      string `json:"action"` // created | updated | deleted
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	Status      string `json:"status,omitempty"`
	OccurredAt  string `json:"occurred_at"` // RFC3339 UTC
}
