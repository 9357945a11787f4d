package handler

// Shared plumbing for the mutation endpoints. Every successful write runs
// the same tail sequence: invalidate the affected listing scopes, publish
// the audit event, answer with a redirect signal (or 204 for deletes).

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/barbershop-admin/internal/cache"
	"github.com/iliyamo/barbershop-admin/internal/queue"
	"github.com/iliyamo/barbershop-admin/internal/utils"
)

// Publisher sends a mutation audit event to the broker. It is a function
// value so handlers can be exercised in tests without a broker; a nil
// Publisher skips publishing entirely.
type Publisher func(ctx context.Context, ev queue.MutationEvent) error

// dashboardScope is invalidated by every write: the summary cards and the
// latest widgets derive from customers and billing rows alike.
const dashboardScope = "dashboard"

// afterWrite marks the given cache scopes stale and emits the audit event.
// Both effects are best-effort: the write already succeeded and the client
// gets its redirect regardless. Publishing dials the broker, so it runs off
// the request goroutine with its own deadline.
func afterWrite(store *cache.Store, publish Publisher, scopes []string, ev queue.MutationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, scope := range scopes {
		if err := store.Invalidate(ctx, scope); err != nil {
			logStoreError("cache invalidate failed", err)
		}
	}
	if publish != nil {
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pcancel()
			_ = publish(pctx, ev)
		}()
	}
}

// mutationEvent stamps a MutationEvent with the current time.
func mutationEvent(entity, action, id string, amountCents int64, status string) queue.MutationEvent {
	return queue.MutationEvent{
		Entity:      entity,
		Action:      action,
		ID:          id,
		AmountCents: amountCents,
		Status:      status,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// toCents converts a validated decimal major-unit string into minor units,
// rounding at the cent boundary. Validation has already established the
// string is numeric.
func toCents(amount string) int64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	return int64(math.Round(v * 100))
}

// logStoreError keeps the original cause server-side; clients only ever
// see generic failure messages.
func logStoreError(msg string, err error) {
	if utils.ErrorLogger != nil {
		utils.ErrorLogger.WithError(err).Error(msg)
	}
}
