package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyIsStableAndScoped(t *testing.T) {
	k1 := Key("app", "invoices", "/v1/invoices", "query=lee&page=2")
	k2 := Key("app", "invoices", "/v1/invoices", "query=lee&page=2")
	assert.Equal(t, k1, k2, "same inputs must hash to the same key")

	assert.True(t, strings.HasPrefix(k1, "app:invoices:"),
		"scope must stay in clear text so invalidation can match on it")

	k3 := Key("app", "invoices", "/v1/invoices", "query=lee&page=3")
	assert.NotEqual(t, k1, k3, "different queries must not collide")

	k4 := Key("app", "reservations", "/v1/invoices", "query=lee&page=2")
	assert.NotEqual(t, k1, k4, "different scopes must not collide")
}

func TestKeyBoundsLongQueries(t *testing.T) {
	long := strings.Repeat("x", 10_000)
	k := Key("app", "customers", "/v1/customers", "query="+long)
	assert.Less(t, len(k), 100, "key length must not grow with the query")
}

func TestNilStoreIsDisabledNoOp(t *testing.T) {
	var s *Store
	ctx := context.Background()

	assert.False(t, s.Enabled())
	assert.Zero(t, s.MaxBody())

	_, found := s.Get(ctx, "any")
	assert.False(t, found)

	s.Set(ctx, "any", []byte("payload")) // must not panic
	assert.NoError(t, s.Invalidate(ctx, "customers"))
}
