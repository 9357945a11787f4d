package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	bs := encodePayload(http.StatusOK, []byte(`{"data":[]}`))
	status, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"data":[]}`, string(body))
}

func TestDecodePayloadRejectsShortInput(t *testing.T) {
	_, _, ok := decodePayload([]byte{0x01, 0x02})
	assert.False(t, ok)
}

func TestListingCacheDisabledStorePassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/invoices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := ListingCache(nil, "invoices")
	err := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"), "a disabled store must leave responses untouched")
}
