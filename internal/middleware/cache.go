package middleware

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/barbershop-admin/internal/cache"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 || len(b) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
		cw.size += len(b)
	}
	return cw.ResponseWriter.Write(b)
}

// encodePayload packs: [4 bytes status][body]. Every cached endpoint
// serves JSON, so only the status needs to survive alongside the body.
func encodePayload(status int, body []byte) []byte {
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	copy(out[4:], body)
	return out
}

func decodePayload(bs []byte) (status int, body []byte, ok bool) {
	if len(bs) < 4 {
		return 0, nil, false
	}
	return int(binary.BigEndian.Uint32(bs[0:4])), bs[4:], true
}

// ListingCache returns middleware that serves GET responses for one listing
// scope from the cache store and records misses. Entries live until their
// TTL lapses or a write to the same scope invalidates them. A nil or
// disabled store turns the middleware into a pass-through.
func ListingCache(store *cache.Store, scope string) echo.MiddlewareFunc {
	if !store.Enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.EqualFold(c.Request().Method, http.MethodGet) {
				return next(c)
			}

			ctx := c.Request().Context()
			key := store.KeyFor(scope, c.Path(), c.Request().URL.RawQuery)

			if bs, found := store.Get(ctx, key); found {
				if status, body, ok := decodePayload(bs); ok {
					c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			// Miss: capture the handler's output and record it on success.
			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: store.MaxBody()}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && (store.MaxBody() <= 0 || cw.size <= store.MaxBody()) {
				store.Set(ctx, key, encodePayload(cw.status, cw.buf.Bytes()))
			}
			return nil
		}
	}
}
