package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/inventory-keeper/pkg/correlationid"
)

func TestRecoverer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"internalServerError","message":"an unknown error occurred"}`, resp.Body.String())
}

func TestCorrelationID(t *testing.T) {
	var got string
	h := CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = correlationid.FromContext(r.Context())
	}))

	t.Run("Should keep the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "abc")
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, "abc", got)
		assert.Equal(t, "abc", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should replace an oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, string(make([]byte, maxCorrelationIDLen+1)))
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Len(t, got, 36)
		assert.Equal(t, got, resp.Header().Get(correlationid.Header))
	})
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		name         string
		trustHeaders bool
		headers      map[string]string
		want         string
	}{
		{"remote address", false, nil, "192.0.2.1"},
		{"ignores forwarded headers by default", false, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.1"},
		{"first forwarded address", true, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip header", true, map[string]string{"X-Real-Ip": "198.51.100.4"}, "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientAddr(req, tt.trustHeaders))
		})
	}
}
