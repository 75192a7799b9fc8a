package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusPaymentRequired, "WARN"},
		{http.StatusServiceUnavailable, "ERROR"},
	}
	for _, c := range cases {
		t.Run(http.StatusText(c.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			h := NewStructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = w.Write([]byte("{}"))
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/wallet/debit", nil))

			var line struct {
				Level    string `json:"level"`
				Request  struct{ Method, Path string }
				Response struct {
					Status int `json:"status"`
					Bytes  int `json:"bytes"`
				}
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, c.level, line.Level)
			assert.Equal(t, "/wallet/debit", line.Request.Path)
			assert.Equal(t, c.status, line.Response.Status)
			assert.Equal(t, 2, line.Response.Bytes)
		})
	}
}
