package utils

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "ua", r.Header.Get("User-Agent"))
			assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
			_, _ = w.Write([]byte(`{"a":1}`))
		case "/gzip":
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write([]byte(`[1,2]`))
			_ = zw.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		case "/html":
			_, _ = w.Write([]byte(`<html></html>`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(0)
	ctx := context.Background()
	h := BrowserHeaders("ua")

	body, err := c.GetBody(ctx, srv.URL+"/ok", h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))

	body, err = c.GetBody(ctx, srv.URL+"/gzip", h)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(body))

	_, err = c.GetBody(ctx, srv.URL+"/html", h)
	assert.Error(t, err)

	_, err = c.GetBody(ctx, srv.URL+"/down", h)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestHeadersWith(t *testing.T) {
	base := BrowserHeaders("ua")
	h := base.With("Accept", "text/html", "Referer")
	assert.Equal(t, "text/html", h["Accept"])
	assert.Equal(t, "ua", h["User-Agent"])
	assert.NotContains(t, h, "Referer", "落单的键被忽略")
	assert.Equal(t, "*/*", base["Accept"], "原请求头不受影响")
}
