package whttp_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/mapsmoke/pkg/whttp"
)

func TestLoggingRoundTripperRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK"}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := &http.Client{Transport: whttp.LoggingRoundTripper{Proxied: http.DefaultTransport, Logger: logger}}

	res, err := client.Get(srv.URL + "/maps/api/geocode/json?address=x&key=SECRET")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"status": "OK"}`, string(body), "the body must still be readable after logging")

	assert.NotContains(t, logs.String(), "SECRET")
	assert.Contains(t, logs.String(), "key=REDACTED")
}

func TestLoggingRoundTripperRedactsErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	client := &http.Client{Transport: whttp.LoggingRoundTripper{Proxied: http.DefaultTransport, Logger: logger}}

	_, err := client.Get(srv.URL + "/maps/api/geocode/json?key=SECRET")
	require.Error(t, err)

	assert.NotContains(t, logs.String(), "SECRET")
	assert.Contains(t, logs.String(), "outbound request failed")
}
