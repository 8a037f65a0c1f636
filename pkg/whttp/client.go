package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/manzanit0/mapsmoke/pkg/redact"
)

const DefaultTimeout = 10 * time.Second

// LoggingRoundTripper logs every outbound request. URLs and transport errors
// are redacted first since the Maps APIs take the key as a query parameter.
type LoggingRoundTripper struct {
	Proxied http.RoundTripper
	Logger  *slog.Logger
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	l := lrt.Logger
	if l == nil {
		l = slog.Default()
	}

	ctx := req.Context()
	target := redact.String(req.URL.String())
	t0 := time.Now()

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		l.ErrorContext(ctx, "outbound request failed",
			"method", req.Method,
			"url", target,
			"duration_ms", time.Since(t0).Milliseconds(),
			"error", redact.Error(err).Error())
		return res, err
	}

	attrs := []any{
		"method", req.Method,
		"url", target,
		"status", res.StatusCode,
		"duration_ms", time.Since(t0).Milliseconds(),
	}

	if l.Enabled(ctx, slog.LevelDebug) {
		b := bytes.NewBuffer(make([]byte, 0))
		reader := io.TeeReader(res.Body, b)

		body, _ := io.ReadAll(reader)
		_ = res.Body.Close()
		res.Body = io.NopCloser(b)

		attrs = append(attrs, "body", string(body))
	}

	l.InfoContext(ctx, "outbound request", attrs...)

	return res, nil
}

func NewLoggingClient() *http.Client {
	return NewLoggingClientWithTimeout(DefaultTimeout)
}

func NewLoggingClientWithTimeout(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   timeout,
	}
}
