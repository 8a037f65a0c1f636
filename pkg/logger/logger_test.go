package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manzanit0/mapsmoke/pkg/logger"
	"github.com/manzanit0/mapsmoke/pkg/middleware"
)

func TestContextJSONHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(logger.NewContextJSONHandler(&buf, nil))

	ctx := context.WithValue(context.Background(), middleware.CtxKeyTraceID, "abc")
	l.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}

func TestContextJSONHandlerWithoutTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(logger.NewContextJSONHandler(&buf, nil)).With("service", "mapsmoke")

	l.InfoContext(context.Background(), "hello")

	assert.NotContains(t, buf.String(), "trace_id")
	assert.Contains(t, buf.String(), `"service":"mapsmoke"`)
}
