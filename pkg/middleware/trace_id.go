package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

type CtxKey string

const (
	CtxKeyTraceID CtxKey = "trace_id"

	HeaderTraceID = "X-Trace-Id"
)

// TraceID tags the request context with a ksuid, reusing an inbound
// X-Trace-Id when the caller sent one.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderTraceID)
		if _, err := ksuid.Parse(id); err != nil {
			id = ksuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), CtxKeyTraceID, id)
		c.Request = c.Request.Clone(ctx)
		c.Header(HeaderTraceID, id)

		c.Next()
	}
}
