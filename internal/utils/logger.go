package utils

import (
	"context"
	"log"
	"strings"
)

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID stores the request id so layers below the transport can
// tag their log lines with it.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// RequestIDFromContext returns the stored request id, or "" outside a
// request.
func RequestIDFromContext(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// LogEvent prints a standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(ctx context.Context, module, action, message string) {
	rid := RequestIDFromContext(ctx)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, rid, message)
}
