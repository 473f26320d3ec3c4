// Package observability provides request-scoped logging context and
// lightweight in-process metrics for tool calls.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const requestContextKey ctxKey = iota

// RequestContext carries the identifiers attached to every log line
// emitted while serving one MCP request.
type RequestContext struct {
	RequestID string
	Method    string
	ToolName  string
	StartTime time.Time
}

func NewRequestContext(method string) *RequestContext {
	return &RequestContext{
		RequestID: generateRequestID(),
		Method:    method,
		StartTime: time.Now(),
	}
}

func generateRequestID() string {
	return uuid.New().String()[:8]
}

// LogAttrs returns the context as slog attributes.
func (rc *RequestContext) LogAttrs() []any {
	attrs := []any{
		slog.String("request_id", rc.RequestID),
		slog.String("method", rc.Method),
	}
	if rc.ToolName != "" {
		attrs = append(attrs, slog.String("tool", rc.ToolName))
	}
	return attrs
}

// Elapsed returns the time since the request started.
func (rc *RequestContext) Elapsed() time.Duration {
	return time.Since(rc.StartTime)
}

// WithRequestContext stores the request context in ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext retrieves the request context, or a fresh one if absent.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}
	return NewRequestContext("unknown")
}
