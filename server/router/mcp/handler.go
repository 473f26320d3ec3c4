// Package mcp implements the Model Context Protocol surface: JSON-RPC
// 2.0 dispatch, the tool registry, and the HTTP and stdio transports.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/upamune/chrono-mcp/server/internal/errors"
	"github.com/upamune/chrono-mcp/internal/observability"
)

const protocolVersion = "2024-11-05"

// Handler dispatches JSON-RPC requests to the tool registry. One
// handler serves both the HTTP endpoint and the stdio loop.
type Handler struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *observability.Metrics
	sem      *semaphore.Weighted

	serverName    string
	serverVersion string

	argDefaults map[string]any
}

func NewHandler(registry *Registry, logger *slog.Logger, metrics *observability.Metrics, name, version string, maxConcurrent int64) *Handler {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	return &Handler{
		registry:      registry,
		logger:        logger,
		metrics:       metrics,
		sem:           semaphore.NewWeighted(maxConcurrent),
		serverName:    name,
		serverVersion: version,
		argDefaults:   make(map[string]any),
	}
}

// SetArgumentDefault registers a process-wide default for a tool
// argument. The default fills the argument only when the caller (and,
// over HTTP, the query parameter) left it unset.
func (h *Handler) SetArgumentDefault(key string, value any) {
	h.argDefaults[key] = value
}

// Dispatch handles one decoded request. It returns nil for
// notifications, which expect no response.
func (h *Handler) Dispatch(ctx context.Context, req *Request) *Response {
	rc := observability.NewRequestContext(req.Method)
	ctx = observability.WithRequestContext(ctx, rc)

	if req.JSONRPC != jsonrpcVersion {
		return newErrorResponse(req.ID, codeInvalidRequest, "unsupported jsonrpc version")
	}

	switch req.Method {
	case "initialize":
		return newResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo": map[string]any{
				"name":    h.serverName,
				"version": h.serverVersion,
			},
		})
	case "notifications/initialized":
		return nil
	case "ping":
		return newResponse(req.ID, map[string]any{})
	case "tools/list":
		return newResponse(req.ID, map[string]any{"tools": h.registry.List()})
	case "tools/call":
		return h.callTool(ctx, req, rc)
	default:
		if req.IsNotification() {
			return nil
		}
		return newErrorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (h *Handler) callTool(ctx context.Context, req *Request, rc *observability.RequestContext) *Response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return newErrorResponse(req.ID, codeInvalidParams, "malformed tools/call params")
	}
	rc.ToolName = params.Name

	tool := h.registry.Get(params.Name)
	if tool == nil {
		return newErrorResponse(req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}
	params.Arguments = mergeDefaults(params.Arguments, h.argDefaults)

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return newErrorResponse(req.ID, codeInternalError, "request canceled")
	}
	defer h.sem.Release(1)

	text, err := tool.Run(ctx, params.Arguments)

	h.metrics.RecordCall(params.Name, rc.Elapsed(), err != nil)
	if err != nil {
		return h.toolError(ctx, req.ID, rc, err)
	}

	h.logger.InfoContext(ctx, "tool call completed",
		append(rc.LogAttrs(), slog.Duration("elapsed", rc.Elapsed()))...)

	return newResponse(req.ID, map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
		"isError": false,
	})
}

func (h *Handler) toolError(ctx context.Context, id any, rc *observability.RequestContext, err error) *Response {
	var pe *errors.ParseError
	code := codeInternalError
	message := "internal error"

	if e, ok := err.(*errors.ParseError); ok {
		pe = e
		switch pe.Code {
		case errors.ErrInvalidInput, errors.ErrInvalidReference:
			code = codeInvalidParams
			message = pe.Message
		}
	}

	if code == codeInternalError {
		h.logger.ErrorContext(ctx, "tool call failed",
			append(rc.LogAttrs(), slog.String("error", err.Error()))...)
	} else {
		h.logger.WarnContext(ctx, "tool call rejected",
			append(rc.LogAttrs(), slog.String("error", err.Error()))...)
	}
	return newErrorResponse(id, code, message)
}

// ServeHTTP is the echo handler for the MCP endpoint. A `timezone_offset`
// query parameter, when present, becomes the default value of the
// timezone_offset tool argument.
func (h *Handler) ServeHTTP(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusOK, newErrorResponse(nil, codeInvalidRequest, "unreadable request body"))
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusOK, newErrorResponse(nil, codeParseError, "parse error"))
	}

	if req.Method == "tools/call" {
		if offset, ok := offsetQueryParam(c); ok {
			req.Params = applyArgumentDefaults(req.Params, map[string]any{"timezone_offset": offset})
		}
	}

	resp := h.Dispatch(c.Request().Context(), &req)
	if resp == nil {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSON(http.StatusOK, resp)
}

func offsetQueryParam(c echo.Context) (int, bool) {
	raw := c.QueryParam("timezone_offset")
	if raw == "" {
		return 0, false
	}
	offset, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return offset, true
}

// mergeDefaults fills unset keys of a JSON arguments object with
// default values. Explicit arguments always win. Unparseable arguments
// pass through untouched so the tool reports the error.
func mergeDefaults(arguments json.RawMessage, defaults map[string]any) json.RawMessage {
	if len(defaults) == 0 {
		return arguments
	}

	args := map[string]any{}
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return arguments
		}
	}
	for key, value := range defaults {
		if _, ok := args[key]; !ok {
			args[key] = value
		}
	}

	merged, err := json.Marshal(args)
	if err != nil {
		return arguments
	}
	return merged
}

// applyArgumentDefaults merges default values into the arguments object
// of tools/call params. Unparseable params pass through untouched so
// dispatch reports the error.
func applyArgumentDefaults(params json.RawMessage, defaults map[string]any) json.RawMessage {
	var p map[string]json.RawMessage
	if err := json.Unmarshal(params, &p); err != nil {
		return params
	}

	p["arguments"] = mergeDefaults(p["arguments"], defaults)

	out, err := json.Marshal(p)
	if err != nil {
		return params
	}
	return out
}
