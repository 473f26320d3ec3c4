package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
)

// maxLineSize bounds one JSON-RPC message on the stdio transport.
const maxLineSize = 1024 * 1024

// ServeStdio reads newline-delimited JSON-RPC messages from r and
// writes responses to w, one per line. It returns when r is exhausted
// or ctx is canceled.
func (h *Handler) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := encoder.Encode(newErrorResponse(nil, codeParseError, "parse error")); encErr != nil {
				return encErr
			}
			continue
		}

		resp := h.Dispatch(ctx, &req)
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		h.logger.Error("stdio transport closed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
