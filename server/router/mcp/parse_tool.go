package mcp

import (
	"context"
	"encoding/json"

	"github.com/upamune/chrono-mcp/server/internal/errors"
	"github.com/upamune/chrono-mcp/server/service/parse"
)

const parseToolName = "chrono_parse"

// parseTool exposes the parse service as the chrono_parse MCP tool.
type parseTool struct {
	svc *parse.Service
}

func NewParseTool(svc *parse.Service) Tool {
	return &parseTool{svc: svc}
}

func (t *parseTool) Name() string {
	return parseToolName
}

func (t *parseTool) Description() string {
	return "Extract date/time expressions from natural-language text and resolve them " +
		"against a reference timestamp. Returns each match as ISO-8601 at the requested " +
		"UTC offset, with epoch milliseconds and the list of fields stated in the text " +
		"versus inferred from the reference."
}

func (t *parseTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "Free-form text to scan for date/time expressions.",
			},
			"reference": map[string]any{
				"type":        "string",
				"description": "Reference timestamp (RFC 3339, or date/datetime without offset) that relative expressions resolve against. Defaults to the current time.",
			},
			"timezone_offset": map[string]any{
				"type":        "integer",
				"description": "UTC offset in minutes used to render ISO output, e.g. 540 for +09:00 or 330 for +05:30. Defaults to 0.",
			},
			"forwardOnly": map[string]any{
				"type":        "boolean",
				"description": "Resolve directionless expressions to the nearest future instant. Defaults to true.",
			},
			"mode": map[string]any{
				"type":        "string",
				"enum":        []string{"first", "all"},
				"description": "Return only the first match or every match. Defaults to \"first\".",
			},
		},
		"required": []string{"text"},
	}
}

func (t *parseTool) Run(ctx context.Context, arguments json.RawMessage) (string, error) {
	var req parse.Request
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &req); err != nil {
			return "", errors.NewInvalidInput("malformed tool arguments").WithContext("cause", err.Error())
		}
	}

	resp, err := t.svc.Parse(ctx, &req)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return "", errors.NewInternal("encoding parse result", err)
	}
	return string(payload), nil
}
