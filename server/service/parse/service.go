// Package parse implements the chrono_parse pipeline: it resolves the
// caller's reference timestamp, runs the grammar over the input text,
// and projects each match into the caller-facing shape.
package parse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/upamune/chrono-mcp/plugin/chrono"
	"github.com/upamune/chrono-mcp/server/internal/errors"
	"github.com/upamune/chrono-mcp/internal/observability"
	"github.com/upamune/chrono-mcp/server/timezone"
)

// Grammar locates date/time expressions in text. It is the single
// external capability the service depends on; *chrono.Parser satisfies
// it.
type Grammar interface {
	FindMatches(text string, ref time.Time, refOffsetMinutes int, forwardOnly bool) []chrono.Match
}

type Service struct {
	grammar Grammar
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall-clock source used when no reference is
// supplied.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithGrammar(g Grammar) Option {
	return func(s *Service) { s.grammar = g }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		grammar: chrono.NewParser(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse runs the full pipeline for one request.
func (s *Service) Parse(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewInternal("date/time matching failed", fmt.Errorf("%v", r))
		}
	}()

	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.NewInvalidInput("text must be non-empty")
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeFirst
	}
	if mode != ModeFirst && mode != ModeAll {
		return nil, errors.NewInvalidInput(fmt.Sprintf("mode must be %q or %q", ModeFirst, ModeAll)).
			WithContext("mode", mode)
	}

	ref, refOffset, err := s.resolveReference(req.Reference)
	if err != nil {
		return nil, err
	}

	matches := s.grammar.FindMatches(req.Text, ref, refOffset, req.forwardOnly())
	if mode == ModeFirst && len(matches) > 1 {
		matches = matches[:1]
	}

	rc := observability.FromContext(ctx)
	s.logger.DebugContext(ctx, "parsed date/time expressions",
		append(rc.LogAttrs(),
			slog.Int("matches", len(matches)),
			slog.String("mode", mode))...)

	return project(matches, req.offsetMinutes()), nil
}

// resolveReference turns the caller-supplied reference string into the
// base instant and the UTC offset the reference itself carries. The
// carried offset, not the rendering offset, is what anchors relative
// expressions, so results stay the same instant no matter how the
// caller asks to display them.
func (s *Service) resolveReference(reference string) (time.Time, int, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return s.now().UTC(), timezone.OffsetUTC, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, reference); err == nil {
		return t, timezone.ExtractOffsetMinutes(t), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, reference); err == nil {
			return t, timezone.OffsetUTC, nil
		}
	}
	return time.Time{}, 0, errors.NewInvalidReference("unparseable reference timestamp", nil).
		WithContext("reference", reference)
}

// project maps grammar matches into the response shape, rendered at the
// requested offset, and assembles the one-line summary.
func project(matches []chrono.Match, offsetMinutes int) *Response {
	results := make([]ResultEntry, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		entry := ResultEntry{
			MatchedText: m.Text,
			IsRange:     m.IsRange(),
			Start:       projectComponents(m.Start, offsetMinutes),
		}
		if m.End != nil {
			entry.End = projectComponents(m.End, offsetMinutes)
		}
		results = append(results, entry)
	}
	return &Response{Results: results, Summary: summarize(results)}
}

func projectComponents(cs *chrono.ComponentSet, offsetMinutes int) *ParsedDateTime {
	instant := cs.Resolved()
	out := &ParsedDateTime{
		ISO:           timezone.FormatInstant(instant, offsetMinutes),
		UnixMillis:    instant.UnixMilli(),
		CertainFields: []string{},
		ImpliedFields: []string{},
	}

	for _, f := range chrono.FieldOrder {
		if _, ok := cs.Value(f); !ok {
			continue
		}
		if cs.IsExplicit(f) {
			out.CertainFields = append(out.CertainFields, f.String())
		} else {
			out.ImpliedFields = append(out.ImpliedFields, f.String())
		}
	}

	if _, ok := cs.Value(chrono.FieldTimezoneOffset); ok {
		detected := cs.OffsetMinutes()
		out.DetectedOffsetMinutes = &detected
	}
	return out
}

func summarize(results []ResultEntry) string {
	switch len(results) {
	case 0:
		return "No date/time expressions found"
	case 1:
		r := results[0]
		if r.IsRange {
			return fmt.Sprintf("Parsed range: %s to %s", r.Start.ISO, r.End.ISO)
		}
		return "Parsed: " + r.Start.ISO
	default:
		return fmt.Sprintf("Parsed %d date/time expressions", len(results))
	}
}
