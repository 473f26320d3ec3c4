package parse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upamune/chrono-mcp/server/internal/errors"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestParseTomorrowAtFivePM(t *testing.T) {
	svc := NewService()

	resp, err := svc.Parse(context.Background(), &Request{
		Text:                  "tomorrow at 5pm",
		Reference:             "2025-10-04T10:00:00+09:00",
		TimezoneOffsetMinutes: intPtr(540),
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.False(t, r.IsRange)
	assert.Nil(t, r.End)
	assert.True(t, strings.HasPrefix(r.Start.ISO, "2025-10-05T17:00:00"))
	assert.True(t, strings.HasSuffix(r.Start.ISO, "+09:00"))
	assert.Equal(t, "Parsed: "+r.Start.ISO, resp.Summary)

	assert.Contains(t, r.Start.CertainFields, "hour")
	assert.Contains(t, r.Start.ImpliedFields, "year")
	assert.Contains(t, r.Start.ImpliedFields, "minute")
	require.NotNil(t, r.Start.DetectedOffsetMinutes)
	assert.Equal(t, 540, *r.Start.DetectedOffsetMinutes)
}

func TestParseNumericDate(t *testing.T) {
	svc := NewService()

	resp, err := svc.Parse(context.Background(), &Request{
		Text:      "2025-03-15 14:30",
		Reference: "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, strings.HasPrefix(resp.Results[0].Start.ISO, "2025-03-15T14:30:00"))
	assert.True(t, strings.HasSuffix(resp.Results[0].Start.ISO, "+00:00"))
}

func TestParseWeekdayRange(t *testing.T) {
	svc := NewService()

	resp, err := svc.Parse(context.Background(), &Request{
		Text:        "Monday to Friday",
		Reference:   "2025-10-04T10:00:00Z",
		ForwardOnly: boolPtr(true),
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.True(t, r.IsRange)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Greater(t, r.End.UnixMillis, r.Start.UnixMillis)
	assert.Equal(t, "Parsed range: "+r.Start.ISO+" to "+r.End.ISO, resp.Summary)
}

func TestParseNoMatches(t *testing.T) {
	svc := NewService()

	resp, err := svc.Parse(context.Background(), &Request{Text: "xyz abc qwerty"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, "No date/time expressions found", resp.Summary)
}

func TestParseEmptyText(t *testing.T) {
	svc := NewService()

	for _, text := range []string{"", "   "} {
		_, err := svc.Parse(context.Background(), &Request{Text: text})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
	}
}

func TestParseInvalidReference(t *testing.T) {
	svc := NewService()

	_, err := svc.Parse(context.Background(), &Request{
		Text:      "tomorrow",
		Reference: "not-a-timestamp",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidReference))
}

func TestParseInvalidMode(t *testing.T) {
	svc := NewService()

	_, err := svc.Parse(context.Background(), &Request{Text: "tomorrow", Mode: "some"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
}

func TestParseExoticOffsetsAccepted(t *testing.T) {
	svc := NewService()

	tests := []struct {
		offset int
		suffix string
	}{
		{900, "+15:00"},
		{-780, "-13:00"},
		{1, "+00:01"},
	}
	for _, tt := range tests {
		resp, err := svc.Parse(context.Background(), &Request{
			Text:                  "2025-03-15T00:00:00Z",
			TimezoneOffsetMinutes: intPtr(tt.offset),
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.True(t, strings.HasSuffix(resp.Results[0].Start.ISO, tt.suffix))
	}
}

func TestParseCertaintyPartition(t *testing.T) {
	svc := NewService()

	resp, err := svc.Parse(context.Background(), &Request{
		Text:      "March 15",
		Reference: "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	start := resp.Results[0].Start
	assert.Contains(t, start.CertainFields, "month")
	assert.Contains(t, start.CertainFields, "day")
	for _, f := range []string{"year", "hour", "minute", "second"} {
		assert.Contains(t, start.ImpliedFields, f)
	}
	for _, f := range start.CertainFields {
		assert.NotContains(t, start.ImpliedFields, f)
	}
}

func TestParseModeFirstVsAll(t *testing.T) {
	svc := NewService()
	text := "standup tomorrow, retro on 2025-11-01, review next Friday"

	first, err := svc.Parse(context.Background(), &Request{
		Text:      text,
		Reference: "2025-10-04T10:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	assert.Equal(t, "tomorrow", first.Results[0].MatchedText)

	all, err := svc.Parse(context.Background(), &Request{
		Text:      text,
		Reference: "2025-10-04T10:00:00Z",
		Mode:      ModeAll,
	})
	require.NoError(t, err)
	require.Len(t, all.Results, 3)
	assert.Equal(t, "Parsed 3 date/time expressions", all.Summary)
}

func TestParseOffsetOnlyChangesRendering(t *testing.T) {
	svc := NewService()

	base := &Request{Text: "tomorrow at 5pm", Reference: "2025-10-04T10:00:00+09:00"}
	utc, err := svc.Parse(context.Background(), base)
	require.NoError(t, err)

	shifted, err := svc.Parse(context.Background(), &Request{
		Text:                  base.Text,
		Reference:             base.Reference,
		TimezoneOffsetMinutes: intPtr(330),
	})
	require.NoError(t, err)

	require.Len(t, utc.Results, 1)
	require.Len(t, shifted.Results, 1)
	assert.Equal(t, utc.Results[0].Start.UnixMillis, shifted.Results[0].Start.UnixMillis)
	assert.NotEqual(t, utc.Results[0].Start.ISO, shifted.Results[0].Start.ISO)
	assert.Equal(t, *utc.Results[0].Start.DetectedOffsetMinutes, *shifted.Results[0].Start.DetectedOffsetMinutes)
}

func TestParseIrregularOffsets(t *testing.T) {
	svc := NewService()

	tests := []struct {
		offset int
		suffix string
	}{
		{330, "+05:30"},
		{570, "+09:30"},
		{-210, "-03:30"},
	}
	for _, tt := range tests {
		resp, err := svc.Parse(context.Background(), &Request{
			Text:                  "2025-03-15T00:00:00Z",
			TimezoneOffsetMinutes: intPtr(tt.offset),
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.True(t, strings.HasSuffix(resp.Results[0].Start.ISO, tt.suffix))
	}
}

func TestParseDefaultsToClock(t *testing.T) {
	fixed := time.Date(2025, 10, 4, 10, 0, 0, 0, time.UTC)
	svc := NewService(WithClock(func() time.Time { return fixed }))

	resp, err := svc.Parse(context.Background(), &Request{Text: "tomorrow"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, strings.HasPrefix(resp.Results[0].Start.ISO, "2025-10-05T12:00:00"))
}

func TestParseDateOnlyReference(t *testing.T) {
	svc := NewService()

	resp, err := svc.Parse(context.Background(), &Request{
		Text:      "tomorrow",
		Reference: "2025-10-04",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, strings.HasPrefix(resp.Results[0].Start.ISO, "2025-10-05"))
}
