// Package timezone provides fixed-offset time utilities for chrono-mcp.
//
// The server deals exclusively in raw UTC offsets expressed in minutes
// (540 for +09:00, 330 for +05:30, -210 for -03:30). Rendering is a
// linear shift followed by UTC field extraction; no IANA zone database,
// no DST, no leap-second handling. This matches the wire contract, which
// accepts minute offsets only and never zone names.
package timezone

import (
	"fmt"
	"time"
)

// OffsetUTC is the minute offset of Coordinated Universal Time.
const OffsetUTC = 0

// FixedLocation returns a time.Location for the given minute offset.
// The location name carries the rendered offset for debuggability.
func FixedLocation(offsetMinutes int) *time.Location {
	if offsetMinutes == OffsetUTC {
		return time.UTC
	}
	return time.FixedZone(FormatOffset(offsetMinutes), offsetMinutes*60)
}

// FormatOffset renders a minute offset as an ISO-8601 numeric suffix.
// Zero and positive offsets use "+"; "Z" is never produced.
//
//	540  -> "+09:00"
//	330  -> "+05:30"
//	0    -> "+00:00"
//	-210 -> "-03:30"
func FormatOffset(offsetMinutes int) string {
	sign := "+"
	if offsetMinutes < 0 {
		sign = "-"
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}

// FormatInstant renders an absolute instant as an ISO-8601 date-time string
// at the given minute offset, with millisecond precision always shown and
// an explicit numeric offset suffix.
//
// The rendering is a pure linear shift: the instant is moved by
// offsetMinutes and the calendar/clock fields are read out as if in UTC.
func FormatInstant(t time.Time, offsetMinutes int) string {
	shifted := t.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return shifted.Format("2006-01-02T15:04:05.000") + FormatOffset(offsetMinutes)
}

// ExtractOffsetMinutes returns the UTC offset, in minutes, that a parsed
// timestamp carries. Timestamps parsed without zone information report 0.
func ExtractOffsetMinutes(t time.Time) int {
	_, seconds := t.Zone()
	return seconds / 60
}
