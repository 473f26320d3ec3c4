package chrono

import "time"

// Field identifies one calendar/clock component of a parsed expression.
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldMillisecond
	FieldTimezoneOffset
)

// FieldOrder is the canonical emission order for component fields.
// Consumers partitioning fields into certain/implied lists iterate in
// this order so output is deterministic.
var FieldOrder = [...]Field{
	FieldYear,
	FieldMonth,
	FieldDay,
	FieldHour,
	FieldMinute,
	FieldSecond,
	FieldMillisecond,
	FieldTimezoneOffset,
}

// String returns the wire name of the field.
func (f Field) String() string {
	switch f {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "minute"
	case FieldSecond:
		return "second"
	case FieldMillisecond:
		return "millisecond"
	case FieldTimezoneOffset:
		return "timezoneOffsetMinutes"
	default:
		return "unknown"
	}
}

// Component is one resolved field value tagged with its provenance.
// Explicit means the value was stated in the source text; otherwise it
// was implied from the reference instant or a default.
type Component struct {
	Value    int
	Explicit bool
}

// ComponentSet is the full set of resolved components for one end of a
// match, together with the absolute instant they denote. A field missing
// from the set contributed nothing to resolution; in practice resolution
// fills every field as either explicit or implied.
type ComponentSet struct {
	comps   map[Field]Component
	instant time.Time
}

// Resolved returns the absolute instant the component set denotes.
func (cs *ComponentSet) Resolved() time.Time {
	return cs.instant
}

// IsExplicit reports whether the field was stated in the source text.
func (cs *ComponentSet) IsExplicit(f Field) bool {
	c, ok := cs.comps[f]
	return ok && c.Explicit
}

// Value returns the field value and whether the field is present.
func (cs *ComponentSet) Value(f Field) (int, bool) {
	c, ok := cs.comps[f]
	return c.Value, ok
}

// OffsetMinutes returns the UTC offset, in minutes, the set resolved at.
func (cs *ComponentSet) OffsetMinutes() int {
	return cs.comps[FieldTimezoneOffset].Value
}

// Match is one date/time expression located in the input text. End is
// non-nil when the expression denotes a range.
type Match struct {
	Text  string
	Index int
	Start *ComponentSet
	End   *ComponentSet
}

// IsRange reports whether the match denotes a range.
func (m *Match) IsRange() bool {
	return m.End != nil
}
