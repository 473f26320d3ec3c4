package parse

// Request is the argument payload of one chrono_parse call.
type Request struct {
	// Text is the free-form input scanned for date/time expressions.
	Text string `json:"text"`
	// Reference is the timestamp ambiguous expressions resolve against.
	// Accepts RFC 3339 or a date/datetime without offset. Empty means the
	// current wall-clock time.
	Reference string `json:"reference,omitempty"`
	// TimezoneOffsetMinutes selects the UTC offset, in minutes, used to
	// render ISO output. Nil means UTC. Wire name: timezone_offset.
	TimezoneOffsetMinutes *int `json:"timezone_offset,omitempty"`
	// ForwardOnly controls whether directionless expressions resolve to
	// the nearest future instant. Nil means true.
	ForwardOnly *bool `json:"forwardOnly,omitempty"`
	// Mode is "first" (default) or "all".
	Mode string `json:"mode,omitempty"`
}

func (r *Request) forwardOnly() bool {
	return r.ForwardOnly == nil || *r.ForwardOnly
}

func (r *Request) offsetMinutes() int {
	if r.TimezoneOffsetMinutes == nil {
		return 0
	}
	return *r.TimezoneOffsetMinutes
}

const (
	ModeFirst = "first"
	ModeAll   = "all"
)

// ParsedDateTime is one resolved end of a match.
type ParsedDateTime struct {
	ISO                   string   `json:"iso"`
	UnixMillis            int64    `json:"unixMillis"`
	DetectedOffsetMinutes *int     `json:"detectedOffsetMinutes"`
	CertainFields         []string `json:"certainFields"`
	ImpliedFields         []string `json:"impliedFields"`
}

// ResultEntry is one projected match. End is present iff IsRange.
type ResultEntry struct {
	MatchedText string          `json:"matchedText"`
	IsRange     bool            `json:"isRange"`
	Start       *ParsedDateTime `json:"start"`
	End         *ParsedDateTime `json:"end,omitempty"`
}

// Response is the full result of one parse call.
type Response struct {
	Results []ResultEntry `json:"results"`
	Summary string        `json:"summary"`
}
