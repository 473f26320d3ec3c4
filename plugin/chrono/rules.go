package chrono

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A clock expression shared by every rule's optional time suffix. Bare
// numbers are never treated as times: an hour must carry a colon or a
// meridiem so that "March 15 2025" cannot half-match as a clock.
const clockPat = `noon|midnight|\d{1,2}:\d{2}(?::\d{2}(?:\.\d{1,3})?)?\s*(?:[ap]\.?m\.?)?|\d{1,2}\s*[ap]\.?m\.?`

const timeSuffixPat = `(?:\s+(?:at\s+)?(?P<clock>` + clockPat + `))?`

const monthPat = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

const weekdayPat = `sun(?:day)?|mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:rs?(?:day)?)?|fri(?:day)?|sat(?:urday)?`

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var weekdayNumbers = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// candidate is a located, not-yet-resolved date/time expression. Explicit
// fields were stated in the text; everything else is filled in against the
// reference instant during resolution.
type candidate struct {
	index int
	text  string

	expl map[Field]int

	dayDelta  *int          // relative day words: offset from the reference day
	weekday   *time.Weekday // weekday names
	qual      string        // "next", "last", "this" or ""
	copyClock bool          // "now": clock implied from the reference
	eveHour   bool          // "tonight": implied hour is evening, not midday
	hasTime   bool
}

func (c *candidate) end() int {
	return c.index + len(c.text)
}

func (c *candidate) hasDateInfo() bool {
	if c.dayDelta != nil || c.weekday != nil {
		return true
	}
	_, y := c.expl[FieldYear]
	_, m := c.expl[FieldMonth]
	_, d := c.expl[FieldDay]
	return y || m || d
}

// rule pairs a compiled pattern with a constructor that turns named
// capture groups into a candidate. build returns nil to reject a match
// the pattern alone could not rule out (e.g. month 13).
type rule struct {
	re    *regexp.Regexp
	build func(g map[string]string) *candidate
}

func compileRules() []rule {
	return []rule{
		{
			// 2025-03-15, 2025/03/15 14:30, 2025-03-15T14:30:00.123+09:00
			re: regexp.MustCompile(`(?i)\b(?P<year>\d{4})[-/](?P<month>\d{1,2})[-/](?P<day>\d{1,2})` +
				`(?:[T ](?P<hour>\d{1,2}):(?P<minute>\d{2})(?::(?P<second>\d{2})(?:\.(?P<milli>\d{1,3}))?)?)?` +
				`(?P<offset>Z|[+-]\d{2}:?\d{2})?`),
			build: buildNumericDate,
		},
		{
			// March 15, Mar 15 2025, 15 March 2025, March 15 at 5pm
			re: regexp.MustCompile(`(?i)\b(?:(?P<dayfirst>\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?)?` +
				`(?P<month>` + monthPat + `)\.?(?:\s+(?P<day>\d{1,2})(?:st|nd|rd|th)?)?` +
				`(?:,?\s+(?P<year>\d{4}))?` + timeSuffixPat),
			build: buildMonthName,
		},
		{
			// now, today, tonight, tomorrow at 5pm, yesterday
			re: regexp.MustCompile(`(?i)\b(?P<word>now|today|tonight|tomorrow|yesterday)\b` + timeSuffixPat),
			build: buildRelativeDay,
		},
		{
			// Monday, next Friday at 9am, last tuesday
			re: regexp.MustCompile(`(?i)\b(?:(?P<qual>next|last|this)\s+)?(?P<weekday>` + weekdayPat + `)\b` + timeSuffixPat),
			build: buildWeekday,
		},
		{
			// at 5pm, 17:45, noon
			re: regexp.MustCompile(`(?i)\b(?:at\s+)?(?P<clock>` + clockPat + `)`),
			build: buildClockOnly,
		},
	}
}

func buildNumericDate(g map[string]string) *candidate {
	c := &candidate{expl: map[Field]int{}}

	year, _ := strconv.Atoi(g["year"])
	month, _ := strconv.Atoi(g["month"])
	day, _ := strconv.Atoi(g["day"])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	c.expl[FieldYear] = year
	c.expl[FieldMonth] = month
	c.expl[FieldDay] = day

	if g["hour"] != "" {
		hour, _ := strconv.Atoi(g["hour"])
		minute, _ := strconv.Atoi(g["minute"])
		if hour > 23 || minute > 59 {
			return nil
		}
		c.expl[FieldHour] = hour
		c.expl[FieldMinute] = minute
		c.hasTime = true

		if g["second"] != "" {
			second, _ := strconv.Atoi(g["second"])
			if second > 59 {
				return nil
			}
			c.expl[FieldSecond] = second
			if g["milli"] != "" {
				c.expl[FieldMillisecond] = padMillis(g["milli"])
			}
		}
	}

	if g["offset"] != "" {
		off, ok := parseNumericOffset(g["offset"])
		if !ok {
			return nil
		}
		c.expl[FieldTimezoneOffset] = off
	}

	return c
}

func buildMonthName(g map[string]string) *candidate {
	day := g["day"]
	if day == "" {
		day = g["dayfirst"]
	}
	// A bare month name ("may", "march") is too ambiguous in prose.
	if day == "" {
		return nil
	}
	dayNum, _ := strconv.Atoi(day)
	if dayNum < 1 || dayNum > 31 {
		return nil
	}

	c := &candidate{expl: map[Field]int{}}
	c.expl[FieldMonth] = monthNumbers[strings.ToLower(g["month"])[:3]]
	c.expl[FieldDay] = dayNum
	if g["year"] != "" {
		year, _ := strconv.Atoi(g["year"])
		c.expl[FieldYear] = year
	}
	if !applyClock(c, g["clock"]) {
		return nil
	}
	return c
}

func buildRelativeDay(g map[string]string) *candidate {
	c := &candidate{expl: map[Field]int{}}

	var delta int
	switch strings.ToLower(g["word"]) {
	case "now":
		c.copyClock = true
	case "today":
	case "tonight":
		c.eveHour = true
	case "tomorrow":
		delta = 1
	case "yesterday":
		delta = -1
	}
	c.dayDelta = &delta

	if !applyClock(c, g["clock"]) {
		return nil
	}
	return c
}

var fullWeekdayNames = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

func buildWeekday(g map[string]string) *candidate {
	c := &candidate{expl: map[Field]int{}}

	name := strings.ToLower(g["weekday"])
	c.qual = strings.ToLower(g["qual"])
	// Abbreviated forms collide with ordinary words ("sat", "wed",
	// "sun"), so they only count when a qualifier pins the reading.
	if !fullWeekdayNames[name] && c.qual == "" {
		return nil
	}

	wd := weekdayNumbers[name[:3]]
	c.weekday = &wd

	if !applyClock(c, g["clock"]) {
		return nil
	}
	return c
}

func buildClockOnly(g map[string]string) *candidate {
	c := &candidate{expl: map[Field]int{}}
	if !applyClock(c, g["clock"]) {
		return nil
	}
	if !c.hasTime {
		return nil
	}
	return c
}

// applyClock parses a clock expression into explicit hour/minute/second
// fields. An empty expression is a no-op; a malformed one rejects the
// candidate.
func applyClock(c *candidate, clock string) bool {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return true
	}

	lower := strings.ToLower(clock)
	switch lower {
	case "noon":
		c.expl[FieldHour] = 12
		c.hasTime = true
		return true
	case "midnight":
		c.expl[FieldHour] = 0
		c.hasTime = true
		return true
	}

	m := numericClockRe.FindStringSubmatch(lower)
	if m == nil {
		return false
	}
	hour, _ := strconv.Atoi(m[1])
	meridiem := m[5]

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return false
		}
		if meridiem == "p" && hour != 12 {
			hour += 12
		}
		if meridiem == "a" && hour == 12 {
			hour = 0
		}
	} else if hour > 23 {
		return false
	}
	c.expl[FieldHour] = hour

	if m[2] != "" {
		minute, _ := strconv.Atoi(m[2])
		if minute > 59 {
			return false
		}
		c.expl[FieldMinute] = minute
	}

	if m[3] != "" {
		second, _ := strconv.Atoi(m[3])
		if second > 59 {
			return false
		}
		c.expl[FieldSecond] = second
	}

	if m[4] != "" {
		c.expl[FieldMillisecond] = padMillis(m[4])
	}

	c.hasTime = true
	return true
}

var numericClockRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2})(?::(\d{2})(?:\.(\d{1,3}))?)?)?\s*(?:([ap])\.?m\.?)?$`)

// padMillis converts a fractional-second capture to whole milliseconds:
// "1" -> 100, "12" -> 120, "123" -> 123.
func padMillis(s string) int {
	for len(s) < 3 {
		s += "0"
	}
	n, _ := strconv.Atoi(s)
	return n
}

// parseNumericOffset parses "Z", "+09:00", "-0330" into signed minutes.
func parseNumericOffset(s string) (int, bool) {
	if strings.EqualFold(s, "Z") {
		return 0, true
	}
	sign := 1
	switch s[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return 0, false
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	if len(digits) != 4 {
		return 0, false
	}
	hours, err := strconv.Atoi(digits[:2])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(digits[2:])
	if err != nil || minutes > 59 {
		return 0, false
	}
	return sign * (hours*60 + minutes), true
}
