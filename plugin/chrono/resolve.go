package chrono

import (
	"time"

	"github.com/upamune/chrono-mcp/server/timezone"
)

// resolve turns a candidate into a fully populated ComponentSet by
// filling every unstated field from the reference instant, viewed at the
// reference offset. The returned set always carries all eight fields.
func resolve(c *candidate, ref time.Time, refOffset int, forwardOnly bool) *ComponentSet {
	offset := refOffset
	if v, ok := c.expl[FieldTimezoneOffset]; ok {
		offset = v
	}
	loc := timezone.FixedLocation(offset)
	refL := ref.In(timezone.FixedLocation(refOffset))

	year, month, day := refL.Year(), int(refL.Month()), refL.Day()
	impliedYear := true

	switch {
	case c.dayDelta != nil:
		shifted := refL.AddDate(0, 0, *c.dayDelta)
		year, month, day = shifted.Year(), int(shifted.Month()), shifted.Day()
	case c.weekday != nil:
		shifted := refL.AddDate(0, 0, weekdayDelta(refL.Weekday(), *c.weekday, c.qual, forwardOnly))
		year, month, day = shifted.Year(), int(shifted.Month()), shifted.Day()
	default:
		if v, ok := c.expl[FieldMonth]; ok {
			month = v
		}
		if v, ok := c.expl[FieldDay]; ok {
			day = v
		}
		if v, ok := c.expl[FieldYear]; ok {
			year = v
			impliedYear = false
		}
	}

	hour, minute, second, milli := 12, 0, 0, 0
	switch {
	case c.hasTime:
		hour = c.expl[FieldHour]
		minute = c.expl[FieldMinute]
		second = c.expl[FieldSecond]
		milli = c.expl[FieldMillisecond]
	case c.copyClock:
		hour, minute, second = refL.Hour(), refL.Minute(), refL.Second()
		milli = refL.Nanosecond() / int(time.Millisecond)
	case c.eveHour:
		hour = 20
	}

	instant := time.Date(year, time.Month(month), day, hour, minute, second, milli*int(time.Millisecond), loc)

	if forwardOnly && instant.Before(ref) {
		_, monthExplicit := c.expl[FieldMonth]
		switch {
		case monthExplicit && impliedYear:
			instant = instant.AddDate(1, 0, 0)
		case c.weekday != nil && c.qual == "":
			instant = instant.AddDate(0, 0, 7)
		case !c.hasDateInfo():
			instant = instant.AddDate(0, 0, 1)
		}
	}

	return readBack(c, instant, offset)
}

// readBack snapshots the resolved instant into per-field components,
// preserving which fields were stated in the matched text. Reading the
// final values from the instant keeps overflow (a forward bump across a
// month boundary, day 31 in a short month) consistent across fields.
func readBack(c *candidate, instant time.Time, offset int) *ComponentSet {
	local := instant.In(timezone.FixedLocation(offset))
	values := map[Field]int{
		FieldYear:           local.Year(),
		FieldMonth:          int(local.Month()),
		FieldDay:            local.Day(),
		FieldHour:           local.Hour(),
		FieldMinute:         local.Minute(),
		FieldSecond:         local.Second(),
		FieldMillisecond:    local.Nanosecond() / int(time.Millisecond),
		FieldTimezoneOffset: offset,
	}

	comps := make(map[Field]Component, len(values))
	for f, v := range values {
		_, explicit := c.expl[f]
		comps[f] = Component{Value: v, Explicit: explicit}
	}
	return &ComponentSet{comps: comps, instant: instant}
}

// weekdayDelta computes the signed day distance from the reference
// weekday to the target. "next" is always strictly in the future, "last"
// strictly in the past; an unqualified or "this" weekday lands on the
// nearest occurrence, which under forward-only resolution includes the
// reference day itself.
func weekdayDelta(base, target time.Weekday, qual string, forwardOnly bool) int {
	switch qual {
	case "next":
		return (int(target)-int(base)+6)%7 + 1
	case "last":
		return -((int(base)-int(target)+6)%7 + 1)
	}
	if forwardOnly {
		return (int(target) - int(base) + 7) % 7
	}
	return int(target) - int(base)
}
