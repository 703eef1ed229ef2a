package ics

import (
	"fmt"

	"icsnorm/internal/event"
	"icsnorm/internal/rrule"
)

// extractEvent converts one RawEvent into exactly one normalized event,
// rendered in the document timezone. Instant conversion was already probed
// by parseEvents; the only failure left is an invalid recurrence rule.
func extractEvent(raw RawEvent, tz TimezoneContext) (event.Event, error) {
	if raw.RawRRule != "" {
		return extractRecurring(raw, tz)
	}
	return extractSingle(raw, tz), nil
}

func extractRecurring(raw RawEvent, tz TimezoneContext) (*event.Recurring, error) {
	// Round-trip the rule through the recurrence engine: validation plus
	// canonical re-serialization. No occurrences are expanded here.
	canonical, err := rrule.Normalize(raw.RawRRule)
	if err != nil {
		return nil, fmt.Errorf("recurring event %s: %w", raw.UID, err)
	}

	// Anchor the series on an absolute UTC reference point before rendering
	// the date in the document zone, so the anchor is stable across DST
	// transitions.
	var startDate string
	if raw.DateOnly {
		startDate = FormatDate(Midnight(raw.Start, tz), tz)
	} else {
		startDate = FormatDate(raw.Start.UTC(), tz)
	}

	rec := &event.Recurring{
		ID:        event.ComposeID(raw.UID, startDate, event.KindRecurring),
		Kind:      event.KindRecurring,
		Title:     raw.Title,
		RRule:     canonical,
		StartDate: startDate,
		AllDay:    raw.DateOnly,
		URL:       raw.URL,
	}

	// Exclusions collapse to calendar days: two exclusions on the same day
	// at different times become one suppressed day.
	for _, ex := range raw.ExDates {
		rec.AddSkipDate(FormatDate(ex, tz))
	}

	if !rec.AllDay {
		rec.StartTime, rec.EndTime = clockTimes(raw, tz)
	}

	return rec, nil
}

func extractSingle(raw RawEvent, tz TimezoneContext) *event.Single {
	start := raw.Start
	if raw.DateOnly {
		start = Midnight(start, tz)
	}

	date := FormatOffset(start, tz)
	startDay := FormatDate(start, tz)

	single := &event.Single{
		ID:     event.ComposeID(raw.UID, startDay, event.KindSingle),
		Kind:   event.KindSingle,
		Title:  raw.Title,
		Date:   date,
		AllDay: raw.DateOnly,
		URL:    raw.URL,
	}

	// An end date is only ever set from an explicit end marker, and only
	// when it lands on a different calendar day than the start; an end on
	// the start's own day carries no information.
	if raw.End != nil {
		end := *raw.End
		if raw.DateOnly {
			end = Midnight(end, tz)
		}
		if FormatDate(end, tz) != startDay {
			s := FormatOffset(end, tz)
			single.EndDate = &s
		}
	}

	if !single.AllDay {
		single.StartTime, single.EndTime = clockTimes(raw, tz)
	}

	return single
}

// clockTimes renders the start and end time-of-day in the document zone.
// With no end marker the end clock mirrors the start, keeping both fields
// present on every timed event.
func clockTimes(raw RawEvent, tz TimezoneContext) (startTime, endTime string) {
	loc := tz.Location()
	startTime = FormatClock(raw.Start.In(loc))
	if raw.End != nil {
		endTime = FormatClock(raw.End.In(loc))
	} else {
		endTime = startTime
	}
	return startTime, endTime
}
