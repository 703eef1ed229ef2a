package ics

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "icsnorm/internal/log"
)

// RawEvent is the transient, read-only view of one VEVENT as handed to the
// extractor. It lives only for the duration of one Convert call.
type RawEvent struct {
	UID   string
	Title string
	URL   string

	Start    time.Time
	DateOnly bool
	// End is nil when the event carries no explicit end marker (neither
	// DTEND nor DURATION).
	End *time.Time

	RawRRule string
	ExDates  []time.Time

	RecurrenceID *time.Time // RECURRENCE-ID value, when parseable
	Exception    bool       // true when the VEVENT carries RECURRENCE-ID
}

// parseEvents converts every VEVENT in the document into a RawEvent. A
// VEVENT whose instants cannot be converted is excluded from all further
// processing with a probe diagnostic; it never aborts the document.
func parseEvents(cal *ical.Calendar, tz TimezoneContext) ([]RawEvent, []Diagnostic) {
	events := make([]RawEvent, 0, len(cal.Events()))
	var diags []Diagnostic

	for _, ve := range cal.Events() {
		raw, err := parseVEvent(ve, tz)
		if err != nil {
			// Log and skip this event, but keep processing others.
			appLog.Error("vevent excluded", err, "uid", raw.UID)
			diags = append(diags, Diagnostic{Stage: StageProbe, UID: raw.UID, Reason: err.Error()})
			continue
		}
		events = append(events, raw)
	}

	return events, diags
}

func parseVEvent(ve *ical.VEvent, tz TimezoneContext) (RawEvent, error) {
	var out RawEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty("URL"); p != nil {
		out.URL = p.Value
	}

	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil {
		return out, errors.New("missing DTSTART")
	}
	out.DateOnly = isDateOnly(dtStartProp)

	// Validity probe: a start (or end, below) that cannot be converted
	// excludes the whole event before extraction is attempted.
	start, err := ve.GetStartAt()
	if err != nil {
		return out, errors.New("unconvertible DTSTART: " + dtStartProp.Value)
	}
	if out.DateOnly || isFloating(dtStartProp) {
		// Floating and date-only values carry no zone of their own; they are
		// read as wall-clock values in the document timezone.
		start = rezone(start, tz.Location())
	}
	out.Start = start

	if dtEndProp := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEndProp != nil {
		end, err := ve.GetEndAt()
		if err != nil {
			return out, errors.New("unconvertible DTEND: " + dtEndProp.Value)
		}
		if isDateOnly(dtEndProp) || isFloating(dtEndProp) {
			end = rezone(end, tz.Location())
		}
		out.End = &end
	} else if durProp := ve.GetProperty("DURATION"); durProp != nil {
		d, err := parseISODuration(durProp.Value)
		if err != nil {
			return out, errors.New("unconvertible DURATION: " + durProp.Value)
		}
		end := out.Start.Add(d)
		out.End = &end
	}

	if rruleProp := ve.GetProperty(ical.ComponentPropertyRrule); rruleProp != nil {
		out.RawRRule = rruleProp.Value
	}

	// EXDATE can appear multiple times and each occurrence may carry a
	// comma-separated list of values.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, err := parseInstant(part, tz.Location())
			if err != nil {
				appLog.Debug("skipping unparseable EXDATE value", "uid", out.UID, "value", part)
				continue
			}
			out.ExDates = append(out.ExDates, t)
		}
	}

	// RECURRENCE-ID marks this VEVENT as an exception occurrence of the
	// series sharing its UID. Presence alone is what the reconciler needs.
	if ridProp := ve.GetProperty("RECURRENCE-ID"); ridProp != nil {
		out.Exception = true
		if t, err := parseInstant(ridProp.Value, tz.Location()); err == nil {
			out.RecurrenceID = &t
		}
	}

	return out, nil
}

// isDateOnly reports whether a date property carries a date value with no
// time-of-day component (VALUE=DATE or a bare YYYYMMDD value).
func isDateOnly(p *ical.IANAProperty) bool {
	if p.ICalParameters != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// isFloating reports whether a date-time property has no zone of its own:
// not UTC-suffixed and no TZID parameter.
func isFloating(p *ical.IANAProperty) bool {
	if strings.HasSuffix(p.Value, "Z") {
		return false
	}
	if p.ICalParameters != nil {
		if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
			return false
		}
	}
	return true
}

// rezone reinterprets the wall-clock fields of t in loc.
func rezone(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// parseInstant parses a basic ICS date/date-time string. Floating and
// date-only forms are read in the document timezone.
func parseInstant(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		const layout = "20060102T150405Z"
		return time.Parse(layout, v)
	}

	// Floating date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		const layout = "20060102T150405"
		return time.ParseInLocation(layout, v, loc)
	}

	// Date-only, e.g., 20250101
	const layoutDate = "20060102"
	return time.ParseInLocation(layoutDate, v, loc)
}
