package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "icsnorm/internal/log"
)

// TimezoneContext is the single effective zone for one document. It is
// resolved once per document and shared read-only by every conversion in it.
type TimezoneContext struct {
	// ID is the IANA identifier declared by the document's first VTIMEZONE
	// component, or empty when the document declares none.
	ID string

	loc *time.Location
}

// Location returns the zone instants are rendered in. It is never nil.
func (tz TimezoneContext) Location() *time.Location {
	if tz.loc == nil {
		return time.Local
	}
	return tz.loc
}

// Explicit reports whether the document declared its own timezone.
func (tz TimezoneContext) Explicit() bool {
	return tz.ID != ""
}

// ResolveTimezone extracts the effective timezone for a parsed document.
//
// Only the first VTIMEZONE component is honored; documents carrying several
// distinct zone definitions are not supported and later ones are ignored.
// When no VTIMEZONE is present, or its TZID cannot be loaded, instants are
// rendered in fallback (the local system zone when fallback is nil).
func ResolveTimezone(cal *ical.Calendar, fallback *time.Location) TimezoneContext {
	if fallback == nil {
		fallback = time.Local
	}

	for _, comp := range cal.Components {
		vt, ok := comp.(*ical.VTimezone)
		if !ok {
			continue
		}
		tzidProp := vt.GetProperty("TZID")
		if tzidProp == nil || tzidProp.Value == "" {
			continue
		}
		id := tzidProp.Value
		loc, err := time.LoadLocation(id)
		if err != nil {
			appLog.Error("unknown document timezone, using fallback zone", err, "tzid", id)
			return TimezoneContext{ID: id, loc: fallback}
		}
		return TimezoneContext{ID: id, loc: loc}
	}

	return TimezoneContext{loc: fallback}
}
