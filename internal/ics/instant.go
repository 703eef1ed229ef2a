package ics

import "time"

// Canonical output layouts. The offset layout always renders a numeric
// offset, so UTC instants come out as "+00:00" rather than "Z".
const (
	offsetLayout = "2006-01-02T15:04:05-07:00"
	clockLayout  = "15:04"
	dateLayout   = "2006-01-02"
)

// FormatOffset renders an instant as a date-with-offset string in the
// document timezone. Formatting never fails.
func FormatOffset(t time.Time, tz TimezoneContext) string {
	return t.In(tz.Location()).Format(offsetLayout)
}

// FormatClock renders the time-of-day of an already-zoned instant as HH:mm.
// Zone conversion is the caller's job; this only formats.
func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}

// FormatDate renders the calendar date of an instant in the document
// timezone as YYYY-MM-DD.
func FormatDate(t time.Time, tz TimezoneContext) string {
	return t.In(tz.Location()).Format(dateLayout)
}

// Midnight synthesizes a midnight instant in the document timezone for the
// calendar date carried by t (read in t's own location). Date-only source
// values need this so their offset rendering reflects the document zone
// instead of whatever location the parser attached.
func Midnight(t time.Time, tz TimezoneContext) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, tz.Location())
}
