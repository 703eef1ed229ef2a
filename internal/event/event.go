// Package event defines the normalized calendar event model produced by the
// conversion pipeline. An event is either a Single occurrence or a Recurring
// series; the two variants are kept as distinct types so that variant-specific
// fields cannot leak across kinds.
package event

import "fmt"

// Kind discriminates the two event variants.
type Kind string

const (
	KindSingle    Kind = "single"
	KindRecurring Kind = "recurring"
)

// Event is the closed union of Single and Recurring.
type Event interface {
	EventID() string
	EventKind() Kind

	// sealed keeps the union closed to this package.
	sealed()
}

// Single is a non-recurring event.
//
// Invariants (enforced by internal/validate):
//   - EndDate is nil when the event ends on its start date or has no end
//     marker, and non-nil only when the end falls on a different calendar day.
//   - AllDay == true implies StartTime/EndTime are empty; AllDay == false
//     implies both are set.
type Single struct {
	ID      string  `json:"id" validate:"required"`
	Kind    Kind    `json:"kind" validate:"required,eq=single"`
	Title   string  `json:"title"`
	Date    string  `json:"date" validate:"required,datetime=2006-01-02T15:04:05-07:00"`
	EndDate *string `json:"endDate" validate:"omitempty,datetime=2006-01-02T15:04:05-07:00"`
	AllDay  bool    `json:"allDay"`

	StartTime string `json:"startTime,omitempty" validate:"required_if=AllDay false,excluded_if=AllDay true,omitempty,datetime=15:04"`
	EndTime   string `json:"endTime,omitempty" validate:"required_if=AllDay false,excluded_if=AllDay true,omitempty,datetime=15:04"`

	URL string `json:"url,omitempty" validate:"omitempty,url"`
}

// Recurring is an event defined by a repetition rule. SkipDates holds
// calendar dates (no time component) of suppressed occurrences, in the order
// they were first recorded.
type Recurring struct {
	ID        string   `json:"id" validate:"required"`
	Kind      Kind     `json:"kind" validate:"required,eq=recurring"`
	Title     string   `json:"title"`
	RRule     string   `json:"rrule" validate:"required"`
	StartDate string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	SkipDates []string `json:"skipDates" validate:"dive,datetime=2006-01-02"`
	AllDay    bool     `json:"allDay"`

	StartTime string `json:"startTime,omitempty" validate:"required_if=AllDay false,excluded_if=AllDay true,omitempty,datetime=15:04"`
	EndTime   string `json:"endTime,omitempty" validate:"required_if=AllDay false,excluded_if=AllDay true,omitempty,datetime=15:04"`

	URL string `json:"url,omitempty" validate:"omitempty,url"`
}

func (e *Single) EventID() string { return e.ID }
func (e *Single) EventKind() Kind { return KindSingle }
func (e *Single) sealed()         {}

func (e *Recurring) EventID() string { return e.ID }
func (e *Recurring) EventKind() Kind { return KindRecurring }
func (e *Recurring) sealed()         {}

// ComposeID builds the deterministic event identifier from the source marker,
// the raw UID, the resolved start date, and the kind discriminator. The same
// document always yields the same IDs on re-import.
func ComposeID(uid, startDate string, kind Kind) string {
	return fmt.Sprintf("ics-%s-%s-%s", uid, startDate, kind)
}

// AddSkipDate appends a calendar date to SkipDates unless it is already
// present. Returns true if the date was added. Dedup per day is deliberate:
// two exceptions on the same day at different times collapse to one entry.
func (e *Recurring) AddSkipDate(date string) bool {
	for _, d := range e.SkipDates {
		if d == date {
			return false
		}
	}
	e.SkipDates = append(e.SkipDates, date)
	return true
}
