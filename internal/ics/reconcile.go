package ics

import (
	"errors"

	"icsnorm/internal/event"
	appLog "icsnorm/internal/log"
)

var (
	errBaseNotRecurring   = errors.New("exception targets a non-recurring base event")
	errExceptionNotSingle = errors.New("exception is not a single-occurrence event")
)

// extracted pairs a normalized event with the source facts the reconciler
// needs: the original UID and whether the source VEVENT was a recurrence
// exception.
type extracted struct {
	ev        event.Event
	uid       string
	exception bool
}

// reconcile folds recurrence-exception records into the skip list of their
// recurring parent. Output preserves base events in extraction order;
// successfully merged exceptions disappear from the output, and exceptions
// that cannot be merged are dropped with a diagnostic (orphans silently).
func reconcile(items []extracted) ([]event.Event, []Diagnostic) {
	bases := make([]event.Event, 0, len(items))
	baseByUID := make(map[string]event.Event, len(items))
	var diags []Diagnostic

	for _, it := range items {
		if it.exception {
			continue
		}
		bases = append(bases, it.ev)
		if _, ok := baseByUID[it.uid]; !ok {
			baseByUID[it.uid] = it.ev
		}
	}

	for _, it := range items {
		if !it.exception {
			continue
		}

		base, ok := baseByUID[it.uid]
		if !ok {
			// Parent series absent or filtered out upstream.
			appLog.Debug("dropping orphan recurrence exception", "uid", it.uid)
			continue
		}

		parent, ok := base.(*event.Recurring)
		if !ok {
			appLog.Error("recurrence exception merge invalid", errBaseNotRecurring, "uid", it.uid)
			diags = append(diags, Diagnostic{
				Stage:  StageMerge,
				UID:    it.uid,
				Reason: errBaseNotRecurring.Error(),
			})
			continue
		}

		exc, ok := it.ev.(*event.Single)
		if !ok {
			appLog.Error("recurrence exception merge invalid", errExceptionNotSingle, "uid", it.uid)
			diags = append(diags, Diagnostic{
				Stage:  StageMerge,
				UID:    it.uid,
				Reason: errExceptionNotSingle.Error(),
			})
			continue
		}

		parent.AddSkipDate(calendarDay(exc.Date))
	}

	return bases, diags
}

// calendarDay slices the YYYY-MM-DD prefix off a canonical date-with-offset
// string.
func calendarDay(date string) string {
	if len(date) < len(dateLayout) {
		return date
	}
	return date[:len(dateLayout)]
}
