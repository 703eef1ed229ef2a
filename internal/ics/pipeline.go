package ics

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"icsnorm/internal/event"
	appLog "icsnorm/internal/log"
	"icsnorm/internal/validate"
)

// Stage identifies which pipeline step discarded a record.
type Stage string

const (
	StageProbe   Stage = "probe"   // instants could not be converted
	StageExtract Stage = "extract" // normalization failed (e.g. bad RRULE)
	StageMerge   Stage = "merge"   // invalid recurrence-exception merge
	StageSchema  Stage = "schema"  // final validation rejected the record
)

// Diagnostic records one silently dropped input or output record so callers
// can inspect what was discarded instead of scraping logs.
type Diagnostic struct {
	Stage  Stage  `json:"stage"`
	UID    string `json:"uid"`
	Reason string `json:"reason"`
}

// Result is the outcome of converting one document.
type Result struct {
	// Events holds the validated normalized events, base events in
	// extraction order.
	Events []event.Event
	// Diagnostics lists every record dropped by a recoverable failure.
	Diagnostics []Diagnostic
	// TimezoneID is the document's declared zone, empty when the fallback
	// zone was used.
	TimezoneID string
}

// Converter turns iCalendar documents into normalized events. It holds no
// per-document state and is safe for concurrent use across documents.
type Converter struct {
	schema   *validate.Events
	fallback *time.Location
}

// NewConverter creates a Converter. fallbackZone is used for documents that
// declare no timezone of their own; nil means the local system zone.
func NewConverter(fallbackZone *time.Location) *Converter {
	return &Converter{
		schema:   validate.New(),
		fallback: fallbackZone,
	}
}

// Convert runs the whole pipeline over one document:
// parse, resolve timezone, probe and extract events, reconcile recurrence
// exceptions, validate. Only an unparseable document returns an error; every
// other failure drops the affected record and is reported in Diagnostics.
func (c *Converter) Convert(body []byte) (Result, error) {
	var res Result

	if len(body) == 0 {
		return res, errors.New("empty calendar document")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("parse calendar: %w", err)
	}

	tz := ResolveTimezone(cal, c.fallback)
	res.TimezoneID = tz.ID

	raws, diags := parseEvents(cal, tz)
	res.Diagnostics = diags

	items := make([]extracted, 0, len(raws))
	for _, raw := range raws {
		ev, err := extractEvent(raw, tz)
		if err != nil {
			appLog.Error("event extraction failed", err, "uid", raw.UID)
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Stage:  StageExtract,
				UID:    raw.UID,
				Reason: err.Error(),
			})
			continue
		}
		items = append(items, extracted{ev: ev, uid: raw.UID, exception: raw.Exception})
	}

	merged, mergeDiags := reconcile(items)
	res.Diagnostics = append(res.Diagnostics, mergeDiags...)

	events := make([]event.Event, 0, len(merged))
	for _, ev := range merged {
		if err := c.schema.Check(ev); err != nil {
			appLog.Error("event failed schema validation", err, "id", ev.EventID())
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Stage:  StageSchema,
				UID:    ev.EventID(),
				Reason: err.Error(),
			})
			continue
		}
		events = append(events, ev)
	}
	res.Events = events

	appLog.Info("conversion completed",
		"timezone", tz.ID,
		"event_count", len(res.Events),
		"dropped", len(res.Diagnostics),
	)
	return res, nil
}
