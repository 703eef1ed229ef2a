// Package validate is the final schema gate for normalized events. Records
// that fail validation are dropped by the pipeline, never surfaced as
// document-level errors.
package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"icsnorm/internal/event"
)

// Events validates normalized event records against the schema encoded in
// the event struct tags. Safe for concurrent use.
type Events struct {
	v *validator.Validate
}

func New() *Events {
	return &Events{v: validator.New()}
}

// Check returns nil if the event satisfies the output schema, including the
// allDay/time-field invariant shared by both variants.
func (e *Events) Check(ev event.Event) error {
	switch rec := ev.(type) {
	case *event.Single:
		return e.v.Struct(rec)
	case *event.Recurring:
		return e.v.Struct(rec)
	default:
		return fmt.Errorf("unknown event variant %T", ev)
	}
}
