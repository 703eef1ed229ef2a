package ics

import (
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func TestFormatOffset(t *testing.T) {
	t.Parallel()

	seoul := mustZone(t, "Asia/Seoul")

	tests := []struct {
		name string
		in   time.Time
		tz   TimezoneContext
		want string
	}{
		{
			name: "utc instant in utc context",
			in:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			tz:   TimezoneContext{ID: "UTC", loc: time.UTC},
			want: "2024-01-01T09:00:00+00:00",
		},
		{
			name: "utc instant rendered in seoul",
			in:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			tz:   TimezoneContext{ID: "Asia/Seoul", loc: seoul},
			want: "2024-01-01T18:00:00+09:00",
		},
		{
			name: "zone crossing moves the calendar date",
			in:   time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC),
			tz:   TimezoneContext{ID: "Asia/Seoul", loc: seoul},
			want: "2024-01-02T08:30:00+09:00",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatOffset(tt.in, tt.tz); got != tt.want {
				t.Errorf("FormatOffset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	seoul := mustZone(t, "Asia/Seoul")
	in := time.Date(2024, 1, 1, 9, 5, 59, 0, time.UTC)

	// FormatClock formats an already-zoned instant; it must not convert.
	if got := FormatClock(in); got != "09:05" {
		t.Errorf("FormatClock(utc) = %q, want %q", got, "09:05")
	}
	if got := FormatClock(in.In(seoul)); got != "18:05" {
		t.Errorf("FormatClock(seoul) = %q, want %q", got, "18:05")
	}
}

func TestMidnight(t *testing.T) {
	t.Parallel()

	seoul := mustZone(t, "Asia/Seoul")
	tz := TimezoneContext{ID: "Asia/Seoul", loc: seoul}

	// A date-only value parsed at UTC midnight keeps its calendar date when
	// the midnight instant is synthesized in the document zone.
	in := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got := Midnight(in, tz)

	want := time.Date(2024, 3, 15, 0, 0, 0, 0, seoul)
	if !got.Equal(want) {
		t.Errorf("Midnight() = %v, want %v", got, want)
	}
	if got := FormatOffset(got, tz); got != "2024-03-15T00:00:00+09:00" {
		t.Errorf("FormatOffset(midnight) = %q", got)
	}
	if got := FormatClock(got); got != "00:00" {
		t.Errorf("FormatClock(midnight) = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	seoul := mustZone(t, "Asia/Seoul")
	tz := TimezoneContext{ID: "Asia/Seoul", loc: seoul}

	in := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	if got := FormatDate(in, tz); got != "2024-01-02" {
		t.Errorf("FormatDate() = %q, want %q", got, "2024-01-02")
	}
}

func TestLocationFallback(t *testing.T) {
	t.Parallel()

	var tz TimezoneContext
	if tz.Location() != time.Local {
		t.Errorf("empty context should fall back to the local zone")
	}
	if tz.Explicit() {
		t.Errorf("empty context must not report an explicit zone")
	}
}
