package ics

import (
	"testing"
	"time"
)

func TestParseISODuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "PT1H30M", want: 90 * time.Minute},
		{in: "P1D", want: 24 * time.Hour},
		{in: "P2W", want: 14 * 24 * time.Hour},
		{in: "P1DT12H", want: 36 * time.Hour},
		{in: "PT15S", want: 15 * time.Second},
		{in: "-PT15M", want: -15 * time.Minute},
		{in: "+PT5M", want: 5 * time.Minute},
		{in: "", wantErr: true},
		{in: "1H", wantErr: true},
		{in: "P", wantErr: true},
		{in: "PT", wantErr: true},
		{in: "P1H", wantErr: true},  // hours need the T designator
		{in: "PT1D", wantErr: true}, // days must precede the T designator
		{in: "P1", wantErr: true},
		{in: "PTM", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := parseISODuration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseISODuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseISODuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
