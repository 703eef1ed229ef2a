package ics

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// parseISODuration parses an RFC 5545 DURATION value (a restricted ISO-8601
// duration: weeks, days, hours, minutes, seconds; no months or years).
// Examples: "PT1H30M", "P1D", "P2W", "-PT15M".
func parseISODuration(v string) (time.Duration, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	if len(s) == 0 || s[0] != 'P' {
		return 0, errors.New("duration must start with P")
	}
	s = s[1:]
	if s == "" {
		return 0, errors.New("duration has no components")
	}

	var total time.Duration
	inTime := false
	num := ""
	components := 0

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
			continue
		case r == 'T':
			if inTime {
				return 0, errors.New("duplicate T designator")
			}
			inTime = true
			continue
		}

		if num == "" {
			return 0, errors.New("designator without value: " + string(r))
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, err
		}
		num = ""

		switch {
		case r == 'W' && !inTime:
			total += time.Duration(n) * 7 * 24 * time.Hour
		case r == 'D' && !inTime:
			total += time.Duration(n) * 24 * time.Hour
		case r == 'H' && inTime:
			total += time.Duration(n) * time.Hour
		case r == 'M' && inTime:
			total += time.Duration(n) * time.Minute
		case r == 'S' && inTime:
			total += time.Duration(n) * time.Second
		default:
			return 0, errors.New("unexpected designator: " + string(r))
		}
		components++
	}

	if num != "" {
		return 0, errors.New("trailing value without designator")
	}
	if components == 0 {
		return 0, errors.New("duration has no components")
	}

	if neg {
		total = -total
	}
	return total, nil
}
