package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

// WeekDates returns the seven dates of the week beginning at weekStart,
// Monday first. The time component of weekStart is discarded.
func WeekDates(weekStart time.Time) []time.Time {
	day := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i)
	}
	return dates
}

// DateForWeekday resolves a weekday label to its concrete date within the
// week beginning at weekStart.
func DateForWeekday(weekStart time.Time, day models.Weekday) time.Time {
	return WeekDates(weekStart)[day.Index()]
}

// ClockMinutes parses an "HH:MM" clock string into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return h*60 + m, nil
}

// DurationHours calculates the span between two clock times in hours.
// Malformed or inverted inputs yield zero.
func DurationHours(start, end string) float64 {
	s, err := ClockMinutes(start)
	if err != nil {
		return 0
	}
	e, err := ClockMinutes(end)
	if err != nil || e < s {
		return 0
	}
	return float64(e-s) / 60.0
}

// Overlap checks if two same-day clock ranges overlap.
func Overlap(aStart, aEnd, bStart, bEnd string) bool {
	as, err1 := ClockMinutes(aStart)
	ae, err2 := ClockMinutes(aEnd)
	bs, err3 := ClockMinutes(bStart)
	be, err4 := ClockMinutes(bEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return as < be && bs < ae
}

// AvailabilityCovers reports whether an availability window admits working
// the given clock range, using cutoff as the morning/afternoon boundary.
func AvailabilityCovers(avail models.Availability, cutoff, start, end string) bool {
	switch avail {
	case models.AvailabilityAllDay:
		return true
	case models.AvailabilityNone:
		return false
	case models.AvailabilityMorning:
		e, err1 := ClockMinutes(end)
		c, err2 := ClockMinutes(cutoff)
		return err1 == nil && err2 == nil && e <= c
	case models.AvailabilityAfternoon:
		s, err1 := ClockMinutes(start)
		c, err2 := ClockMinutes(cutoff)
		return err1 == nil && err2 == nil && s >= c
	}
	return false
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
