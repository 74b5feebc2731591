package calendar

import (
	"fmt"
	"strings"
	"time"
)

type Direction int

const (
	DirToday Direction = iota
	DirPrev
	DirNext
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return DirPrev, nil
	case "next":
		return DirNext, nil
	case "today":
		return DirToday, nil
	default:
		return DirToday, fmt.Errorf("unknown navigation direction %q", s)
	}
}

// Navigate moves focus one view step. DirToday ignores the view type.
func Navigate(v ViewType, focus time.Time, dir Direction, today time.Time) time.Time {
	if dir == DirToday {
		return StartOfDay(today)
	}

	step := 1
	if dir == DirPrev {
		step = -1
	}

	focus = StartOfDay(focus)
	switch v {
	case ViewDay:
		return focus.AddDate(0, 0, step)
	case ViewWeek:
		return focus.AddDate(0, 0, 7*step)
	default:
		return addMonths(focus, step)
	}
}

// addMonths shifts by n months and clamps the day to the target month's
// length, so Jan 31 + 1 month is Feb 28 (or 29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}
