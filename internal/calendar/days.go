package calendar

import (
	"strings"
	"time"
)

// dayIndex maps lowercase full and three-letter day names to weekdays.
var dayIndex = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// FallbackDay is used for day names that are not in the lookup table.
const FallbackDay = time.Sunday

// LookupDay resolves a day name case-insensitively. ok is false for
// unrecognized names.
func LookupDay(name string) (time.Weekday, bool) {
	wd, ok := dayIndex[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

var rruleDays = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func rruleDay(wd time.Weekday) string {
	return rruleDays[wd]
}
