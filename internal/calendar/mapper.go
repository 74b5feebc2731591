// Package calendar projects weekly recurring group time slots and one-off
// user events onto calendar dates and day/week/month grids.
package calendar

import (
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
)

type Mapper struct {
	logger *zap.Logger
}

func NewMapper(logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{logger: logger}
}

// Items is everything scheduled on a single date.
type Items struct {
	Events []models.UserEvent  `json:"events"`
	Groups []models.StudyGroup `json:"groups"`
}

// Weekday resolves a slot day name. Unknown names fall back to Sunday and are
// logged.
func (m *Mapper) Weekday(name string) time.Weekday {
	wd, ok := LookupDay(name)
	if !ok {
		m.logger.Warn("unrecognized time slot day, defaulting to Sunday",
			zap.String("day", name))
		return FallbackDay
	}
	return wd
}

// ItemsOnDate returns the events dated on the same calendar day as date and
// the groups with at least one slot on date's weekday.
func (m *Mapper) ItemsOnDate(date time.Time, groups []models.StudyGroup, events []models.UserEvent) Items {
	items := Items{
		Events: []models.UserEvent{},
		Groups: []models.StudyGroup{},
	}

	for _, e := range events {
		if SameDay(e.Date, date) {
			items.Events = append(items.Events, e)
		}
	}

	wd := date.Weekday()
	for _, g := range groups {
		if _, ok := m.slotOn(g, wd); ok {
			items.Groups = append(items.Groups, g)
		}
	}

	return items
}

func (m *Mapper) slotOn(g models.StudyGroup, wd time.Weekday) (models.TimeSlot, bool) {
	for _, slot := range g.TimeSlots {
		if m.Weekday(slot.Day) == wd {
			return slot, true
		}
	}
	return models.TimeSlot{}, false
}

// SameDay compares year, month and day, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
