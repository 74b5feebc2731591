package calendar

import (
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"studysync-backend/internal/models"
)

const productID = "-//StudySync//Calendar//EN"

// ExportICS renders events as single occurrences and every group time slot as
// a weekly recurring VEVENT anchored on the first matching day on or after
// the group's creation date.
func (m *Mapper) ExportICS(name string, groups []models.StudyGroup, events []models.UserEvent, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)

	for _, e := range events {
		start, end, ok := m.interval(StartOfDay(e.Date), e.StartTime, e.EndTime)
		if !ok {
			continue
		}
		vevent := cal.AddEvent("event-" + e.ID + "@studysync")
		vevent.SetDtStampTime(now)
		vevent.SetSummary(e.Title)
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
		if e.Description != nil && *e.Description != "" {
			vevent.SetDescription(*e.Description)
		}
	}

	for _, g := range groups {
		anchor := g.CreatedAt
		if anchor.IsZero() {
			anchor = now
		}
		for i, slot := range g.TimeSlots {
			wd := m.Weekday(slot.Day)
			first := nextWeekday(StartOfDay(anchor), wd)
			start, end, ok := m.interval(first, slot.StartTime, slot.EndTime)
			if !ok {
				continue
			}
			vevent := cal.AddEvent("group-" + g.ID + "-" + rruleDay(wd) + "-" + strconv.Itoa(i) + "@studysync")
			vevent.SetDtStampTime(now)
			vevent.SetSummary(g.Name)
			vevent.SetStartAt(start)
			vevent.SetEndAt(end)
			if g.Location != "" {
				vevent.SetLocation(g.Location)
			}
			if g.Description != "" {
				vevent.SetDescription(g.Description)
			}
			vevent.AddRrule("FREQ=WEEKLY;BYDAY=" + rruleDay(wd))
		}
	}

	return cal.Serialize()
}

// interval combines a date with "HH:MM" clock times. An end at or before the
// start is treated as crossing midnight.
func (m *Mapper) interval(day time.Time, startClock, endClock string) (time.Time, time.Time, bool) {
	st, err := time.Parse("15:04", startClock)
	if err != nil {
		m.logger.Warn("skipping entry with invalid start time", zap.String("start_time", startClock))
		return time.Time{}, time.Time{}, false
	}
	et, err := time.Parse("15:04", endClock)
	if err != nil {
		m.logger.Warn("skipping entry with invalid end time", zap.String("end_time", endClock))
		return time.Time{}, time.Time{}, false
	}

	start := day.Add(time.Duration(st.Hour())*time.Hour + time.Duration(st.Minute())*time.Minute)
	end := day.Add(time.Duration(et.Hour())*time.Hour + time.Duration(et.Minute())*time.Minute)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, delta)
}
