// Package stats maintains the study statistics accumulator and goal progress.
package stats

import (
	"math"
	"sort"
	"time"

	"studysync-backend/internal/calendar"
	"studysync-backend/internal/models"
)

// Record folds one session into s and returns the updated copy. Week and
// month buckets track the period of the most recent study date; a session in
// a later period resets the bucket, one in an earlier period only counts
// toward the totals.
func Record(s models.StudyStats, session models.StudySession, now time.Time) models.StudyStats {
	out := clone(s)

	when := session.Date
	if when.IsZero() {
		when = now
	}
	when = Day(when)
	hours := float64(session.Duration) / 60

	out.TotalHours = round2(out.TotalHours + hours)

	if out.LastStudyDate == nil {
		out.WeeklyHours = round2(hours)
		out.MonthlyHours = round2(hours)
		out.Streak = 1
		out.LastStudyDate = &when
	} else {
		last := Day(*out.LastStudyDate)

		switch weekA, weekB := calendar.StartOfWeek(last), calendar.StartOfWeek(when); {
		case weekB.After(weekA):
			out.WeeklyHours = round2(hours)
		case weekB.Equal(weekA):
			out.WeeklyHours = round2(out.WeeklyHours + hours)
		}

		switch monthA, monthB := calendar.StartOfMonth(last), calendar.StartOfMonth(when); {
		case monthB.After(monthA):
			out.MonthlyHours = round2(hours)
		case monthB.Equal(monthA):
			out.MonthlyHours = round2(out.MonthlyHours + hours)
		}

		switch daysBetween(last, when) {
		case 0:
			if out.Streak == 0 {
				out.Streak = 1
			}
		case 1:
			out.Streak++
		default:
			if when.After(last) {
				out.Streak = 1
			}
		}

		if when.After(last) {
			out.LastStudyDate = &when
		}
	}

	for _, tag := range session.Tags {
		out.TagMinutes[tag] += session.Duration
	}
	if session.CourseID != "" {
		out.CourseMinutes[session.CourseID] += session.Duration
	}
	out.PreferredStudyType = preferredTag(out.TagMinutes)
	out.MostStudiedCourse = mostStudied(out.CourseMinutes)

	return out
}

// Rebuild derives the accumulator from the full session log in date order.
func Rebuild(sessions []models.StudySession, now time.Time) models.StudyStats {
	ordered := make([]models.StudySession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Day(ordered[i].Date).Before(Day(ordered[j].Date))
	})

	var s models.StudyStats
	for _, session := range ordered {
		s = Record(s, session, now)
	}
	return clone(s)
}

// Current returns s as seen at now: period buckets outside the current week
// or month read as zero and a streak with a gap of more than a day is broken.
func Current(s models.StudyStats, now time.Time) models.StudyStats {
	out := clone(s)
	if out.LastStudyDate == nil {
		return out
	}
	last := Day(*out.LastStudyDate)
	today := Day(now)

	if !calendar.StartOfWeek(last).Equal(calendar.StartOfWeek(today)) {
		out.WeeklyHours = 0
	}
	if !calendar.StartOfMonth(last).Equal(calendar.StartOfMonth(today)) {
		out.MonthlyHours = 0
	}
	if daysBetween(last, today) > 1 {
		out.Streak = 0
	}
	return out
}

// AddProgress adds hours to the goal, clamped at the target. Non-positive
// hours are ignored. changed reports whether completedHours moved.
func AddProgress(goal models.StudyGoal, hours float64) (models.StudyGoal, bool) {
	if hours <= 0 || goal.CompletedHours >= goal.TargetHours {
		return goal, false
	}
	goal.CompletedHours = math.Min(round2(goal.CompletedHours+hours), goal.TargetHours)
	return goal, true
}

// Percent is the goal's completion ratio in [0, 100].
func Percent(goal models.StudyGoal) float64 {
	if goal.TargetHours <= 0 {
		return 0
	}
	return math.Min(100, round2(goal.CompletedHours/goal.TargetHours*100))
}

func clone(s models.StudyStats) models.StudyStats {
	out := s
	out.TagMinutes = make(map[models.StudyTag]int, len(s.TagMinutes))
	for k, v := range s.TagMinutes {
		out.TagMinutes[k] = v
	}
	out.CourseMinutes = make(map[string]int, len(s.CourseMinutes))
	for k, v := range s.CourseMinutes {
		out.CourseMinutes[k] = v
	}
	if s.LastStudyDate != nil {
		d := *s.LastStudyDate
		out.LastStudyDate = &d
	}
	return out
}

// preferredTag picks the tag with the most minutes; ties go to the earlier tag
// in the canonical tag order.
func preferredTag(minutes map[models.StudyTag]int) models.StudyTag {
	var best models.StudyTag
	bestMinutes := 0
	for _, tag := range models.StudyTags {
		if m := minutes[tag]; m > bestMinutes {
			best, bestMinutes = tag, m
		}
	}
	return best
}

// mostStudied picks the course with the most minutes; ties go to the lowest id.
func mostStudied(minutes map[string]int) string {
	ids := make([]string, 0, len(minutes))
	for id := range minutes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best, bestMinutes := "", 0
	for _, id := range ids {
		if m := minutes[id]; m > bestMinutes {
			best, bestMinutes = id, m
		}
	}
	return best
}

// Day is t's calendar date as UTC midnight. Session dates arrive both as
// local timestamps and as parsed UTC dates; comparing them as instants would
// put the same day in different periods.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
