package calendar

import (
	"fmt"
	"strings"
	"time"

	"studysync-backend/internal/models"
)

type ViewType int

const (
	ViewDay ViewType = iota
	ViewWeek
	ViewMonth
)

func ParseViewType(s string) (ViewType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return ViewDay, nil
	case "week", "weekly":
		return ViewWeek, nil
	case "", "month", "monthly":
		return ViewMonth, nil
	default:
		return ViewMonth, fmt.Errorf("unknown calendar view %q", s)
	}
}

func (v ViewType) String() string {
	switch v {
	case ViewDay:
		return "day"
	case ViewWeek:
		return "week"
	default:
		return "month"
	}
}

// DisplayCap is the number of items rendered per cell before the overflow
// indicator. Zero means no cap.
func (v ViewType) DisplayCap() int {
	switch v {
	case ViewWeek:
		return 2
	case ViewMonth:
		return 1
	default:
		return 0
	}
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// EndOfWeek returns the Saturday on or after t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// Range returns the first and last date rendered for view around focus.
func Range(v ViewType, focus time.Time) (time.Time, time.Time) {
	switch v {
	case ViewDay:
		d := StartOfDay(focus)
		return d, d
	case ViewWeek:
		return StartOfWeek(focus), EndOfWeek(focus)
	default:
		return StartOfWeek(StartOfMonth(focus)), EndOfWeek(EndOfMonth(focus))
	}
}

// Dates lists every date of the view in order.
func Dates(v ViewType, focus time.Time) []time.Time {
	start, end := Range(v, focus)
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

type ItemKind string

const (
	KindEvent ItemKind = "event"
	KindGroup ItemKind = "group"
)

type Item struct {
	Kind      ItemKind `json:"kind"`
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Location  string   `json:"location,omitempty"`
}

type Cell struct {
	Date          time.Time `json:"date"`
	InFocusMonth  bool      `json:"inFocusMonth"`
	IsToday       bool      `json:"isToday"`
	Items         []Item    `json:"items"`
	Total         int       `json:"total"`
	Overflow      int       `json:"overflow"`
	OverflowLabel string    `json:"overflowLabel,omitempty"`
}

type View struct {
	Type  string    `json:"type"`
	Title string    `json:"title"`
	Focus time.Time `json:"focus"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Cells []Cell    `json:"cells"`
}

// Build renders the grid for view around focus.
func (m *Mapper) Build(v ViewType, focus, today time.Time, groups []models.StudyGroup, events []models.UserEvent) View {
	start, end := Range(v, focus)
	view := View{
		Type:  v.String(),
		Title: Title(v, focus),
		Focus: StartOfDay(focus),
		Start: start,
		End:   end,
	}

	limit := v.DisplayCap()
	_, focusMonth, _ := focus.Date()
	for _, date := range Dates(v, focus) {
		items := m.ItemsOnDate(date, groups, events)
		all := m.cellItems(date, items)

		cell := Cell{
			Date:         date,
			InFocusMonth: date.Month() == focusMonth,
			IsToday:      SameDay(date, today),
			Items:        all,
			Total:        len(all),
		}
		if limit > 0 && len(all) > limit {
			cell.Items = all[:limit]
			cell.Overflow = len(all) - limit
			cell.OverflowLabel = fmt.Sprintf("+%d more", cell.Overflow)
		}
		view.Cells = append(view.Cells, cell)
	}

	return view
}

// cellItems lists events before groups.
func (m *Mapper) cellItems(date time.Time, items Items) []Item {
	out := make([]Item, 0, len(items.Events)+len(items.Groups))
	for _, e := range items.Events {
		out = append(out, Item{
			Kind:      KindEvent,
			ID:        e.ID,
			Title:     e.Title,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}
	for _, g := range items.Groups {
		slot, _ := m.slotOn(g, date.Weekday())
		out = append(out, Item{
			Kind:      KindGroup,
			ID:        g.ID,
			Title:     g.Name,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Location:  g.Location,
		})
	}
	return out
}

// Title is the header shown above the grid.
func Title(v ViewType, focus time.Time) string {
	switch v {
	case ViewDay:
		return focus.Format("Monday, January 2, 2006")
	case ViewWeek:
		start, end := StartOfWeek(focus), EndOfWeek(focus)
		if start.Year() != end.Year() {
			return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
		}
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	default:
		return focus.Format("January 2006")
	}
}
