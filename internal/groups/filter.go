// Package groups holds the study-group visibility/filter engine and the
// membership lifecycle. Everything here is a pure function of its inputs.
package groups

import (
	"fmt"
	"strings"

	"studysync-backend/internal/models"
)

type Mode int

const (
	ModeAll Mode = iota
	ModeMine
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "mine":
		return ModeMine, nil
	default:
		return ModeAll, fmt.Errorf("unknown listing mode %q", s)
	}
}

func (m Mode) String() string {
	if m == ModeMine {
		return "mine"
	}
	return "all"
}

// Filter is the active listing state. CourseID, Tags and SearchText only
// apply in ModeAll.
type Filter struct {
	Mode       Mode
	CourseID   string
	Tags       []models.StudyTag
	SearchText string
}

// IsVisible reports whether viewer may see g in the given mode. A nil viewer
// is an anonymous visitor.
func IsVisible(g *models.StudyGroup, viewer *models.User, mode Mode) bool {
	if mode == ModeMine {
		return viewer != nil && IsMember(g, viewer.ID)
	}

	if g.IsPublic {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.ID == g.CreatedBy || IsMember(g, viewer.ID) {
		return true
	}
	for _, id := range g.InvitedUsers {
		if id == viewer.ID {
			return true
		}
	}
	return false
}

// Matches applies the course, tag and search filters (AND-combined).
func Matches(g *models.StudyGroup, f Filter) bool {
	if f.CourseID != "" && g.Course.ID != f.CourseID {
		return false
	}

	if len(f.Tags) > 0 && !hasAnyTag(g.Tags, f.Tags) {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(f.SearchText))
	if search != "" {
		if !strings.Contains(strings.ToLower(g.Name), search) &&
			!strings.Contains(strings.ToLower(g.Description), search) &&
			!strings.Contains(strings.ToLower(g.Course.Name), search) {
			return false
		}
	}

	return true
}

// Apply returns the groups viewer should see under f, in their original order.
func Apply(viewer *models.User, all []models.StudyGroup, f Filter) []models.StudyGroup {
	out := make([]models.StudyGroup, 0, len(all))
	for i := range all {
		g := &all[i]
		if !IsVisible(g, viewer, f.Mode) {
			continue
		}
		if f.Mode == ModeAll && !Matches(g, f) {
			continue
		}
		out = append(out, *g)
	}
	return out
}

func hasAnyTag(have, want []models.StudyTag) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// ParseTags splits a comma separated tag list, skipping blanks. An unknown
// tag is an error.
func ParseTags(raw string) ([]models.StudyTag, error) {
	var tags []models.StudyTag
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag := models.StudyTag(strings.ToLower(part))
		if !tag.Valid() {
			return nil, fmt.Errorf("unknown study tag %q", part)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
