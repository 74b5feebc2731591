package groups

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"studysync-backend/internal/models"
)

// DefaultMaxMembers is used when a draft does not set a capacity.
const DefaultMaxMembers = 8

func IsMember(g *models.StudyGroup, userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

func CanJoin(g *models.StudyGroup, userID string) bool {
	return len(g.Members) < g.MaxMembers && !IsMember(g, userID)
}

// Join appends user to the member list. It is a no-op returning false when the
// user is already a member or the group is full.
func Join(g *models.StudyGroup, user models.User) bool {
	if !CanJoin(g, user.ID) {
		return false
	}
	members := make([]models.User, len(g.Members), len(g.Members)+1)
	copy(members, g.Members)
	g.Members = append(members, user)
	return true
}

// Leave removes userID from the member list. Creators may leave their own
// group; ownership is not transferred.
func Leave(g *models.StudyGroup, userID string) bool {
	idx := -1
	for i, m := range g.Members {
		if m.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	members := make([]models.User, 0, len(g.Members)-1)
	members = append(members, g.Members[:idx]...)
	members = append(members, g.Members[idx+1:]...)
	g.Members = members
	return true
}

type Reason string

const (
	ReasonMissingName   Reason = "missing_name"
	ReasonMissingCourse Reason = "missing_course"
	ReasonNoTimeSlots   Reason = "no_time_slots"
	ReasonNoInvitees    Reason = "no_invitees"
)

var reasonMessages = map[Reason]string{
	ReasonMissingName:   "Please enter a group name",
	ReasonMissingCourse: "Please select a course",
	ReasonNoTimeSlots:   "Please add at least one time slot",
	ReasonNoInvitees:    "Private groups need at least one invited member",
}

// CreateError is a rejected group draft. The UI shows Message() inline.
type CreateError struct {
	Reason Reason
}

func (e *CreateError) Error() string { return "invalid group draft: " + string(e.Reason) }

func (e *CreateError) Message() string { return reasonMessages[e.Reason] }

type Draft struct {
	Name         string
	Course       *models.Course
	Description  string
	Tags         []models.StudyTag
	MaxMembers   int
	TimeSlots    []models.TimeSlot
	Location     string
	IsPublic     bool
	InvitedUsers []string
}

func (d Draft) validate() *CreateError {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return &CreateError{Reason: ReasonMissingName}
	case d.Course == nil:
		return &CreateError{Reason: ReasonMissingCourse}
	case len(d.TimeSlots) == 0:
		return &CreateError{Reason: ReasonNoTimeSlots}
	case !d.IsPublic && len(d.InvitedUsers) == 0:
		return &CreateError{Reason: ReasonNoInvitees}
	}
	return nil
}

// Create validates d and builds a new group with creator as its only member.
func Create(d Draft, creator models.User, now time.Time) (*models.StudyGroup, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	maxMembers := d.MaxMembers
	if maxMembers <= 0 {
		maxMembers = DefaultMaxMembers
	}

	g := &models.StudyGroup{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(d.Name),
		Course:      *d.Course,
		Description: d.Description,
		Tags:        append([]models.StudyTag(nil), d.Tags...),
		Members:     []models.User{creator},
		MaxMembers:  maxMembers,
		TimeSlots:   append([]models.TimeSlot(nil), d.TimeSlots...),
		Location:    d.Location,
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		IsPublic:    d.IsPublic,
	}
	if !d.IsPublic {
		g.InvitedUsers = append([]string{}, d.InvitedUsers...)
	}
	if g.Tags == nil {
		g.Tags = []models.StudyTag{}
	}

	return g, nil
}
