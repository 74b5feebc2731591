package models

import "time"

type StudyTag string

const (
	TagQuiet      StudyTag = "quiet"
	TagFlashcards StudyTag = "flashcards"
	TagExam       StudyTag = "exam"
	TagDiscussion StudyTag = "discussion"
	TagPractice   StudyTag = "practice"
)

var StudyTags = []StudyTag{TagQuiet, TagFlashcards, TagExam, TagDiscussion, TagPractice}

func (t StudyTag) Valid() bool {
	for _, known := range StudyTags {
		if t == known {
			return true
		}
	}
	return false
}

// TimeSlot is a weekly recurring interval. It has no start or end date.
type TimeSlot struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

type StudyGroup struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Course       Course     `json:"course"`
	Description  string     `json:"description"`
	Tags         []StudyTag `json:"tags"`
	Members      []User     `json:"members"` // join order
	MaxMembers   int        `json:"maxMembers"`
	TimeSlots    []TimeSlot `json:"timeSlots"`
	Location     string     `json:"location"`
	CreatedBy    string     `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	IsPublic     bool       `json:"isPublic"`
	InvitedUsers []string   `json:"invitedUsers,omitempty"`
}

// CreateGroupRequest is decoded from the group creation form. The course is
// referenced by id and resolved against the caller's course catalogue.
type CreateGroupRequest struct {
	Name         string     `json:"name" validate:"max=120"`
	CourseID     string     `json:"courseId"`
	Description  string     `json:"description" validate:"max=2000"`
	Tags         []StudyTag `json:"tags" validate:"dive,oneof=quiet flashcards exam discussion practice"`
	MaxMembers   int        `json:"maxMembers" validate:"gte=0,lte=100"`
	TimeSlots    []TimeSlot `json:"timeSlots" validate:"dive"`
	Location     string     `json:"location" validate:"max=200"`
	IsPublic     bool       `json:"isPublic"`
	InvitedUsers []string   `json:"invitedUsers"`
}

type MembershipResponse struct {
	Group   *StudyGroup `json:"group"`
	Changed bool        `json:"changed"`
	CanJoin bool        `json:"canJoin"`
}
