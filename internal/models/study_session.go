package models

import "time"

type StudySession struct {
	ID       string     `json:"id"`
	Date     time.Time  `json:"date"`
	Duration int        `json:"duration"` // minutes
	CourseID string     `json:"courseId"`
	Tags     []StudyTag `json:"tags"`
}

type LogSessionRequest struct {
	Date     string     `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Duration int        `json:"duration" validate:"required,gt=0,lte=1440"`
	CourseID string     `json:"courseId" validate:"required"`
	Tags     []StudyTag `json:"tags" validate:"dive,oneof=quiet flashcards exam discussion practice"`
}

// StudyStats is maintained incrementally from the session log. The tallies
// back the two "most" fields.
type StudyStats struct {
	TotalHours         float64          `json:"totalHours"`
	WeeklyHours        float64          `json:"weeklyHours"`
	MonthlyHours       float64          `json:"monthlyHours"`
	PreferredStudyType StudyTag         `json:"preferredStudyType"`
	Streak             int              `json:"streak"`
	MostStudiedCourse  string           `json:"mostStudiedCourse"`
	LastStudyDate      *time.Time       `json:"lastStudyDate"`
	TagMinutes         map[StudyTag]int `json:"tagMinutes,omitempty"`
	CourseMinutes      map[string]int   `json:"courseMinutes,omitempty"`
}

type StudyGoal struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	TargetHours    float64   `json:"targetHours"`
	CompletedHours float64   `json:"completedHours"`
	Deadline       time.Time `json:"deadline"`
}

type CreateGoalRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	TargetHours float64 `json:"targetHours" validate:"gt=0,lte=10000"`
	Deadline    string  `json:"deadline" validate:"required,datetime=2006-01-02"`
}

type GoalProgressRequest struct {
	Hours float64 `json:"hours" validate:"gt=0,lte=24"`
}
