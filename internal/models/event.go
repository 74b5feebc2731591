package models

import "time"

// UserEvent is a one-off personal calendar entry. Only the calendar day of
// Date is meaningful.
type UserEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Description *string   `json:"description,omitempty"`
}

type EventRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string  `json:"endTime" validate:"required,datetime=15:04"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}
