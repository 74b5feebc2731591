package models

import "time"

const JobAssistantReply = "assistant-reply"

// Job is a queued unit of background work.
type Job struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	GroupID    string    `json:"groupId"`
	Prompt     string    `json:"prompt"`
	RetryCount int       `json:"retryCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WebSocket message types
const (
	WSGroupsChanged = "groups_changed"
	WSGroupUpdated  = "group_updated"
	WSNewMessage    = "new_message"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type GroupsChangedEvent struct {
	Version    string `json:"version"`
	GroupCount int    `json:"groupCount"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
