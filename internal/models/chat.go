package models

import "time"

// Message is one entry of a group's append-only chat log.
type Message struct {
	ID              string    `json:"id"`
	GroupID         string    `json:"groupId"`
	UserID          string    `json:"userId"`
	User            User      `json:"user"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	IsAssistant     bool      `json:"isAssistant,omitempty"`
	IsLocalResponse bool      `json:"isLocalResponse,omitempty"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"max=4000"`
}

// ChatMessage represents a single turn in an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the assistant endpoint.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

// AssistantReply is the assistant's answer. IsLocalResponse is set when the
// external generator failed and the offline responder produced the text.
type AssistantReply struct {
	Reply           string `json:"reply"`
	IsLocalResponse bool   `json:"isLocalResponse"`
	FallbackReason  string `json:"fallbackReason,omitempty"`
}
