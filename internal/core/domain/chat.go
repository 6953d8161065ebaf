package domain

import (
	"errors"
	"time"
)

// MessageRole identifies who authored a conversation turn.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

var ErrAssistantUnavailable = errors.New("assistant unavailable")
var ErrSendInFlight = errors.New("a guide message is already in flight")
var ErrConversationClosed = errors.New("conversation closed")

// Message is one turn of the guide conversation.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
	At   time.Time   `json:"at"`
}

// ChatContext is rebuilt for every outbound assistant request and never stored.
type ChatContext struct {
	SystemPolicy   string    `json:"system_policy"`
	Profile        Profile   `json:"profile"`
	Decision       *Decision `json:"decision,omitempty"`
	DecisionLocked bool      `json:"decision_locked"`
	EmotionalLock  bool      `json:"emotional_lock"`
	History        []Message `json:"history"`
}

// AssistantReply is the text returned by the external assistant.
type AssistantReply struct {
	Text string `json:"text"`
}

var ErrEmptyMessage = errors.New("message is empty")
