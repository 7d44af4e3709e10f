package models

import "time"

// Message is a message node with its sender and conversation resolved.
// Every message has exactly one SENT sender and one CONTAINS parent.
type Message struct {
	MessageID      string     `json:"message_id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	SenderUsername string     `json:"sender_username"`
	Content        string     `json:"content"`
	Timestamp      time.Time  `json:"timestamp"`
	Edited         bool       `json:"edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
}

// SendMessageRequest is the request body for sending a message
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	SenderID       string `json:"sender_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
}

// EditMessageRequest is the request body for editing a message
type EditMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
