package models

import "time"

// ConversationType distinguishes one-to-one chats from group chats.
type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

func (t ConversationType) Valid() bool {
	return t == ConversationDirect || t == ConversationGroup
}

// Conversation is a conversation node with its resolved participants.
type Conversation struct {
	ConversationID string               `json:"conversation_id"`
	Type           string               `json:"conversation_type"`
	Name           *string              `json:"name,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	LastMessageAt  *time.Time           `json:"last_message_at,omitempty"`
	Participants   []ConversationMember `json:"participants"`
}

// ConversationMember is a participant with the MEMBER_OF edge attributes.
type ConversationMember struct {
	PlayerID string    `json:"player_id"`
	Username string    `json:"username"`
	Status   string    `json:"status,omitempty"`
	Role     string    `json:"role,omitempty"`
	Muted    bool      `json:"muted"`
	JoinedAt time.Time `json:"joined_at"`
}

// ConversationSummary is a conversation as listed for one player,
// with the other participants denormalized for display.
type ConversationSummary struct {
	ConversationID    string       `json:"conversation_id"`
	Type              string       `json:"conversation_type"`
	Name              *string      `json:"name,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	LastMessageAt     *time.Time   `json:"last_message_at,omitempty"`
	OtherParticipants []PlayerNode `json:"other_participants"`
}

// CreateConversationRequest is the request body for creating a conversation
type CreateConversationRequest struct {
	Type           string   `json:"conversation_type" validate:"required,oneof=direct group"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=2"`
	Name           *string  `json:"name,omitempty"`
}

// MuteConversationRequest is the request body for muting or unmuting
type MuteConversationRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Muted    bool   `json:"muted"`
}
