package models

import "time"

// PartyRole is the role carried on an IN_PARTY edge.
// Every party has exactly one leader.
type PartyRole string

const (
	PartyLeader PartyRole = "leader"
	PartyMemberRole PartyRole = "member"
)

// Party is a party node with its resolved members.
type Party struct {
	PartyID   string        `json:"party_id"`
	GameID    string        `json:"game_id"`
	MaxSize   int           `json:"max_size"`
	IsPublic  bool          `json:"is_public"`
	CreatedAt time.Time     `json:"created_at"`
	Members   []PartyMember `json:"members,omitempty"`
}

// PartyMember is a member with the IN_PARTY edge attributes.
type PartyMember struct {
	PlayerID string    `json:"player_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// PartyInvite is an INVITED_TO edge; it is consumed when the invitee joins.
type PartyInvite struct {
	PartyID         string    `json:"party_id"`
	InviteeID       string    `json:"invitee_id"`
	InviteeUsername string    `json:"invitee_username"`
	InvitedBy       string    `json:"invited_by"`
	InvitedAt       time.Time `json:"invited_at"`
}

// CreatePartyRequest is the request body for creating a party
type CreatePartyRequest struct {
	LeaderID string `json:"leader_id" validate:"required"`
	GameID   string `json:"game_id" validate:"required"`
	MaxSize  int    `json:"max_size,omitempty" validate:"omitempty,min=2,max=64"`
	IsPublic bool   `json:"is_public,omitempty"`
}

// UpdatePartyRequest is the request body for updating party settings
type UpdatePartyRequest struct {
	MaxSize  *int    `json:"max_size,omitempty" validate:"omitempty,min=2,max=64"`
	IsPublic *bool   `json:"is_public,omitempty"`
	GameID   *string `json:"game_id,omitempty"`
}

// InviteToPartyRequest is the request body for inviting a player
type InviteToPartyRequest struct {
	PartyID   string `json:"party_id" validate:"required"`
	InviterID string `json:"inviter_id" validate:"required"`
	InviteeID string `json:"invitee_id" validate:"required"`
}

// JoinPartyRequest is the request body for joining a party
type JoinPartyRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}
