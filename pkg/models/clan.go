package models

import "time"

// ClanRole is the role carried on a BELONGS_TO edge.
type ClanRole string

const (
	ClanOwner     ClanRole = "owner"
	ClanAdmin     ClanRole = "admin"
	ClanModerator ClanRole = "moderator"
	ClanMember    ClanRole = "member"
)

func (r ClanRole) Valid() bool {
	switch r {
	case ClanOwner, ClanAdmin, ClanModerator, ClanMember:
		return true
	}
	return false
}

// Clan is a clan node with its resolved members.
type Clan struct {
	ClanID      string           `json:"clan_id"`
	Name        string           `json:"name"`
	Tag         string           `json:"tag"`
	Description *string          `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	MemberCount int              `json:"member_count"`
	Members     []ClanMemberInfo `json:"members,omitempty"`
}

// ClanMemberInfo is a member with the BELONGS_TO edge attributes.
// Rank is assigned by join order and never reused.
type ClanMemberInfo struct {
	PlayerID string    `json:"player_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Rank     int       `json:"rank"`
	JoinedAt time.Time `json:"joined_at"`
}

// PlayerClan is the clan a player belongs to, from the player's side.
type PlayerClan struct {
	ClanID string `json:"clan_id"`
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Role   string `json:"role"`
	Rank   int    `json:"rank"`
}

// CreateClanRequest is the request body for creating a clan
type CreateClanRequest struct {
	Name        string  `json:"name" validate:"required"`
	Tag         string  `json:"tag" validate:"required,min=2,max=6"`
	OwnerID     string  `json:"owner_id" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// UpdateClanRequest is the request body for updating clan details
type UpdateClanRequest struct {
	Name        *string `json:"name,omitempty"`
	Tag         *string `json:"tag,omitempty" validate:"omitempty,min=2,max=6"`
	Description *string `json:"description,omitempty"`
}

// JoinClanRequest is the request body for joining a clan
type JoinClanRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

// UpdateClanMemberRoleRequest is the request body for changing a member's role
type UpdateClanMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner admin moderator member"`
	Rank *int   `json:"rank,omitempty" validate:"omitempty,min=1"`
}
