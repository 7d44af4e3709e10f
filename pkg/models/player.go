package models

// PlayerStatus is the presence state shown on a player node.
// It is denormalized from the player document store.
type PlayerStatus string

const (
	StatusOnline       PlayerStatus = "online"
	StatusOffline      PlayerStatus = "offline"
	StatusAway         PlayerStatus = "away"
	StatusInGame       PlayerStatus = "in_game"
	StatusDoNotDisturb PlayerStatus = "dnd"
)

// Valid reports whether the status is one of the known presence states.
func (s PlayerStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusAway, StatusInGame, StatusDoNotDisturb:
		return true
	}
	return false
}

// PlayerNode is a player as represented in the social graph.
type PlayerNode struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// CreatePlayerRequest is the request body for registering a player node
type CreatePlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Username string `json:"username" validate:"required"`
	Status   string `json:"status,omitempty"`
}

// UpdatePlayerStatusRequest is the request body for a presence update
type UpdatePlayerStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePlayerUsernameRequest is the request body for a username update
type UpdatePlayerUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}
