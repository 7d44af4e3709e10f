package models

import "time"

// FriendRequest is a pending SENT_REQUEST edge between two players.
type FriendRequest struct {
	FromPlayerID string    `json:"from_player_id"`
	FromUsername string    `json:"from_username"`
	ToPlayerID   string    `json:"to_player_id"`
	ToUsername   string    `json:"to_username"`
	Message      string    `json:"message"`
	SentAt       time.Time `json:"sent_at"`
}

// Friendship is the result of accepting a request. Both directed
// FRIENDS_WITH edges carry the same since timestamp.
type Friendship struct {
	Player1ID string    `json:"player1_id"`
	Player2ID string    `json:"player2_id"`
	Since     time.Time `json:"since"`
}

// Friend is a FRIENDS_WITH neighbor with the edge attributes.
type Friend struct {
	PlayerID     string    `json:"player_id"`
	Username     string    `json:"username"`
	Status       string    `json:"status"`
	FriendsSince time.Time `json:"friends_since"`
	Nickname     *string   `json:"nickname,omitempty"`
}

// Block is an outbound BLOCKED edge.
type Block struct {
	BlockedPlayerID string    `json:"blocked_player_id"`
	BlockedUsername string    `json:"blocked_username"`
	BlockedSince    time.Time `json:"blocked_since"`
	Reason          *string   `json:"reason,omitempty"`
}

// FollowedPlayer is a FOLLOWS neighbor in either direction.
type FollowedPlayer struct {
	PlayerID string    `json:"player_id"`
	Username string    `json:"username"`
	Status   string    `json:"status"`
	Since    time.Time `json:"following_since"`
}

// FriendSuggestion is a ranked friend-of-friend candidate.
type FriendSuggestion struct {
	PlayerID      string `json:"player_id"`
	Username      string `json:"username"`
	Status        string `json:"status"`
	MutualFriends int    `json:"mutual_friends"`
}

// SendFriendRequestRequest is the request body for sending a friend request
type SendFriendRequestRequest struct {
	FromPlayerID string `json:"from_player_id" validate:"required"`
	ToPlayerID   string `json:"to_player_id" validate:"required"`
	Message      string `json:"message,omitempty"`
}

// AcceptFriendRequestRequest identifies the request being accepted or declined
type AcceptFriendRequestRequest struct {
	FromPlayerID string `json:"from_player_id" validate:"required"`
	ToPlayerID   string `json:"to_player_id" validate:"required"`
}

// SetNicknameRequest is the request body for setting a friend nickname
type SetNicknameRequest struct {
	Nickname string `json:"nickname" validate:"required"`
}

// BlockPlayerRequest is the request body for blocking a player
type BlockPlayerRequest struct {
	BlockerID string  `json:"blocker_id" validate:"required"`
	BlockedID string  `json:"blocked_id" validate:"required"`
	Reason    *string `json:"reason,omitempty"`
}

// FollowRequest is the request body for following a player
type FollowRequest struct {
	FollowerID  string `json:"follower_id" validate:"required"`
	FollowingID string `json:"following_id" validate:"required"`
}
