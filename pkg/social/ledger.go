package social

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Ledger owns the typed-edge lifecycle: requests, friendships, blocks,
// follows, invites and memberships. Every operation that touches more than
// one edge or node runs inside a single managed write transaction, so
// concurrent callers never observe a half-applied state.
type Ledger struct {
	client *graph.Client
	logger ectologger.Logger
}

// NewLedger creates a new relationship ledger
func NewLedger(client *graph.Client, logger ectologger.Logger) *Ledger {
	return &Ledger{
		client: client,
		logger: logger,
	}
}

// singleRecord consumes the first record of a result as a map.
func singleRecord(ctx context.Context, result neo4j.ResultWithContext) (map[string]any, bool, error) {
	if result.Next(ctx) {
		return result.Record().AsMap(), true, nil
	}
	return nil, false, result.Err()
}

// collectRecords consumes every record of a result as maps.
func collectRecords(ctx context.Context, result neo4j.ResultWithContext) ([]map[string]any, error) {
	var rows []map[string]any
	for result.Next(ctx) {
		rows = append(rows, result.Record().AsMap())
	}
	return rows, result.Err()
}

// deletedCount runs a delete statement and returns how many edges it removed.
func deletedCount(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) (int, error) {
	result, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return 0, err
	}
	record, ok, err := singleRecord(ctx, result)
	if err != nil || !ok {
		return 0, err
	}
	return graph.AsInt(record, "deleted"), nil
}

// SendFriendRequest creates a SENT_REQUEST edge. It fails with InvalidState
// when a request already exists in either direction, when the pair is
// already friends, or when either party has blocked the other.
func (l *Ledger) SendFriendRequest(ctx context.Context, fromID, toID, message string) (*models.FriendRequest, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.SendFriendRequest")
	defer span.End()

	sentAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (from:Player {player_id: $from_id})
			MATCH (to:Player {player_id: $to_id})
			OPTIONAL MATCH (from)-[req:SENT_REQUEST]-(to)
			OPTIONAL MATCH (from)-[blk:BLOCKED]-(to)
			OPTIONAL MATCH (from)-[fr:FRIENDS_WITH]->(to)
			RETURN count(req) > 0 AS has_request, count(blk) > 0 AS has_block, count(fr) > 0 AS has_friendship
		`, map[string]any{"from_id": fromID, "to_id": toID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s or %s does not exist", fromID, toID)
		}
		if graph.AsBool(state, "has_block") {
			return nil, InvalidStatef("cannot send friend request: a block exists between %s and %s", fromID, toID)
		}
		if graph.AsBool(state, "has_friendship") {
			return nil, InvalidStatef("players %s and %s are already friends", fromID, toID)
		}
		if graph.AsBool(state, "has_request") {
			return nil, InvalidStatef("a friend request between %s and %s is already pending", fromID, toID)
		}

		result, err := tx.Run(ctx, `
			MATCH (from:Player {player_id: $from_id})
			MATCH (to:Player {player_id: $to_id})
			CREATE (from)-[r:SENT_REQUEST {sent_at: $sent_at, message: $message}]->(to)
			RETURN from.player_id AS from_player_id, from.username AS from_username,
			       to.player_id AS to_player_id, to.username AS to_username,
			       r.message AS message, r.sent_at AS sent_at
		`, map[string]any{"from_id": fromID, "to_id": toID, "sent_at": sentAt, "message": message})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s or %s does not exist", fromID, toID)
		}
		return friendRequestFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.FriendRequest), nil
}

// AcceptFriendRequest deletes the pending request and creates both directed
// FRIENDS_WITH edges with the same since timestamp, in one transaction. A
// block in either direction refuses the accept, so a request that predates
// the block can never become a friendship.
func (l *Ledger) AcceptFriendRequest(ctx context.Context, fromID, toID string) (*models.Friendship, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.AcceptFriendRequest")
	defer span.End()

	since := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (from:Player {player_id: $from_id})-[r:SENT_REQUEST]->(to:Player {player_id: $to_id})
			OPTIONAL MATCH (from)-[blk:BLOCKED]-(to)
			RETURN count(blk) > 0 AS has_block
		`, map[string]any{"from_id": fromID, "to_id": toID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("no pending friend request from %s to %s", fromID, toID)
		}
		if graph.AsBool(state, "has_block") {
			return nil, InvalidStatef("cannot accept friend request: a block exists between %s and %s", fromID, toID)
		}

		result, err := tx.Run(ctx, `
			MATCH (from:Player {player_id: $from_id})-[r:SENT_REQUEST]->(to:Player {player_id: $to_id})
			DELETE r
			CREATE (from)-[f:FRIENDS_WITH {since: $since}]->(to)
			CREATE (to)-[f2:FRIENDS_WITH {since: $since}]->(from)
			RETURN from.player_id AS player1_id, to.player_id AS player2_id, f.since AS since
		`, map[string]any{"from_id": fromID, "to_id": toID, "since": since})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("no pending friend request from %s to %s", fromID, toID)
		}
		return &models.Friendship{
			Player1ID: graph.AsString(record, "player1_id"),
			Player2ID: graph.AsString(record, "player2_id"),
			Since:     graph.AsTime(record, "since"),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Friendship), nil
}

// DeclineFriendRequest deletes the pending request edge.
func (l *Ledger) DeclineFriendRequest(ctx context.Context, fromID, toID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.DeclineFriendRequest")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (from:Player {player_id: $from_id})-[r:SENT_REQUEST]->(to:Player {player_id: $to_id})
			DELETE r
			RETURN count(r) AS deleted
		`, map[string]any{"from_id": fromID, "to_id": toID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("no pending friend request from %s to %s", fromID, toID)
		}
		return nil, nil
	})
	return err
}

// RemoveFriend deletes both directed FRIENDS_WITH edges as one operation.
func (l *Ledger) RemoveFriend(ctx context.Context, playerID, friendID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.RemoveFriend")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (p:Player {player_id: $player_id})-[f:FRIENDS_WITH]-(friend:Player {player_id: $friend_id})
			DELETE f
			RETURN count(f) AS deleted
		`, map[string]any{"player_id": playerID, "friend_id": friendID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("players %s and %s are not friends", playerID, friendID)
		}
		return nil, nil
	})
	return err
}

// SetFriendNickname sets the nickname on the caller's directed edge only;
// the friend's own view of the relationship is untouched.
func (l *Ledger) SetFriendNickname(ctx context.Context, playerID, friendID, nickname string) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.SetFriendNickname")
	defer span.End()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[f:FRIENDS_WITH]->(friend:Player {player_id: $friend_id})
			SET f.nickname = $nickname
			RETURN friend.player_id AS player_id, friend.username AS username, friend.status AS status,
			       f.since AS friends_since, f.nickname AS nickname
		`, map[string]any{"player_id": playerID, "friend_id": friendID, "nickname": nickname})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("players %s and %s are not friends", playerID, friendID)
		}
		return friendFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Friend), nil
}

// BlockPlayer removes any friendship and any pending requests between the
// pair and creates the BLOCKED edge in the same transaction. Blocking twice
// is idempotent: the existing block is returned and no duplicate edge is
// created.
func (l *Ledger) BlockPlayer(ctx context.Context, blockerID, blockedID string, reason *string) (*models.Block, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.BlockPlayer")
	defer span.End()

	since := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (blocker:Player {player_id: $blocker_id})
			MATCH (blocked:Player {player_id: $blocked_id})
			OPTIONAL MATCH (blocker)-[f:FRIENDS_WITH]-(blocked)
			OPTIONAL MATCH (blocker)-[req:SENT_REQUEST]-(blocked)
			DELETE f, req
			WITH DISTINCT blocker, blocked
			MERGE (blocker)-[b:BLOCKED]->(blocked)
			ON CREATE SET b.since = $since, b.reason = $reason
			RETURN blocked.player_id AS blocked_player_id, blocked.username AS blocked_username,
			       b.since AS blocked_since, b.reason AS reason
		`, map[string]any{"blocker_id": blockerID, "blocked_id": blockedID, "since": since, "reason": reason})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s or %s does not exist", blockerID, blockedID)
		}
		return &models.Block{
			BlockedPlayerID: graph.AsString(record, "blocked_player_id"),
			BlockedUsername: graph.AsString(record, "blocked_username"),
			BlockedSince:    graph.AsTime(record, "blocked_since"),
			Reason:          graph.AsStringPtr(record, "reason"),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Block), nil
}

// UnblockPlayer deletes the BLOCKED edge. It does not restore any
// friendship that existed before the block.
func (l *Ledger) UnblockPlayer(ctx context.Context, blockerID, blockedID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UnblockPlayer")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (blocker:Player {player_id: $blocker_id})-[b:BLOCKED]->(blocked:Player {player_id: $blocked_id})
			DELETE b
			RETURN count(b) AS deleted
		`, map[string]any{"blocker_id": blockerID, "blocked_id": blockedID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("player %s has not blocked %s", blockerID, blockedID)
		}
		return nil, nil
	})
	return err
}

// FollowPlayer creates a FOLLOWS edge, independent of friend or block
// state. Following twice is a no-op on the edge.
func (l *Ledger) FollowPlayer(ctx context.Context, followerID, followingID string) (*models.FollowedPlayer, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.FollowPlayer")
	defer span.End()

	since := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (follower:Player {player_id: $follower_id})
			MATCH (following:Player {player_id: $following_id})
			MERGE (follower)-[f:FOLLOWS]->(following)
			ON CREATE SET f.since = $since
			RETURN following.player_id AS player_id, following.username AS username,
			       following.status AS status, f.since AS following_since
		`, map[string]any{"follower_id": followerID, "following_id": followingID, "since": since})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s or %s does not exist", followerID, followingID)
		}
		return followedPlayerFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.FollowedPlayer), nil
}

// UnfollowPlayer deletes the FOLLOWS edge.
func (l *Ledger) UnfollowPlayer(ctx context.Context, followerID, followingID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UnfollowPlayer")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (follower:Player {player_id: $follower_id})-[f:FOLLOWS]->(following:Player {player_id: $following_id})
			DELETE f
			RETURN count(f) AS deleted
		`, map[string]any{"follower_id": followerID, "following_id": followingID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("player %s is not following %s", followerID, followingID)
		}
		return nil, nil
	})
	return err
}

func friendRequestFromRecord(record map[string]any) *models.FriendRequest {
	return &models.FriendRequest{
		FromPlayerID: graph.AsString(record, "from_player_id"),
		FromUsername: graph.AsString(record, "from_username"),
		ToPlayerID:   graph.AsString(record, "to_player_id"),
		ToUsername:   graph.AsString(record, "to_username"),
		Message:      graph.AsString(record, "message"),
		SentAt:       graph.AsTime(record, "sent_at"),
	}
}

func friendFromRecord(record map[string]any) *models.Friend {
	return &models.Friend{
		PlayerID:     graph.AsString(record, "player_id"),
		Username:     graph.AsString(record, "username"),
		Status:       graph.AsString(record, "status"),
		FriendsSince: graph.AsTime(record, "friends_since"),
		Nickname:     graph.AsStringPtr(record, "nickname"),
	}
}

func followedPlayerFromRecord(record map[string]any) *models.FollowedPlayer {
	return &models.FollowedPlayer{
		PlayerID: graph.AsString(record, "player_id"),
		Username: graph.AsString(record, "username"),
		Status:   graph.AsString(record, "status"),
		Since:    graph.AsTime(record, "following_since"),
	}
}
