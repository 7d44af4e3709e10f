package social

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// CreatePlayer registers a player node in the graph. The player_id comes
// from the platform's account system; the graph never mints identities.
func (l *Ledger) CreatePlayer(ctx context.Context, playerID, username, status string) (*models.PlayerNode, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.CreatePlayer")
	defer span.End()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		existing, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})
			RETURN p.player_id AS player_id
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		if _, ok, err := singleRecord(ctx, existing); err != nil {
			return nil, err
		} else if ok {
			return nil, Conflictf("player %s already exists", playerID)
		}

		result, err := tx.Run(ctx, `
			CREATE (p:Player {player_id: $player_id, username: $username, status: $status, created_at: $created_at})
			RETURN p.player_id AS player_id, p.username AS username, p.status AS status
		`, map[string]any{
			"player_id":  playerID,
			"username":   username,
			"status":     status,
			"created_at": time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("player create returned no row", nil)
		}
		return playerFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.PlayerNode), nil
}

// UpdatePlayerStatus sets the denormalized presence state on the node.
func (l *Ledger) UpdatePlayerStatus(ctx context.Context, playerID, status string) (*models.PlayerNode, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UpdatePlayerStatus")
	defer span.End()

	return l.updatePlayerField(ctx, playerID, "status", status)
}

// UpdatePlayerUsername sets the denormalized username on the node.
func (l *Ledger) UpdatePlayerUsername(ctx context.Context, playerID, username string) (*models.PlayerNode, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UpdatePlayerUsername")
	defer span.End()

	return l.updatePlayerField(ctx, playerID, "username", username)
}

func (l *Ledger) updatePlayerField(ctx context.Context, playerID, field, value string) (*models.PlayerNode, error) {
	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})
			SET p.`+field+` = $value
			RETURN p.player_id AS player_id, p.username AS username, p.status AS status
		`, map[string]any{"player_id": playerID, "value": value})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s does not exist", playerID)
		}
		return playerFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.PlayerNode), nil
}

// DeletePlayer detach-deletes the player node. Every incident edge goes
// with it: friendships, blocks, follows, memberships and invites.
func (l *Ledger) DeletePlayer(ctx context.Context, playerID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.DeletePlayer")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (p:Player {player_id: $player_id})
			DETACH DELETE p
			RETURN count(p) AS deleted
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("player %s does not exist", playerID)
		}
		return nil, nil
	})
	return err
}

func playerFromRecord(record map[string]any) *models.PlayerNode {
	return &models.PlayerNode{
		PlayerID: graph.AsString(record, "player_id"),
		Username: graph.AsString(record, "username"),
		Status:   graph.AsString(record, "status"),
	}
}
