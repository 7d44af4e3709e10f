package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// CreateClan creates a clan node and seats the owner at rank 1. The clan
// carries a member_seq counter; every join increments it under the node
// write lock, so ranks are unique per clan and never reused.
func (l *Ledger) CreateClan(ctx context.Context, name, tag, ownerID string, description *string) (*models.Clan, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.CreateClan")
	defer span.End()

	clanID := uuid.NewString()
	createdAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (owner:Player {player_id: $owner_id})
			OPTIONAL MATCH (owner)-[bt:BELONGS_TO]->(:Clan)
			RETURN count(bt) AS memberships
		`, map[string]any{"owner_id": ownerID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s does not exist", ownerID)
		}
		if graph.AsInt(state, "memberships") > 0 {
			return nil, Conflictf("player %s is already in a clan", ownerID)
		}

		result, err := tx.Run(ctx, `
			MATCH (owner:Player {player_id: $owner_id})
			CREATE (clan:Clan {clan_id: $clan_id, name: $name, tag: $tag, description: $description, created_at: $created_at, member_seq: 1})
			CREATE (owner)-[bt:BELONGS_TO {joined_at: $created_at, role: 'owner', rank: 1}]->(clan)
			RETURN clan.clan_id AS clan_id, clan.name AS name, clan.tag AS tag,
			       clan.description AS description, clan.created_at AS created_at,
			       owner.player_id AS owner_id, owner.username AS owner_username
		`, map[string]any{
			"owner_id":    ownerID,
			"clan_id":     clanID,
			"name":        name,
			"tag":         tag,
			"description": description,
			"created_at":  createdAt,
		})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("clan create returned no row", nil)
		}
		return &models.Clan{
			ClanID:      graph.AsString(record, "clan_id"),
			Name:        graph.AsString(record, "name"),
			Tag:         graph.AsString(record, "tag"),
			Description: graph.AsStringPtr(record, "description"),
			CreatedAt:   graph.AsTime(record, "created_at"),
			MemberCount: 1,
			Members: []models.ClanMemberInfo{{
				PlayerID: graph.AsString(record, "owner_id"),
				Username: graph.AsString(record, "owner_username"),
				Role:     string(models.ClanOwner),
				Rank:     1,
				JoinedAt: graph.AsTime(record, "created_at"),
			}},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Clan), nil
}

// JoinClan adds a member at the next rank. The SET on member_seq takes the
// clan node's write lock, which serializes concurrent joins: each caller
// sees its own increment and no rank is ever handed out twice, including
// after members leave.
func (l *Ledger) JoinClan(ctx context.Context, clanID, playerID string) (*models.ClanMemberInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.JoinClan")
	defer span.End()

	joinedAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (player:Player {player_id: $player_id})
			MATCH (clan:Clan {clan_id: $clan_id})
			OPTIONAL MATCH (player)-[bt:BELONGS_TO]->(:Clan)
			RETURN count(bt) AS memberships
		`, map[string]any{"clan_id": clanID, "player_id": playerID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("clan %s or player %s does not exist", clanID, playerID)
		}
		if graph.AsInt(state, "memberships") > 0 {
			return nil, Conflictf("player %s is already in a clan", playerID)
		}

		result, err := tx.Run(ctx, `
			MATCH (player:Player {player_id: $player_id})
			MATCH (clan:Clan {clan_id: $clan_id})
			SET clan.member_seq = coalesce(clan.member_seq, 0) + 1
			WITH player, clan, clan.member_seq AS rank
			CREATE (player)-[bt:BELONGS_TO {joined_at: $joined_at, role: 'member', rank: rank}]->(clan)
			RETURN player.player_id AS player_id, player.username AS username,
			       bt.role AS role, bt.rank AS rank, bt.joined_at AS joined_at
		`, map[string]any{"clan_id": clanID, "player_id": playerID, "joined_at": joinedAt})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("clan join returned no row", nil)
		}
		return clanMemberFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.ClanMemberInfo), nil
}

// LeaveClan removes the membership edge. The member's rank retires with
// them; member_seq is never decremented.
func (l *Ledger) LeaveClan(ctx context.Context, clanID, playerID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.LeaveClan")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (player:Player {player_id: $player_id})-[bt:BELONGS_TO]->(clan:Clan {clan_id: $clan_id})
			DELETE bt
			RETURN count(bt) AS deleted
		`, map[string]any{"clan_id": clanID, "player_id": playerID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("player %s is not in clan %s", playerID, clanID)
		}
		return nil, nil
	})
	return err
}

// UpdateClan applies a partial update to the clan node.
func (l *Ledger) UpdateClan(ctx context.Context, clanID string, update models.UpdateClanRequest) (*models.Clan, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UpdateClan")
	defer span.End()

	setClauses := []string{}
	params := map[string]any{"clan_id": clanID}
	if update.Name != nil {
		setClauses = append(setClauses, "clan.name = $name")
		params["name"] = *update.Name
	}
	if update.Tag != nil {
		setClauses = append(setClauses, "clan.tag = $tag")
		params["tag"] = *update.Tag
	}
	if update.Description != nil {
		setClauses = append(setClauses, "clan.description = $description")
		params["description"] = *update.Description
	}
	if len(setClauses) == 0 {
		return nil, InvalidStatef("no clan fields to update")
	}

	cypher := fmt.Sprintf(`
		MATCH (clan:Clan {clan_id: $clan_id})
		OPTIONAL MATCH (member:Player)-[:BELONGS_TO]->(clan)
		WITH clan, count(member) AS member_count
		SET %s
		RETURN clan.clan_id AS clan_id, clan.name AS name, clan.tag AS tag,
		       clan.description AS description, clan.created_at AS created_at, member_count
	`, strings.Join(setClauses, ", "))

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("clan %s does not exist", clanID)
		}
		return clanFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Clan), nil
}

// UpdateClanMemberRole changes a member's role, and optionally their rank,
// on the BELONGS_TO edge.
func (l *Ledger) UpdateClanMemberRole(ctx context.Context, clanID, playerID, role string, rank *int) (*models.ClanMemberInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UpdateClanMemberRole")
	defer span.End()

	setClauses := []string{"bt.role = $role"}
	params := map[string]any{"clan_id": clanID, "player_id": playerID, "role": role}
	if rank != nil {
		setClauses = append(setClauses, "bt.rank = $rank")
		params["rank"] = *rank
	}

	cypher := fmt.Sprintf(`
		MATCH (player:Player {player_id: $player_id})-[bt:BELONGS_TO]->(clan:Clan {clan_id: $clan_id})
		SET %s
		RETURN player.player_id AS player_id, player.username AS username,
		       bt.role AS role, bt.rank AS rank, bt.joined_at AS joined_at
	`, strings.Join(setClauses, ", "))

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s is not in clan %s", playerID, clanID)
		}
		return clanMemberFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.ClanMemberInfo), nil
}

// DisbandClan deletes the clan node and every membership edge.
func (l *Ledger) DisbandClan(ctx context.Context, clanID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.DisbandClan")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (clan:Clan {clan_id: $clan_id})
			DETACH DELETE clan
			RETURN count(clan) AS deleted
		`, map[string]any{"clan_id": clanID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("clan %s does not exist", clanID)
		}
		return nil, nil
	})
	return err
}

func clanFromRecord(record map[string]any) *models.Clan {
	return &models.Clan{
		ClanID:      graph.AsString(record, "clan_id"),
		Name:        graph.AsString(record, "name"),
		Tag:         graph.AsString(record, "tag"),
		Description: graph.AsStringPtr(record, "description"),
		CreatedAt:   graph.AsTime(record, "created_at"),
		MemberCount: graph.AsInt(record, "member_count"),
	}
}

func clanMemberFromRecord(record map[string]any) *models.ClanMemberInfo {
	return &models.ClanMemberInfo{
		PlayerID: graph.AsString(record, "player_id"),
		Username: graph.AsString(record, "username"),
		Role:     graph.AsString(record, "role"),
		Rank:     graph.AsInt(record, "rank"),
		JoinedAt: graph.AsTime(record, "joined_at"),
	}
}
