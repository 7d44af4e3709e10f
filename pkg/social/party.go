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

// CreateParty creates a party node and seats the leader in one transaction.
// A player already in a party cannot create another one.
func (l *Ledger) CreateParty(ctx context.Context, leaderID, gameID string, maxSize int, isPublic bool) (*models.Party, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.CreateParty")
	defer span.End()

	partyID := uuid.NewString()
	createdAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (leader:Player {player_id: $leader_id})
			OPTIONAL MATCH (leader)-[m:IN_PARTY]->(:Party)
			RETURN count(m) AS memberships
		`, map[string]any{"leader_id": leaderID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s does not exist", leaderID)
		}
		if graph.AsInt(state, "memberships") > 0 {
			return nil, Conflictf("player %s is already in a party", leaderID)
		}

		result, err := tx.Run(ctx, `
			MATCH (leader:Player {player_id: $leader_id})
			CREATE (party:Party {party_id: $party_id, game_id: $game_id, max_size: $max_size, is_public: $is_public, created_at: $created_at})
			CREATE (leader)-[m:IN_PARTY {joined_at: $created_at, role: 'leader'}]->(party)
			RETURN party.party_id AS party_id, party.game_id AS game_id, party.max_size AS max_size,
			       party.is_public AS is_public, party.created_at AS created_at,
			       leader.player_id AS leader_id, leader.username AS leader_username
		`, map[string]any{
			"leader_id":  leaderID,
			"party_id":   partyID,
			"game_id":    gameID,
			"max_size":   maxSize,
			"is_public":  isPublic,
			"created_at": createdAt,
		})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("party create returned no row", nil)
		}
		return &models.Party{
			PartyID:   graph.AsString(record, "party_id"),
			GameID:    graph.AsString(record, "game_id"),
			MaxSize:   graph.AsInt(record, "max_size"),
			IsPublic:  graph.AsBool(record, "is_public"),
			CreatedAt: graph.AsTime(record, "created_at"),
			Members: []models.PartyMember{{
				PlayerID: graph.AsString(record, "leader_id"),
				Username: graph.AsString(record, "leader_username"),
				Role:     string(models.PartyLeader),
				JoinedAt: graph.AsTime(record, "created_at"),
			}},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Party), nil
}

// InviteToParty creates an INVITED_TO edge. Only current members may
// invite, and inviting an existing member is a conflict.
func (l *Ledger) InviteToParty(ctx context.Context, partyID, inviterID, inviteeID string) (*models.PartyInvite, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.InviteToParty")
	defer span.End()

	invitedAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (party:Party {party_id: $party_id})
			MATCH (inviter:Player {player_id: $inviter_id})
			MATCH (invitee:Player {player_id: $invitee_id})
			OPTIONAL MATCH (inviter)-[im:IN_PARTY]->(party)
			OPTIONAL MATCH (invitee)-[em:IN_PARTY]->(party)
			RETURN count(im) > 0 AS inviter_member, count(em) > 0 AS already_member
		`, map[string]any{"party_id": partyID, "inviter_id": inviterID, "invitee_id": inviteeID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("party %s or one of the players does not exist", partyID)
		}
		if !graph.AsBool(state, "inviter_member") {
			return nil, Forbiddenf("player %s is not a member of party %s", inviterID, partyID)
		}
		if graph.AsBool(state, "already_member") {
			return nil, Conflictf("player %s is already in party %s", inviteeID, partyID)
		}

		result, err := tx.Run(ctx, `
			MATCH (party:Party {party_id: $party_id})
			MATCH (invitee:Player {player_id: $invitee_id})
			MERGE (invitee)-[i:INVITED_TO]->(party)
			ON CREATE SET i.invited_by = $inviter_id, i.invited_at = $invited_at
			RETURN party.party_id AS party_id, invitee.player_id AS invitee_id,
			       invitee.username AS invitee_username, i.invited_by AS invited_by, i.invited_at AS invited_at
		`, map[string]any{"party_id": partyID, "invitee_id": inviteeID, "inviter_id": inviterID, "invited_at": invitedAt})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("party invite returned no row", nil)
		}
		return &models.PartyInvite{
			PartyID:         graph.AsString(record, "party_id"),
			InviteeID:       graph.AsString(record, "invitee_id"),
			InviteeUsername: graph.AsString(record, "invitee_username"),
			InvitedBy:       graph.AsString(record, "invited_by"),
			InvitedAt:       graph.AsTime(record, "invited_at"),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.PartyInvite), nil
}

// JoinParty seats a player in a party and consumes any pending invite.
// Private parties require an invite; full parties reject the join.
func (l *Ledger) JoinParty(ctx context.Context, partyID, playerID string) (*models.PartyMember, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.JoinParty")
	defer span.End()

	joinedAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (player:Player {player_id: $player_id})
			MATCH (party:Party {party_id: $party_id})
			OPTIONAL MATCH (player)-[cur:IN_PARTY]->(:Party)
			OPTIONAL MATCH (member:Player)-[:IN_PARTY]->(party)
			OPTIONAL MATCH (player)-[inv:INVITED_TO]->(party)
			RETURN count(DISTINCT cur) > 0 AS in_party, count(DISTINCT member) AS member_count,
			       count(DISTINCT inv) > 0 AS invited, party.max_size AS max_size, party.is_public AS is_public
		`, map[string]any{"party_id": partyID, "player_id": playerID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("party %s or player %s does not exist", partyID, playerID)
		}
		if graph.AsBool(state, "in_party") {
			return nil, Conflictf("player %s is already in a party", playerID)
		}
		if graph.AsInt(state, "member_count") >= graph.AsInt(state, "max_size") {
			return nil, Conflictf("party %s is full", partyID)
		}
		if !graph.AsBool(state, "is_public") && !graph.AsBool(state, "invited") {
			return nil, Forbiddenf("party %s is private and player %s has no invite", partyID, playerID)
		}

		result, err := tx.Run(ctx, `
			MATCH (player:Player {player_id: $player_id})
			MATCH (party:Party {party_id: $party_id})
			OPTIONAL MATCH (player)-[inv:INVITED_TO]->(party)
			DELETE inv
			CREATE (player)-[m:IN_PARTY {joined_at: $joined_at, role: 'member'}]->(party)
			RETURN player.player_id AS player_id, player.username AS username,
			       m.role AS role, m.joined_at AS joined_at
		`, map[string]any{"party_id": partyID, "player_id": playerID, "joined_at": joinedAt})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("party join returned no row", nil)
		}
		return partyMemberFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.PartyMember), nil
}

// LeaveParty removes the player's IN_PARTY edge. When the leader leaves,
// the longest-seated remaining member is promoted so the party keeps
// exactly one leader.
func (l *Ledger) LeaveParty(ctx context.Context, partyID, playerID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.LeaveParty")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (player:Player {player_id: $player_id})-[m:IN_PARTY]->(party:Party {party_id: $party_id})
			WITH m, m.role AS role
			DELETE m
			RETURN role
		`, map[string]any{"party_id": partyID, "player_id": playerID})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s is not in party %s", playerID, partyID)
		}
		if graph.AsString(record, "role") != string(models.PartyLeader) {
			return nil, nil
		}

		_, err = tx.Run(ctx, `
			MATCH (member:Player)-[m:IN_PARTY]->(party:Party {party_id: $party_id})
			WITH m ORDER BY m.joined_at ASC LIMIT 1
			SET m.role = 'leader'
		`, map[string]any{"party_id": partyID})
		return nil, err
	})
	return err
}

// UpdateParty applies a partial update to the party node.
func (l *Ledger) UpdateParty(ctx context.Context, partyID string, update models.UpdatePartyRequest) (*models.Party, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.UpdateParty")
	defer span.End()

	setClauses := []string{}
	params := map[string]any{"party_id": partyID}
	if update.MaxSize != nil {
		setClauses = append(setClauses, "party.max_size = $max_size")
		params["max_size"] = *update.MaxSize
	}
	if update.IsPublic != nil {
		setClauses = append(setClauses, "party.is_public = $is_public")
		params["is_public"] = *update.IsPublic
	}
	if update.GameID != nil {
		setClauses = append(setClauses, "party.game_id = $game_id")
		params["game_id"] = *update.GameID
	}
	if len(setClauses) == 0 {
		return nil, InvalidStatef("no party fields to update")
	}

	cypher := fmt.Sprintf(`
		MATCH (party:Party {party_id: $party_id})
		SET %s
		RETURN party.party_id AS party_id, party.game_id AS game_id, party.max_size AS max_size,
		       party.is_public AS is_public, party.created_at AS created_at
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
			return nil, NotFoundf("party %s does not exist", partyID)
		}
		return partyFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Party), nil
}

// DisbandParty deletes the party node and every membership and invite edge.
func (l *Ledger) DisbandParty(ctx context.Context, partyID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.DisbandParty")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (party:Party {party_id: $party_id})
			DETACH DELETE party
			RETURN count(party) AS deleted
		`, map[string]any{"party_id": partyID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("party %s does not exist", partyID)
		}
		return nil, nil
	})
	return err
}

func partyFromRecord(record map[string]any) *models.Party {
	return &models.Party{
		PartyID:   graph.AsString(record, "party_id"),
		GameID:    graph.AsString(record, "game_id"),
		MaxSize:   graph.AsInt(record, "max_size"),
		IsPublic:  graph.AsBool(record, "is_public"),
		CreatedAt: graph.AsTime(record, "created_at"),
	}
}

func partyMemberFromRecord(record map[string]any) *models.PartyMember {
	return &models.PartyMember{
		PlayerID: graph.AsString(record, "player_id"),
		Username: graph.AsString(record, "username"),
		Role:     graph.AsString(record, "role"),
		JoinedAt: graph.AsTime(record, "joined_at"),
	}
}
