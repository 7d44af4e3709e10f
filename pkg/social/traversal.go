package social

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Traversal owns the read side of the graph: bounded one and two hop
// queries. Nothing here mutates the store.
type Traversal struct {
	client *graph.Client
	logger ectologger.Logger
}

// NewTraversal creates a new traversal engine
func NewTraversal(client *graph.Client, logger ectologger.Logger) *Traversal {
	return &Traversal{
		client: client,
		logger: logger,
	}
}

// playerExists distinguishes "no relationships" from "no such player"
// inside a read transaction that came back empty.
func playerExists(ctx context.Context, tx neo4j.ManagedTransaction, playerID string) (bool, error) {
	result, err := tx.Run(ctx, `
		MATCH (p:Player {player_id: $player_id})
		RETURN p.player_id AS player_id
		LIMIT 1
	`, map[string]any{"player_id": playerID})
	if err != nil {
		return false, err
	}
	_, ok, err := singleRecord(ctx, result)
	return ok, err
}

// GetPlayer returns the player node.
func (t *Traversal) GetPlayer(ctx context.Context, playerID string) (*models.PlayerNode, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetPlayer")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})
			RETURN p.player_id AS player_id, p.username AS username, p.status AS status
		`, map[string]any{"player_id": playerID})
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

// GetFriends returns every FRIENDS_WITH neighbor with edge attributes.
func (t *Traversal) GetFriends(ctx context.Context, playerID string) ([]models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetFriends")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[f:FRIENDS_WITH]->(friend:Player)
			RETURN friend.player_id AS player_id, friend.username AS username, friend.status AS status,
			       f.since AS friends_since, f.nickname AS nickname
			ORDER BY friend.username ASC
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			if ok, err := playerExists(ctx, tx, playerID); err != nil {
				return nil, err
			} else if !ok {
				return nil, NotFoundf("player %s does not exist", playerID)
			}
		}
		friends := make([]models.Friend, 0, len(rows))
		for _, row := range rows {
			friends = append(friends, *friendFromRecord(row))
		}
		return friends, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.Friend), nil
}

// GetMutualFriends returns players friends with both inputs, as a single
// two hop traversal.
func (t *Traversal) GetMutualFriends(ctx context.Context, player1ID, player2ID string) ([]models.PlayerNode, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetMutualFriends")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p1:Player {player_id: $player1_id})-[:FRIENDS_WITH]->(mutual:Player)<-[:FRIENDS_WITH]-(p2:Player {player_id: $player2_id})
			RETURN mutual.player_id AS player_id, mutual.username AS username, mutual.status AS status
			ORDER BY mutual.username ASC
		`, map[string]any{"player1_id": player1ID, "player2_id": player2ID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			for _, id := range []string{player1ID, player2ID} {
				if ok, err := playerExists(ctx, tx, id); err != nil {
					return nil, err
				} else if !ok {
					return nil, NotFoundf("player %s does not exist", id)
				}
			}
		}
		players := make([]models.PlayerNode, 0, len(rows))
		for _, row := range rows {
			players = append(players, *playerFromRecord(row))
		}
		return players, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.PlayerNode), nil
}

// GetPendingRequests returns inbound SENT_REQUEST edges for the player.
func (t *Traversal) GetPendingRequests(ctx context.Context, playerID string) ([]models.FriendRequest, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetPendingRequests")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (from:Player)-[r:SENT_REQUEST]->(to:Player {player_id: $player_id})
			RETURN from.player_id AS from_player_id, from.username AS from_username,
			       to.player_id AS to_player_id, to.username AS to_username,
			       r.message AS message, r.sent_at AS sent_at
			ORDER BY r.sent_at DESC
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			if ok, err := playerExists(ctx, tx, playerID); err != nil {
				return nil, err
			} else if !ok {
				return nil, NotFoundf("player %s does not exist", playerID)
			}
		}
		requests := make([]models.FriendRequest, 0, len(rows))
		for _, row := range rows {
			requests = append(requests, *friendRequestFromRecord(row))
		}
		return requests, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.FriendRequest), nil
}

// GetBlockedPlayers returns the player's outbound BLOCKED edges.
func (t *Traversal) GetBlockedPlayers(ctx context.Context, playerID string) ([]models.Block, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetBlockedPlayers")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[b:BLOCKED]->(blocked:Player)
			RETURN blocked.player_id AS blocked_player_id, blocked.username AS blocked_username,
			       b.since AS blocked_since, b.reason AS reason
			ORDER BY b.since DESC
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			if ok, err := playerExists(ctx, tx, playerID); err != nil {
				return nil, err
			} else if !ok {
				return nil, NotFoundf("player %s does not exist", playerID)
			}
		}
		blocks := make([]models.Block, 0, len(rows))
		for _, row := range rows {
			blocks = append(blocks, models.Block{
				BlockedPlayerID: graph.AsString(row, "blocked_player_id"),
				BlockedUsername: graph.AsString(row, "blocked_username"),
				BlockedSince:    graph.AsTime(row, "blocked_since"),
				Reason:          graph.AsStringPtr(row, "reason"),
			})
		}
		return blocks, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.Block), nil
}

// GetFollowing returns the players this player follows.
func (t *Traversal) GetFollowing(ctx context.Context, playerID string) ([]models.FollowedPlayer, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetFollowing")
	defer span.End()

	return t.followEdges(ctx, playerID, `
		MATCH (p:Player {player_id: $player_id})-[f:FOLLOWS]->(other:Player)
		RETURN other.player_id AS player_id, other.username AS username,
		       other.status AS status, f.since AS following_since
		ORDER BY f.since DESC
	`)
}

// GetFollowers returns the players following this player.
func (t *Traversal) GetFollowers(ctx context.Context, playerID string) ([]models.FollowedPlayer, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetFollowers")
	defer span.End()

	return t.followEdges(ctx, playerID, `
		MATCH (other:Player)-[f:FOLLOWS]->(p:Player {player_id: $player_id})
		RETURN other.player_id AS player_id, other.username AS username,
		       other.status AS status, f.since AS following_since
		ORDER BY f.since DESC
	`)
}

func (t *Traversal) followEdges(ctx context.Context, playerID, cypher string) ([]models.FollowedPlayer, error) {
	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			if ok, err := playerExists(ctx, tx, playerID); err != nil {
				return nil, err
			} else if !ok {
				return nil, NotFoundf("player %s does not exist", playerID)
			}
		}
		followed := make([]models.FollowedPlayer, 0, len(rows))
		for _, row := range rows {
			followed = append(followed, *followedPlayerFromRecord(row))
		}
		return followed, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.FollowedPlayer), nil
}

// suggestionRows runs the two hop candidate query. It returns one row per
// (candidate, intermediate) pair; the ranking happens in Go. Candidates
// exclude the player, existing friends, and anyone with a block in either
// direction.
func (t *Traversal) suggestionRows(ctx context.Context, playerID string) ([]suggestionRow, error) {
	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if ok, err := playerExists(ctx, tx, playerID); err != nil {
			return nil, err
		} else if !ok {
			return nil, NotFoundf("player %s does not exist", playerID)
		}

		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[:FRIENDS_WITH]->(friend:Player)-[:FRIENDS_WITH]->(candidate:Player)
			WHERE candidate.player_id <> $player_id
			  AND NOT (p)-[:FRIENDS_WITH]->(candidate)
			  AND NOT (p)-[:BLOCKED]-(candidate)
			RETURN candidate.player_id AS player_id, candidate.username AS username,
			       candidate.status AS status, friend.player_id AS via
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		out := make([]suggestionRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, suggestionRow{
				PlayerID: graph.AsString(row, "player_id"),
				Username: graph.AsString(row, "username"),
				Status:   graph.AsString(row, "status"),
				Via:      graph.AsString(row, "via"),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]suggestionRow), nil
}

// GetFriendSuggestions returns friend-of-friend candidates ranked by
// distinct mutual friends.
func (t *Traversal) GetFriendSuggestions(ctx context.Context, playerID string, limit int) ([]models.FriendSuggestion, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetFriendSuggestions")
	defer span.End()

	rows, err := t.suggestionRows(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return rankSuggestions(rows, limit), nil
}

// GetConversation returns a conversation with its resolved participants.
func (t *Traversal) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetConversation")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (c:Conversation {conversation_id: $conversation_id})
			OPTIONAL MATCH (p:Player)-[m:MEMBER_OF]->(c)
			RETURN c.conversation_id AS conversation_id, c.type AS conversation_type,
			       c.name AS name, c.created_at AS created_at, c.last_message_at AS last_message_at,
			       collect({player_id: p.player_id, username: p.username, status: p.status,
			                role: m.role, muted: m.muted, joined_at: m.joined_at}) AS participants
		`, map[string]any{"conversation_id": conversationID})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("conversation %s does not exist", conversationID)
		}

		conv := &models.Conversation{
			ConversationID: graph.AsString(record, "conversation_id"),
			Type:           graph.AsString(record, "conversation_type"),
			Name:           graph.AsStringPtr(record, "name"),
			CreatedAt:      graph.AsTime(record, "created_at"),
			LastMessageAt:  graph.AsTimePtr(record, "last_message_at"),
		}
		for _, entry := range graph.AsMapList(record, "participants") {
			conv.Participants = append(conv.Participants, models.ConversationMember{
				PlayerID: graph.AsString(entry, "player_id"),
				Username: graph.AsString(entry, "username"),
				Status:   graph.AsString(entry, "status"),
				Role:     graph.AsString(entry, "role"),
				Muted:    graph.AsBool(entry, "muted"),
				JoinedAt: graph.AsTime(entry, "joined_at"),
			})
		}
		return conv, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Conversation), nil
}

// GetPlayerConversations lists the player's conversations, most recent
// activity first, with the other participants denormalized.
func (t *Traversal) GetPlayerConversations(ctx context.Context, playerID string) ([]models.ConversationSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetPlayerConversations")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[:MEMBER_OF]->(c:Conversation)
			OPTIONAL MATCH (other:Player)-[:MEMBER_OF]->(c)
			WHERE other.player_id <> $player_id
			RETURN c.conversation_id AS conversation_id, c.type AS conversation_type,
			       c.name AS name, c.created_at AS created_at, c.last_message_at AS last_message_at,
			       collect({player_id: other.player_id, username: other.username, status: other.status}) AS others
			ORDER BY coalesce(c.last_message_at, c.created_at) DESC
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			if ok, err := playerExists(ctx, tx, playerID); err != nil {
				return nil, err
			} else if !ok {
				return nil, NotFoundf("player %s does not exist", playerID)
			}
		}
		summaries := make([]models.ConversationSummary, 0, len(rows))
		for _, row := range rows {
			summary := models.ConversationSummary{
				ConversationID: graph.AsString(row, "conversation_id"),
				Type:           graph.AsString(row, "conversation_type"),
				Name:           graph.AsStringPtr(row, "name"),
				CreatedAt:      graph.AsTime(row, "created_at"),
				LastMessageAt:  graph.AsTimePtr(row, "last_message_at"),
				OtherParticipants: []models.PlayerNode{},
			}
			for _, entry := range graph.AsMapList(row, "others") {
				summary.OtherParticipants = append(summary.OtherParticipants, *playerFromRecord(entry))
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.ConversationSummary), nil
}

// GetMessages pages through a conversation's messages, newest first.
// Ties on timestamp break by message_id so pages are stable.
func (t *Traversal) GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetMessages")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := tx.Run(ctx, `
			MATCH (c:Conversation {conversation_id: $conversation_id})
			RETURN c.conversation_id AS conversation_id
			LIMIT 1
		`, map[string]any{"conversation_id": conversationID})
		if err != nil {
			return nil, err
		}
		if _, ok, err := singleRecord(ctx, exists); err != nil {
			return nil, err
		} else if !ok {
			return nil, NotFoundf("conversation %s does not exist", conversationID)
		}

		result, err := tx.Run(ctx, `
			MATCH (c:Conversation {conversation_id: $conversation_id})-[:CONTAINS]->(msg:Message)
			MATCH (sender:Player)-[:SENT]->(msg)
			RETURN msg.message_id AS message_id, c.conversation_id AS conversation_id,
			       sender.player_id AS sender_id, sender.username AS sender_username,
			       msg.content AS content, msg.timestamp AS timestamp,
			       msg.edited AS edited, msg.edited_at AS edited_at
			ORDER BY msg.timestamp DESC, msg.message_id ASC
			SKIP $offset LIMIT $limit
		`, map[string]any{"conversation_id": conversationID, "offset": offset, "limit": limit})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		messages := make([]models.Message, 0, len(rows))
		for _, row := range rows {
			messages = append(messages, *messageFromRecord(row))
		}
		return messages, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.Message), nil
}

// GetParty returns the party with its resolved members.
func (t *Traversal) GetParty(ctx context.Context, partyID string) (*models.Party, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetParty")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (party:Party {party_id: $party_id})
			OPTIONAL MATCH (member:Player)-[m:IN_PARTY]->(party)
			RETURN party.party_id AS party_id, party.game_id AS game_id, party.max_size AS max_size,
			       party.is_public AS is_public, party.created_at AS created_at,
			       collect({player_id: member.player_id, username: member.username,
			                role: m.role, joined_at: m.joined_at}) AS members
		`, map[string]any{"party_id": partyID})
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

		party := partyFromRecord(record)
		for _, entry := range graph.AsMapList(record, "members") {
			party.Members = append(party.Members, *partyMemberFromRecord(entry))
		}
		return party, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Party), nil
}

// GetPlayerParty returns the party the player is currently in.
func (t *Traversal) GetPlayerParty(ctx context.Context, playerID string) (*models.Party, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetPlayerParty")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[:IN_PARTY]->(party:Party)
			OPTIONAL MATCH (member:Player)-[m:IN_PARTY]->(party)
			RETURN party.party_id AS party_id, party.game_id AS game_id, party.max_size AS max_size,
			       party.is_public AS is_public, party.created_at AS created_at,
			       collect({player_id: member.player_id, username: member.username,
			                role: m.role, joined_at: m.joined_at}) AS members
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s is not in a party", playerID)
		}

		party := partyFromRecord(record)
		for _, entry := range graph.AsMapList(record, "members") {
			party.Members = append(party.Members, *partyMemberFromRecord(entry))
		}
		return party, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Party), nil
}

// GetClan returns the clan with its resolved members, rank order.
func (t *Traversal) GetClan(ctx context.Context, clanID string) (*models.Clan, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetClan")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (clan:Clan {clan_id: $clan_id})
			OPTIONAL MATCH (member:Player)-[bt:BELONGS_TO]->(clan)
			WITH clan, member, bt ORDER BY bt.rank ASC
			RETURN clan.clan_id AS clan_id, clan.name AS name, clan.tag AS tag,
			       clan.description AS description, clan.created_at AS created_at,
			       count(member) AS member_count,
			       collect({player_id: member.player_id, username: member.username,
			                role: bt.role, rank: bt.rank, joined_at: bt.joined_at}) AS members
		`, map[string]any{"clan_id": clanID})
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

		clan := clanFromRecord(record)
		for _, entry := range graph.AsMapList(record, "members") {
			clan.Members = append(clan.Members, *clanMemberFromRecord(entry))
		}
		return clan, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Clan), nil
}

// GetPlayerClan returns the clan the player belongs to, from the
// player's side of the edge.
func (t *Traversal) GetPlayerClan(ctx context.Context, playerID string) (*models.PlayerClan, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.GetPlayerClan")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[bt:BELONGS_TO]->(clan:Clan)
			RETURN clan.clan_id AS clan_id, clan.name AS name, clan.tag AS tag,
			       bt.role AS role, bt.rank AS rank
		`, map[string]any{"player_id": playerID})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("player %s is not in a clan", playerID)
		}
		return &models.PlayerClan{
			ClanID: graph.AsString(record, "clan_id"),
			Name:   graph.AsString(record, "name"),
			Tag:    graph.AsString(record, "tag"),
			Role:   graph.AsString(record, "role"),
			Rank:   graph.AsInt(record, "rank"),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.PlayerClan), nil
}

// SearchClans matches clans by name or tag substring, case insensitive.
func (t *Traversal) SearchClans(ctx context.Context, term string, limit int) ([]models.Clan, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Traversal.SearchClans")
	defer span.End()

	res, err := t.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (clan:Clan)
			WHERE toLower(clan.name) CONTAINS toLower($term) OR toLower(clan.tag) CONTAINS toLower($term)
			OPTIONAL MATCH (member:Player)-[:BELONGS_TO]->(clan)
			RETURN clan.clan_id AS clan_id, clan.name AS name, clan.tag AS tag,
			       clan.description AS description, clan.created_at AS created_at,
			       count(member) AS member_count
			ORDER BY member_count DESC, clan.name ASC
			LIMIT $limit
		`, map[string]any{"term": term, "limit": limit})
		if err != nil {
			return nil, err
		}
		rows, err := collectRecords(ctx, result)
		if err != nil {
			return nil, err
		}
		clans := make([]models.Clan, 0, len(rows))
		for _, row := range rows {
			clans = append(clans, *clanFromRecord(row))
		}
		return clans, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.Clan), nil
}
