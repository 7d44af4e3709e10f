package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// CreateConversation creates a conversation node and a MEMBER_OF edge for
// every participant in one transaction. If any participant is missing the
// whole creation rolls back.
func (l *Ledger) CreateConversation(ctx context.Context, convType string, participantIDs []string, name *string) (*models.Conversation, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.CreateConversation")
	defer span.End()

	conversationID := uuid.NewString()
	createdAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			CREATE (c:Conversation {conversation_id: $conversation_id, type: $type, name: $name, created_at: $created_at})
			WITH c
			UNWIND $participant_ids AS pid
			MATCH (p:Player {player_id: pid})
			CREATE (p)-[m:MEMBER_OF {joined_at: $created_at, role: 'member', muted: false}]->(c)
			RETURN c.conversation_id AS conversation_id, c.type AS conversation_type,
			       c.name AS name, c.created_at AS created_at, count(p) AS joined,
			       collect({player_id: p.player_id, username: p.username, status: p.status,
			                role: m.role, muted: m.muted, joined_at: m.joined_at}) AS participants
		`, map[string]any{
			"conversation_id": conversationID,
			"type":            convType,
			"name":            name,
			"created_at":      createdAt,
			"participant_ids": participantIDs,
		})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok || graph.AsInt(record, "joined") != len(participantIDs) {
			return nil, NotFoundf("one or more participants do not exist")
		}

		conv := &models.Conversation{
			ConversationID: graph.AsString(record, "conversation_id"),
			Type:           graph.AsString(record, "conversation_type"),
			Name:           graph.AsStringPtr(record, "name"),
			CreatedAt:      graph.AsTime(record, "created_at"),
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

// SendMessage creates a message node with its SENT and CONTAINS edges and
// bumps the conversation's last_message_at, all in one transaction. Only
// members may send; non-members get Forbidden.
func (l *Ledger) SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.SendMessage")
	defer span.End()

	messageID := uuid.NewString()
	timestamp := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		guard, err := tx.Run(ctx, `
			MATCH (c:Conversation {conversation_id: $conversation_id})
			MATCH (sender:Player {player_id: $sender_id})
			OPTIONAL MATCH (sender)-[m:MEMBER_OF]->(c)
			RETURN count(m) > 0 AS is_member
		`, map[string]any{"conversation_id": conversationID, "sender_id": senderID})
		if err != nil {
			return nil, err
		}
		state, ok, err := singleRecord(ctx, guard)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("conversation %s or player %s does not exist", conversationID, senderID)
		}
		if !graph.AsBool(state, "is_member") {
			return nil, Forbiddenf("player %s is not a participant of conversation %s", senderID, conversationID)
		}

		result, err := tx.Run(ctx, `
			MATCH (sender:Player {player_id: $sender_id})-[:MEMBER_OF]->(c:Conversation {conversation_id: $conversation_id})
			CREATE (msg:Message {message_id: $message_id, content: $content, timestamp: $timestamp, edited: false})
			CREATE (sender)-[:SENT]->(msg)
			CREATE (c)-[:CONTAINS]->(msg)
			SET c.last_message_at = $timestamp
			RETURN msg.message_id AS message_id, c.conversation_id AS conversation_id,
			       sender.player_id AS sender_id, sender.username AS sender_username,
			       msg.content AS content, msg.timestamp AS timestamp, msg.edited AS edited
		`, map[string]any{
			"conversation_id": conversationID,
			"sender_id":       senderID,
			"message_id":      messageID,
			"content":         content,
			"timestamp":       timestamp,
		})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Internal("message create returned no row", nil)
		}
		return messageFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Message), nil
}

// EditMessage replaces the content and marks the message edited.
func (l *Ledger) EditMessage(ctx context.Context, messageID, content string) (*models.Message, error) {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.EditMessage")
	defer span.End()

	editedAt := time.Now().UTC()

	res, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (sender:Player)-[:SENT]->(msg:Message {message_id: $message_id})<-[:CONTAINS]-(c:Conversation)
			SET msg.content = $content, msg.edited = true, msg.edited_at = $edited_at
			RETURN msg.message_id AS message_id, c.conversation_id AS conversation_id,
			       sender.player_id AS sender_id, sender.username AS sender_username,
			       msg.content AS content, msg.timestamp AS timestamp,
			       msg.edited AS edited, msg.edited_at AS edited_at
		`, map[string]any{"message_id": messageID, "content": content, "edited_at": editedAt})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundf("message %s does not exist", messageID)
		}
		return messageFromRecord(record), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Message), nil
}

// DeleteMessage detach-deletes the message node.
func (l *Ledger) DeleteMessage(ctx context.Context, messageID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.DeleteMessage")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (msg:Message {message_id: $message_id})
			DETACH DELETE msg
			RETURN count(msg) AS deleted
		`, map[string]any{"message_id": messageID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("message %s does not exist", messageID)
		}
		return nil, nil
	})
	return err
}

// MuteConversation flips the muted flag on the player's MEMBER_OF edge.
func (l *Ledger) MuteConversation(ctx context.Context, conversationID, playerID string, muted bool) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.MuteConversation")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Player {player_id: $player_id})-[m:MEMBER_OF]->(c:Conversation {conversation_id: $conversation_id})
			SET m.muted = $muted
			RETURN count(m) AS updated
		`, map[string]any{"conversation_id": conversationID, "player_id": playerID, "muted": muted})
		if err != nil {
			return nil, err
		}
		record, ok, err := singleRecord(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok || graph.AsInt(record, "updated") == 0 {
			return nil, NotFoundf("player %s is not a participant of conversation %s", playerID, conversationID)
		}
		return nil, nil
	})
	return err
}

// LeaveConversation removes the player's MEMBER_OF edge. The message
// history stays intact.
func (l *Ledger) LeaveConversation(ctx context.Context, conversationID, playerID string) error {
	ctx, span := tracing.StartSpan(ctx, "social.Ledger.LeaveConversation")
	defer span.End()

	_, err := l.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		deleted, err := deletedCount(ctx, tx, `
			MATCH (p:Player {player_id: $player_id})-[m:MEMBER_OF]->(c:Conversation {conversation_id: $conversation_id})
			DELETE m
			RETURN count(m) AS deleted
		`, map[string]any{"conversation_id": conversationID, "player_id": playerID})
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, NotFoundf("player %s is not a participant of conversation %s", playerID, conversationID)
		}
		return nil, nil
	})
	return err
}

func messageFromRecord(record map[string]any) *models.Message {
	return &models.Message{
		MessageID:      graph.AsString(record, "message_id"),
		ConversationID: graph.AsString(record, "conversation_id"),
		SenderID:       graph.AsString(record, "sender_id"),
		SenderUsername: graph.AsString(record, "sender_username"),
		Content:        graph.AsString(record, "content"),
		Timestamp:      graph.AsTime(record, "timestamp"),
		Edited:         graph.AsBool(record, "edited"),
		EditedAt:       graph.AsTimePtr(record, "edited_at"),
	}
}
