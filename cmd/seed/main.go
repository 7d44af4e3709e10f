// Command seed populates a local graph store with a small demo social
// graph: a handful of players, friendships, a group chat, a party and a
// clan. Intended for development environments only.
package main

import (
	"context"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/logging"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/social"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	logger, flush := logging.New("clover-seed")
	defer flush()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := graph.NewClient(graph.Config{
		Host:         cfg.GraphDBHost,
		Port:         cfg.GraphDBPort,
		Username:     cfg.GraphDBUser,
		Password:     cfg.GraphDBPassword,
		QueryTimeout: cfg.GraphQueryTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create graph client: %v", err)
	}
	defer client.Close(ctx)

	if err := client.Probe(ctx); err != nil {
		log.Fatalf("graph store unreachable: %v", err)
	}

	service := social.NewService(client, nil, social.Limits{
		MessagePageSizeDefault: cfg.MessagePageSizeDefault,
		MessagePageSizeMax:     cfg.MessagePageSizeMax,
		SuggestionLimitDefault: cfg.SuggestionLimitDefault,
		SuggestionLimitMax:     cfg.SuggestionLimitMax,
		ClanSearchLimit:        cfg.ClanSearchLimit,
	}, logger)

	seedPlayers := []models.CreatePlayerRequest{
		{PlayerID: "p-alice", Username: "alice", Status: "online"},
		{PlayerID: "p-bob", Username: "bob", Status: "in_game"},
		{PlayerID: "p-carol", Username: "carol", Status: "online"},
		{PlayerID: "p-dave", Username: "dave", Status: "away"},
		{PlayerID: "p-erin", Username: "erin", Status: "offline"},
	}
	for _, p := range seedPlayers {
		if _, err := service.CreatePlayer(ctx, p); err != nil {
			if social.IsConflict(err) {
				logger.WithField("player_id", p.PlayerID).Info("Player already seeded, skipping")
				continue
			}
			log.Fatalf("failed to seed player %s: %v", p.PlayerID, err)
		}
	}

	// alice <-> bob, alice <-> carol, bob <-> dave
	pairs := [][2]string{
		{"p-alice", "p-bob"},
		{"p-alice", "p-carol"},
		{"p-bob", "p-dave"},
	}
	for _, pair := range pairs {
		if _, err := service.SendFriendRequest(ctx, models.SendFriendRequestRequest{
			FromPlayerID: pair[0],
			ToPlayerID:   pair[1],
			Message:      "let's play",
		}); err != nil && !social.IsInvalidState(err) {
			log.Fatalf("failed to send request %s -> %s: %v", pair[0], pair[1], err)
		}
		if _, err := service.AcceptFriendRequest(ctx, pair[0], pair[1]); err != nil && !social.IsNotFound(err) {
			log.Fatalf("failed to accept request %s -> %s: %v", pair[0], pair[1], err)
		}
	}

	groupName := "weekend squad"
	if _, err := service.CreateConversation(ctx, models.CreateConversationRequest{
		Type:           string(models.ConversationGroup),
		ParticipantIDs: []string{"p-alice", "p-bob", "p-carol"},
		Name:           &groupName,
	}); err != nil {
		logger.WithError(err).Warn("Failed to seed group conversation")
	}

	if _, err := service.CreateParty(ctx, models.CreatePartyRequest{
		LeaderID: "p-bob",
		GameID:   "game-hexfall",
		MaxSize:  4,
		IsPublic: true,
	}); err != nil && !social.IsConflict(err) {
		logger.WithError(err).Warn("Failed to seed party")
	}

	if _, err := service.CreateClan(ctx, models.CreateClanRequest{
		Name:    "Night Owls",
		Tag:     "OWL",
		OwnerID: "p-alice",
	}); err != nil && !social.IsConflict(err) {
		logger.WithError(err).Warn("Failed to seed clan")
	}

	logger.Info("Seed complete")
}
