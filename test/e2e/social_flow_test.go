package e2e

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestFriendFlowPublishesEvents drives the friend lifecycle over HTTP and
// verifies the service publishes the matching events to Kafka.
func TestFriendFlowPublishesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := DefaultConfig()
	RequireService(t, cfg.SocialURL)

	kafkaHelper := NewKafkaHelper(cfg.KafkaBrokers)
	ctx := context.Background()
	testStart := time.Now().Add(-1 * time.Second)

	alice := uniqueID("e2e-alice")
	bob := uniqueID("e2e-bob")
	aliceClient := NewHTTPClient(cfg.SocialURL, alice)
	bobClient := NewHTTPClient(cfg.SocialURL, bob)

	// Create both players
	resp, err := aliceClient.Post("/api/v1/players", map[string]any{
		"player_id": alice,
		"username":  alice,
		"status":    "online",
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	resp, err = bobClient.Post("/api/v1/players", map[string]any{
		"player_id": bob,
		"username":  bob,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	defer func() {
		for _, id := range []string{alice, bob} {
			resp, err := aliceClient.Delete("/api/v1/players/" + id)
			if err == nil {
				resp.Body.Close()
			}
		}
	}()

	// Friend request and acceptance
	resp, err = aliceClient.Post("/api/v1/friends/requests", map[string]any{
		"from_player_id": alice,
		"to_player_id":   bob,
		"message":        "gg, add me",
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	resp, err = bobClient.Post("/api/v1/friends/requests/accept", map[string]any{
		"from_player_id": alice,
		"to_player_id":   bob,
	})
	RequireStatus(t, resp, err, http.StatusOK)
	friendship, err := ParseResponse[map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse friendship: %v", err)
	}
	if friendship["since"] == nil {
		t.Fatal("friendship is missing 'since'")
	}

	// Both friend lists agree
	for _, client := range []*HTTPClient{aliceClient, bobClient} {
		resp, err := client.Get("/api/v1/friends/" + client.playerID)
		RequireStatus(t, resp, err, http.StatusOK)
		friends, err := ParseResponse[[]map[string]any](resp)
		if err != nil {
			t.Fatalf("failed to parse friends list: %v", err)
		}
		if len(friends) != 1 {
			t.Fatalf("expected 1 friend for %s, got %d", client.playerID, len(friends))
		}
	}

	// The lifecycle events reached Kafka
	t.Log("Consuming social events...")
	groupID := fmt.Sprintf("e2e-friend-flow-%d", time.Now().UnixNano())
	events, err := kafkaHelper.ConsumeEventsAfter(ctx, cfg.EventsTopic, groupID, 30*time.Second, 100, testStart)
	if err != nil {
		t.Fatalf("failed to consume events: %v", err)
	}

	if FindEvent(events, "friend.request_sent", alice) == nil {
		t.Errorf("no friend.request_sent event for %s in %d events", alice, len(events))
	}
	accepted := FindEvent(events, "friend.request_accepted", bob)
	if accepted == nil {
		t.Fatalf("no friend.request_accepted event for %s in %d events", bob, len(events))
	}
	if accepted.TargetID != alice {
		t.Errorf("expected accepted event target %s, got %s", alice, accepted.TargetID)
	}
}

// TestBlockFlow verifies over HTTP that blocking removes the friendship
// and that the block endpoint is idempotent.
func TestBlockFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := DefaultConfig()
	RequireService(t, cfg.SocialURL)

	alice := uniqueID("e2e-alice")
	bob := uniqueID("e2e-bob")
	client := NewHTTPClient(cfg.SocialURL, alice)

	for _, id := range []string{alice, bob} {
		resp, err := client.Post("/api/v1/players", map[string]any{
			"player_id": id,
			"username":  id,
		})
		RequireStatus(t, resp, err, http.StatusCreated)
		resp.Body.Close()
	}
	defer func() {
		for _, id := range []string{alice, bob} {
			resp, err := client.Delete("/api/v1/players/" + id)
			if err == nil {
				resp.Body.Close()
			}
		}
	}()

	resp, err := client.Post("/api/v1/friends/requests", map[string]any{
		"from_player_id": alice,
		"to_player_id":   bob,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	resp, err = client.Post("/api/v1/friends/requests/accept", map[string]any{
		"from_player_id": alice,
		"to_player_id":   bob,
	})
	RequireStatus(t, resp, err, http.StatusOK)
	resp.Body.Close()

	// Block twice, both succeed
	for i := 0; i < 2; i++ {
		resp, err = client.Post("/api/v1/blocks", map[string]any{
			"blocker_id": alice,
			"blocked_id": bob,
		})
		RequireStatus(t, resp, err, http.StatusCreated)
		resp.Body.Close()
	}

	// Friendship is gone
	resp, err = client.Get("/api/v1/friends/" + alice)
	RequireStatus(t, resp, err, http.StatusOK)
	friends, err := ParseResponse[[]map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse friends list: %v", err)
	}
	if len(friends) != 0 {
		t.Fatalf("expected no friends after block, got %d", len(friends))
	}

	// A new request while blocked is rejected
	resp, err = client.Post("/api/v1/friends/requests", map[string]any{
		"from_player_id": bob,
		"to_player_id":   alice,
	})
	RequireStatus(t, resp, err, http.StatusBadRequest)
	resp.Body.Close()
}
