package e2e

import (
	"fmt"
	"net/http"
	"testing"
)

func createPlayers(t *testing.T, client *HTTPClient, ids ...string) func() {
	t.Helper()
	for _, id := range ids {
		resp, err := client.Post("/api/v1/players", map[string]any{
			"player_id": id,
			"username":  id,
		})
		RequireStatus(t, resp, err, http.StatusCreated)
		resp.Body.Close()
	}
	return func() {
		for _, id := range ids {
			resp, err := client.Delete("/api/v1/players/" + id)
			if err == nil {
				resp.Body.Close()
			}
		}
	}
}

// TestConversationFlow creates a group chat over HTTP, exchanges messages
// and pages through the history.
func TestConversationFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := DefaultConfig()
	RequireService(t, cfg.SocialURL)

	alice := uniqueID("e2e-alice")
	bob := uniqueID("e2e-bob")
	carol := uniqueID("e2e-carol")
	client := NewHTTPClient(cfg.SocialURL, alice)
	cleanup := createPlayers(t, client, alice, bob, carol)
	defer cleanup()

	resp, err := client.Post("/api/v1/conversations", map[string]any{
		"conversation_type": "group",
		"participant_ids":   []string{alice, bob, carol},
		"name":              "raid night",
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	conv, err := ParseResponse[map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse conversation: %v", err)
	}
	convID, _ := conv["conversation_id"].(string)
	if convID == "" {
		t.Fatal("conversation is missing 'conversation_id'")
	}

	for i, sender := range []string{alice, bob, alice} {
		resp, err := client.Post(fmt.Sprintf("/api/v1/conversations/%s/messages", convID), map[string]any{
			"sender_id": sender,
			"content":   fmt.Sprintf("message %d", i),
		})
		RequireStatus(t, resp, err, http.StatusCreated)
		resp.Body.Close()
	}

	// Newest first, paged
	resp, err = client.Get(fmt.Sprintf("/api/v1/conversations/%s/messages?limit=2&offset=0", convID))
	RequireStatus(t, resp, err, http.StatusOK)
	page, err := ParseResponse[[]map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse messages: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 messages on first page, got %d", len(page))
	}
	if page[0]["content"] != "message 2" {
		t.Errorf("expected newest message first, got %v", page[0]["content"])
	}

	// Outsiders cannot post
	eve := uniqueID("e2e-eve")
	cleanupEve := createPlayers(t, client, eve)
	defer cleanupEve()

	resp, err = client.Post(fmt.Sprintf("/api/v1/conversations/%s/messages", convID), map[string]any{
		"sender_id": eve,
		"content":   "hi all",
	})
	RequireStatus(t, resp, err, http.StatusForbidden)
	resp.Body.Close()
}

// TestPartyFlow covers create, invite, join and leader hand-off over HTTP.
func TestPartyFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := DefaultConfig()
	RequireService(t, cfg.SocialURL)

	leader := uniqueID("e2e-leader")
	member := uniqueID("e2e-member")
	client := NewHTTPClient(cfg.SocialURL, leader)
	cleanup := createPlayers(t, client, leader, member)
	defer cleanup()

	resp, err := client.Post("/api/v1/parties", map[string]any{
		"leader_id": leader,
		"game_id":   "game-hexfall",
		"max_size":  4,
		"is_public": false,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	party, err := ParseResponse[map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse party: %v", err)
	}
	partyID, _ := party["party_id"].(string)
	if partyID == "" {
		t.Fatal("party is missing 'party_id'")
	}
	defer func() {
		resp, err := client.Delete("/api/v1/parties/" + partyID)
		if err == nil {
			resp.Body.Close()
		}
	}()

	// Private party rejects uninvited joins
	resp, err = client.Post(fmt.Sprintf("/api/v1/parties/%s/join", partyID), map[string]any{
		"player_id": member,
	})
	RequireStatus(t, resp, err, http.StatusForbidden)
	resp.Body.Close()

	resp, err = client.Post("/api/v1/parties/invites", map[string]any{
		"party_id":   partyID,
		"inviter_id": leader,
		"invitee_id": member,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	resp, err = client.Post(fmt.Sprintf("/api/v1/parties/%s/join", partyID), map[string]any{
		"player_id": member,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	// Leader leaves, the remaining member is promoted
	resp, err = client.Delete(fmt.Sprintf("/api/v1/parties/%s/members/%s", partyID, leader))
	RequireStatus(t, resp, err, http.StatusNoContent)
	resp.Body.Close()

	resp, err = client.Get("/api/v1/parties/" + partyID)
	RequireStatus(t, resp, err, http.StatusOK)
	party, err = ParseResponse[map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse party: %v", err)
	}
	members, _ := party["members"].([]any)
	if len(members) != 1 {
		t.Fatalf("expected 1 member after leader left, got %d", len(members))
	}
	first, _ := members[0].(map[string]any)
	if first["role"] != "leader" {
		t.Errorf("expected remaining member to be promoted to leader, got role %v", first["role"])
	}
}

// TestClanFlow covers create, search, join and rank assignment over HTTP.
func TestClanFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := DefaultConfig()
	RequireService(t, cfg.SocialURL)

	owner := uniqueID("e2e-owner")
	recruit := uniqueID("e2e-recruit")
	client := NewHTTPClient(cfg.SocialURL, owner)
	cleanup := createPlayers(t, client, owner, recruit)
	defer cleanup()

	clanName := uniqueID("e2e clan")
	resp, err := client.Post("/api/v1/clans", map[string]any{
		"name":     clanName,
		"tag":      "E2E",
		"owner_id": owner,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	clan, err := ParseResponse[map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse clan: %v", err)
	}
	clanID, _ := clan["clan_id"].(string)
	if clanID == "" {
		t.Fatal("clan is missing 'clan_id'")
	}
	defer func() {
		resp, err := client.Delete("/api/v1/clans/" + clanID)
		if err == nil {
			resp.Body.Close()
		}
	}()

	resp, err = client.Post(fmt.Sprintf("/api/v1/clans/%s/join", clanID), map[string]any{
		"player_id": recruit,
	})
	RequireStatus(t, resp, err, http.StatusCreated)
	joined, err := ParseResponse[map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse clan member: %v", err)
	}
	if rank, _ := joined["rank"].(float64); rank != 2 {
		t.Errorf("expected recruit to get rank 2, got %v", joined["rank"])
	}

	// A player already in a clan cannot join another
	resp, err = client.Post("/api/v1/clans", map[string]any{
		"name":     clanName + " rival",
		"tag":      "RVL",
		"owner_id": recruit,
	})
	RequireStatus(t, resp, err, http.StatusBadRequest)
	resp.Body.Close()

	// The clan shows up in search
	resp, err = client.Get("/api/v1/clans/search?q=E2E")
	RequireStatus(t, resp, err, http.StatusOK)
	clans, err := ParseResponse[[]map[string]any](resp)
	if err != nil {
		t.Fatalf("failed to parse clan search: %v", err)
	}
	found := false
	for _, c := range clans {
		if c["clan_id"] == clanID {
			found = true
		}
	}
	if !found {
		t.Errorf("clan %s not found in search results", clanID)
	}
}
