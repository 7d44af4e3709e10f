package integration

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/social"
)

// newTestService connects to a live graph store. Tests are skipped in
// short mode and when GRAPH_DB_HOST is not set.
func newTestService(t *testing.T) *social.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	host := os.Getenv("GRAPH_DB_HOST")
	if host == "" {
		t.Skip("GRAPH_DB_HOST not set, skipping integration test")
	}
	port := 7687
	if p := os.Getenv("GRAPH_DB_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		require.NoError(t, err)
		port = parsed
	}

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	client, err := graph.NewClient(graph.Config{
		Host:         host,
		Port:         port,
		Username:     os.Getenv("GRAPH_DB_USER"),
		Password:     os.Getenv("GRAPH_DB_PASSWORD"),
		QueryTimeout: 10 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Probe(ctx); err != nil {
		t.Skipf("graph store unreachable: %v", err)
	}

	return social.NewService(client, nil, social.Limits{
		MessagePageSizeDefault: 50,
		MessagePageSizeMax:     200,
		SuggestionLimitDefault: 10,
		SuggestionLimitMax:     50,
		ClanSearchLimit:        25,
	}, logger)
}

func seedPlayer(t *testing.T, svc *social.Service, prefix string) string {
	t.Helper()
	id := fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	_, err := svc.CreatePlayer(context.Background(), models.CreatePlayerRequest{
		PlayerID: id,
		Username: id,
		Status:   "online",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.DeletePlayer(context.Background(), id) })
	return id
}

func makeFriends(t *testing.T, svc *social.Service, a, b string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{FromPlayerID: a, ToPlayerID: b})
	require.NoError(t, err)
	_, err = svc.AcceptFriendRequest(ctx, a, b)
	require.NoError(t, err)
}

func TestFriendRequestLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := seedPlayer(t, svc, "alice")
	bob := seedPlayer(t, svc, "bob")

	_, err := svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{
		FromPlayerID: alice,
		ToPlayerID:   bob,
		Message:      "hi",
	})
	require.NoError(t, err)

	// Duplicate request in either direction is rejected
	_, err = svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{FromPlayerID: bob, ToPlayerID: alice})
	require.Error(t, err)
	assert.True(t, social.IsInvalidState(err))

	pending, err := svc.GetPendingRequests(ctx, bob)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice, pending[0].FromPlayerID)

	friendship, err := svc.AcceptFriendRequest(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, friendship.Since.IsZero())

	// The request is consumed; both sides see the friendship
	pending, err = svc.GetPendingRequests(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, pending)

	for _, id := range []string{alice, bob} {
		friendsList, err := svc.GetFriends(ctx, id)
		require.NoError(t, err)
		require.Len(t, friendsList, 1)
		assert.Equal(t, friendship.Since.UTC(), friendsList[0].FriendsSince.UTC())
	}

	// Accepting twice fails: the request edge is gone
	_, err = svc.AcceptFriendRequest(ctx, alice, bob)
	require.Error(t, err)
	assert.True(t, social.IsNotFound(err))
}

func TestBlockTearsDownFriendship(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := seedPlayer(t, svc, "alice")
	bob := seedPlayer(t, svc, "bob")
	makeFriends(t, svc, alice, bob)

	block, err := svc.BlockPlayer(ctx, models.BlockPlayerRequest{BlockerID: alice, BlockedID: bob})
	require.NoError(t, err)
	assert.Equal(t, bob, block.BlockedPlayerID)

	// Friendship is gone from both sides
	for _, id := range []string{alice, bob} {
		friendsList, err := svc.GetFriends(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, friendsList)
	}

	// Blocking again is idempotent and keeps the original since
	again, err := svc.BlockPlayer(ctx, models.BlockPlayerRequest{BlockerID: alice, BlockedID: bob})
	require.NoError(t, err)
	assert.Equal(t, block.BlockedSince.UTC(), again.BlockedSince.UTC())

	// Requests are refused while the block stands, in both directions
	_, err = svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{FromPlayerID: bob, ToPlayerID: alice})
	require.Error(t, err)
	assert.True(t, social.IsInvalidState(err))

	// Unblock does not restore the friendship
	require.NoError(t, svc.UnblockPlayer(ctx, alice, bob))
	friendsList, err := svc.GetFriends(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, friendsList)
}

func TestBlockClearsPendingRequest(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := seedPlayer(t, svc, "alice")
	bob := seedPlayer(t, svc, "bob")

	_, err := svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{FromPlayerID: alice, ToPlayerID: bob})
	require.NoError(t, err)

	_, err = svc.BlockPlayer(ctx, models.BlockPlayerRequest{BlockerID: bob, BlockedID: alice})
	require.NoError(t, err)

	// The block consumed the pending request
	pending, err := svc.GetPendingRequests(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The stale request can never become a friendship
	_, err = svc.AcceptFriendRequest(ctx, alice, bob)
	require.Error(t, err)

	for _, id := range []string{alice, bob} {
		friendsList, err := svc.GetFriends(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, friendsList)
	}
}

func TestMutualFriendsAndSuggestions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// p1 is friends with p2 and p3; both are friends with p4.
	// p4 should be suggested to p1 with two mutual friends.
	p1 := seedPlayer(t, svc, "p1")
	p2 := seedPlayer(t, svc, "p2")
	p3 := seedPlayer(t, svc, "p3")
	p4 := seedPlayer(t, svc, "p4")
	p5 := seedPlayer(t, svc, "p5")

	makeFriends(t, svc, p1, p2)
	makeFriends(t, svc, p1, p3)
	makeFriends(t, svc, p2, p4)
	makeFriends(t, svc, p3, p4)
	makeFriends(t, svc, p2, p5)

	mutual, err := svc.GetMutualFriends(ctx, p1, p4)
	require.NoError(t, err)
	require.Len(t, mutual, 2)

	// Referencing a player that does not exist is NotFound, not an empty list
	_, err = svc.GetMutualFriends(ctx, p1, "missing-"+uuid.NewString())
	require.Error(t, err)
	assert.True(t, social.IsNotFound(err))

	suggestions, err := svc.GetFriendSuggestions(ctx, p1, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, p4, suggestions[0].PlayerID)
	assert.Equal(t, 2, suggestions[0].MutualFriends)
	assert.Equal(t, p5, suggestions[1].PlayerID)
	assert.Equal(t, 1, suggestions[1].MutualFriends)

	// A block in either direction removes the candidate
	_, err = svc.BlockPlayer(ctx, models.BlockPlayerRequest{BlockerID: p4, BlockedID: p1})
	require.NoError(t, err)

	suggestions, err = svc.GetFriendSuggestions(ctx, p1, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, p5, suggestions[0].PlayerID)
}

func TestConversationPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := seedPlayer(t, svc, "alice")
	bob := seedPlayer(t, svc, "bob")

	conv, err := svc.CreateConversation(ctx, models.CreateConversationRequest{
		Type:           string(models.ConversationDirect),
		ParticipantIDs: []string{alice, bob},
	})
	require.NoError(t, err)
	require.Len(t, conv.Participants, 2)

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, models.SendMessageRequest{
			ConversationID: conv.ConversationID,
			SenderID:       alice,
			Content:        fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	page1, err := svc.GetMessages(ctx, conv.ConversationID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "message 2", page1[0].Content)
	assert.Equal(t, "message 1", page1[1].Content)

	page2, err := svc.GetMessages(ctx, conv.ConversationID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "message 0", page2[0].Content)

	// Non-participants cannot send
	eve := seedPlayer(t, svc, "eve")
	_, err = svc.SendMessage(ctx, models.SendMessageRequest{
		ConversationID: conv.ConversationID,
		SenderID:       eve,
		Content:        "let me in",
	})
	require.Error(t, err)
	assert.True(t, social.IsForbidden(err))
}

func TestConcurrentClanJoinRanks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	owner := seedPlayer(t, svc, "owner")
	clan, err := svc.CreateClan(ctx, models.CreateClanRequest{
		Name:    "rank test " + uuid.NewString(),
		Tag:     "RNK",
		OwnerID: owner,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.DisbandClan(context.Background(), clan.ClanID) })

	const joiners = 8
	ids := make([]string, joiners)
	for i := range ids {
		ids[i] = seedPlayer(t, svc, "member")
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(playerID string) {
			defer wg.Done()
			_, err := svc.JoinClan(ctx, clan.ClanID, playerID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	got, err := svc.GetClan(ctx, clan.ClanID)
	require.NoError(t, err)
	require.Len(t, got.Members, joiners+1)

	// Owner holds rank 1; joiners hold 2..joiners+1 with no duplicates
	ranks := map[int]bool{}
	for _, member := range got.Members {
		assert.False(t, ranks[member.Rank], "rank %d assigned twice", member.Rank)
		ranks[member.Rank] = true
	}
	for rank := 1; rank <= joiners+1; rank++ {
		assert.True(t, ranks[rank], "rank %d missing", rank)
	}

	// A departed member's rank is never reused
	require.NoError(t, svc.LeaveClan(ctx, clan.ClanID, ids[0]))
	late := seedPlayer(t, svc, "late")
	member, err := svc.JoinClan(ctx, clan.ClanID, late)
	require.NoError(t, err)
	assert.Equal(t, joiners+2, member.Rank)
}

func TestDeletePlayerDetachesEverything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := seedPlayer(t, svc, "alice")
	bob := seedPlayer(t, svc, "bob")
	makeFriends(t, svc, alice, bob)

	_, err := svc.FollowPlayer(ctx, models.FollowRequest{FollowerID: bob, FollowingID: alice})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlayer(ctx, alice))

	_, err = svc.GetPlayer(ctx, alice)
	require.Error(t, err)
	assert.True(t, social.IsNotFound(err))

	friendsList, err := svc.GetFriends(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, friendsList)

	following, err := svc.GetFollowing(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, following)
}
