package social

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeProbe struct {
	available bool
}

func (f fakeProbe) Available() bool { return f.available }

func newTestService(available bool) *Service {
	return &Service{
		probe:  fakeProbe{available: available},
		logger: ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}),
		limits: Limits{
			MessagePageSizeDefault: 50,
			MessagePageSizeMax:     200,
			SuggestionLimitDefault: 10,
			SuggestionLimitMax:     50,
			ClanSearchLimit:        25,
		},
	}
}

func TestServiceUnavailableGating(t *testing.T) {
	svc := newTestService(false)
	ctx := context.Background()

	t.Run("reads short-circuit", func(t *testing.T) {
		_, err := svc.GetFriends(ctx, "p1")
		require.Error(t, err)
		assert.True(t, IsUnavailable(err))
	})

	t.Run("mutations short-circuit", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{
			FromPlayerID: "p1",
			ToPlayerID:   "p2",
		})
		require.Error(t, err)
		assert.True(t, IsUnavailable(err))
	})

	t.Run("deletes short-circuit", func(t *testing.T) {
		err := svc.RemoveFriend(ctx, "p1", "p2")
		require.Error(t, err)
		assert.True(t, IsUnavailable(err))
	})
}

func TestServiceInputValidation(t *testing.T) {
	// Validation runs before any store access, so a service with no
	// ledger behind it is enough here.
	svc := newTestService(true)
	ctx := context.Background()

	t.Run("self friend request", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, models.SendFriendRequestRequest{
			FromPlayerID: "p1",
			ToPlayerID:   "p1",
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("self block", func(t *testing.T) {
		_, err := svc.BlockPlayer(ctx, models.BlockPlayerRequest{
			BlockerID: "p1",
			BlockedID: "p1",
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("self follow", func(t *testing.T) {
		_, err := svc.FollowPlayer(ctx, models.FollowRequest{
			FollowerID:  "p1",
			FollowingID: "p1",
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("mutual friends with self", func(t *testing.T) {
		_, err := svc.GetMutualFriends(ctx, "p1", "p1")
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("unknown player status", func(t *testing.T) {
		_, err := svc.UpdatePlayerStatus(ctx, "p1", "sleeping")
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("unknown conversation type", func(t *testing.T) {
		_, err := svc.CreateConversation(ctx, models.CreateConversationRequest{
			Type:           "broadcast",
			ParticipantIDs: []string{"p1", "p2"},
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("direct conversation needs exactly two participants", func(t *testing.T) {
		_, err := svc.CreateConversation(ctx, models.CreateConversationRequest{
			Type:           string(models.ConversationDirect),
			ParticipantIDs: []string{"p1", "p2", "p3"},
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("duplicate participants collapse below minimum", func(t *testing.T) {
		_, err := svc.CreateConversation(ctx, models.CreateConversationRequest{
			Type:           string(models.ConversationGroup),
			ParticipantIDs: []string{"p1", "p1"},
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("self party invite", func(t *testing.T) {
		_, err := svc.InviteToParty(ctx, models.InviteToPartyRequest{
			PartyID:   "party-1",
			InviterID: "p1",
			InviteeID: "p1",
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("unknown clan role", func(t *testing.T) {
		_, err := svc.UpdateClanMemberRole(ctx, "clan-1", "p1", models.UpdateClanMemberRoleRequest{
			Role: "general",
		})
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, dedupe(nil))
}
