package social

import (
	"context"
	"errors"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
)

// storeProbe reports whether the startup connectivity probe succeeded.
type storeProbe interface {
	Available() bool
}

// Limits bounds the read side query shaping.
type Limits struct {
	MessagePageSizeDefault int
	MessagePageSizeMax     int
	SuggestionLimitDefault int
	SuggestionLimitMax     int
	ClanSearchLimit        int
}

// Service is the facade the HTTP layer calls. It guards every operation
// behind the availability flag, validates inputs, classifies errors into
// the taxonomy and emits lifecycle events on successful mutations.
type Service struct {
	probe     storeProbe
	ledger    *Ledger
	traversal *Traversal
	emitter   *events.Emitter
	logger    ectologger.Logger
	limits    Limits
}

// NewService creates the social service. The emitter may be nil when
// event emission is disabled.
func NewService(client *graph.Client, emitter *events.Emitter, limits Limits, logger ectologger.Logger) *Service {
	return &Service{
		probe:     client,
		ledger:    NewLedger(client, logger),
		traversal: NewTraversal(client, logger),
		emitter:   emitter,
		logger:    logger,
		limits:    limits,
	}
}

// run wraps every operation: availability guard, latency and outcome
// metrics, and classification of driver errors into the taxonomy.
func run[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if !s.probe.Available() {
		metrics.GraphOperationsTotal.WithLabelValues(op, string(KindUnavailable)).Inc()
		return zero, Unavailablef("social graph store is offline, running in degraded mode")
	}

	start := time.Now()
	out, err := fn(ctx)
	metrics.GraphOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		err = s.classify(ctx, op, err)
		metrics.GraphOperationsTotal.WithLabelValues(op, string(KindOf(err))).Inc()
		return zero, err
	}
	metrics.GraphOperationsTotal.WithLabelValues(op, "success").Inc()
	return out, nil
}

func runErr(ctx context.Context, s *Service, op string, fn func(context.Context) error) error {
	_, err := run(ctx, s, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// classify passes taxonomy errors through untouched and wraps everything
// else. Deadline expiry becomes Timeout.
func (s *Service) classify(ctx context.Context, op string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeoutf("%s exceeded the query timeout", op)
	}
	s.logger.WithContext(ctx).WithError(err).WithField("operation", op).Error("Graph operation failed")
	return Internal(op+" failed", err)
}

func (s *Service) emit(ctx context.Context, eventType, playerID, targetID string, payload any) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, eventType, playerID, targetID, payload)
}

// --- Players ---

func (s *Service) CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.PlayerNode, error) {
	status := req.Status
	if status == "" {
		status = string(models.StatusOffline)
	}
	if !models.PlayerStatus(status).Valid() {
		return nil, InvalidStatef("unknown player status %q", status)
	}
	player, err := run(ctx, s, "CreatePlayer", func(ctx context.Context) (*models.PlayerNode, error) {
		return s.ledger.CreatePlayer(ctx, req.PlayerID, req.Username, status)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "player.created", player.PlayerID, "", player)
	return player, nil
}

func (s *Service) GetPlayer(ctx context.Context, playerID string) (*models.PlayerNode, error) {
	return run(ctx, s, "GetPlayer", func(ctx context.Context) (*models.PlayerNode, error) {
		return s.traversal.GetPlayer(ctx, playerID)
	})
}

func (s *Service) UpdatePlayerStatus(ctx context.Context, playerID, status string) (*models.PlayerNode, error) {
	if !models.PlayerStatus(status).Valid() {
		return nil, InvalidStatef("unknown player status %q", status)
	}
	return run(ctx, s, "UpdatePlayerStatus", func(ctx context.Context) (*models.PlayerNode, error) {
		return s.ledger.UpdatePlayerStatus(ctx, playerID, status)
	})
}

func (s *Service) UpdatePlayerUsername(ctx context.Context, playerID, username string) (*models.PlayerNode, error) {
	return run(ctx, s, "UpdatePlayerUsername", func(ctx context.Context) (*models.PlayerNode, error) {
		return s.ledger.UpdatePlayerUsername(ctx, playerID, username)
	})
}

func (s *Service) DeletePlayer(ctx context.Context, playerID string) error {
	err := runErr(ctx, s, "DeletePlayer", func(ctx context.Context) error {
		return s.ledger.DeletePlayer(ctx, playerID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "player.deleted", playerID, "", nil)
	return nil
}

// --- Friendships ---

func (s *Service) SendFriendRequest(ctx context.Context, req models.SendFriendRequestRequest) (*models.FriendRequest, error) {
	if req.FromPlayerID == req.ToPlayerID {
		return nil, InvalidStatef("cannot send a friend request to yourself")
	}
	request, err := run(ctx, s, "SendFriendRequest", func(ctx context.Context) (*models.FriendRequest, error) {
		return s.ledger.SendFriendRequest(ctx, req.FromPlayerID, req.ToPlayerID, req.Message)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "friend.request_sent", request.FromPlayerID, request.ToPlayerID, request)
	return request, nil
}

func (s *Service) AcceptFriendRequest(ctx context.Context, fromID, toID string) (*models.Friendship, error) {
	friendship, err := run(ctx, s, "AcceptFriendRequest", func(ctx context.Context) (*models.Friendship, error) {
		return s.ledger.AcceptFriendRequest(ctx, fromID, toID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "friend.request_accepted", toID, fromID, friendship)
	return friendship, nil
}

func (s *Service) DeclineFriendRequest(ctx context.Context, fromID, toID string) error {
	err := runErr(ctx, s, "DeclineFriendRequest", func(ctx context.Context) error {
		return s.ledger.DeclineFriendRequest(ctx, fromID, toID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "friend.request_declined", toID, fromID, nil)
	return nil
}

func (s *Service) RemoveFriend(ctx context.Context, playerID, friendID string) error {
	err := runErr(ctx, s, "RemoveFriend", func(ctx context.Context) error {
		return s.ledger.RemoveFriend(ctx, playerID, friendID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "friend.removed", playerID, friendID, nil)
	return nil
}

func (s *Service) SetFriendNickname(ctx context.Context, playerID, friendID, nickname string) (*models.Friend, error) {
	return run(ctx, s, "SetFriendNickname", func(ctx context.Context) (*models.Friend, error) {
		return s.ledger.SetFriendNickname(ctx, playerID, friendID, nickname)
	})
}

func (s *Service) GetFriends(ctx context.Context, playerID string) ([]models.Friend, error) {
	return run(ctx, s, "GetFriends", func(ctx context.Context) ([]models.Friend, error) {
		return s.traversal.GetFriends(ctx, playerID)
	})
}

func (s *Service) GetPendingRequests(ctx context.Context, playerID string) ([]models.FriendRequest, error) {
	return run(ctx, s, "GetPendingRequests", func(ctx context.Context) ([]models.FriendRequest, error) {
		return s.traversal.GetPendingRequests(ctx, playerID)
	})
}

func (s *Service) GetMutualFriends(ctx context.Context, player1ID, player2ID string) ([]models.PlayerNode, error) {
	if player1ID == player2ID {
		return nil, InvalidStatef("mutual friends requires two distinct players")
	}
	return run(ctx, s, "GetMutualFriends", func(ctx context.Context) ([]models.PlayerNode, error) {
		return s.traversal.GetMutualFriends(ctx, player1ID, player2ID)
	})
}

func (s *Service) GetFriendSuggestions(ctx context.Context, playerID string, limit int) ([]models.FriendSuggestion, error) {
	if limit <= 0 {
		limit = s.limits.SuggestionLimitDefault
	}
	if limit > s.limits.SuggestionLimitMax {
		limit = s.limits.SuggestionLimitMax
	}
	return run(ctx, s, "GetFriendSuggestions", func(ctx context.Context) ([]models.FriendSuggestion, error) {
		return s.traversal.GetFriendSuggestions(ctx, playerID, limit)
	})
}

// --- Blocks ---

func (s *Service) BlockPlayer(ctx context.Context, req models.BlockPlayerRequest) (*models.Block, error) {
	if req.BlockerID == req.BlockedID {
		return nil, InvalidStatef("cannot block yourself")
	}
	block, err := run(ctx, s, "BlockPlayer", func(ctx context.Context) (*models.Block, error) {
		return s.ledger.BlockPlayer(ctx, req.BlockerID, req.BlockedID, req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "player.blocked", req.BlockerID, req.BlockedID, block)
	return block, nil
}

func (s *Service) UnblockPlayer(ctx context.Context, blockerID, blockedID string) error {
	err := runErr(ctx, s, "UnblockPlayer", func(ctx context.Context) error {
		return s.ledger.UnblockPlayer(ctx, blockerID, blockedID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "player.unblocked", blockerID, blockedID, nil)
	return nil
}

func (s *Service) GetBlockedPlayers(ctx context.Context, playerID string) ([]models.Block, error) {
	return run(ctx, s, "GetBlockedPlayers", func(ctx context.Context) ([]models.Block, error) {
		return s.traversal.GetBlockedPlayers(ctx, playerID)
	})
}

// --- Follows ---

func (s *Service) FollowPlayer(ctx context.Context, req models.FollowRequest) (*models.FollowedPlayer, error) {
	if req.FollowerID == req.FollowingID {
		return nil, InvalidStatef("cannot follow yourself")
	}
	followed, err := run(ctx, s, "FollowPlayer", func(ctx context.Context) (*models.FollowedPlayer, error) {
		return s.ledger.FollowPlayer(ctx, req.FollowerID, req.FollowingID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "player.followed", req.FollowerID, req.FollowingID, nil)
	return followed, nil
}

func (s *Service) UnfollowPlayer(ctx context.Context, followerID, followingID string) error {
	err := runErr(ctx, s, "UnfollowPlayer", func(ctx context.Context) error {
		return s.ledger.UnfollowPlayer(ctx, followerID, followingID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "player.unfollowed", followerID, followingID, nil)
	return nil
}

func (s *Service) GetFollowing(ctx context.Context, playerID string) ([]models.FollowedPlayer, error) {
	return run(ctx, s, "GetFollowing", func(ctx context.Context) ([]models.FollowedPlayer, error) {
		return s.traversal.GetFollowing(ctx, playerID)
	})
}

func (s *Service) GetFollowers(ctx context.Context, playerID string) ([]models.FollowedPlayer, error) {
	return run(ctx, s, "GetFollowers", func(ctx context.Context) ([]models.FollowedPlayer, error) {
		return s.traversal.GetFollowers(ctx, playerID)
	})
}

// --- Messaging ---

func (s *Service) CreateConversation(ctx context.Context, req models.CreateConversationRequest) (*models.Conversation, error) {
	if !models.ConversationType(req.Type).Valid() {
		return nil, InvalidStatef("unknown conversation type %q", req.Type)
	}
	participants := dedupe(req.ParticipantIDs)
	if len(participants) < 2 {
		return nil, InvalidStatef("a conversation requires at least two distinct participants")
	}
	if models.ConversationType(req.Type) == models.ConversationDirect && len(participants) != 2 {
		return nil, InvalidStatef("a direct conversation requires exactly two participants")
	}
	conv, err := run(ctx, s, "CreateConversation", func(ctx context.Context) (*models.Conversation, error) {
		return s.ledger.CreateConversation(ctx, req.Type, participants, req.Name)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "conversation.created", participants[0], conv.ConversationID, conv)
	return conv, nil
}

func (s *Service) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	return run(ctx, s, "GetConversation", func(ctx context.Context) (*models.Conversation, error) {
		return s.traversal.GetConversation(ctx, conversationID)
	})
}

func (s *Service) GetPlayerConversations(ctx context.Context, playerID string) ([]models.ConversationSummary, error) {
	return run(ctx, s, "GetPlayerConversations", func(ctx context.Context) ([]models.ConversationSummary, error) {
		return s.traversal.GetPlayerConversations(ctx, playerID)
	})
}

func (s *Service) SendMessage(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	msg, err := run(ctx, s, "SendMessage", func(ctx context.Context) (*models.Message, error) {
		return s.ledger.SendMessage(ctx, req.ConversationID, req.SenderID, req.Content)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "message.sent", msg.SenderID, msg.ConversationID, msg)
	return msg, nil
}

func (s *Service) GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = s.limits.MessagePageSizeDefault
	}
	if limit > s.limits.MessagePageSizeMax {
		limit = s.limits.MessagePageSizeMax
	}
	if offset < 0 {
		offset = 0
	}
	return run(ctx, s, "GetMessages", func(ctx context.Context) ([]models.Message, error) {
		return s.traversal.GetMessages(ctx, conversationID, limit, offset)
	})
}

func (s *Service) EditMessage(ctx context.Context, messageID, content string) (*models.Message, error) {
	return run(ctx, s, "EditMessage", func(ctx context.Context) (*models.Message, error) {
		return s.ledger.EditMessage(ctx, messageID, content)
	})
}

func (s *Service) DeleteMessage(ctx context.Context, messageID string) error {
	return runErr(ctx, s, "DeleteMessage", func(ctx context.Context) error {
		return s.ledger.DeleteMessage(ctx, messageID)
	})
}

func (s *Service) MuteConversation(ctx context.Context, conversationID, playerID string, muted bool) error {
	return runErr(ctx, s, "MuteConversation", func(ctx context.Context) error {
		return s.ledger.MuteConversation(ctx, conversationID, playerID, muted)
	})
}

func (s *Service) LeaveConversation(ctx context.Context, conversationID, playerID string) error {
	return runErr(ctx, s, "LeaveConversation", func(ctx context.Context) error {
		return s.ledger.LeaveConversation(ctx, conversationID, playerID)
	})
}

// --- Parties ---

const defaultPartySize = 4

func (s *Service) CreateParty(ctx context.Context, req models.CreatePartyRequest) (*models.Party, error) {
	maxSize := req.MaxSize
	if maxSize <= 0 {
		maxSize = defaultPartySize
	}
	party, err := run(ctx, s, "CreateParty", func(ctx context.Context) (*models.Party, error) {
		return s.ledger.CreateParty(ctx, req.LeaderID, req.GameID, maxSize, req.IsPublic)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "party.created", req.LeaderID, party.PartyID, party)
	return party, nil
}

func (s *Service) GetParty(ctx context.Context, partyID string) (*models.Party, error) {
	return run(ctx, s, "GetParty", func(ctx context.Context) (*models.Party, error) {
		return s.traversal.GetParty(ctx, partyID)
	})
}

func (s *Service) GetPlayerParty(ctx context.Context, playerID string) (*models.Party, error) {
	return run(ctx, s, "GetPlayerParty", func(ctx context.Context) (*models.Party, error) {
		return s.traversal.GetPlayerParty(ctx, playerID)
	})
}

func (s *Service) InviteToParty(ctx context.Context, req models.InviteToPartyRequest) (*models.PartyInvite, error) {
	if req.InviterID == req.InviteeID {
		return nil, InvalidStatef("cannot invite yourself to a party")
	}
	invite, err := run(ctx, s, "InviteToParty", func(ctx context.Context) (*models.PartyInvite, error) {
		return s.ledger.InviteToParty(ctx, req.PartyID, req.InviterID, req.InviteeID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "party.invite_sent", req.InviterID, req.InviteeID, invite)
	return invite, nil
}

func (s *Service) JoinParty(ctx context.Context, partyID, playerID string) (*models.PartyMember, error) {
	member, err := run(ctx, s, "JoinParty", func(ctx context.Context) (*models.PartyMember, error) {
		return s.ledger.JoinParty(ctx, partyID, playerID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "party.member_joined", playerID, partyID, member)
	return member, nil
}

func (s *Service) LeaveParty(ctx context.Context, partyID, playerID string) error {
	err := runErr(ctx, s, "LeaveParty", func(ctx context.Context) error {
		return s.ledger.LeaveParty(ctx, partyID, playerID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "party.member_left", playerID, partyID, nil)
	return nil
}

func (s *Service) UpdateParty(ctx context.Context, partyID string, req models.UpdatePartyRequest) (*models.Party, error) {
	return run(ctx, s, "UpdateParty", func(ctx context.Context) (*models.Party, error) {
		return s.ledger.UpdateParty(ctx, partyID, req)
	})
}

func (s *Service) DisbandParty(ctx context.Context, partyID string) error {
	err := runErr(ctx, s, "DisbandParty", func(ctx context.Context) error {
		return s.ledger.DisbandParty(ctx, partyID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "party.disbanded", "", partyID, nil)
	return nil
}

// --- Clans ---

func (s *Service) CreateClan(ctx context.Context, req models.CreateClanRequest) (*models.Clan, error) {
	clan, err := run(ctx, s, "CreateClan", func(ctx context.Context) (*models.Clan, error) {
		return s.ledger.CreateClan(ctx, req.Name, req.Tag, req.OwnerID, req.Description)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "clan.created", req.OwnerID, clan.ClanID, clan)
	return clan, nil
}

func (s *Service) GetClan(ctx context.Context, clanID string) (*models.Clan, error) {
	return run(ctx, s, "GetClan", func(ctx context.Context) (*models.Clan, error) {
		return s.traversal.GetClan(ctx, clanID)
	})
}

func (s *Service) GetPlayerClan(ctx context.Context, playerID string) (*models.PlayerClan, error) {
	return run(ctx, s, "GetPlayerClan", func(ctx context.Context) (*models.PlayerClan, error) {
		return s.traversal.GetPlayerClan(ctx, playerID)
	})
}

func (s *Service) SearchClans(ctx context.Context, term string, limit int) ([]models.Clan, error) {
	if limit <= 0 || limit > s.limits.ClanSearchLimit {
		limit = s.limits.ClanSearchLimit
	}
	return run(ctx, s, "SearchClans", func(ctx context.Context) ([]models.Clan, error) {
		return s.traversal.SearchClans(ctx, term, limit)
	})
}

func (s *Service) JoinClan(ctx context.Context, clanID, playerID string) (*models.ClanMemberInfo, error) {
	member, err := run(ctx, s, "JoinClan", func(ctx context.Context) (*models.ClanMemberInfo, error) {
		return s.ledger.JoinClan(ctx, clanID, playerID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "clan.member_joined", playerID, clanID, member)
	return member, nil
}

func (s *Service) LeaveClan(ctx context.Context, clanID, playerID string) error {
	err := runErr(ctx, s, "LeaveClan", func(ctx context.Context) error {
		return s.ledger.LeaveClan(ctx, clanID, playerID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "clan.member_left", playerID, clanID, nil)
	return nil
}

func (s *Service) UpdateClan(ctx context.Context, clanID string, req models.UpdateClanRequest) (*models.Clan, error) {
	return run(ctx, s, "UpdateClan", func(ctx context.Context) (*models.Clan, error) {
		return s.ledger.UpdateClan(ctx, clanID, req)
	})
}

func (s *Service) UpdateClanMemberRole(ctx context.Context, clanID, playerID string, req models.UpdateClanMemberRoleRequest) (*models.ClanMemberInfo, error) {
	if !models.ClanRole(req.Role).Valid() {
		return nil, InvalidStatef("unknown clan role %q", req.Role)
	}
	return run(ctx, s, "UpdateClanMemberRole", func(ctx context.Context) (*models.ClanMemberInfo, error) {
		return s.ledger.UpdateClanMemberRole(ctx, clanID, playerID, req.Role, req.Rank)
	})
}

func (s *Service) DisbandClan(ctx context.Context, clanID string) error {
	err := runErr(ctx, s, "DisbandClan", func(ctx context.Context) error {
		return s.ledger.DisbandClan(ctx, clanID)
	})
	if err != nil {
		return err
	}
	s.emit(ctx, "clan.disbanded", "", clanID, nil)
	return nil
}

// dedupe preserves first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
