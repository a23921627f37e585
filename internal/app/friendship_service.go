package app

import (
	"errors"

	"go.uber.org/zap"

	"partyup-network/internal/model"
	"partyup-network/internal/repository"
)

type PendingDirection string

const (
	PendingAll      PendingDirection = "all"
	PendingIncoming PendingDirection = "incoming"
	PendingOutgoing PendingDirection = "outgoing"
)

// FriendshipService drives the request lifecycle of an unordered user pair:
// none -> PENDING -> ACCEPTED, with reject and removal deleting the row.
// Every precondition is re-checked by the conditional write itself, so two
// racing callers cannot both win.
type FriendshipService struct {
	friendships FriendshipStore
	users       UserStore
	log         *zap.Logger
}

func NewFriendshipService(friendships FriendshipStore, users UserStore, log *zap.Logger) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		users:       users,
		log:         log,
	}
}

func (s *FriendshipService) SendRequest(senderID, recipientID uint) (*model.Friendship, error) {
	s.log.Info("sending friend request", zap.Uint("sender_id", senderID), zap.Uint("recipient_id", recipientID))

	if senderID == recipientID {
		s.log.Warn("friend request to self", zap.Uint("user_id", senderID))
		return nil, newError(KindValidation, "Friendship can't be created with yourself")
	}
	if err := s.requireUsers(senderID, recipientID); err != nil {
		return nil, err
	}

	existing, err := s.friendships.GetByPair(senderID, recipientID)
	if err != nil {
		return nil, storeError("query friendship failed", err)
	}
	if existing != nil {
		s.log.Warn("friendship already exists",
			zap.Uint("sender_id", senderID),
			zap.Uint("recipient_id", recipientID),
			zap.String("status", string(existing.Status)))
		return nil, errFriendshipExists()
	}

	friendship := model.NewFriendRequest(senderID, recipientID)
	if err := s.friendships.Create(friendship); err != nil {
		// A concurrent request for the same pair got in first.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errFriendshipExists()
		}
		return nil, storeError("create friendship failed", err)
	}
	return friendship, nil
}

func (s *FriendshipService) AcceptRequest(userOneID, userTwoID uint) (*model.Friendship, error) {
	friendship, err := s.pendingPair(userOneID, userTwoID, "accepted")
	if err != nil {
		return nil, err
	}

	s.log.Info("accepting friend request", zap.Uint("friendship_id", friendship.ID))
	ok, err := s.friendships.TransitionStatus(userOneID, userTwoID, model.FriendshipStatusPending, model.FriendshipStatusAccepted)
	if err != nil {
		return nil, storeError("update friendship failed", err)
	}
	if !ok {
		return nil, s.lostRace(userOneID, userTwoID, "accepted")
	}

	friendship.Status = model.FriendshipStatusAccepted
	return friendship, nil
}

// RejectRequest deletes the pending row, so the pair may send again later.
func (s *FriendshipService) RejectRequest(userOneID, userTwoID uint) error {
	friendship, err := s.pendingPair(userOneID, userTwoID, "rejected")
	if err != nil {
		return err
	}

	s.log.Info("rejecting (deleting) friend request", zap.Uint("friendship_id", friendship.ID))
	ok, err := s.friendships.DeleteByPairWithStatus(userOneID, userTwoID, model.FriendshipStatusPending)
	if err != nil {
		return storeError("delete friendship failed", err)
	}
	if !ok {
		return s.lostRace(userOneID, userTwoID, "rejected")
	}
	return nil
}

// DeleteFriendship removes the pair whatever its status, which covers both
// unfriending and cancelling a pending request.
func (s *FriendshipService) DeleteFriendship(userOneID, userTwoID uint) error {
	s.log.Info("deleting friendship", zap.Uint("user_one_id", userOneID), zap.Uint("user_two_id", userTwoID))
	if err := s.requireUsers(userOneID, userTwoID); err != nil {
		return err
	}

	ok, err := s.friendships.DeleteByPair(userOneID, userTwoID)
	if err != nil {
		return storeError("delete friendship failed", err)
	}
	if !ok {
		s.log.Warn("no friendship found", zap.Uint("user_one_id", userOneID), zap.Uint("user_two_id", userTwoID))
		return newError(KindNotFound, "Friendship not found between the specified users.")
	}
	return nil
}

func (s *FriendshipService) ListFriends(userID uint) ([]model.User, error) {
	ids, err := s.counterparts(userID, model.FriendshipStatusAccepted, PendingAll)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ids)
}

// ListPending returns everyone with a pending request involving userID, in
// either direction.
func (s *FriendshipService) ListPending(userID uint) ([]model.User, error) {
	return s.ListPendingDirected(userID, PendingAll)
}

func (s *FriendshipService) ListPendingDirected(userID uint, direction PendingDirection) ([]model.User, error) {
	switch direction {
	case PendingAll, PendingIncoming, PendingOutgoing:
	default:
		return nil, newError(KindValidation, "direction must be one of all, incoming, outgoing")
	}
	ids, err := s.counterparts(userID, model.FriendshipStatusPending, direction)
	if err != nil {
		return nil, err
	}
	s.log.Info("found pending friend requests", zap.Uint("user_id", userID), zap.Int("count", len(ids)))
	return s.loadUsers(ids)
}

// MutualFriends returns users that are accepted friends of both ids,
// excluding the two users themselves.
func (s *FriendshipService) MutualFriends(userOneID, userTwoID uint) ([]model.User, error) {
	first, err := s.counterparts(userOneID, model.FriendshipStatusAccepted, PendingAll)
	if err != nil {
		return nil, err
	}
	second, err := s.counterparts(userTwoID, model.FriendshipStatusAccepted, PendingAll)
	if err != nil {
		return nil, err
	}

	inFirst := make(map[uint]struct{}, len(first))
	for _, id := range first {
		inFirst[id] = struct{}{}
	}
	mutual := make([]uint, 0)
	for _, id := range second {
		if id == userOneID || id == userTwoID {
			continue
		}
		if _, ok := inFirst[id]; ok {
			mutual = append(mutual, id)
		}
	}
	return s.loadUsers(mutual)
}

func (s *FriendshipService) AreFriends(userOneID, userTwoID uint) (bool, error) {
	if err := s.requireUsers(userOneID, userTwoID); err != nil {
		return false, err
	}
	friendship, err := s.friendships.GetByPair(userOneID, userTwoID)
	if err != nil {
		return false, storeError("query friendship failed", err)
	}
	return friendship != nil && friendship.Status == model.FriendshipStatusAccepted, nil
}

func (s *FriendshipService) CountFriends(userID uint) (int, error) {
	ids, err := s.counterparts(userID, model.FriendshipStatusAccepted, PendingAll)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// FriendsOfOtherUser lists otherID's friends without currentID.
func (s *FriendshipService) FriendsOfOtherUser(currentID, otherID uint) ([]model.User, error) {
	if err := s.requireUsers(currentID); err != nil {
		return nil, err
	}
	ids, err := s.counterparts(otherID, model.FriendshipStatusAccepted, PendingAll)
	if err != nil {
		return nil, err
	}
	filtered := ids[:0]
	for _, id := range ids {
		if id != currentID {
			filtered = append(filtered, id)
		}
	}
	return s.loadUsers(filtered)
}

func (s *FriendshipService) pendingPair(userOneID, userTwoID uint, verb string) (*model.Friendship, error) {
	if err := s.requireUsers(userOneID, userTwoID); err != nil {
		return nil, err
	}
	friendship, err := s.friendships.GetByPair(userOneID, userTwoID)
	if err != nil {
		return nil, storeError("query friendship failed", err)
	}
	if friendship == nil {
		return nil, errFriendshipNotFound(userOneID, userTwoID)
	}
	if friendship.Status != model.FriendshipStatusPending {
		s.log.Warn("friendship is not pending", zap.Uint("friendship_id", friendship.ID), zap.String("status", string(friendship.Status)))
		return nil, errNotPending(verb)
	}
	return friendship, nil
}

// lostRace explains why a conditional write matched no row: the pair was
// either removed or moved out of PENDING by someone else.
func (s *FriendshipService) lostRace(userOneID, userTwoID uint, verb string) error {
	current, err := s.friendships.GetByPair(userOneID, userTwoID)
	if err != nil {
		return storeError("query friendship failed", err)
	}
	if current == nil {
		return errFriendshipNotFound(userOneID, userTwoID)
	}
	return errNotPending(verb)
}

func (s *FriendshipService) counterparts(userID uint, status model.FriendshipStatus, direction PendingDirection) ([]uint, error) {
	if err := s.requireUsers(userID); err != nil {
		return nil, err
	}
	friendships, err := s.friendships.ListByUserAndStatus(userID, status)
	if err != nil {
		return nil, storeError("list friendships failed", err)
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		switch direction {
		case PendingIncoming:
			if f.RequesterID == userID {
				continue
			}
		case PendingOutgoing:
			if f.RequesterID != userID {
				continue
			}
		}
		ids = append(ids, f.Counterpart(userID))
	}
	return ids, nil
}

func (s *FriendshipService) requireUsers(ids ...uint) error {
	for _, id := range ids {
		user, err := s.users.GetByID(id)
		if err != nil {
			return storeError("query user failed", err)
		}
		if user == nil {
			return newError(KindNotFound, "User not found with id: %d", id)
		}
	}
	return nil
}

func (s *FriendshipService) loadUsers(ids []uint) ([]model.User, error) {
	users, err := s.users.ListByIDs(ids)
	if err != nil {
		return nil, storeError("list users failed", err)
	}
	return users, nil
}

func errFriendshipExists() *Error {
	return newError(KindConflict, "Friendship already exists between these users")
}

func errFriendshipNotFound(a, b uint) *Error {
	return newError(KindNotFound, "Friendship not found for users: %d and %d", a, b)
}

func errNotPending(verb string) *Error {
	return newError(KindInvalidState, "Friendship is not in PENDING state, so can't be %s", verb)
}
