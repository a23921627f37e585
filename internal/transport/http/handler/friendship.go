package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"partyup-network/internal/app"
	"partyup-network/internal/model"
	"partyup-network/internal/transport/http/response"
)

type FriendshipService interface {
	SendRequest(senderID, recipientID uint) (*model.Friendship, error)
	AcceptRequest(userOneID, userTwoID uint) (*model.Friendship, error)
	RejectRequest(userOneID, userTwoID uint) error
	DeleteFriendship(userOneID, userTwoID uint) error
	ListFriends(userID uint) ([]model.User, error)
	ListPendingDirected(userID uint, direction app.PendingDirection) ([]model.User, error)
	MutualFriends(userOneID, userTwoID uint) ([]model.User, error)
	AreFriends(userOneID, userTwoID uint) (bool, error)
	CountFriends(userID uint) (int, error)
	FriendsOfOtherUser(currentID, otherID uint) ([]model.User, error)
}

type FriendshipHandler struct {
	friendships FriendshipService
}

func NewFriendshipHandler(friendships FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships}
}

func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	ids, ok := queryIDs(c, "senderId", "recipientId")
	if !ok {
		return
	}
	if _, err := h.friendships.SendRequest(ids[0], ids[1]); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Friend request sent successfully.")
}

func (h *FriendshipHandler) AcceptRequest(c *gin.Context) {
	ids, ok := queryIDs(c, "userOneId", "userTwoId")
	if !ok {
		return
	}
	if _, err := h.friendships.AcceptRequest(ids[0], ids[1]); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Friend request accepted successfully.")
}

func (h *FriendshipHandler) DeclineRequest(c *gin.Context) {
	ids, ok := queryIDs(c, "userOneId", "userTwoId")
	if !ok {
		return
	}
	if err := h.friendships.RejectRequest(ids[0], ids[1]); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Friend request declined successfully.")
}

func (h *FriendshipHandler) RemoveFriend(c *gin.Context) {
	ids, ok := queryIDs(c, "userId", "friendId")
	if !ok {
		return
	}
	if err := h.friendships.DeleteFriendship(ids[0], ids[1]); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Friendship removed successfully.")
}

func (h *FriendshipHandler) Friends(c *gin.Context) {
	ids, ok := queryIDs(c, "userId")
	if !ok {
		return
	}
	users, err := h.friendships.ListFriends(ids[0])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, newUserViews(users))
}

// PendingRequests accepts an optional direction of incoming, outgoing or all.
func (h *FriendshipHandler) PendingRequests(c *gin.Context) {
	ids, ok := queryIDs(c, "userId")
	if !ok {
		return
	}
	direction := app.PendingDirection(c.DefaultQuery("direction", string(app.PendingAll)))
	users, err := h.friendships.ListPendingDirected(ids[0], direction)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, newUserViews(users))
}

func (h *FriendshipHandler) MutualFriends(c *gin.Context) {
	ids, ok := queryIDs(c, "userOneId", "userTwoId")
	if !ok {
		return
	}
	users, err := h.friendships.MutualFriends(ids[0], ids[1])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, newUserViews(users))
}

func (h *FriendshipHandler) AreFriends(c *gin.Context) {
	ids, ok := queryIDs(c, "userOneId", "userTwoId")
	if !ok {
		return
	}
	friends, err := h.friendships.AreFriends(ids[0], ids[1])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"areFriends": friends})
}

func (h *FriendshipHandler) Count(c *gin.Context) {
	ids, ok := queryIDs(c, "userId")
	if !ok {
		return
	}
	count, err := h.friendships.CountFriends(ids[0])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

func (h *FriendshipHandler) FriendsOf(c *gin.Context) {
	ids, ok := queryIDs(c, "currentUserId", "otherUserId")
	if !ok {
		return
	}
	users, err := h.friendships.FriendsOfOtherUser(ids[0], ids[1])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, newUserViews(users))
}

// queryIDs parses the named query parameters as positive ids and answers
// 400 itself when one is missing or malformed.
func queryIDs(c *gin.Context, names ...string) ([]uint, bool) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		raw := c.Query(name)
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("query parameter %s must be a positive integer", name))
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}
