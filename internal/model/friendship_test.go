package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFriendRequest_NormalizesPair(t *testing.T) {
	f := NewFriendRequest(9, 4)

	assert.Equal(t, uint(4), f.UserOneID)
	assert.Equal(t, uint(9), f.UserTwoID)
	assert.Equal(t, uint(9), f.RequesterID)
	assert.Equal(t, FriendshipStatusPending, f.Status)

	g := NewFriendRequest(4, 9)
	assert.Equal(t, f.UserOneID, g.UserOneID)
	assert.Equal(t, f.UserTwoID, g.UserTwoID)
}

func TestFriendship_Counterpart(t *testing.T) {
	f := NewFriendRequest(1, 2)
	assert.Equal(t, uint(2), f.Counterpart(1))
	assert.Equal(t, uint(1), f.Counterpart(2))
	assert.True(t, f.Involves(2))
	assert.False(t, f.Involves(3))
}

func TestAuthToken_ExpiredAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := &AuthToken{ExpiresAt: now}

	assert.False(t, tok.ExpiredAt(now))
	assert.True(t, tok.ExpiredAt(now.Add(time.Nanosecond)))
	assert.False(t, tok.ExpiredAt(now.Add(-time.Minute)))
}
