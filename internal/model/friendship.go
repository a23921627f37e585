package model

import "time"

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "PENDING"
	FriendshipStatusAccepted FriendshipStatus = "ACCEPTED"
	// FriendshipStatusRejected is never persisted; rejecting deletes the row.
	FriendshipStatusRejected FriendshipStatus = "REJECTED"
)

// Friendship rows store the pair normalized: UserOneID is always the smaller id.
// RequesterID remembers who sent the request.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserOneID   uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"user_one_id"`
	UserTwoID   uint             `gorm:"not null;uniqueIndex:idx_friendship_pair;index" json:"user_two_id"`
	RequesterID uint             `gorm:"not null" json:"requester_id"`
	Status      FriendshipStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	UserOne *User `gorm:"foreignKey:UserOneID" json:"-"`
	UserTwo *User `gorm:"foreignKey:UserTwoID" json:"-"`
}

// OrderedPair returns the ids smallest first, which is the storage key.
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func NewFriendRequest(senderID, recipientID uint) *Friendship {
	one, two := OrderedPair(senderID, recipientID)
	return &Friendship{
		UserOneID:   one,
		UserTwoID:   two,
		RequesterID: senderID,
		Status:      FriendshipStatusPending,
	}
}

// Counterpart returns the id on the other side of the pair from userID.
func (f *Friendship) Counterpart(userID uint) uint {
	if f.UserOneID == userID {
		return f.UserTwoID
	}
	return f.UserOneID
}

func (f *Friendship) Involves(userID uint) bool {
	return f.UserOneID == userID || f.UserTwoID == userID
}
