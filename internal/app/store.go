package app

import (
	"time"

	"partyup-network/internal/model"
)

// The store interfaces are satisfied by the gorm repositories. Lookups return
// (nil, nil) when nothing matches.

type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
	ListByIDs(ids []uint) ([]model.User, error)
	DeleteWithDependents(id uint) (bool, error)
}

type AuthTokenStore interface {
	Create(token *model.AuthToken) error
	GetByToken(token string) (*model.AuthToken, error)
	TouchLastUsed(id uint, at time.Time) error
	// ExpireIfLive moves expires_at to at unless the record already expired
	// by then, and reports whether a row changed.
	ExpireIfLive(id uint, at time.Time) (bool, error)
}

type FriendshipStore interface {
	Create(friendship *model.Friendship) error
	GetByPair(a, b uint) (*model.Friendship, error)
	TransitionStatus(a, b uint, from, to model.FriendshipStatus) (bool, error)
	DeleteByPairWithStatus(a, b uint, status model.FriendshipStatus) (bool, error)
	DeleteByPair(a, b uint) (bool, error)
	ListByUserAndStatus(userID uint, status model.FriendshipStatus) ([]model.Friendship, error)
}
