package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"partyup-network/internal/model"
)

type seedStore struct {
	users    []model.User
	countErr error
}

func (s *seedStore) Count() (int64, error) {
	return int64(len(s.users)), s.countErr
}

func (s *seedStore) Create(user *model.User) error {
	user.ID = uint(len(s.users) + 1)
	s.users = append(s.users, *user)
	return nil
}

func TestSeedUsers_EmptyTable(t *testing.T) {
	store := &seedStore{}

	n, err := SeedUsers(store, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, store.users, 5)

	for _, u := range store.users {
		assert.True(t, u.IsActive())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(demoPassword)))
	}
	assert.Equal(t, "johny", store.users[0].Username)
}

func TestSeedUsers_SkipsPopulatedTable(t *testing.T) {
	store := &seedStore{users: []model.User{{ID: 1, Username: "existing"}}}

	n, err := SeedUsers(store, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.users, 1)
}

func TestSeedUsers_CountFailure(t *testing.T) {
	_, err := SeedUsers(&seedStore{countErr: errors.New("db down")}, bcrypt.MinCost, zap.NewNop())
	assert.Error(t, err)
}
