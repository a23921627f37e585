package app

import (
	"errors"
	"sort"
	"sync"
	"time"

	"partyup-network/internal/model"
	"partyup-network/internal/repository"
)

var errStoreDown = errors.New("store down")

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*model.User
	fail   error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uint]*model.User{}}
}

func (m *memUsers) add(username string, status model.AccountStatus) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := &model.User{ID: m.nextID, Username: username, Email: username + "@example.com", Status: status}
	m.byID[u.ID] = u
	return u
}

func (m *memUsers) Create(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, u := range m.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) find(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByUsername(username string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Username == username })
}

func (m *memUsers) GetByEmail(email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *memUsers) GetByID(id uint) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.ID == id })
}

func (m *memUsers) ListByIDs(ids []uint) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) DeleteWithDependents(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

type memTokens struct {
	mu      sync.Mutex
	byToken map[string]*model.AuthToken
	saves   int
	fail    error
}

func newMemTokens() *memTokens {
	return &memTokens{byToken: map[string]*model.AuthToken{}}
}

func (m *memTokens) Create(token *model.AuthToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.byToken[token.Token]; ok {
		return repository.ErrDuplicate
	}
	token.ID = uint(len(m.byToken) + 1)
	cp := *token
	m.byToken[token.Token] = &cp
	return nil
}

func (m *memTokens) GetByToken(token string) (*model.AuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	rec, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memTokens) byID(id uint) *model.AuthToken {
	for _, rec := range m.byToken {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (m *memTokens) TouchLastUsed(id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	rec := m.byID(id)
	if rec == nil {
		return errors.New("no such token")
	}
	rec.LastUsedAt = at
	m.saves++
	return nil
}

func (m *memTokens) ExpireIfLive(id uint, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	rec := m.byID(id)
	if rec == nil || !rec.ExpiresAt.After(at) {
		return false, nil
	}
	rec.ExpiresAt = at
	m.saves++
	return true, nil
}

type pairKey struct{ one, two uint }

func keyOf(a, b uint) pairKey {
	one, two := model.OrderedPair(a, b)
	return pairKey{one, two}
}

// memFriendships enforces pair uniqueness and conditional writes under one
// lock, like the unique index and WHERE-guarded statements do in SQL.
type memFriendships struct {
	mu     sync.Mutex
	nextID uint
	rows   map[pairKey]*model.Friendship
	fail   error
}

func newMemFriendships() *memFriendships {
	return &memFriendships{rows: map[pairKey]*model.Friendship{}}
}

func (m *memFriendships) Create(f *model.Friendship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	k := keyOf(f.UserOneID, f.UserTwoID)
	if _, ok := m.rows[k]; ok {
		return repository.ErrDuplicate
	}
	m.nextID++
	f.ID = m.nextID
	cp := *f
	m.rows[k] = &cp
	return nil
}

func (m *memFriendships) GetByPair(a, b uint) (*model.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	f, ok := m.rows[keyOf(a, b)]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *memFriendships) TransitionStatus(a, b uint, from, to model.FriendshipStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	f, ok := m.rows[keyOf(a, b)]
	if !ok || f.Status != from {
		return false, nil
	}
	f.Status = to
	return true, nil
}

func (m *memFriendships) DeleteByPairWithStatus(a, b uint, status model.FriendshipStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	k := keyOf(a, b)
	f, ok := m.rows[k]
	if !ok || f.Status != status {
		return false, nil
	}
	delete(m.rows, k)
	return true, nil
}

func (m *memFriendships) DeleteByPair(a, b uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	k := keyOf(a, b)
	if _, ok := m.rows[k]; !ok {
		return false, nil
	}
	delete(m.rows, k)
	return true, nil
}

func (m *memFriendships) ListByUserAndStatus(userID uint, status model.FriendshipStatus) ([]model.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]model.Friendship, 0)
	for _, f := range m.rows {
		if f.Involves(userID) && f.Status == status {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFriendships) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
