package app

import (
	"time"

	"go.uber.org/zap"

	"partyup-network/internal/logger"
	"partyup-network/internal/model"
)

const DefaultSessionTTL = 30 * time.Minute

// TokenLedger is the server-side record of issued tokens. A record's
// ExpiresAt decides whether the token may still be used, whatever the token
// itself claims. Lookup does not filter expired records; callers check
// Expired explicitly.
type TokenLedger struct {
	store AuthTokenStore
	ttl   time.Duration
	now   func() time.Time
	log   *zap.Logger
}

type LedgerOption func(*TokenLedger)

// WithLedgerClock replaces the wall clock used for issue, expiry and touch.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(l *TokenLedger) {
		l.now = now
	}
}

func NewTokenLedger(store AuthTokenStore, ttl time.Duration, log *zap.Logger, opts ...LedgerOption) *TokenLedger {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	l := &TokenLedger{
		store: store,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *TokenLedger) Issue(token string, user *model.User) (*model.AuthToken, error) {
	now := l.now()
	record := &model.AuthToken{
		Token:      token,
		UserID:     user.ID,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(l.ttl),
	}
	if err := l.store.Create(record); err != nil {
		l.log.Error("create auth token failed", zap.String("username", user.Username), zap.Error(err))
		return nil, storeError("Unable to create auth token", err)
	}
	l.log.Info("auth token created", zap.String("username", user.Username), zap.Time("expires_at", record.ExpiresAt))
	return record, nil
}

func (l *TokenLedger) Lookup(token string) (*model.AuthToken, error) {
	record, err := l.store.GetByToken(token)
	if err != nil {
		l.log.Error("query auth token failed", zap.Error(err))
		return nil, storeError("Token not found", err)
	}
	if record == nil {
		return nil, newError(KindNotFound, "Token not found")
	}
	return record, nil
}

// Invalidate forces the record to expire now. Invalidating an already
// expired record is a no-op, and the check runs in the store so a concurrent
// Touch cannot revive the record.
func (l *TokenLedger) Invalidate(record *model.AuthToken) error {
	now := l.now()
	changed, err := l.store.ExpireIfLive(record.ID, now)
	if err != nil {
		l.log.Error("invalidate auth token failed", zap.Uint("user_id", record.UserID), zap.Error(err))
		return storeError("Unable to invalidate auth token", err)
	}
	if !changed {
		return nil
	}
	record.ExpiresAt = now
	l.log.Info("auth token marked as expired",
		zap.Uint("user_id", record.UserID),
		zap.String("token", logger.MaskToken(record.Token)))
	return nil
}

// Touch bumps LastUsedAt after a successful authentication. Only that column
// is written.
func (l *TokenLedger) Touch(record *model.AuthToken) error {
	now := l.now()
	if err := l.store.TouchLastUsed(record.ID, now); err != nil {
		return storeError("Unable to update auth token", err)
	}
	record.LastUsedAt = now
	return nil
}

func (l *TokenLedger) Expired(record *model.AuthToken) bool {
	return record.ExpiredAt(l.now())
}
