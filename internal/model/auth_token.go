package model

import "time"

// AuthToken is the ledger record for one issued bearer token. ExpiresAt is
// authoritative for liveness regardless of the expiry embedded in Token.
type AuthToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Token      string    `gorm:"size:512;not null;uniqueIndex" json:"-"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
}

// ExpiredAt reports whether the record is no longer usable at now.
func (t *AuthToken) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
