package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"partyup-network/internal/model"
)

type AuthTokenRepository struct {
	db *gorm.DB
}

func NewAuthTokenRepository(db *gorm.DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func (r *AuthTokenRepository) Create(token *model.AuthToken) error {
	if err := r.db.Omit("User").Create(token).Error; err != nil {
		return wrapWriteErr("create auth token", err)
	}
	return nil
}

func (r *AuthTokenRepository) GetByToken(token string) (*model.AuthToken, error) {
	var record model.AuthToken
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query auth token failed: %w", err)
	}
	return &record, nil
}

// TouchLastUsed bumps last_used_at only, so it can never undo a concurrent
// expiry.
func (r *AuthTokenRepository) TouchLastUsed(id uint, at time.Time) error {
	err := r.db.Model(&model.AuthToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
	if err != nil {
		return fmt.Errorf("touch auth token failed: %w", err)
	}
	return nil
}

// ExpireIfLive sets expires_at to at while the stored record is still live
// at that instant. It reports false when the record was already expired.
func (r *AuthTokenRepository) ExpireIfLive(id uint, at time.Time) (bool, error) {
	res := r.db.Model(&model.AuthToken{}).
		Where("id = ? AND expires_at > ?", id, at).
		Update("expires_at", at)
	if res.Error != nil {
		return false, fmt.Errorf("expire auth token failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
