package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"partyup-network/internal/model"
)

// FriendshipRepository addresses rows by their normalized pair, so callers
// never need to try both slot orders.
type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

func (r *FriendshipRepository) Create(friendship *model.Friendship) error {
	if err := r.db.Omit("UserOne", "UserTwo").Create(friendship).Error; err != nil {
		return wrapWriteErr("create friendship", err)
	}
	return nil
}

func (r *FriendshipRepository) GetByPair(a, b uint) (*model.Friendship, error) {
	one, two := model.OrderedPair(a, b)
	var friendship model.Friendship
	if err := r.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query friendship failed: %w", err)
	}
	return &friendship, nil
}

// TransitionStatus moves the pair from one status to another in a single
// conditional update. It reports false when no row was in the from status.
func (r *FriendshipRepository) TransitionStatus(a, b uint, from, to model.FriendshipStatus) (bool, error) {
	one, two := model.OrderedPair(a, b)
	res := r.db.Model(&model.Friendship{}).
		Where("user_one_id = ? AND user_two_id = ? AND status = ?", one, two, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("update friendship status failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteByPairWithStatus deletes the pair only while it is in status.
func (r *FriendshipRepository) DeleteByPairWithStatus(a, b uint, status model.FriendshipStatus) (bool, error) {
	one, two := model.OrderedPair(a, b)
	res := r.db.Where("user_one_id = ? AND user_two_id = ? AND status = ?", one, two, status).
		Delete(&model.Friendship{})
	if res.Error != nil {
		return false, fmt.Errorf("delete friendship failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FriendshipRepository) DeleteByPair(a, b uint) (bool, error) {
	one, two := model.OrderedPair(a, b)
	res := r.db.Where("user_one_id = ? AND user_two_id = ?", one, two).Delete(&model.Friendship{})
	if res.Error != nil {
		return false, fmt.Errorf("delete friendship failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FriendshipRepository) ListByUserAndStatus(userID uint, status model.FriendshipStatus) ([]model.Friendship, error) {
	var friendships []model.Friendship
	err := r.db.
		Where("(user_one_id = ? OR user_two_id = ?) AND status = ?", userID, userID, status).
		Order("id ASC").
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("list friendships failed: %w", err)
	}
	return friendships, nil
}
