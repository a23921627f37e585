package repository

import (
	"fmt"

	"gorm.io/gorm"

	"partyup-network/internal/model"
)

type RequestLogRepository struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

func (r *RequestLogRepository) Create(entry *model.RequestLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create request log failed: %w", err)
	}
	return nil
}
