package store

import (
	"context"

	"gorm.io/gorm"

	"bakehouse/internal/models"
)

type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *MessageStore) List(ctx context.Context, limit, offset int) ([]models.Message, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Message{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

func (s *MessageStore) MarkRead(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
