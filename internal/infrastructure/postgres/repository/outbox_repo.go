package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOutboxRepository struct {
	DB *gorm.DB
}

func NewDefaultOutboxRepository(db *gorm.DB) *DefaultOutboxRepository {
	return &DefaultOutboxRepository{DB: db}
}

func (r *DefaultOutboxRepository) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	return r.DB.WithContext(ctx).Create(&models.OutboxMessageModel{
		ID:          msg.ID,
		EventType:   msg.EventType,
		AggregateID: msg.AggregateID,
		Payload:     msg.Payload,
		CreatedAt:   msg.CreatedAt,
	}).Error
}

func (r *DefaultOutboxRepository) DequeueBatch(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	var pending []models.OutboxMessageModel
	err := r.DB.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		return nil, err
	}

	msgs := make([]domain.OutboxMessage, len(pending))
	for i, m := range pending {
		msgs[i] = domain.OutboxMessage{
			ID:          m.ID,
			EventType:   m.EventType,
			AggregateID: m.AggregateID,
			Payload:     m.Payload,
			CreatedAt:   m.CreatedAt,
		}
	}
	return msgs, nil
}

func (r *DefaultOutboxRepository) MarkPublished(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Model(&models.OutboxMessageModel{}).
		Where("id IN ? AND published_at IS NULL", ids).
		Update("published_at", time.Now().UTC()).Error
}
