package models

import "time"

type OutboxMessageModel struct {
	ID          string     `gorm:"primaryKey;type:uuid"`
	EventType   string     `gorm:"not null"`
	AggregateID string     `gorm:"index;not null"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time  `gorm:"index:idx_outbox_pending;not null"`
	PublishedAt *time.Time `gorm:"index:idx_outbox_pending"`
}

func (OutboxMessageModel) TableName() string {
	return "outbox_messages"
}
