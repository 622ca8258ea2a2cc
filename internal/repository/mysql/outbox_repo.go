package mysql

import (
	"context"
	"encoding/json"

	"blogicum/internal/model"

	"gorm.io/gorm"
)

// MaxOutboxRetry 超过该重试次数的事件标记为失败，不再投递
const MaxOutboxRetry = 5

type OutboxRepository struct {
	DB *gorm.DB
}

// writeOutbox 与业务写入同一事务落库
func writeOutbox(tx *gorm.DB, eventType string, aggregateID, actorID uint64, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&model.Outbox{
		EventType:   eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Payload:     string(b),
		Status:      model.OutboxPending,
	}).Error
}

// List 按 id 顺序取待投递事件
func (r *OutboxRepository) List(ctx context.Context, limit int) ([]model.Outbox, error) {
	var rows []model.Outbox
	err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

// RetryUpdate 重试次数 +1，达到上限后置为失败
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Outbox{}).Where("id = ?", id).
			Update("retry", gorm.Expr("retry + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&model.Outbox{}).
			Where("id = ? AND retry >= ?", id, MaxOutboxRetry).
			Update("status", model.OutboxFailed).Error
	})
}
