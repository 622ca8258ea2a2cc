package service

import (
	"context"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Sender 投递单条事件，返回 error 时该事件稍后重试
type Sender func(ctx context.Context, ob *model.Outbox) error

// OutboxRelayer 轮询 outbox 表，把内容变更事件投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 按 id 顺序投递一批，返回成功条数
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		pkg.Logger.WithError(err).Error("outbox query failed")
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			pkg.Logger.WithFields(logrus.Fields{"outbox_id": ob.ID, "event": ob.EventType, "error": err}).
				Warn("outbox send failed")
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
		sent++
	}
	return sent
}

// KafkaSender 以聚合 id 为 key，同一篇文章/评论的事件保持顺序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.AggregateID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
			"actor_id":   pkg.MakeKeyFromID(ob.ActorID),
		})
	}
}

// LogSender 未配置 Kafka 时使用，只打日志
func LogSender(ctx context.Context, ob *model.Outbox) error {
	pkg.Logger.WithFields(logrus.Fields{
		"event":        ob.EventType,
		"aggregate_id": ob.AggregateID,
		"actor_id":     ob.ActorID,
		"payload":      ob.Payload,
	}).Info("outbox event")
	return nil
}
