// Package messaging 领域事件 → RabbitMQ
package messaging

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/pkg/metrics"
)

// Publisher 消息发布能力（*mq.Publisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventPublisher 实现book.EventPublisher
// 事件类型即routing key（book.created / book.updated / book.deleted）
type BookEventPublisher struct {
	pub Publisher
}

// NewBookEventPublisher 创建图书事件发布器
func NewBookEventPublisher(pub Publisher) *BookEventPublisher {
	return &BookEventPublisher{pub: pub}
}

// Publish 发布图书事件
func (p *BookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	if err := p.pub.Publish(ctx, event.Type, event); err != nil {
		metrics.RecordEventPublished(event.Type, "failure")
		return err
	}
	metrics.RecordEventPublished(event.Type, "success")
	return nil
}
