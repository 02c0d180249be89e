// Package mq 封装RabbitMQ的发布与订阅
//
// 图书写操作成功后发布领域事件（book.created / book.updated / book.deleted）到topic类型的Exchange，
// 下游（搜索索引、管理员工具）按routing key订阅。
//
// 投递语义：
// 1. 发布是尽力而为：发布失败只记录日志，不影响已提交的写操作
// 2. 消费者手动确认：处理失败Nack并重新入队
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// publishChannel Publisher依赖的Channel能力（*amqp.Channel满足）
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
	logger   *zap.Logger
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("message publisher ready",
		zap.String("exchange", exchange),
		zap.String("type", exchangeType),
	)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func declareExchange(channel *amqp.Channel, exchange, exchangeType string) error {
	err := channel.ExchangeDeclare(
		exchange,     // Exchange名称
		exchangeType, // Exchange类型
		true,         // Durable
		false,        // AutoDelete
		false,        // Internal
		false,        // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}

// Publish 发布JSON消息（持久化投递）
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.logger.Debug("message published",
		zap.String("routing_key", routingKey),
		zap.Int("bytes", len(body)),
	)
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// consumeChannel Consumer依赖的Channel能力
type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Message 交给Handler的消息
type Message struct {
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Handler 消息处理函数，返回错误时消息重新入队
type Handler func(ctx context.Context, msg Message) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel consumeChannel
	queue   string
	logger  *zap.Logger
}

// NewConsumer 声明Exchange和Queue，并按routingKeys绑定（支持通配符，如book.*）
// queue为空时声明一个服务端命名的临时队列（连接关闭后自动删除）
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	fail := func(err error) (*Consumer, error) {
		channel.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		return fail(err)
	}

	temporary := queue == ""
	q, err := channel.QueueDeclare(
		queue,
		!temporary, // Durable
		temporary,  // AutoDelete
		temporary,  // Exclusive
		false,      // NoWait
		nil,
	)
	if err != nil {
		return fail(fmt.Errorf("声明Queue失败: %w", err))
	}

	for _, routingKey := range routingKeys {
		if err := channel.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("绑定Queue失败: %w", err))
		}
	}

	logger.Info("message consumer ready",
		zap.String("queue", q.Name),
		zap.Strings("routing_keys", routingKeys),
	)

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		logger:  logger,
	}, nil
}

// Consume 阻塞消费，直到ctx取消或Channel关闭
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // Consumer标签（空表示自动生成）
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}

			msg := Message{RoutingKey: d.RoutingKey, Body: d.Body, Timestamp: d.Timestamp}
			if err := handler(ctx, msg); err != nil {
				c.logger.Warn("message handling failed, requeue",
					zap.String("routing_key", d.RoutingKey),
					zap.Error(err),
				)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
