package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishCall struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakePublishChannel struct {
	calls []publishCall
	err   error
}

func (f *fakePublishChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakePublishChannel) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	ch := &fakePublishChannel{}
	p := &Publisher{channel: ch, exchange: "horizon.events", logger: zap.NewNop()}

	err := p.Publish(context.Background(), "book.created", map[string]interface{}{"id": 7, "isbn": "111"})
	require.NoError(t, err)

	require.Len(t, ch.calls, 1)
	call := ch.calls[0]
	assert.Equal(t, "horizon.events", call.exchange)
	assert.Equal(t, "book.created", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(call.msg.Body, &body))
	assert.Equal(t, "111", body["isbn"])

	t.Run("发布失败返回错误", func(t *testing.T) {
		p := &Publisher{channel: &fakePublishChannel{err: amqp.ErrClosed}, exchange: "x", logger: zap.NewNop()}
		assert.ErrorIs(t, p.Publish(context.Background(), "book.deleted", 1), amqp.ErrClosed)
	})

	t.Run("无法序列化", func(t *testing.T) {
		assert.Error(t, p.Publish(context.Background(), "book.deleted", make(chan int)))
	})
}

type fakeAcker struct {
	acked, nacked []uint64
}

func (a *fakeAcker) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcker) Nack(tag uint64, _ bool, _ bool) error {
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *fakeAcker) Reject(tag uint64, _ bool) error { return nil }

type fakeConsumeChannel struct {
	deliveries chan amqp.Delivery
}

func (f *fakeConsumeChannel) Qos(int, int, bool) error { return nil }

func (f *fakeConsumeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeConsumeChannel) Close() error { return nil }

func TestConsumer_Consume(t *testing.T) {
	acker := &fakeAcker{}
	ch := &fakeConsumeChannel{deliveries: make(chan amqp.Delivery, 2)}
	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, RoutingKey: "book.created", Body: []byte(`{"id":1}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, RoutingKey: "book.deleted", Body: []byte(`{"id":2}`)}
	close(ch.deliveries)

	c := &Consumer{channel: ch, queue: "q", logger: zap.NewNop()}

	var got []string
	err := c.Consume(context.Background(), func(ctx context.Context, msg Message) error {
		got = append(got, msg.RoutingKey)
		if msg.RoutingKey == "book.deleted" {
			return errors.New("index unavailable")
		}
		return nil
	})

	// Channel关闭后返回错误
	require.Error(t, err)
	assert.Equal(t, []string{"book.created", "book.deleted"}, got)
	assert.Equal(t, []uint64{1}, acker.acked)
	assert.Equal(t, []uint64{2}, acker.nacked, "处理失败应重新入队")
}

func TestConsumer_Consume_ContextCancelled(t *testing.T) {
	ch := &fakeConsumeChannel{deliveries: make(chan amqp.Delivery)}
	c := &Consumer{channel: ch, queue: "q", logger: zap.NewNop()}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Consume(ctx, func(context.Context, Message) error { return nil })
	assert.NoError(t, err)
}
