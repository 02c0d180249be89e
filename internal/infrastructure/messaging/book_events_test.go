package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/pkg/metrics"
)

type recordingPublisher struct {
	keys     []string
	messages []interface{}
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, routingKey)
	p.messages = append(p.messages, message)
	return nil
}

func TestBookEventPublisher(t *testing.T) {
	metrics.InitMetrics()
	event := book.Event{Type: book.EventCreated, BookID: 3, ISBN: "978-3", OccurredAt: time.Now()}

	t.Run("事件类型作为routing key", func(t *testing.T) {
		rec := &recordingPublisher{}
		before := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(book.EventCreated, "success"))

		require.NoError(t, NewBookEventPublisher(rec).Publish(context.Background(), event))
		assert.Equal(t, []string{"book.created"}, rec.keys)
		assert.Equal(t, event, rec.messages[0])

		after := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(book.EventCreated, "success"))
		assert.Equal(t, before+1, after)
	})

	t.Run("发布失败返回错误并计数", func(t *testing.T) {
		rec := &recordingPublisher{err: errors.New("channel closed")}
		before := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(book.EventCreated, "failure"))

		assert.Error(t, NewBookEventPublisher(rec).Publish(context.Background(), event))

		after := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(book.EventCreated, "failure"))
		assert.Equal(t, before+1, after)
	})
}
