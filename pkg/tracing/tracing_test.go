package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan(t *testing.T) {
	recorder := newRecorder(t)

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, parent := StartSpan(context.Background(), "book", "BookService.Update")
		childCtx, child := StartSpan(ctx, "book", "CoverStore.Store")
		child.End()
		parent.End()

		assert.Equal(t, ExtractTraceID(ctx), ExtractTraceID(childCtx))
		assert.NotEqual(t, ExtractSpanID(ctx), ExtractSpanID(childCtx))

		spans := recorder.Ended()
		require.Len(t, spans, 2)
		assert.Equal(t, "CoverStore.Store", spans[0].Name())
		assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
	})
}

func TestRecordError(t *testing.T) {
	recorder := newRecorder(t)

	_, span := StartSpan(context.Background(), "book", "ok")
	RecordError(span, nil)
	span.End()

	_, span = StartSpan(context.Background(), "book", "failed")
	RecordError(span, errors.New("isbn duplicate"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "isbn duplicate", spans[1].Status().Description)
}

func TestExtractIDs_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
