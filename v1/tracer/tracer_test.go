package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/sqlconn/v1/logger"
)

func newRecordedTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tr, err := NewClient(Config{ServiceName: "sqlconn-test", AppEnv: "test"}, logger.NewNop(),
		sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	return tr, recorder
}

func TestSpansCarryResourceAndAttributes(t *testing.T) {
	tr, recorder := newRecordedTracer(t)

	_, span := tr.StartSpan(context.Background(), "sqlconn.exec")
	tr.SetAttributes(span, map[string]interface{}{
		"statements": 2,
		"tx":         true,
		"format":     "table",
		"ratio":      0.5,
		"id":         int64(7),
		"other":      []string{"a"},
	})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	s := spans[0]

	assert.Equal(t, "sqlconn.exec", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Contains(t, s.Attributes(), attribute.Int("statements", 2))
	assert.Contains(t, s.Attributes(), attribute.Bool("tx", true))
	assert.Contains(t, s.Attributes(), attribute.String("other", "[a]"))
	assert.Contains(t, s.Resource().Attributes(), attribute.String("service.name", "sqlconn-test"))
	assert.Len(t, s.Events(), 1, "the error is recorded as an event")
}

func TestProviderIsUsableByComponents(t *testing.T) {
	tr, recorder := newRecordedTracer(t)

	_, span := tr.Provider().Tracer("component").Start(context.Background(), "component.op")
	span.End()

	assert.Len(t, recorder.Ended(), 1)
}

func TestLifecycleShutsDown(t *testing.T) {
	tr, recorder := newRecordedTracer(t)
	lc := fxtest.NewLifecycle(t)
	RegisterTracerLifecycle(lc, tr)

	lc.RequireStart()
	_, span := tr.StartSpan(context.Background(), "before-stop")
	span.End()
	lc.RequireStop()

	assert.Len(t, recorder.Ended(), 1)

	var nilTracer *Tracer
	assert.NoError(t, nilTracer.Shutdown(context.Background()))
}
