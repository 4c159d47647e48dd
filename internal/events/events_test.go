package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testSolution() *model.PackingSolution {
	return &model.PackingSolution{
		SolutionID:     "sol-1",
		RequestID:      "req-1",
		OrderID:        "ORD-1",
		CatalogVersion: 4,
		Packages:       []model.Package{{CartonID: "BOX-S", Utilization: 1, TotalWeight: 3, Cost: decimal.RequireFromString("1.10")}},
		Metrics: model.SolutionMetrics{
			TotalPackages:      1,
			AverageUtilization: 1,
			TotalWeight:        3,
			TotalCost:          decimal.RequireFromString("1.10"),
			Strategy:           model.StrategyBestFit,
		},
	}
}

func headers(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestNewSolutionCalculated(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	event := NewSolutionCalculated(testSolution(), now)

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, PackingSolutionCalculated, event.Type)
	assert.Equal(t, SourceCartonization, event.Source)
	assert.Equal(t, "ORD-1", event.Subject)
	assert.Equal(t, "req-1", event.CorrelationID)
	assert.Equal(t, now, event.Time)
	assert.NotEmpty(t, event.ID)

	data, ok := event.Data.(SolutionCalculatedData)
	require.True(t, ok)
	assert.Equal(t, "sol-1", data.SolutionID)
	assert.Equal(t, 1, data.Metrics.TotalPackages)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w)
	event := NewSolutionCalculated(testSolution(), time.Now())

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "ORD-1", string(msg.Key))

	h := headers(msg)
	assert.Equal(t, "1.0", h["ce-specversion"])
	assert.Equal(t, PackingSolutionCalculated, h["ce-type"])
	assert.Equal(t, SourceCartonization, h["ce-source"])
	assert.Equal(t, event.ID, h["ce-id"])
	assert.Equal(t, "req-1", h["ce-wmscorrelationid"])
	assert.Equal(t, "ORD-1", h["ce-wmsorderid"])
	assert.Equal(t, "application/json", h["content-type"])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	payload, ok := decoded["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sol-1", payload["solution_id"])
	metricsPayload, ok := payload["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1.1", metricsPayload["total_cost"])
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w)

	err := p.Publish(context.Background(), NewSolutionCalculated(testSolution(), time.Now()))
	assert.ErrorContains(t, err, "broker down")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestLogPublisher(t *testing.T) {
	p := LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewSolutionCalculated(testSolution(), time.Now())))
	assert.NoError(t, p.Close())
}

func TestDefaultKafkaConfig(t *testing.T) {
	cfg := DefaultKafkaConfig()
	assert.Equal(t, "wms.packing.events", cfg.Topic)
	assert.Equal(t, -1, cfg.RequiredAcks)
	assert.NotNil(t, NewKafkaPublisher(cfg))
}
