package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/orderdesk/internal/test"
)

type writerStub struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func sampleOrder() model.Order {
	return model.Order{
		ID:          "5c0a9a4e-8a77-4c1b-9d6f-1c1c1c1c1c1c",
		Number:      "D-007",
		Status:      model.OrderStatusPending,
		Source:      model.SourceWeb,
		Customer:    model.Customer{Name: "Anna", Phone: "+79001234567"},
		Items:       []model.LineItem{{ProductID: "pizza", Quantity: 2}, {ProductID: "soup", Quantity: 1}},
		Fulfillment: model.Fulfillment{Type: model.FulfillmentDelivery, Address: "Main st 1"},
		Payment:     model.Payment{Method: model.PaymentCash},
		Pricing:     model.Pricing{ProductsTotal: 1600, DeliveryCost: 185, FinalTotal: 1785},
		CreatedAt:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(sampleOrder())
	assert.Equal(t, "order.created", event.Type)
	assert.Equal(t, "D-007", event.Number)
	assert.Equal(t, 3, event.ItemsCount)
	assert.Equal(t, int64(1785), event.FinalTotal)
	assert.Equal(t, "delivery", event.Fulfillment)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, ParseBrokers(""))
}

func TestKafkaSinkSend(t *testing.T) {
	writer := &writerStub{}
	sink := &KafkaSink{writer: writer, topic: "orders.created"}

	require.NoError(t, sink.Send(context.Background(), sampleOrder()))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("D-007"), writer.messages[0].Key)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, "5c0a9a4e-8a77-4c1b-9d6f-1c1c1c1c1c1c", event.OrderID)

	writer.err = errors.New("broker down")
	err := sink.Send(context.Background(), sampleOrder())
	assert.ErrorContains(t, err, "orders.created")

	require.NoError(t, sink.Close())
	assert.True(t, writer.closed)
}

func TestNewKafkaSinkConfiguresWriter(t *testing.T) {
	sink := NewKafkaSink([]string{"localhost:9092"}, "orders.created")
	writer, ok := sink.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "orders.created", writer.Topic)
	assert.IsType(t, &kafka.Hash{}, writer.Balancer)
}

func TestLogSinkSend(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, sink.Send(context.Background(), sampleOrder()))
	assert.Contains(t, buf.String(), `"number":"D-007"`)
	assert.NoError(t, sink.Close())
}

func TestNewSinkSelectsByConfig(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	sink := newSink(sinkParams{Config: &config.Config{}, Logger: logger})
	assert.IsType(t, &LogSink{}, sink)

	sink = newSink(sinkParams{Config: &config.Config{KafkaBrokers: "localhost:9092", NotifyTopic: "t"}, Logger: logger})
	assert.IsType(t, &KafkaSink{}, sink)
}

func TestRegisterLifecycleClosesSink(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	writer := &writerStub{}
	registerLifecycle(recorder, &KafkaSink{writer: writer})

	require.Len(t, recorder.Hooks, 1)
	require.NoError(t, recorder.Start(context.Background()))
	require.NoError(t, recorder.Stop(context.Background()))
	assert.True(t, writer.closed)
}

var _ fx.Lifecycle = (*testhelpers.LifecycleRecorder)(nil)
