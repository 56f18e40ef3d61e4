package notify

import (
	"context"
	"log/slog"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// LogSink writes order events to the application log. Used when no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, order model.Order) error {
	event := NewOrderEvent(order)
	s.logger.InfoContext(ctx, "new order for operators",
		slog.String("order_id", event.OrderID),
		slog.String("number", event.Number),
		slog.String("status", event.Status),
		slog.String("fulfillment", event.Fulfillment),
		slog.Int64("final_total", event.FinalTotal),
	)
	return nil
}

func (s *LogSink) Close() error {
	return nil
}
