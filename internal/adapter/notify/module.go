package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/worker"
)

// Sink delivers order events and releases its connection on Close.
type Sink interface {
	worker.Sink
	Close() error
}

// Module provides the notification sink selected by configuration.
var Module = fx.Options(
	fx.Provide(
		newSink,
		func(s Sink) worker.Sink { return s },
	),
	fx.Invoke(registerLifecycle),
)

type sinkParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSink(p sinkParams) Sink {
	brokers := ParseBrokers(p.Config.KafkaBrokers)
	if len(brokers) == 0 {
		p.Logger.Info("kafka brokers not configured, notifications go to log")
		return NewLogSink(p.Logger)
	}
	return NewKafkaSink(brokers, p.Config.NotifyTopic)
}

func registerLifecycle(lc fx.Lifecycle, sink Sink) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sink.Close()
		},
	})
}
