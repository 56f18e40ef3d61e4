package config

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module exposes configuration loader for fx graphs and logs the effective settings.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(logSummary),
)

// logSummary records non-secret settings at startup.
func logSummary(cfg *Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("run_address", cfg.RunAddress),
		slog.Bool("kafka_enabled", cfg.KafkaBrokers != ""),
		slog.Bool("admin_bootstrap", cfg.AdminLogin != ""),
		slog.Bool("strict_transitions", cfg.StrictTransitions),
		slog.Int("allocation_retries", cfg.AllocationRetries),
		slog.Float64("pickup_discount_rate", cfg.PickupDiscountRate),
		slog.Group("prefixes",
			slog.String("delivery", cfg.Prefixes.Delivery),
			slog.String("pickup", cfg.Prefixes.Pickup),
			slog.String("operator", cfg.Prefixes.Operator),
		),
	)
}
