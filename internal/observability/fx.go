package observability

import (
	"context"

	"github.com/storekeep/storekeep/internal/observability/logger"
	"github.com/storekeep/storekeep/internal/observability/metrics"
	"github.com/storekeep/storekeep/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(
		logger.New,
		metrics.NewProvider,
		metrics.New,
		tracing.NewProvider,
	),
	fx.Invoke(ensureTracingProvider),
	fx.Invoke(registerLoggerHooks),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func registerLoggerHooks(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			_ = log.Sync()
			return nil
		},
	})
}
