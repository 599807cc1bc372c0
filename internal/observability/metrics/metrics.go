// Package metrics configures the OpenTelemetry meter provider and the
// application-level instruments.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storekeep/storekeep/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Metrics exposes the application instruments.
type Metrics struct {
	ordersPlaced    metric.Int64Counter
	orderRejections metric.Int64Counter
	stockUpserts    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.OtelEnabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.OtelExporterProtocol, cfg.OtelExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	return provider, nil
}

// New configures the domain instruments.
func New(cfg config.Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "storekeep"
	}
	meter := provider.Meter(name)

	ordersPlaced, err := meter.Int64Counter("storekeep_orders_placed_total")
	if err != nil {
		return nil, err
	}
	orderRejections, err := meter.Int64Counter("storekeep_order_rejections_total")
	if err != nil {
		return nil, err
	}
	stockUpserts, err := meter.Int64Counter("storekeep_stock_upserts_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersPlaced:    ordersPlaced,
		orderRejections: orderRejections,
		stockUpserts:    stockUpserts,
	}, nil
}

// RecordOrderPlaced increments the placed-order count.
func (m *Metrics) RecordOrderPlaced(ctx context.Context, lineCount int) {
	if m == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.Int("lines", lineCount)))
}

// RecordOrderRejected increments the rejected-order count.
func (m *Metrics) RecordOrderRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.orderRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordStockUpsert increments the stock upsert count.
func (m *Metrics) RecordStockUpsert(ctx context.Context) {
	if m == nil {
		return
	}
	m.stockUpserts.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
