package calcapi

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, (re)created by InitMetrics.
var (
	keysCounter  metric.Int64Counter
	opsHistogram metric.Float64Histogram
	errorCounter metric.Int64Counter
	resultGauge  metric.Float64Gauge
)

func init() {
	// Usable no-op instruments until InitMetrics runs against a real provider.
	if err := InitMetrics(); err != nil {
		panic(err)
	}
}

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Total number of calculator keys processed"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The last numeric value shown by a calculator"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

// SessionCounter is satisfied by session.Manager.
type SessionCounter interface {
	Count() int
}

// RegisterCollectors exposes the live session count on the Prometheus
// registry behind /metrics.
func RegisterCollectors(reg prometheus.Registerer, sessions SessionCounter) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "scicalc",
		Name:      "active_sessions",
		Help:      "Calculator sessions held in memory by this process.",
	}, func() float64 {
		return float64(sessions.Count())
	})
	if err := reg.Register(gauge); err != nil {
		return fmt.Errorf("registering active sessions gauge: %w", err)
	}
	return nil
}
