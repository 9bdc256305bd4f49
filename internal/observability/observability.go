package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls logger, tracing and metrics setup.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string // json|text

	// OTLPEndpoint enables span export over OTLP/gRPC when set.
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceSampleRate float64
}

// Observability bundles the handles every module receives.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  OperationMetrics

	shutdown func(context.Context) error
}

// New builds the production observability stack. Tracing stays a no-op
// unless an OTLP endpoint is configured.
func New(ctx context.Context, cfg Config) (Observability, error) {
	logger := NewLogger(os.Stdout, cfg)
	registry := prometheus.NewRegistry()

	obs := Observability{
		Logger:   logger,
		Tracer:   noop.NewTracerProvider().Tracer(cfg.ServiceName),
		Registry: registry,
		Metrics:  NewPrometheusMetrics(registry, cfg.ServiceName),
	}

	if cfg.OTLPEndpoint == "" {
		return obs, nil
	}

	tp, err := newOTLPTracerProvider(ctx, cfg)
	if err != nil {
		return Observability{}, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	obs.Tracer = tp.Tracer(cfg.ServiceName)
	obs.shutdown = tp.Shutdown
	logger.Info("Tracing enabled", slog.String("otlp_endpoint", cfg.OTLPEndpoint))
	return obs, nil
}

// Shutdown flushes pending spans.
func (o Observability) Shutdown(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}
	return o.shutdown(ctx)
}

// NewNoop returns observability handles that discard everything. Used by tests.
func NewNoop() Observability {
	return Observability{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("noop"),
		Metrics: NoopMetrics{},
	}
}

// NewLogger creates a slog logger tagged with service and environment.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type correlationIDKey struct{}

// WithCorrelationID stores a correlation id on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the correlation id stored on ctx, or "".
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return v
	}
	return ""
}

type messageIDKey struct{}

// WithMessageID stores the id of the bus message being handled on the context.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, messageIDKey{}, id)
}

// MessageID returns the id of the bus message being handled, or "".
func MessageID(ctx context.Context) string {
	if v, ok := ctx.Value(messageIDKey{}).(string); ok {
		return v
	}
	return ""
}

// CorrelationAttr is a log attribute carrying the context correlation id.
func CorrelationAttr(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

// ErrorAttr formats an error as a log attribute.
func ErrorAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
