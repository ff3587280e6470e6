package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/OCAP2/missionscore/pkg/core"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HandlerFunc processes one event. index is the event's position in the
// sorted mission sequence.
type HandlerFunc func(index int, e core.Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes events to the handler registered for their AType.
// Event types without a handler pass through untouched.
type Dispatcher struct {
	handlers map[core.EventType]HandlerFunc
	logger   Logger

	// OTEL metrics
	processed metric.Int64Counter
	ignored   metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[core.EventType]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error

	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.ignored, err = m.Int64Counter(
		"dispatcher.events.ignored",
		metric.WithDescription("Total events with no registered handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ignored counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given event type with optional configuration.
func (d *Dispatcher) Register(t core.EventType, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.logged {
		handler = d.withLogging(t, handler)
	}

	d.handlers[t] = handler
}

// Dispatch routes an event to its registered handler. A missing or
// non-integer AType is a *core.MalformedEventError.
func (d *Dispatcher) Dispatch(index int, e core.Event) error {
	t, err := e.Type()
	if err != nil {
		return err
	}

	typeAttr := metric.WithAttributes(attribute.String("atype", t.String()))

	h, ok := d.handlers[t]
	if !ok {
		d.ignored.Add(context.Background(), 1, typeAttr)
		return nil
	}

	if err := h(index, e); err != nil {
		return err
	}
	d.processed.Add(context.Background(), 1, typeAttr)
	return nil
}

// DispatchAll dispatches events in order and stops at the first error.
func (d *Dispatcher) DispatchAll(events []core.Event) error {
	for i, e := range events {
		if err := d.Dispatch(i, e); err != nil {
			return err
		}
	}
	return nil
}

// HasHandler returns true if a handler is registered for the event type.
func (d *Dispatcher) HasHandler(t core.EventType) bool {
	_, ok := d.handlers[t]
	return ok
}

func (d *Dispatcher) withLogging(t core.EventType, h HandlerFunc) HandlerFunc {
	return func(index int, e core.Event) error {
		start := time.Now()
		d.logger.Debug("handling event", "atype", t.String(), "index", index, "fields", e.Fields)

		err := h(index, e)

		if err != nil {
			d.logger.Error("event failed", "atype", t.String(), "line", e.Line, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "atype", t.String(), "duration", time.Since(start))
		}

		return err
	}
}
