// Package alerts delivers owner alerts to a sink off the request path.
package alerts

import (
	"context"
	"sync"
	"time"

	"parceltrack/internal/core/domain/model/alert"
	"parceltrack/internal/core/ports"

	"go.uber.org/zap"
)

const (
	DefaultQueueSize = 256
	sinkTimeout      = 5 * time.Second
)

// Dispatcher is a ports.AlertEmitter backed by a bounded queue and one worker.
// Emit never blocks: alerts that do not fit are dropped and logged.
// Sink failures are logged and never retried.
type Dispatcher struct {
	sink   ports.AlertSink
	logger *zap.Logger
	queue  chan alert.Alert

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	start   sync.Once
}

// NewDispatcher creates a dispatcher queueing up to queueSize alerts for sink.
// Call Start before Emit and Stop on shutdown.
func NewDispatcher(sink ports.AlertSink, queueSize int, logger *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sink:   sink,
		logger: logger.With(zap.String("component", "alert-dispatcher")),
		queue:  make(chan alert.Alert, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. Further calls do nothing.
func (d *Dispatcher) Start() {
	d.start.Do(func() {
		go d.run()
	})
}

func (d *Dispatcher) Emit(_ context.Context, alerts ...alert.Alert) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, a := range alerts {
		if d.stopped {
			d.drop(a, "dispatcher stopped")
			continue
		}
		select {
		case d.queue <- a:
		default:
			d.drop(a, "queue full")
		}
	}
}

// Stop refuses new alerts and waits until queued ones reach the sink or ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.Start()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for a := range d.queue {
		d.deliver(a)
	}
}

func (d *Dispatcher) deliver(a alert.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if err := d.sink.Write(ctx, a); err != nil {
		d.logger.Warn("alert sink failed",
			zap.String("alert_id", a.ID().String()),
			zap.String("delivery_id", a.Delivery().DeliveryID.String()),
			zap.String("kind", string(a.Kind())),
			zap.Error(err))
	}
}

func (d *Dispatcher) drop(a alert.Alert, reason string) {
	d.logger.Warn("alert dropped",
		zap.String("reason", reason),
		zap.String("alert_id", a.ID().String()),
		zap.String("delivery_id", a.Delivery().DeliveryID.String()),
		zap.String("title", a.Title()))
}
