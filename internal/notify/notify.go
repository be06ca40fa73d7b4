// Package notify delivers error reports to operators without blocking callers.
package notify

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/metrics"
)

// Dispatcher hands reports to a Notifier on a bounded worker pool.
// Report never blocks and never fails; delivery problems are logged and counted.
type Dispatcher struct {
	pool     *ants.Pool
	notifier domain.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*Dispatcher)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithTimeout bounds each delivery. Zero means no bound.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = t }
}

// NewDispatcher starts a pool of workers delivering to n.
func NewDispatcher(n domain.Notifier, workers int, opts ...Option) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{notifier: n, timeout: 10 * time.Second, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	pool, err := ants.NewPool(workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			metrics.ErrorNotifications.WithLabelValues(metrics.Failure).Inc()
			d.logger.Error("notifier panicked", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create notifier pool")
	}
	d.pool = pool
	return d, nil
}

// Report submits message and err for delivery and returns immediately.
// Reports are dropped when every worker is busy.
func (d *Dispatcher) Report(message string, err error) {
	submitErr := d.pool.Submit(func() { d.deliver(message, err) })
	if submitErr != nil {
		metrics.ErrorNotifications.WithLabelValues(metrics.Skipped).Inc()
		d.logger.Debug("error report dropped", zap.String("message", message), zap.Error(submitErr))
	}
}

func (d *Dispatcher) deliver(message string, err error) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if nerr := d.notifier.NotifyOnError(ctx, message, err); nerr != nil {
		metrics.ErrorNotifications.WithLabelValues(metrics.Failure).Inc()
		d.logger.Debug("error report not delivered", zap.String("message", message), zap.Error(nerr))
		return
	}
	metrics.ErrorNotifications.WithLabelValues(metrics.Success).Inc()
}

// Close waits up to timeout for pending reports, then stops the workers.
func (d *Dispatcher) Close(timeout time.Duration) error {
	return d.pool.ReleaseTimeout(timeout)
}

// LogSink writes reports to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(l *zap.Logger) *LogSink { return &LogSink{logger: l} }

func (s *LogSink) NotifyOnError(_ context.Context, message string, err error) error {
	s.logger.Error(message, zap.Error(err))
	return nil
}
