package document

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sushi-orders/internal/metrics"
)

type regenerator interface {
	Regenerate(ctx context.Context, invoiceID string) (string, error)
}

// Dispatcher renders invoice documents in the background after orders commit.
// A failed or dropped render only gets logged; the invoice keeps a null URL until
// someone calls regenerate.
type Dispatcher struct {
	regen   regenerator
	queue   chan string
	workers int
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewDispatcher(regen regenerator, workers, queueSize int, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		regen:   regen,
		queue:   make(chan string, queueSize),
		workers: workers,
		timeout: timeout,
		metrics: m,
		logger:  logger.Named("render_dispatcher"),
	}
}

// Enqueue never blocks; it reports false when the queue is full.
func (d *Dispatcher) Enqueue(invoiceID string) bool {
	select {
	case d.queue <- invoiceID:
		d.metrics.SetRenderQueueDepth(len(d.queue))
		return true
	default:
		d.metrics.DocumentRendered(metrics.RenderDropped)
		d.logger.Warn("render queue full, document left for regeneration", zap.String("invoice_id", invoiceID))
		return false
	}
}

// Run starts the workers and blocks until ctx is cancelled. Renders already in
// flight are allowed to finish within their own timeout. Invoices still queued
// at shutdown are logged and counted as dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			d.work(gctx)
			return nil
		})
	}
	err := g.Wait()
	d.drain()
	return err
}

func (d *Dispatcher) drain() {
	for {
		select {
		case id := <-d.queue:
			d.metrics.DocumentRendered(metrics.RenderDropped)
			d.logger.Warn("shutting down with document unrendered, left for regeneration", zap.String("invoice_id", id))
		default:
			d.metrics.SetRenderQueueDepth(0)
			return
		}
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case id := <-d.queue:
			d.metrics.SetRenderQueueDepth(len(d.queue))
			d.render(ctx, id)
		}
	}
}

func (d *Dispatcher) render(ctx context.Context, invoiceID string) {
	rctx := context.WithoutCancel(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, d.timeout)
		defer cancel()
	}

	if _, err := d.regen.Regenerate(rctx, invoiceID); err != nil {
		d.logger.Warn("invoice document render failed", zap.String("invoice_id", invoiceID), zap.Error(err))
	}
}
