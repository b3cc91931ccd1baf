package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/metrics"
)

type invoiceStore interface {
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	SetDocumentURL(ctx context.Context, id, url string) error
}

type orderReader interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// Service renders invoice documents and records where they were stored.
type Service struct {
	invoices  invoiceStore
	orders    orderReader
	renderer  Renderer
	store     Store
	locker    Locker
	lockTTL   time.Duration
	lockRetry time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

type Deps struct {
	Invoices invoiceStore
	Orders   orderReader
	Renderer Renderer
	Store    Store
	Locker   Locker
	LockTTL  time.Duration
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func NewService(d Deps) *Service {
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.LockTTL <= 0 {
		d.LockTTL = time.Minute
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		invoices:  d.Invoices,
		orders:    d.Orders,
		renderer:  d.Renderer,
		store:     d.Store,
		locker:    d.Locker,
		lockTTL:   d.LockTTL,
		lockRetry: 100 * time.Millisecond,
		metrics:   d.Metrics,
		logger:    d.Logger.Named("document"),
	}
}

// Regenerate renders the invoice document again, stores it under a fresh name
// and points the invoice at it. Earlier documents stay where they were.
func (s *Service) Regenerate(ctx context.Context, invoiceID string) (string, error) {
	invoiceID, err := domain.ParseID("invoice", invoiceID)
	if err != nil {
		return "", err
	}
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return "", err
	}

	key := "invoice-render:" + inv.ID
	token, err := s.acquire(ctx, key)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("release render lock", zap.String("invoice_id", inv.ID), zap.Error(err))
		}
	}()

	order, err := s.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return "", fmt.Errorf("load order %s: %w", inv.OrderID, err)
	}

	data, err := s.renderer.Render(ctx, domain.InvoiceDocument{Invoice: *inv, Order: *order})
	if err != nil {
		s.metrics.DocumentRendered(metrics.RenderFailed)
		return "", fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}

	name := fmt.Sprintf("invoices/%s-%s%s", inv.InvoiceNumber, uuid.NewString(), s.renderer.Extension())
	url, err := s.store.Save(ctx, name, data)
	if err != nil {
		s.metrics.DocumentRendered(metrics.RenderFailed)
		return "", fmt.Errorf("store invoice %s: %w", inv.InvoiceNumber, err)
	}
	if err := s.invoices.SetDocumentURL(ctx, inv.ID, url); err != nil {
		s.metrics.DocumentRendered(metrics.RenderFailed)
		s.logger.Warn("record invoice document url", zap.String("invoice_id", inv.ID), zap.String("url", url), zap.Error(err))
		return "", err
	}

	s.metrics.DocumentRendered(metrics.RenderSucceeded)
	s.logger.Info("invoice document rendered",
		zap.String("invoice_id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("url", url))
	return url, nil
}

// acquire waits for the render lock until ctx is done.
func (s *Service) acquire(ctx context.Context, key string) (string, error) {
	for {
		token, ok, err := s.locker.TryLock(ctx, key, s.lockTTL)
		if err != nil {
			return "", fmt.Errorf("%w: render lock: %v", domain.ErrTransient, err)
		}
		if ok {
			return token, nil
		}
		select {
		case <-time.After(s.lockRetry):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: render lock busy: %v", domain.ErrTransient, ctx.Err())
		}
	}
}
