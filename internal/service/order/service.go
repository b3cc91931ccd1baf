package order

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"sushi-orders/internal/clock"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/metrics"
)

const maxCommentLength = 1000

type cartStore interface {
	LockByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type orderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	LockStatus(ctx context.Context, id string) (domain.OrderStatus, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type invoiceStore interface {
	sequenceSource
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
}

type txRunner interface {
	WithTx(ctx context.Context, opts db.TxOptions, fn func(ctx context.Context) error) error
}

// renderQueue accepts invoices whose document should be rendered after commit.
type renderQueue interface {
	Enqueue(invoiceID string) bool
}

type Service struct {
	carts    cartStore
	orders   orderStore
	invoices invoiceStore
	numberer *Numberer
	tx       txRunner
	clock    clock.Clock
	render   renderQueue
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

type Deps struct {
	Carts    cartStore
	Orders   orderStore
	Invoices invoiceStore
	Tx       txRunner
	Clock    clock.Clock
	Render   renderQueue
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func New(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clock.NewSystem()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		carts:    d.Carts,
		orders:   d.Orders,
		invoices: d.Invoices,
		numberer: NewNumberer(d.Invoices, d.Clock),
		tx:       d.Tx,
		clock:    d.Clock,
		render:   d.Render,
		metrics:  d.Metrics,
		logger:   d.Logger.Named("order"),
	}
}

// Confirm turns the customer's cart into a Pending order with an invoice and empties
// the cart, all in one transaction. The invoice document is queued for rendering
// only after the transaction commits; a render failure never undoes the order.
func (s *Service) Confirm(ctx context.Context, customerID, comments string) (*domain.Order, error) {
	customerID, err := domain.ParseID("customer", customerID)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(comments) > maxCommentLength {
		return nil, domain.Validationf("comments must be at most %d characters", maxCommentLength)
	}

	var order *domain.Order
	err = s.tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		cart, err := s.carts.LockByCustomer(ctx, customerID)
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		now := s.clock.Now()
		order = &domain.Order{
			CustomerID:  customerID,
			OrderDate:   now,
			Status:      domain.OrderStatusPending,
			TotalAmount: cart.TotalAmount,
			Comments:    comments,
			Lines:       domain.OrderLinesFromCart(cart.Lines),
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		number, err := s.numberer.nextAt(ctx, now)
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}
		inv := &domain.Invoice{
			OrderID:       order.ID,
			CustomerID:    customerID,
			InvoiceNumber: number,
			InvoiceDate:   now,
			Amount:        order.TotalAmount,
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		order.Invoice = inv

		return s.carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderConfirmed()
	s.logger.Info("order confirmed",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID),
		zap.String("invoice_number", order.Invoice.InvoiceNumber),
		zap.Stringer("total", order.TotalAmount))

	if s.render == nil {
		s.metrics.DocumentRendered(metrics.RenderSkipped)
		return order, nil
	}
	s.render.Enqueue(order.Invoice.ID)
	return order, nil
}

// UpdateStatus moves an order to a new status if the transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (domain.OrderStatus, error) {
	orderID, err := domain.ParseID("order", orderID)
	if err != nil {
		return "", err
	}
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return "", err
	}

	err = s.tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		current, err := s.orders.LockStatus(ctx, orderID)
		if err != nil {
			return err
		}
		if !current.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current, next)
		}
		if current == next {
			return nil
		}
		return s.orders.UpdateStatus(ctx, orderID, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

// Get returns the order with its lines and invoice.
func (s *Service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID, err := domain.ParseID("order", orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.GetByOrderID(ctx, orderID)
	switch {
	case err == nil:
		order.Invoice = inv
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return order, nil
}

// InvoicesForCustomer lists the customer's invoices, newest first.
func (s *Service) InvoicesForCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	customerID, err := domain.ParseID("customer", customerID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoices, nil
}

// List returns every order with its lines, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.tx.WithTx(ctx, db.SnapshotReadOnly, func(ctx context.Context) error {
		var err error
		orders, err = s.orders.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// InvoicesByCustomer returns all invoices grouped by customer.
func (s *Service) InvoicesByCustomer(ctx context.Context) ([]domain.CustomerInvoices, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, domain.ErrInvoiceNotFound
	}
	return domain.GroupInvoicesByCustomer(invoices), nil
}
