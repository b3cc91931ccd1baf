package cart

import (
	"context"

	"go.uber.org/zap"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
)

type Service struct {
	repo     cartRepo
	products productReader
	tx       txRunner
	logger   *zap.Logger
}

type cartRepo interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, customerID string, product domain.Product, quantity int) error
	DecrementLine(ctx context.Context, customerID, productID string) error
	RemoveLine(ctx context.Context, customerID, productID string) error
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, opts db.TxOptions, fn func(ctx context.Context) error) error
}

func New(repo cartRepo, products productReader, tx txRunner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, products: products, tx: tx, logger: logger.Named("cart")}
}

type AddItemInput struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

func (s *Service) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	customerID, err := domain.ParseID("customer", customerID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByCustomer(ctx, customerID)
}

// AddItem adds to the customer's cart, creating it on first use. Quantity defaults to one.
func (s *Service) AddItem(ctx context.Context, customerID string, in AddItemInput) (*domain.Cart, error) {
	customerID, err := domain.ParseID("customer", customerID)
	if err != nil {
		return nil, err
	}
	productID, err := domain.ParseID("product", in.ProductID)
	if err != nil {
		return nil, err
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		return s.repo.AddLine(ctx, customerID, *product, qty)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("item added", zap.String("customer_id", customerID), zap.String("product_id", productID), zap.Int("quantity", qty))
	return s.repo.GetByCustomer(ctx, customerID)
}

// RemoveItem takes one unit of the product out of the cart.
func (s *Service) RemoveItem(ctx context.Context, customerID, productID string) (*domain.Cart, error) {
	return s.mutateLine(ctx, customerID, productID, s.repo.DecrementLine)
}

// RemoveProduct drops the product's line regardless of quantity.
func (s *Service) RemoveProduct(ctx context.Context, customerID, productID string) (*domain.Cart, error) {
	return s.mutateLine(ctx, customerID, productID, s.repo.RemoveLine)
}

func (s *Service) mutateLine(ctx context.Context, customerID, productID string, fn func(ctx context.Context, customerID, productID string) error) (*domain.Cart, error) {
	customerID, err := domain.ParseID("customer", customerID)
	if err != nil {
		return nil, err
	}
	productID, err = domain.ParseID("product", productID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		return fn(ctx, customerID, productID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByCustomer(ctx, customerID)
}
