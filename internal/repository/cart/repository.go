package cart

import (
	"context"

	"sushi-orders/internal/domain"
)

// Repository persists carts. Mutating methods expect to run inside a transaction
// carried by ctx; they lock the cart row first so writes for one customer serialize.
type Repository interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, customerID string, product domain.Product, quantity int) error
	DecrementLine(ctx context.Context, customerID, productID string) error
	RemoveLine(ctx context.Context, customerID, productID string) error
	LockByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}
