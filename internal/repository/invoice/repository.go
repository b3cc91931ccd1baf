package invoice

import (
	"context"

	"sushi-orders/internal/domain"
)

type Repository interface {
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	SetDocumentURL(ctx context.Context, id, url string) error
}
