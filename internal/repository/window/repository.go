package window

import (
	"context"

	"sushi-orders/internal/domain"
)

// Repository stores the ordering window. The table holds at most one row.
type Repository interface {
	List(ctx context.Context) ([]domain.OrderingWindow, error)
	Upsert(ctx context.Context, w domain.OrderingWindow) (*domain.OrderingWindow, error)
}
