package order

import (
	"context"

	"sushi-orders/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	LockStatus(ctx context.Context, id string) (domain.OrderStatus, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	PendingTotal(ctx context.Context, interval domain.Interval) (domain.Money, int, error)
	PendingLines(ctx context.Context, interval domain.Interval) ([]domain.PendingLine, error)
	DailyTotals(ctx context.Context, interval domain.Interval) ([]domain.OrderDay, error)
	StatusCounts(ctx context.Context) ([]StatusCount, error)
}

type StatusCount struct {
	Status      domain.OrderStatus `json:"status"`
	Count       int                `json:"count"`
	TotalAmount domain.Money       `json:"totalAmount"`
}
