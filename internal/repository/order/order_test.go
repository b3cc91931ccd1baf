package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/testutil"
)

func TestPostgres_CreateGetAndPendingLines(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)

	var rollID, soupID string
	if err := pool.QueryRow(ctx, `INSERT INTO products (key, name, price_cents, stock) VALUES ('roll', 'Roll', 850, 8) RETURNING id::text`).Scan(&rollID); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO products (key, name, price_cents, stock) VALUES ('soup', 'Soup', 300, 1) RETURNING id::text`).Scan(&soupID); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	at := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	o := &domain.Order{
		CustomerID:  uuid.NewString(),
		OrderDate:   at,
		Status:      domain.OrderStatusPending,
		TotalAmount: 2000,
		Lines: []domain.OrderLine{
			{ProductID: rollID, Quantity: 2, Price: 850},
			{ProductID: soupID, Quantity: 1, Price: 300},
		},
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Lines) != 2 || got.Lines[0].ProductName != "Roll" || got.Lines[1].ProductName != "Soup" {
		t.Fatalf("unexpected lines %+v", got.Lines)
	}

	// Stock changes after the order must show up in the report.
	if _, err := pool.Exec(ctx, `UPDATE products SET stock = 4 WHERE id = $1`, rollID); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	lines, err := repo.PendingLines(ctx, domain.InclusiveInterval(at, at))
	if err != nil {
		t.Fatalf("PendingLines: %v", err)
	}
	if len(lines) != 2 || lines[0].CurrentStock != 4 || lines[0].Quantity != 2 {
		t.Fatalf("unexpected pending lines %+v", lines)
	}

	if err := repo.UpdateStatus(ctx, o.ID, domain.OrderStatusPaid); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	lines, err = repo.PendingLines(ctx, domain.InclusiveInterval(at, at))
	if err != nil {
		t.Fatalf("PendingLines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("paid orders must not be pending, got %+v", lines)
	}

	counts, err := repo.StatusCounts(ctx)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	if len(counts) != 1 || counts[0].Status != domain.OrderStatusPaid || counts[0].Count != 1 || counts[0].TotalAmount != 2000 {
		t.Fatalf("unexpected status counts %+v", counts)
	}

	days, err := repo.DailyTotals(ctx, domain.InclusiveInterval(at.AddDate(0, 0, -1), at))
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if len(days) != 1 || !days[0].Day.Equal(domain.StartOfDay(at)) || days[0].TotalAmount != 2000 {
		t.Fatalf("unexpected daily totals %+v", days)
	}
}

func TestPostgres_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %+v", empty)
	}

	var productID string
	if err := pool.QueryRow(ctx, `INSERT INTO products (key, name, price_cents, stock) VALUES ('roll', 'Roll', 850, 8) RETURNING id::text`).Scan(&productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	older := &domain.Order{
		CustomerID:  uuid.NewString(),
		OrderDate:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:      domain.OrderStatusPending,
		TotalAmount: 850,
		Lines:       []domain.OrderLine{{ProductID: productID, Quantity: 1, Price: 850}},
	}
	newer := &domain.Order{
		CustomerID:  uuid.NewString(),
		OrderDate:   time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
		Status:      domain.OrderStatusPaid,
		TotalAmount: 1700,
		Lines:       []domain.OrderLine{{ProductID: productID, Quantity: 2, Price: 850}},
	}
	for _, o := range []*domain.Order{older, newer} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	orders, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != newer.ID || orders[1].ID != older.ID {
		t.Fatalf("unexpected order list %+v", orders)
	}
	if len(orders[0].Lines) != 1 || orders[0].Lines[0].ProductName != "Roll" || orders[0].Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", orders[0].Lines)
	}
}

func TestPostgres_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)

	id := uuid.NewString()
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := repo.LockStatus(ctx, id); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
