package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sushi-orders/internal/clock"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
	orderrepo "sushi-orders/internal/repository/order"
	windowrepo "sushi-orders/internal/repository/window"
	"sushi-orders/internal/testutil"
)

func TestPendingTotal_IncludesWholeOffDay(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	orders := orderrepo.NewPostgres(pool, nil)
	windows := windowrepo.NewPostgres(pool, nil)

	_, err := windows.Upsert(ctx, domain.OrderingWindow{
		IsEnabled: true,
		OnDate:    ptr(ts("2025-03-01T12:00:00Z")),
		OffDate:   ptr(ts("2025-03-10T08:00:00Z")),
	})
	require.NoError(t, err)

	place := func(at time.Time, status domain.OrderStatus, cents domain.Money) {
		t.Helper()
		require.NoError(t, orders.Create(ctx, &domain.Order{
			CustomerID:  uuid.NewString(),
			OrderDate:   at,
			Status:      status,
			TotalAmount: cents,
		}))
	}
	place(ts("2025-03-01T00:00:00Z"), domain.OrderStatusPending, 100)
	place(ts("2025-03-10T23:59:59.999999Z"), domain.OrderStatusPending, 200)
	place(ts("2025-03-11T00:00:00Z"), domain.OrderStatusPending, 400)
	place(ts("2025-02-28T23:59:59.999999Z"), domain.OrderStatusPending, 800)
	place(ts("2025-03-05T10:00:00Z"), domain.OrderStatusPaid, 1600)

	svc := New(windows, orders, db.NewTransactor(pool, nil, 3, 0), clock.NewFixed(ts("2025-04-01T00:00:00Z")), nil)
	got, err := svc.PendingTotal(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(300), got.TotalAmount)
	assert.Equal(t, 2, got.Count)
}
