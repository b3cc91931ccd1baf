package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sushi-orders/internal/clock"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/repository/order"
)

type stubWindows struct {
	windows []domain.OrderingWindow
	err     error
}

func (s *stubWindows) List(context.Context) ([]domain.OrderingWindow, error) {
	return s.windows, s.err
}

type stubOrders struct {
	lines        []domain.PendingLine
	total        domain.Money
	count        int
	days         []domain.OrderDay
	counts       []order.StatusCount
	lastInterval domain.Interval
}

func (s *stubOrders) PendingTotal(_ context.Context, interval domain.Interval) (domain.Money, int, error) {
	s.lastInterval = interval
	return s.total, s.count, nil
}

func (s *stubOrders) PendingLines(_ context.Context, interval domain.Interval) ([]domain.PendingLine, error) {
	s.lastInterval = interval
	return s.lines, nil
}

func (s *stubOrders) DailyTotals(_ context.Context, interval domain.Interval) ([]domain.OrderDay, error) {
	s.lastInterval = interval
	return s.days, nil
}

func (s *stubOrders) StatusCounts(context.Context) ([]order.StatusCount, error) {
	return s.counts, nil
}

type recordingTx struct {
	opts []db.TxOptions
}

func (r *recordingTx) WithTx(ctx context.Context, opts db.TxOptions, fn func(ctx context.Context) error) error {
	r.opts = append(r.opts, opts)
	return fn(ctx)
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func TestPendingTotal_UsesWindowInterval(t *testing.T) {
	windows := &stubWindows{windows: []domain.OrderingWindow{{
		ID: 1, IsEnabled: true,
		OnDate:  ptr(ts("2025-03-01T15:00:00Z")),
		OffDate: ptr(ts("2025-03-10T09:30:00Z")),
	}}}
	orders := &stubOrders{total: 4200, count: 3}
	tx := &recordingTx{}
	svc := New(windows, orders, tx, clock.NewFixed(ts("2025-04-01T00:00:00Z")), nil)

	got, err := svc.PendingTotal(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.WindowID)
	assert.Equal(t, domain.Money(4200), got.TotalAmount)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, ts("2025-03-01T00:00:00Z"), got.Interval.From)
	assert.Equal(t, ts("2025-03-10T23:59:59.999999Z"), got.Interval.To)
	assert.Equal(t, got.Interval, orders.lastInterval)
	assert.Equal(t, []db.TxOptions{db.SnapshotReadOnly}, tx.opts)
}

func TestPendingTotal_OpenWindowEndsToday(t *testing.T) {
	windows := &stubWindows{windows: []domain.OrderingWindow{{ID: 1, IsEnabled: true}}}
	svc := New(windows, &stubOrders{}, &recordingTx{}, clock.NewFixed(ts("2025-05-06T08:00:00Z")), nil)

	got, err := svc.PendingTotal(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EarliestInstant, got.Interval.From)
	assert.Equal(t, ts("2025-05-06T23:59:59.999999Z"), got.Interval.To)
}

func TestReports_WindowErrors(t *testing.T) {
	svc := New(&stubWindows{}, &stubOrders{}, &recordingTx{}, clock.NewSystem(), nil)

	_, err := svc.PendingTotal(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoWindowConfigured)
	require.ErrorIs(t, err, domain.ErrValidation)

	svc = New(&stubWindows{windows: []domain.OrderingWindow{{ID: 1}}}, &stubOrders{}, &recordingTx{}, clock.NewSystem(), nil)
	_, err = svc.Requirements(context.Background(), ptr(int64(9)))
	require.ErrorIs(t, err, domain.ErrWindowNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("boom")
	svc = New(&stubWindows{err: boom}, &stubOrders{}, &recordingTx{}, clock.NewSystem(), nil)
	_, err = svc.Requirements(context.Background(), nil)
	require.ErrorIs(t, err, boom)
}

func TestRequirements_FillsWindow(t *testing.T) {
	windows := &stubWindows{windows: []domain.OrderingWindow{{ID: 1, IsEnabled: true, OnDate: ptr(ts("2025-03-01T00:00:00Z"))}}}
	orders := &stubOrders{lines: []domain.PendingLine{
		{OrderID: "o1", ProductID: "p1", ProductName: "Salmon", Quantity: 3, CurrentStock: 7},
	}}
	svc := New(windows, orders, &recordingTx{}, clock.NewFixed(ts("2025-03-05T12:00:00Z")), nil)

	rep, err := svc.Requirements(context.Background(), ptr(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rep.WindowID)
	assert.Equal(t, int64(3), rep.FullGroups)
	assert.Equal(t, ts("2025-03-05T23:59:59.999999Z"), rep.Interval.To)
}

func TestRevenue_FillsMissingDays(t *testing.T) {
	orders := &stubOrders{days: []domain.OrderDay{
		{Day: ts("2025-03-02T00:00:00Z"), TotalAmount: 1500, OrderCount: 2},
		{Day: ts("2025-03-04T00:00:00Z"), TotalAmount: 300, OrderCount: 1},
	}}
	svc := New(&stubWindows{}, orders, &recordingTx{}, clock.NewSystem(), nil)

	rep, err := svc.Revenue(context.Background(), ptr(ts("2025-03-01T10:00:00Z")), ptr(ts("2025-03-04T01:00:00Z")))
	require.NoError(t, err)

	assert.Equal(t, domain.Money(1800), rep.TotalAmount)
	assert.Equal(t, 3, rep.OrderCount)
	assert.Equal(t, []domain.DailyRevenue{
		{Date: "2025-03-01"},
		{Date: "2025-03-02", TotalAmount: 1500, OrderCount: 2},
		{Date: "2025-03-03"},
		{Date: "2025-03-04", TotalAmount: 300, OrderCount: 1},
	}, rep.Daily)
	assert.Equal(t, ts("2025-03-04T23:59:59.999999Z"), orders.lastInterval.To)
}

func TestRevenue_Defaults(t *testing.T) {
	orders := &stubOrders{}
	svc := New(&stubWindows{}, orders, &recordingTx{}, clock.NewFixed(ts("2025-03-31T12:00:00Z")), nil)

	rep, err := svc.Revenue(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ts("2025-03-01T00:00:00Z"), rep.Interval.From)
	assert.Len(t, rep.Daily, 31)
}

func TestRevenue_RejectsBadRange(t *testing.T) {
	svc := New(&stubWindows{}, &stubOrders{}, &recordingTx{}, clock.NewSystem(), nil)

	_, err := svc.Revenue(context.Background(), ptr(ts("2025-03-05T00:00:00Z")), ptr(ts("2025-03-01T00:00:00Z")))
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Revenue(context.Background(), ptr(ts("2023-01-01T00:00:00Z")), ptr(ts("2025-01-01T00:00:00Z")))
	require.ErrorIs(t, err, domain.ErrValidation)
}
