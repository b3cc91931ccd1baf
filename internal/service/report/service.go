package report

import (
	"context"
	"time"

	"go.uber.org/zap"
	"sushi-orders/internal/clock"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/repository/order"
)

const (
	defaultRevenueDays = 30
	maxRevenueDays     = 366
)

type windowLister interface {
	List(ctx context.Context) ([]domain.OrderingWindow, error)
}

type orderReader interface {
	PendingTotal(ctx context.Context, interval domain.Interval) (domain.Money, int, error)
	PendingLines(ctx context.Context, interval domain.Interval) ([]domain.PendingLine, error)
	DailyTotals(ctx context.Context, interval domain.Interval) ([]domain.OrderDay, error)
	StatusCounts(ctx context.Context) ([]order.StatusCount, error)
}

type txRunner interface {
	WithTx(ctx context.Context, opts db.TxOptions, fn func(ctx context.Context) error) error
}

// Service answers the admin reports. Every report reads from one snapshot.
type Service struct {
	windows windowLister
	orders  orderReader
	tx      txRunner
	clock   clock.Clock
	logger  *zap.Logger
}

func New(windows windowLister, orders orderReader, tx txRunner, clk clock.Clock, logger *zap.Logger) *Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{windows: windows, orders: orders, tx: tx, clock: clk, logger: logger.Named("report")}
}

// PendingTotal sums Pending orders placed inside the resolved window.
func (s *Service) PendingTotal(ctx context.Context, windowID *int64) (*domain.PendingTotal, error) {
	var out *domain.PendingTotal
	err := s.tx.WithTx(ctx, db.SnapshotReadOnly, func(ctx context.Context) error {
		w, err := s.resolve(ctx, windowID)
		if err != nil {
			return err
		}
		interval := w.Interval(s.clock.Now())
		total, count, err := s.orders.PendingTotal(ctx, interval)
		if err != nil {
			return err
		}
		out = &domain.PendingTotal{WindowID: w.ID, Interval: interval, TotalAmount: total, Count: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Requirements computes how much rice has to be prepared for the Pending orders
// of the resolved window, using each product's current stock as its rollout count.
func (s *Service) Requirements(ctx context.Context, windowID *int64) (*domain.ProvisioningReport, error) {
	var out domain.ProvisioningReport
	err := s.tx.WithTx(ctx, db.SnapshotReadOnly, func(ctx context.Context) error {
		w, err := s.resolve(ctx, windowID)
		if err != nil {
			return err
		}
		interval := w.Interval(s.clock.Now())
		lines, err := s.orders.PendingLines(ctx, interval)
		if err != nil {
			return err
		}
		out = Aggregate(lines)
		out.WindowID = w.ID
		out.Interval = interval
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("provisioning report",
		zap.Int64("window_id", out.WindowID),
		zap.Int("orders", out.TotalPendingOrders),
		zap.Int64("rollouts", out.TotalRollouts))
	return &out, nil
}

// Revenue reports order totals per day between from and to, both inclusive by day.
// A nil from defaults to thirty days before to; a nil to defaults to today.
func (s *Service) Revenue(ctx context.Context, from, to *time.Time) (*domain.RevenueReport, error) {
	end := s.clock.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -defaultRevenueDays)
	if from != nil {
		start = *from
	}
	interval := domain.InclusiveInterval(start, end)
	if interval.From.After(interval.To) {
		return nil, domain.Validationf("from %s is after to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if interval.To.Sub(interval.From) > maxRevenueDays*24*time.Hour {
		return nil, domain.Validationf("revenue range is limited to %d days", maxRevenueDays)
	}

	var days []domain.OrderDay
	err := s.tx.WithTx(ctx, db.SnapshotReadOnly, func(ctx context.Context) error {
		var err error
		days, err = s.orders.DailyTotals(ctx, interval)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buildRevenue(interval, days), nil
}

func (s *Service) StatusCounts(ctx context.Context) ([]order.StatusCount, error) {
	var out []order.StatusCount
	err := s.tx.WithTx(ctx, db.SnapshotReadOnly, func(ctx context.Context) error {
		var err error
		out, err = s.orders.StatusCounts(ctx)
		return err
	})
	return out, err
}

func (s *Service) resolve(ctx context.Context, windowID *int64) (domain.OrderingWindow, error) {
	windows, err := s.windows.List(ctx)
	if err != nil {
		return domain.OrderingWindow{}, err
	}
	return domain.ResolveWindow(windows, windowID)
}

func buildRevenue(interval domain.Interval, days []domain.OrderDay) *domain.RevenueReport {
	byDay := make(map[string]domain.OrderDay, len(days))
	for _, d := range days {
		byDay[d.Day.UTC().Format(time.DateOnly)] = d
	}

	rep := &domain.RevenueReport{Interval: interval, Daily: []domain.DailyRevenue{}}
	for day := interval.From; !day.After(interval.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		d := byDay[key]
		rep.Daily = append(rep.Daily, domain.DailyRevenue{Date: key, TotalAmount: d.TotalAmount, OrderCount: d.OrderCount})
		rep.TotalAmount += d.TotalAmount
		rep.OrderCount += d.OrderCount
	}
	return rep
}
