package window

import (
	"context"
	"time"

	"go.uber.org/zap"
	"sushi-orders/internal/clock"
	"sushi-orders/internal/domain"
)

type windowRepo interface {
	List(ctx context.Context) ([]domain.OrderingWindow, error)
	Upsert(ctx context.Context, w domain.OrderingWindow) (*domain.OrderingWindow, error)
}

type Service struct {
	repo   windowRepo
	clock  clock.Clock
	logger *zap.Logger
}

func New(repo windowRepo, clk clock.Clock, logger *zap.Logger) *Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, clock: clk, logger: logger.Named("window")}
}

// State is the window as shown to clients. Configured is false when no window
// row exists yet, in which case ordering is open.
type State struct {
	domain.OrderingWindow
	IsActive   bool `json:"isActive"`
	Configured bool `json:"configured"`
}

type UpsertInput struct {
	IsEnabled *bool      `json:"isEnabled"`
	OnDate    *time.Time `json:"onDate"`
	OffDate   *time.Time `json:"offDate"`
}

func (s *Service) Get(ctx context.Context) (*State, error) {
	windows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return &State{OrderingWindow: domain.OrderingWindow{IsEnabled: true}, IsActive: true}, nil
	}
	w, err := domain.ResolveWindow(windows, nil)
	if err != nil {
		return nil, err
	}
	return &State{OrderingWindow: w, IsActive: w.IsActive(s.clock.Now()), Configured: true}, nil
}

// Upsert replaces the single ordering window. An omitted isEnabled means enabled.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*State, error) {
	w := domain.OrderingWindow{IsEnabled: true, OnDate: utc(in.OnDate), OffDate: utc(in.OffDate)}
	if in.IsEnabled != nil {
		w.IsEnabled = *in.IsEnabled
	}
	if w.OnDate != nil && w.OffDate != nil && w.OnDate.After(*w.OffDate) {
		return nil, domain.ErrInvalidWindow
	}

	saved, err := s.repo.Upsert(ctx, w)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ordering window set",
		zap.Bool("enabled", saved.IsEnabled),
		zap.Timep("on_date", saved.OnDate),
		zap.Timep("off_date", saved.OffDate))
	return &State{OrderingWindow: *saved, IsActive: saved.IsActive(s.clock.Now()), Configured: true}, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
