package window

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("window_repo")}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.OrderingWindow, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
SELECT id, is_enabled, on_date, off_date, updated_at
FROM ordering_window
ORDER BY id ASC
`)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var result []domain.OrderingWindow
	for rows.Next() {
		var w domain.OrderingWindow
		if err := rows.Scan(&w.ID, &w.IsEnabled, &w.OnDate, &w.OffDate, &w.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, normalize(w))
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return result, nil
}

// Upsert writes the single window row in place.
func (r *postgresRepo) Upsert(ctx context.Context, w domain.OrderingWindow) (*domain.OrderingWindow, error) {
	var out domain.OrderingWindow
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
INSERT INTO ordering_window (id, is_enabled, on_date, off_date, updated_at)
VALUES (1, $1, $2, $3, now())
ON CONFLICT (id) DO UPDATE SET
    is_enabled = EXCLUDED.is_enabled,
    on_date = EXCLUDED.on_date,
    off_date = EXCLUDED.off_date,
    updated_at = EXCLUDED.updated_at
RETURNING id, is_enabled, on_date, off_date, updated_at
`, w.IsEnabled, w.OnDate, w.OffDate).Scan(&out.ID, &out.IsEnabled, &out.OnDate, &out.OffDate, &out.UpdatedAt)
	if err != nil {
		r.logger.Warn("upsert ordering window", zap.Error(err))
		return nil, db.Translate(err)
	}
	r.logger.Info("ordering window updated", zap.Bool("enabled", out.IsEnabled))
	out = normalize(out)
	return &out, nil
}

func normalize(w domain.OrderingWindow) domain.OrderingWindow {
	w.OnDate = utcPtr(w.OnDate)
	w.OffDate = utcPtr(w.OffDate)
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
