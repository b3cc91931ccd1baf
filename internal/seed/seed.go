package seed

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"sushi-orders/internal/domain"
	productrepo "sushi-orders/internal/repository/product"
)

type productSeed struct {
	Name        string
	Description string
	Price       string
	Stock       int
}

var products = []productSeed{
	{Name: "Salmon Nigiri", Description: "Two pieces of salmon on seasoned rice", Price: "4.50", Stock: 2},
	{Name: "Tuna Maki", Description: "Six tuna rolls with nori", Price: "6.20", Stock: 6},
	{Name: "California Roll", Description: "Crab, avocado, cucumber", Price: "8.90", Stock: 8},
	{Name: "Dragon Roll", Description: "Eel and avocado topped roll", Price: "12.00", Stock: 8},
	{Name: "Vegetable Futomaki", Description: "Thick roll with seasonal vegetables", Price: "7.40", Stock: 5},
}

// Apply inserts the demo catalog and an open ordering window. Running it again
// refreshes the catalog and leaves an existing window alone.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo := productrepo.NewPostgres(pool, logger)

	for _, s := range products {
		price, err := domain.ParseMoney(s.Price)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", s.Name, err)
		}
		p, err := repo.Upsert(ctx, domain.Product{
			Key:         slug.Make(s.Name),
			Name:        s.Name,
			Description: s.Description,
			Price:       price,
			Stock:       s.Stock,
		})
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", s.Name, err)
		}
		logger.Info("seeded product", zap.String("key", p.Key), zap.String("product_id", p.ID))
	}

	if err := ensureWindow(ctx, pool); err != nil {
		return fmt.Errorf("ensure ordering window: %w", err)
	}
	return nil
}

func ensureWindow(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO ordering_window (id, is_enabled, on_date, off_date)
VALUES (1, TRUE, date_trunc('day', now()), NULL)
ON CONFLICT (id) DO NOTHING
`
	_, err := pool.Exec(ctx, q)
	return err
}
