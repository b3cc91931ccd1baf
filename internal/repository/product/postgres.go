package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
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
	return &postgresRepo{pool: pool, logger: logger.Named("product_repo")}
}

const productColumns = `id::text, key, name, COALESCE(description, ''), price_cents, stock, created_at`

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, q)
	if err != nil {
		r.logger.Warn("list products", zap.Error(err))
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	r.logger.Debug("listed products", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	if err := scanProduct(db.Conn(ctx, r.pool).QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		r.logger.Warn("get product", zap.String("product_id", id), zap.Error(err))
		return nil, db.Translate(err)
	}
	return &p, nil
}

// Upsert inserts or updates a product by key. A caller-supplied id must match the stored one.
func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, key, name, description, price_cents, stock)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6)
ON CONFLICT (key) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    stock = EXCLUDED.stock
RETURNING id::text, created_at
`
	res := product
	err := db.Conn(ctx, r.pool).QueryRow(ctx, q,
		product.ID,
		product.Key,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Warn("upsert product", zap.String("key", product.Key), zap.Error(err))
		return nil, db.Translate(err)
	}
	if product.ID != "" && res.ID != product.ID {
		return nil, fmt.Errorf("%w: product key %s already has id %s, import id %s", domain.ErrConflict, product.Key, res.ID, product.ID)
	}
	r.logger.Debug("upserted product", zap.String("key", res.Key), zap.String("product_id", res.ID))
	return &res, nil
}
