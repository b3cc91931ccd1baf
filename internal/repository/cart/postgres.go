package cart

import (
	"context"
	"errors"

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
	return &postgresRepo{pool: pool, logger: logger.Named("cart_repo")}
}

func (r *postgresRepo) GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT id::text, customer_id::text, total_cents, created_at
FROM carts
WHERE customer_id = $1
`, customerID)
}

// LockByCustomer reads the cart under a row lock held until the surrounding transaction ends.
func (r *postgresRepo) LockByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT id::text, customer_id::text, total_cents, created_at
FROM carts
WHERE customer_id = $1
FOR UPDATE
`, customerID)
}

// AddLine creates the cart on first use, then adds quantity to the product's line.
// The line price is re-snapshotted to the product's current price.
func (r *postgresRepo) AddLine(ctx context.Context, customerID string, product domain.Product, quantity int) error {
	q := db.Conn(ctx, r.pool)

	if _, err := q.Exec(ctx, `
INSERT INTO carts (customer_id) VALUES ($1)
ON CONFLICT (customer_id) DO NOTHING
`, customerID); err != nil {
		return db.Translate(err)
	}
	cartID, err := r.lockCartID(ctx, customerID)
	if err != nil {
		return err
	}

	var existingQty int
	err = q.QueryRow(ctx, `
SELECT quantity FROM cart_lines WHERE cart_id = $1 AND product_id = $2
`, cartID, product.ID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return db.Translate(err)
	}

	newQty := existingQty + quantity
	if _, err := q.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (cart_id, product_id) DO UPDATE SET
    quantity = EXCLUDED.quantity,
    unit_price_cents = EXCLUDED.unit_price_cents,
    total_cents = EXCLUDED.total_cents
`, cartID, product.ID, newQty, product.Price, product.Price.Times(newQty)); err != nil {
		return db.Translate(err)
	}

	if err := updateCartTotal(ctx, q, cartID); err != nil {
		return err
	}
	r.logger.Debug("cart line added",
		zap.String("customer_id", customerID),
		zap.String("product_id", product.ID),
		zap.Int("quantity", newQty))
	return nil
}

// DecrementLine lowers the line quantity by one and drops the line when it reaches zero.
func (r *postgresRepo) DecrementLine(ctx context.Context, customerID, productID string) error {
	q := db.Conn(ctx, r.pool)
	cartID, err := r.lockCartID(ctx, customerID)
	if err != nil {
		return err
	}

	cmd, err := q.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2 AND quantity <= 1
`, cartID, productID)
	if err != nil {
		return db.Translate(err)
	}
	if cmd.RowsAffected() == 0 {
		cmd, err = q.Exec(ctx, `
UPDATE cart_lines
SET quantity = quantity - 1,
    total_cents = (quantity - 1) * unit_price_cents
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID)
		if err != nil {
			return db.Translate(err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrCartLineNotFound
		}
	}

	return updateCartTotal(ctx, q, cartID)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, customerID, productID string) error {
	q := db.Conn(ctx, r.pool)
	cartID, err := r.lockCartID(ctx, customerID)
	if err != nil {
		return err
	}

	cmd, err := q.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID)
	if err != nil {
		return db.Translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCartLineNotFound
	}

	return updateCartTotal(ctx, q, cartID)
}

// Clear empties the cart but keeps the cart row.
func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	q := db.Conn(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return db.Translate(err)
	}
	return updateCartTotal(ctx, q, cartID)
}

func (r *postgresRepo) lockCartID(ctx context.Context, customerID string) (string, error) {
	var cartID string
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
SELECT id::text FROM carts WHERE customer_id = $1 FOR UPDATE
`, customerID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrCartNotFound
		}
		return "", db.Translate(err)
	}
	return cartID, nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...any) (*domain.Cart, error) {
	q := db.Conn(ctx, r.pool)

	var cart domain.Cart
	err := q.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.TotalAmount,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, db.Translate(err)
	}

	const linesQuery = `
SELECT l.id::text, l.cart_id::text, l.product_id::text, p.name, l.quantity, l.unit_price_cents, l.created_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $1
ORDER BY l.created_at ASC, l.id ASC
`
	rows, err := q.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	cart.Lines = []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.ProductName,
			&line.Quantity,
			&line.Price,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}

	return &cart, nil
}

func updateCartTotal(ctx context.Context, q db.Querier, cartID string) error {
	_, err := q.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_lines
	WHERE cart_id = $1
), 0)
WHERE id = $1
`, cartID)
	return db.Translate(err)
}
