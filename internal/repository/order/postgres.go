package order

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
	return &postgresRepo{pool: pool, logger: logger.Named("order_repo")}
}

// Create inserts the order and its lines, filling in the generated ids.
func (r *postgresRepo) Create(ctx context.Context, order *domain.Order) error {
	q := db.Conn(ctx, r.pool)

	if err := q.QueryRow(ctx, `
INSERT INTO orders (customer_id, order_date, status, total_cents, comments)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, order.CustomerID, order.OrderDate, string(order.Status), order.TotalAmount, order.Comments).Scan(&order.ID); err != nil {
		return db.Translate(err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID
		if err := q.QueryRow(ctx, `
INSERT INTO order_lines (order_id, position, product_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, order.ID, i, line.ProductID, line.Quantity, line.Price).Scan(&line.ID); err != nil {
			return db.Translate(err)
		}
	}

	r.logger.Debug("order created", zap.String("order_id", order.ID), zap.Int("lines", len(order.Lines)))
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := db.Conn(ctx, r.pool)

	var (
		o      domain.Order
		status string
	)
	err := q.QueryRow(ctx, `
SELECT id::text, customer_id::text, order_date, status, total_cents, comments
FROM orders
WHERE id = $1
`, id).Scan(&o.ID, &o.CustomerID, &o.OrderDate, &status, &o.TotalAmount, &o.Comments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, db.Translate(err)
	}
	o.Status = domain.OrderStatus(status)
	o.OrderDate = o.OrderDate.UTC()

	rows, err := q.Query(ctx, `
SELECT l.id::text, l.order_id::text, l.product_id::text, p.name, l.quantity, l.unit_price_cents
FROM order_lines l
JOIN products p ON p.id = l.product_id
WHERE l.order_id = $1
ORDER BY l.position ASC
`, id)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	o.Lines = []domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.Price); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return &o, nil
}

// List returns every order with its lines, newest first.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	q := db.Conn(ctx, r.pool)

	rows, err := q.Query(ctx, `
SELECT id::text, customer_id::text, order_date, status, total_cents, comments
FROM orders
ORDER BY order_date DESC, id ASC
`)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &status, &o.TotalAmount, &o.Comments); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		o.OrderDate = o.OrderDate.UTC()
		o.Lines = []domain.OrderLine{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := q.Query(ctx, `
SELECT l.id::text, l.order_id::text, l.product_id::text, p.name, l.quantity, l.unit_price_cents
FROM order_lines l
JOIN products p ON p.id = l.product_id
ORDER BY l.order_id ASC, l.position ASC
`)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer lines.Close()

	for lines.Next() {
		var line domain.OrderLine
		if err := lines.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.Price); err != nil {
			return nil, err
		}
		if i, ok := index[line.OrderID]; ok {
			orders[i].Lines = append(orders[i].Lines, line)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return orders, nil
}

func (r *postgresRepo) LockStatus(ctx context.Context, id string) (domain.OrderStatus, error) {
	var status string
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrOrderNotFound
		}
		return "", db.Translate(err)
	}
	return domain.OrderStatus(status), nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	cmd, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return db.Translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	r.logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	return nil
}

func (r *postgresRepo) PendingTotal(ctx context.Context, interval domain.Interval) (domain.Money, int, error) {
	var (
		total domain.Money
		count int
	)
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
SELECT COALESCE(SUM(total_cents), 0)::bigint, COUNT(*)
FROM orders
WHERE status = 'Pending' AND order_date >= $1 AND order_date <= $2
`, interval.From, interval.To).Scan(&total, &count)
	if err != nil {
		return 0, 0, db.Translate(err)
	}
	return total, count, nil
}

// PendingLines returns the lines of Pending orders in the interval joined with the
// product's stock as it is right now.
func (r *postgresRepo) PendingLines(ctx context.Context, interval domain.Interval) ([]domain.PendingLine, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
SELECT o.id::text, p.id::text, p.name, l.quantity, p.stock
FROM orders o
JOIN order_lines l ON l.order_id = o.id
JOIN products p ON p.id = l.product_id
WHERE o.status = 'Pending' AND o.order_date >= $1 AND o.order_date <= $2
ORDER BY o.order_date ASC, o.id ASC, l.position ASC
`, interval.From, interval.To)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var lines []domain.PendingLine
	for rows.Next() {
		var l domain.PendingLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.CurrentStock); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return lines, nil
}

// DailyTotals groups every order in the interval by UTC calendar day.
func (r *postgresRepo) DailyTotals(ctx context.Context, interval domain.Interval) ([]domain.OrderDay, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
SELECT date_trunc('day', order_date AT TIME ZONE 'UTC') AS day, SUM(total_cents)::bigint, COUNT(*)
FROM orders
WHERE order_date >= $1 AND order_date <= $2
GROUP BY day
ORDER BY day ASC
`, interval.From, interval.To)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var days []domain.OrderDay
	for rows.Next() {
		var d domain.OrderDay
		if err := rows.Scan(&d.Day, &d.TotalAmount, &d.OrderCount); err != nil {
			return nil, err
		}
		d.Day = domain.StartOfDay(d.Day)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return days, nil
}

func (r *postgresRepo) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
SELECT status, COUNT(*), COALESCE(SUM(total_cents), 0)::bigint
FROM orders
GROUP BY status
ORDER BY status ASC
`)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var (
			sc     StatusCount
			status string
		)
		if err := rows.Scan(&status, &sc.Count, &sc.TotalAmount); err != nil {
			return nil, err
		}
		sc.Status = domain.OrderStatus(status)
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return result, nil
}
