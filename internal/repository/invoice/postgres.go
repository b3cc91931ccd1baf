package invoice

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
	return &postgresRepo{pool: pool, logger: logger.Named("invoice_repo")}
}

const invoiceColumns = `id::text, order_id::text, customer_id::text, invoice_number, invoice_date, amount_cents, document_url`

func scanInvoice(row pgx.Row, inv *domain.Invoice) error {
	if err := row.Scan(&inv.ID, &inv.OrderID, &inv.CustomerID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.Amount, &inv.DocumentURL); err != nil {
		return err
	}
	inv.InvoiceDate = inv.InvoiceDate.UTC()
	return nil
}

// NextSequence bumps the single counter row. The row stays locked until the
// caller's transaction ends, so numbers are handed out one transaction at a
// time and a rolled back confirmation gives its number back.
func (r *postgresRepo) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
UPDATE invoice_counter
SET last_value = last_value + 1
WHERE id = 1
RETURNING last_value
`).Scan(&seq)
	if err != nil {
		return 0, db.Translate(err)
	}
	return seq, nil
}

func (r *postgresRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
INSERT INTO invoices (order_id, customer_id, invoice_number, invoice_date, amount_cents, document_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, inv.OrderID, inv.CustomerID, inv.InvoiceNumber, inv.InvoiceDate, inv.Amount, inv.DocumentURL).Scan(&inv.ID)
	if err != nil {
		r.logger.Warn("create invoice", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return db.Translate(err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := scanInvoice(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, db.Translate(err)
	}
	return &inv, nil
}

func (r *postgresRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := scanInvoice(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1`, orderID), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, db.Translate(err)
	}
	return &inv, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
SELECT `+invoiceColumns+`
FROM invoices
WHERE customer_id = $1
ORDER BY invoice_date DESC, invoice_number DESC
`, customerID)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return result, nil
}

// List returns every invoice, newest first.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
SELECT `+invoiceColumns+`
FROM invoices
ORDER BY invoice_date DESC, invoice_number DESC
`)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Translate(err)
	}
	return result, nil
}

func (r *postgresRepo) SetDocumentURL(ctx context.Context, id, url string) error {
	cmd, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE invoices SET document_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return db.Translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}
