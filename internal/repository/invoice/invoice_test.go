package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"sushi-orders/internal/db"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/testutil"
)

func TestPostgres_RolledBackSequenceIsReused(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)
	tx := db.NewTransactor(pool, nil, 0, 0)

	rollback := errors.New("rollback")
	err := tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		seq, err := repo.NextSequence(ctx)
		if err != nil {
			return err
		}
		if seq != 1 {
			t.Errorf("expected first sequence 1, got %d", seq)
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("expected rollback error, got %v", err)
	}

	var seq int64
	err = tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		var err error
		seq, err = repo.NextSequence(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if seq != 1 {
		t.Fatalf("expected rolled back number to be handed out again, got %d", seq)
	}
}

func TestPostgres_CreateAndSetDocumentURL(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)

	customerID := uuid.NewString()
	var orderID string
	err := pool.QueryRow(ctx, `
INSERT INTO orders (customer_id, order_date, status, total_cents)
VALUES ($1, now(), 'Pending', 900)
RETURNING id::text
`, customerID).Scan(&orderID)
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}

	inv := &domain.Invoice{
		OrderID:       orderID,
		CustomerID:    customerID,
		InvoiceNumber: domain.FormatInvoiceNumber(2025, 1),
		InvoiceDate:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Amount:        900,
	}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := *inv
	dup.ID = ""
	if err := repo.Create(ctx, &dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected duplicate invoice number to conflict, got %v", err)
	}

	if err := repo.SetDocumentURL(ctx, inv.ID, "http://docs/a.pdf"); err != nil {
		t.Fatalf("SetDocumentURL: %v", err)
	}
	got, err := repo.GetByOrderID(ctx, orderID)
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if got.DocumentURL == nil || *got.DocumentURL != "http://docs/a.pdf" {
		t.Fatalf("unexpected document url %v", got.DocumentURL)
	}

	list, err := repo.ListByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(list) != 1 || list[0].InvoiceNumber != "INV-2025-000001" {
		t.Fatalf("unexpected invoices %+v", list)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].CustomerID != customerID || all[0].DocumentURL == nil {
		t.Fatalf("unexpected invoices %+v", all)
	}

	if err := repo.SetDocumentURL(ctx, uuid.NewString(), "x"); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}
