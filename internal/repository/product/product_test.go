package product

import (
	"context"
	"errors"
	"testing"

	"sushi-orders/internal/domain"
	"sushi-orders/internal/testutil"
)

func TestPostgres_UpsertListAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)

	created, err := repo.Upsert(ctx, domain.Product{Key: "salmon-nigiri", Name: "Salmon Nigiri", Price: 450, Stock: 2})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	updated, err := repo.Upsert(ctx, domain.Product{Key: "salmon-nigiri", Name: "Salmon Nigiri", Price: 500, Stock: 3})
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected upsert by key to keep id %s, got %s", created.ID, updated.ID)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Price != 500 || got.Stock != 3 {
		t.Fatalf("unexpected product %+v", got)
	}

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPostgres_UpsertRejectsForeignID(t *testing.T) {
	ctx := context.Background()
	pool := testutil.NewPool(t)
	repo := NewPostgres(pool, nil)

	if _, err := repo.Upsert(ctx, domain.Product{Key: "tuna-maki", Name: "Tuna Maki", Price: 620}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	_, err := repo.Upsert(ctx, domain.Product{
		ID:    "00000000-0000-0000-0000-000000000001",
		Key:   "tuna-maki",
		Name:  "Tuna Maki",
		Price: 620,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
