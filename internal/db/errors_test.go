package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"sushi-orders/internal/domain"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrorClassPermanent},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, ErrorClassSerialization},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, ErrorClassDeadlock},
		{"lock not available", &pgconn.PgError{Code: pgerrcode.LockNotAvailable}, ErrorClassTransient},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrorClassConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, ErrorClassPermanent},
		{"wrapped deadlock", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), ErrorClassDeadlock},
		{"plain", errors.New("boom"), ErrorClassPermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil))
	assert.ErrorIs(t, Translate(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), domain.ErrConflict)
	assert.ErrorIs(t, Translate(&pgconn.PgError{Code: pgerrcode.SerializationFailure}), domain.ErrTransient)
	assert.ErrorIs(t, Translate(context.DeadlineExceeded), domain.ErrTransient)
	assert.ErrorIs(t, Translate(&pgconn.PgError{Code: pgerrcode.CheckViolation, Message: "violates check"}), domain.ErrValidation)
	assert.Equal(t, domain.ErrEmptyCart, Translate(domain.ErrEmptyCart))

	plain := errors.New("boom")
	assert.Equal(t, plain, Translate(plain))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, true},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, false},
		{"not found", domain.ErrNotFound, false},
		{"translated deadlock", fmt.Errorf("create order: %w", Translate(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})), true},
		{"translated serialization", fmt.Errorf("create invoice: %w", Translate(&pgconn.PgError{Code: pgerrcode.SerializationFailure})), true},
		{"translated lock timeout", fmt.Errorf("lock cart: %w", Translate(&pgconn.PgError{Code: pgerrcode.LockNotAvailable})), true},
		{"translated unique", fmt.Errorf("create invoice: %w", Translate(&pgconn.PgError{Code: pgerrcode.UniqueViolation})), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestTranslateKeepsStoreError(t *testing.T) {
	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	err := Translate(deadlock)

	assert.ErrorIs(t, err, domain.ErrTransient)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, ErrorClassDeadlock, ClassifyError(err))

	conflict := Translate(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	assert.ErrorIs(t, conflict, domain.ErrConflict)
	assert.Equal(t, ErrorClassConflict, ClassifyError(conflict))
}
