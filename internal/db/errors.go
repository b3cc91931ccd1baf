package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"sushi-orders/internal/domain"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
	ErrorClassConflict
)

// ClassifyError sorts a store error by whether retrying the transaction can help.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure:
			return ErrorClassSerialization
		case pgerrcode.DeadlockDetected:
			return ErrorClassDeadlock
		case pgerrcode.LockNotAvailable, pgerrcode.QueryCanceled, pgerrcode.TooManyConnections,
			pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow:
			return ErrorClassTransient
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
			return ErrorClassConflict
		case pgerrcode.ForeignKeyViolation, pgerrcode.NotNullViolation, pgerrcode.CheckViolation:
			return ErrorClassPermanent
		}
		return ErrorClassPermanent
	}

	if pgconn.SafeToRetry(err) {
		return ErrorClassTransient
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	switch ClassifyError(err) {
	case ErrorClassTransient, ErrorClassDeadlock, ErrorClassSerialization:
		return true
	}
	return false
}

// Translate maps store errors that callers care about onto domain categories.
// Errors that already carry a domain category pass through unchanged. The
// store error stays in the chain so WithTx can still classify it.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrTransient) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	}
	switch ClassifyError(err) {
	case ErrorClassConflict:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case ErrorClassTransient, ErrorClassDeadlock, ErrorClassSerialization:
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}
