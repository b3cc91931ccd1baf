package order

import (
	"context"
	"time"

	"sushi-orders/internal/clock"
	"sushi-orders/internal/domain"
)

type sequenceSource interface {
	NextSequence(ctx context.Context) (int64, error)
}

// Numberer hands out invoice numbers. Next must run inside the transaction that
// stores the invoice so a rollback also releases the number.
type Numberer struct {
	seq   sequenceSource
	clock clock.Clock
}

func NewNumberer(seq sequenceSource, clk clock.Clock) *Numberer {
	return &Numberer{seq: seq, clock: clk}
}

// Next returns INV-{year}-{seq}. The sequence is global and does not restart with the year.
func (n *Numberer) Next(ctx context.Context) (string, error) {
	return n.nextAt(ctx, n.clock.Now())
}

func (n *Numberer) nextAt(ctx context.Context, at time.Time) (string, error) {
	seq, err := n.seq.NextSequence(ctx)
	if err != nil {
		return "", err
	}
	return domain.FormatInvoiceNumber(at.Year(), seq), nil
}
