package admin

import (
	"context"
	"time"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/modules/ledger"
)

// Ledger is the maintenance surface of *ledger.Ledger.
type Ledger interface {
	BlockDate(ctx context.Context, date, reason string) error
	UnblockDate(ctx context.Context, date string) (bool, error)
	ListBlockedDates(ctx context.Context) ([]domain.BlockedDate, error)
	GenerateSlots(ctx context.Context, start, end string) (int64, error)
	ReleaseSlot(ctx context.Context, date, tm string) error
	ResyncSlots(ctx context.Context, from string) (ledger.ResyncReport, error)
}

type TokenIssuer interface {
	GenerateToken(subject, role string) (string, error)
	TTL() time.Duration
}
