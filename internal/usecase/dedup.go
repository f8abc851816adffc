package usecase

import (
	"context"
	"log/slog"

	"NewsIntake/internal/ports"
)

// Guard answers "has this submission been processed before" by querying
// the content store for the submission's idempotency description. The
// check-then-create window is not transactional; two concurrent
// deliveries of the same event can both pass. That bound is accepted,
// strict exactly-once needs a uniqueness constraint in the store itself.
type Guard struct {
	store  ports.ContentStore
	logger *slog.Logger
}

// NewGuard wires the content store used for idempotency lookups.
func NewGuard(store ports.ContentStore, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{store: store, logger: logger}
}

// Check returns the id of a previously created item for key, or "".
// Lookup failures are treated as "not seen": dedup is best-effort and a
// store outage surfaces later at the persistence stage anyway.
func (g *Guard) Check(ctx context.Context, key string) string {
	id, err := g.store.FindByDescription(ctx, key)
	if err != nil {
		g.logger.Warn("dedup lookup failed, proceeding", "key", key, "error", err)
		return ""
	}
	return id
}
