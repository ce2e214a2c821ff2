package port

import (
	"context"

	"nest_dashboard/internal/domain/entity"
)

// BalanceService aggregates vault metadata, the shared token decimals and
// the two per-vault balance reads into one BalanceSummary.
type BalanceService interface {
	// RunCycle performs one aggregation pass and stores the result.
	RunCycle(ctx context.Context)

	// Latest returns the most recent summary.
	Latest() entity.BalanceSummary
}

// HistoryService reconstructs the user's transfer history across both
// tracked vault token contracts.
type HistoryService interface {
	// RunCycle performs one reconstruction pass and stores the result.
	RunCycle(ctx context.Context)

	// Latest returns the most recent transaction list together with the
	// loading flag and the last orchestration error, if any.
	Latest() ([]entity.Transaction, bool, error)
}
