package port

import (
	"context"

	"nest_dashboard/internal/domain/entity"
)

// VaultSource fetches the full vault descriptor list from the upstream
// metadata provider.
type VaultSource interface {
	FetchVaults(ctx context.Context) ([]entity.VaultDescriptor, error)
}

// VaultProvider exposes the latest metadata poll result to the aggregation
// layer. Snapshot never blocks; before the first fetch completes it returns
// an unloaded snapshot.
type VaultProvider interface {
	Refresh(ctx context.Context) error
	Snapshot() entity.VaultSnapshot
}
