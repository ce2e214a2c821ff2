package port

import (
	"context"
	"math/big"

	"nest_dashboard/internal/domain/entity"
)

// ChainReader defines the read-only chain capabilities the core consumes.
// Implementations are specific to the transport (EVM JSON-RPC today).
type ChainReader interface {
	// ReadDecimals fetches the decimals() value of a token contract.
	ReadDecimals(ctx context.Context, tokenAddress string) (uint8, error)

	// ReadBalance fetches the balanceOf(owner) value of a token contract
	// in raw integer units.
	ReadBalance(ctx context.Context, tokenAddress string, ownerAddress string) (*big.Int, error)

	// TransferLogs queries Transfer event logs emitted by tokenAddress from
	// the earliest available block to the current head. A non-empty from or
	// to constrains the corresponding indexed argument; empty means any.
	TransferLogs(ctx context.Context, tokenAddress string, from string, to string) ([]entity.TransferLog, error)

	// BlockTime returns the timestamp of the given block.
	BlockTime(ctx context.Context, blockNumber uint64) (uint64, error)
}
