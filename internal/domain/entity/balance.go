package entity

// BalanceSummary is the aggregate view over the two vault balances, their
// USD prices and the shared token decimals. It is recomputed wholesale on
// every balance poll cycle.
type BalanceSummary struct {
	// Decimals is the token decimal precision shared by both vault tokens.
	// Zero when the decimals read has not resolved yet.
	Decimals uint8 `json:"decimals"`

	// TotalRawBalance is alphaBalance + treasuryBalance in smallest integer
	// units, with unavailable balances counted as zero.
	TotalRawBalance string `json:"totalRawBalance"`

	// TotalTokenBalance is TotalRawBalance scaled by Decimals. "0" whenever
	// decimals is unknown, even if the raw balances are known.
	TotalTokenBalance string `json:"totalTokenBalance"`

	// TotalBalanceUSD is the sum of (scaled balance * price) per vault,
	// fixed to 2 decimal places. "0" unless decimals, both prices and both
	// balances are known.
	TotalBalanceUSD string `json:"totalBalanceUSD"`

	// VaultLoading is true while the metadata fetch has not completed.
	VaultLoading bool `json:"vaultLoading"`

	// BalanceLoading is a conservative "not yet fully resolved" signal: true
	// if the user address is missing, either balance read is unresolved,
	// decimals is unknown, either price is unknown, or the metadata fetch is
	// still in flight.
	BalanceLoading bool `json:"balanceLoading"`

	// VaultError carries the metadata fetch error. When set, callers must
	// treat the summary as non-renderable.
	VaultError string `json:"vaultError,omitempty"`
}
