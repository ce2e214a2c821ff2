package entity

import "math/big"

// Vault tags identifying which tracked vault a transaction belongs to.
const (
	VaultAlpha    = "alpha"
	VaultTreasury = "treasury"
)

// Transaction is one matched transfer event involving the user and a tracked
// vault token, in display form. Reconstructed fresh on every history cycle.
type Transaction struct {
	// TransactionID is the truncated transaction hash (first 6 + last 4).
	TransactionID string `json:"transactionId"`
	From          string `json:"from"`
	To            string `json:"to"`
	// Amount is the transfer value scaled by the token decimals.
	Amount string `json:"amount"`
	// Date is the containing block's timestamp in human-readable form.
	Date string `json:"date"`
	// BlockNumber orders transactions newest-first; not shown to users.
	BlockNumber uint64 `json:"blockNumber"`
	// Vault is VaultAlpha or VaultTreasury.
	Vault string `json:"vault"`
}

// TransferLog is a raw ERC-20 Transfer event as read from the chain.
type TransferLog struct {
	TxHash      string
	From        string
	To          string
	Value       *big.Int
	BlockNumber uint64
}
