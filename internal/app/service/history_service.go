package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"nest_dashboard/internal/app/port"
	"nest_dashboard/internal/domain/entity"
	"nest_dashboard/internal/pkg/metrics"
	"nest_dashboard/internal/pkg/utils"
)

const dateLayout = "Jan 2, 2006, 3:04 PM"

// historyServiceImpl implements port.HistoryService. It rebuilds the user's
// transfer history from Transfer event logs across both tracked vault token
// contracts, deduplicated by transaction hash and ordered newest-first.
type historyServiceImpl struct {
	chain    port.ChainReader
	vaults   port.VaultProvider
	account  port.AccountProvider
	balances port.BalanceService
	logger   port.Logger

	mu           sync.RWMutex
	transactions []entity.Transaction
	loading      bool
	lastErr      error
}

// NewHistoryService creates a new transaction history reconstructor. The
// balance service supplies the shared token decimals resolved by the
// aggregation cycle.
func NewHistoryService(chain port.ChainReader, vaults port.VaultProvider, account port.AccountProvider, balances port.BalanceService, l port.Logger) port.HistoryService {
	return &historyServiceImpl{
		chain:    chain,
		vaults:   vaults,
		account:  account,
		balances: balances,
		logger:   l,
		loading:  true,
	}
}

// RunCycle performs one reconstruction pass and stores the result.
func (s *historyServiceImpl) RunCycle(ctx context.Context) {
	metrics.HistoryCyclesTotal.Inc()

	userAddress := s.account.CurrentAddress()
	pair := s.vaults.Snapshot().Addresses
	decimals := s.balances.Latest().Decimals

	transactions, err := s.Reconstruct(ctx, userAddress, pair, decimals)

	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	if err == nil {
		s.transactions = transactions
		metrics.TransactionsLastCount.Set(float64(len(transactions)))
	}
	s.mu.Unlock()
}

// Latest returns the most recent transaction list, the loading flag and the
// last orchestration error.
func (s *historyServiceImpl) Latest() ([]entity.Transaction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions, s.loading, s.lastErr
}

// Reconstruct rebuilds the transaction list for one cycle. The operation is
// disabled unless the user address, both vault addresses and the token
// decimals are all known; a disabled call returns an empty list and issues
// no chain queries.
func (s *historyServiceImpl) Reconstruct(ctx context.Context, userAddress string, pair entity.VaultAddressPair, decimals uint8) ([]entity.Transaction, error) {
	if userAddress == "" || !pair.Complete() || decimals == 0 {
		return []entity.Transaction{}, nil
	}

	trackedVaults := []struct {
		address string
		name    string
	}{
		{pair.Alpha, entity.VaultAlpha},
		{pair.Treasury, entity.VaultTreasury},
	}

	transactions := make([]entity.Transaction, 0)
	for _, vault := range trackedVaults {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// A failure in one vault's processing must not abort the other's:
		// it contributes zero transactions for this cycle.
		vaultTxs, err := s.reconstructVault(ctx, userAddress, vault.address, vault.name, decimals)
		if err != nil {
			s.logger.Error("Failed to reconstruct vault transactions", "vault", vault.name, "error", err)
			metrics.HistoryVaultErrorsTotal.WithLabelValues(vault.name).Inc()
			continue
		}
		transactions = append(transactions, vaultTxs...)
	}

	// Newest first. Ties keep insertion order.
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].BlockNumber > transactions[j].BlockNumber
	})
	return transactions, nil
}

func (s *historyServiceImpl) reconstructVault(ctx context.Context, userAddress, vaultAddress, vaultName string, decimals uint8) ([]entity.Transaction, error) {
	fromLogs, err := s.chain.TransferLogs(ctx, vaultAddress, userAddress, "")
	if err != nil {
		return nil, err
	}
	toLogs, err := s.chain.TransferLogs(ctx, vaultAddress, "", userAddress)
	if err != nil {
		return nil, err
	}

	combined := make([]entity.TransferLog, 0, len(fromLogs)+len(toLogs))
	combined = append(combined, fromLogs...)
	combined = append(combined, toLogs...)

	// Deduplicate by transaction hash; a self-transfer shows up in both
	// result sets but must appear exactly once.
	seen := make(map[string]struct{}, len(combined))
	transactions := make([]entity.Transaction, 0, len(combined))
	for _, lg := range combined {
		if _, dup := seen[lg.TxHash]; dup {
			continue
		}
		seen[lg.TxHash] = struct{}{}

		timestamp, err := s.chain.BlockTime(ctx, lg.BlockNumber)
		if err != nil {
			s.logger.Warn("Dropping transfer log, block lookup failed",
				"vault", vaultName, "tx_hash", lg.TxHash, "block_number", lg.BlockNumber, "error", err)
			metrics.HistoryDroppedLogsTotal.Inc()
			continue
		}

		transactions = append(transactions, entity.Transaction{
			TransactionID: utils.TruncateHex(lg.TxHash),
			From:          utils.TruncateHex(lg.From),
			To:            utils.TruncateHex(lg.To),
			Amount:        utils.FormatUnits(lg.Value, decimals),
			Date:          time.Unix(int64(timestamp), 0).Format(dateLayout),
			BlockNumber:   lg.BlockNumber,
			Vault:         vaultName,
		})
	}
	return transactions, nil
}
