package service

import (
	"context"
	"math/big"
	"sync"

	"nest_dashboard/internal/app/port"
	"nest_dashboard/internal/domain/entity"
	"nest_dashboard/internal/pkg/metrics"
	"nest_dashboard/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// aggregateInputs carries the state of the three asynchronous sources at the
// moment a summary is derived. A nil pointer means "not yet resolved".
type aggregateInputs struct {
	UserAddress     string
	VaultLoading    bool
	VaultErr        error
	AlphaPrice      float64
	TreasuryPrice   float64
	Decimals        *uint8
	AlphaBalance    *big.Int
	TreasuryBalance *big.Int
}

// balanceServiceImpl implements port.BalanceService. Each cycle combines the
// vault metadata snapshot, the shared token decimals and the two per-vault
// balance reads into one BalanceSummary.
type balanceServiceImpl struct {
	vaults  port.VaultProvider
	chain   port.ChainReader
	account port.AccountProvider
	logger  port.Logger

	mu     sync.RWMutex
	latest entity.BalanceSummary
}

// NewBalanceService creates a new balance aggregator.
func NewBalanceService(vaults port.VaultProvider, chain port.ChainReader, account port.AccountProvider, l port.Logger) port.BalanceService {
	return &balanceServiceImpl{
		vaults:  vaults,
		chain:   chain,
		account: account,
		logger:  l,
		// Until the first cycle completes everything is unresolved.
		latest: buildSummary(aggregateInputs{VaultLoading: true}),
	}
}

// RunCycle performs one aggregation pass and stores the result.
func (s *balanceServiceImpl) RunCycle(ctx context.Context) {
	metrics.BalanceCyclesTotal.Inc()

	snapshot := s.vaults.Snapshot()
	in := aggregateInputs{
		UserAddress:   s.account.CurrentAddress(),
		VaultLoading:  !snapshot.Loaded,
		VaultErr:      snapshot.Err,
		AlphaPrice:    snapshot.AlphaPrice(),
		TreasuryPrice: snapshot.TreasuryPrice(),
	}

	// Decimals are read from the alpha vault token only; both vault tokens
	// share the same precision.
	if snapshot.Addresses.Alpha != "" {
		if decimals, err := s.chain.ReadDecimals(ctx, snapshot.Addresses.Alpha); err != nil {
			s.logger.Warn("Decimals read unresolved", "token", snapshot.Addresses.Alpha, "error", err)
		} else {
			in.Decimals = &decimals
		}
	}

	// The two balance reads are independent; run them concurrently. Each is
	// enabled only when its vault address and the user address are known.
	// Read failures are not surfaced as errors, they leave the balance
	// unresolved and fold into balanceLoading.
	if in.UserAddress != "" {
		var group errgroup.Group
		if snapshot.Addresses.Alpha != "" {
			group.Go(func() error {
				balance, err := s.chain.ReadBalance(ctx, snapshot.Addresses.Alpha, in.UserAddress)
				if err != nil {
					s.logger.Warn("Alpha balance read unresolved", "token", snapshot.Addresses.Alpha, "error", err)
					return nil
				}
				in.AlphaBalance = balance
				return nil
			})
		}
		if snapshot.Addresses.Treasury != "" {
			group.Go(func() error {
				balance, err := s.chain.ReadBalance(ctx, snapshot.Addresses.Treasury, in.UserAddress)
				if err != nil {
					s.logger.Warn("Treasury balance read unresolved", "token", snapshot.Addresses.Treasury, "error", err)
					return nil
				}
				in.TreasuryBalance = balance
				return nil
			})
		}
		_ = group.Wait()
	}

	summary := buildSummary(in)

	s.mu.Lock()
	s.latest = summary
	s.mu.Unlock()
}

// Latest returns the most recent summary.
func (s *balanceServiceImpl) Latest() entity.BalanceSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// buildSummary derives a BalanceSummary from the current input state.
func buildSummary(in aggregateInputs) entity.BalanceSummary {
	// Raw balances default to zero so the sum is always well-defined.
	totalRaw := new(big.Int)
	if in.AlphaBalance != nil {
		totalRaw.Add(totalRaw, in.AlphaBalance)
	}
	if in.TreasuryBalance != nil {
		totalRaw.Add(totalRaw, in.TreasuryBalance)
	}

	summary := entity.BalanceSummary{
		TotalRawBalance:   totalRaw.String(),
		TotalTokenBalance: "0",
		TotalBalanceUSD:   "0",
		VaultLoading:      in.VaultLoading,
	}
	if in.VaultErr != nil {
		summary.VaultError = in.VaultErr.Error()
	}

	if in.Decimals != nil {
		summary.Decimals = *in.Decimals
		summary.TotalTokenBalance = utils.FormatUnits(totalRaw, *in.Decimals)
	}

	// A price of exactly 0 counts as missing here, mirroring the upstream
	// gating. A legitimately zero-priced asset is indistinguishable from one
	// whose price has not loaded.
	pricesKnown := in.AlphaPrice != 0 && in.TreasuryPrice != 0
	balancesKnown := in.AlphaBalance != nil && in.TreasuryBalance != nil

	if in.Decimals != nil && pricesKnown && balancesKnown {
		usd := utils.ValueUSD(in.AlphaBalance, *in.Decimals, in.AlphaPrice).
			Add(utils.ValueUSD(in.TreasuryBalance, *in.Decimals, in.TreasuryPrice))
		summary.TotalBalanceUSD = usd.StringFixed(2)
	}

	summary.BalanceLoading = in.UserAddress == "" ||
		in.VaultLoading ||
		in.Decimals == nil ||
		!balancesKnown ||
		!pricesKnown

	return summary
}
