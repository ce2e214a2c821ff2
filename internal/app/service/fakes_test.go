package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"nest_dashboard/internal/domain/entity"
)

// fakeChain implements port.ChainReader over in-memory fixtures and records
// how many queries were issued.
type fakeChain struct {
	mu sync.Mutex

	decimals    map[string]uint8
	decimalsErr error

	balances   map[string]*big.Int
	balanceErr map[string]error

	transferLogs map[string][]entity.TransferLog
	logsErr      map[string]error

	blockTimes map[uint64]uint64
	blockErr   map[uint64]error

	queries int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		decimals:     make(map[string]uint8),
		balances:     make(map[string]*big.Int),
		balanceErr:   make(map[string]error),
		transferLogs: make(map[string][]entity.TransferLog),
		logsErr:      make(map[string]error),
		blockTimes:   make(map[uint64]uint64),
		blockErr:     make(map[uint64]error),
	}
}

func (f *fakeChain) record() {
	f.mu.Lock()
	f.queries++
	f.mu.Unlock()
}

func (f *fakeChain) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func (f *fakeChain) ReadDecimals(_ context.Context, tokenAddress string) (uint8, error) {
	f.record()
	if f.decimalsErr != nil {
		return 0, f.decimalsErr
	}
	d, ok := f.decimals[tokenAddress]
	if !ok {
		return 0, fmt.Errorf("no decimals fixture for %s", tokenAddress)
	}
	return d, nil
}

func (f *fakeChain) ReadBalance(_ context.Context, tokenAddress string, ownerAddress string) (*big.Int, error) {
	f.record()
	key := tokenAddress + "|" + ownerAddress
	if err := f.balanceErr[key]; err != nil {
		return nil, err
	}
	b, ok := f.balances[key]
	if !ok {
		return nil, fmt.Errorf("no balance fixture for %s", key)
	}
	return new(big.Int).Set(b), nil
}

func (f *fakeChain) TransferLogs(_ context.Context, tokenAddress string, from string, to string) ([]entity.TransferLog, error) {
	f.record()
	if err := f.logsErr[tokenAddress]; err != nil {
		return nil, err
	}
	var out []entity.TransferLog
	for _, lg := range f.transferLogs[tokenAddress] {
		if from != "" && !strings.EqualFold(lg.From, from) {
			continue
		}
		if to != "" && !strings.EqualFold(lg.To, to) {
			continue
		}
		out = append(out, lg)
	}
	return out, nil
}

func (f *fakeChain) BlockTime(_ context.Context, blockNumber uint64) (uint64, error) {
	f.record()
	if err := f.blockErr[blockNumber]; err != nil {
		return 0, err
	}
	ts, ok := f.blockTimes[blockNumber]
	if !ok {
		return 0, fmt.Errorf("no block fixture for %d", blockNumber)
	}
	return ts, nil
}

// fakeVaults implements port.VaultProvider with a fixed snapshot.
type fakeVaults struct {
	snapshot entity.VaultSnapshot
}

func (f *fakeVaults) Refresh(context.Context) error  { return nil }
func (f *fakeVaults) Snapshot() entity.VaultSnapshot { return f.snapshot }

// fakeAccount implements port.AccountProvider.
type fakeAccount string

func (f fakeAccount) CurrentAddress() string { return string(f) }

// fakeBalances implements port.BalanceService, supplying the decimals the
// history reconstructor reads from the aggregation output.
type fakeBalances struct {
	summary entity.BalanceSummary
}

func (f *fakeBalances) RunCycle(context.Context)      {}
func (f *fakeBalances) Latest() entity.BalanceSummary { return f.summary }

// fakeSource implements port.VaultSource for vault service tests.
type fakeSource struct {
	vaults []entity.VaultDescriptor
	err    error
}

func (f *fakeSource) FetchVaults(context.Context) ([]entity.VaultDescriptor, error) {
	return f.vaults, f.err
}

// nopLogger satisfies port.Logger without output.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
