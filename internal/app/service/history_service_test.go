package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"nest_dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	otherAddr = "0x9999999999999999999999999999999999999999"
)

func completePair() entity.VaultAddressPair {
	return entity.VaultAddressPair{Alpha: alphaToken, Treasury: treasuryToken}
}

func newHistoryService(chain *fakeChain, vaults *fakeVaults, account fakeAccount, balances *fakeBalances) *historyServiceImpl {
	return NewHistoryService(chain, vaults, account, balances, nopLogger{}).(*historyServiceImpl)
}

func TestReconstruct_DisabledStatesIssueNoQueries(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		pair     entity.VaultAddressPair
		decimals uint8
	}{
		{name: "no user", user: "", pair: completePair(), decimals: 18},
		{name: "missing alpha address", user: userAddr, pair: entity.VaultAddressPair{Treasury: treasuryToken}, decimals: 18},
		{name: "missing treasury address", user: userAddr, pair: entity.VaultAddressPair{Alpha: alphaToken}, decimals: 18},
		{name: "unknown decimals", user: userAddr, pair: completePair(), decimals: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := newFakeChain()
			svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(tc.user), &fakeBalances{})

			transactions, err := svc.Reconstruct(context.Background(), tc.user, tc.pair, tc.decimals)

			require.NoError(t, err)
			assert.NotNil(t, transactions)
			assert.Empty(t, transactions)
			assert.Equal(t, 0, chain.queryCount())
		})
	}
}

func TestReconstruct_SelfTransferAppearsOnce(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{TxHash: "0xaaaa", From: userAddr, To: userAddr, Value: tokens(1, 18), BlockNumber: 100},
	}
	chain.blockTimes[100] = 1700000000

	svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(userAddr), &fakeBalances{})

	transactions, err := svc.Reconstruct(context.Background(), userAddr, completePair(), 18)

	require.NoError(t, err)
	require.Len(t, transactions, 1, "self-transfer matches both queries but must appear once")
	assert.Equal(t, uint64(100), transactions[0].BlockNumber)
	assert.Equal(t, entity.VaultAlpha, transactions[0].Vault)
}

func TestReconstruct_OrdersByBlockDescending(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{TxHash: "0xa1", From: userAddr, To: otherAddr, Value: tokens(1, 18), BlockNumber: 999},
	}
	chain.transferLogs[treasuryToken] = []entity.TransferLog{
		{TxHash: "0xb1", From: otherAddr, To: userAddr, Value: tokens(2, 18), BlockNumber: 1000},
	}
	chain.blockTimes[999] = 1700000000
	chain.blockTimes[1000] = 1700000600

	svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(userAddr), &fakeBalances{})

	transactions, err := svc.Reconstruct(context.Background(), userAddr, completePair(), 18)

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, uint64(1000), transactions[0].BlockNumber)
	assert.Equal(t, entity.VaultTreasury, transactions[0].Vault)
	assert.Equal(t, uint64(999), transactions[1].BlockNumber)
	assert.Equal(t, entity.VaultAlpha, transactions[1].Vault)
}

func TestReconstruct_EqualBlocksKeepVaultOrder(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{TxHash: "0xa1", From: userAddr, To: otherAddr, Value: tokens(1, 18), BlockNumber: 500},
	}
	chain.transferLogs[treasuryToken] = []entity.TransferLog{
		{TxHash: "0xb1", From: userAddr, To: otherAddr, Value: tokens(2, 18), BlockNumber: 500},
	}
	chain.blockTimes[500] = 1700000000

	svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(userAddr), &fakeBalances{})

	transactions, err := svc.Reconstruct(context.Background(), userAddr, completePair(), 18)

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, entity.VaultAlpha, transactions[0].Vault)
	assert.Equal(t, entity.VaultTreasury, transactions[1].Vault)
}

func TestReconstruct_VaultFailureIsIsolated(t *testing.T) {
	chain := newFakeChain()
	chain.logsErr[alphaToken] = errors.New("filter logs: connection reset")
	chain.transferLogs[treasuryToken] = []entity.TransferLog{
		{TxHash: "0xb1", From: otherAddr, To: userAddr, Value: tokens(2, 18), BlockNumber: 42},
	}
	chain.blockTimes[42] = 1700000000

	svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(userAddr), &fakeBalances{})

	transactions, err := svc.Reconstruct(context.Background(), userAddr, completePair(), 18)

	require.NoError(t, err, "one vault failing must not fail the cycle")
	require.Len(t, transactions, 1)
	assert.Equal(t, entity.VaultTreasury, transactions[0].Vault)
}

func TestReconstruct_BlockLookupFailureDropsSingleEntry(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{TxHash: "0xa1", From: userAddr, To: otherAddr, Value: tokens(1, 18), BlockNumber: 10},
		{TxHash: "0xa2", From: userAddr, To: otherAddr, Value: tokens(2, 18), BlockNumber: 11},
	}
	chain.blockTimes[11] = 1700000000
	chain.blockErr[10] = errors.New("header not found")

	svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(userAddr), &fakeBalances{})

	transactions, err := svc.Reconstruct(context.Background(), userAddr, completePair(), 18)

	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, uint64(11), transactions[0].BlockNumber)
}

func TestReconstruct_FormatsDisplayFields(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{
			TxHash:      "0x59f1ad7d9a2f3c8b1e5d6a4f0c9b8e7d6c5b4a3f2e1d0c9b8a7f6e5d4c3b2a1f",
			From:        userAddr,
			To:          otherAddr,
			Value:       new(big.Int).Mul(big.NewInt(15), new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil)),
			BlockNumber: 7,
		},
	}
	// 2023-11-14T22:13:20Z
	chain.blockTimes[7] = 1700000000

	svc := newHistoryService(chain, &fakeVaults{}, fakeAccount(userAddr), &fakeBalances{})

	transactions, err := svc.Reconstruct(context.Background(), userAddr, completePair(), 18)

	require.NoError(t, err)
	require.Len(t, transactions, 1)
	tx := transactions[0]
	assert.Equal(t, "0x59f1...2a1f", tx.TransactionID)
	assert.Equal(t, "0x8631...bfD0", tx.From)
	assert.Equal(t, "0x9999...9999", tx.To)
	assert.Equal(t, "1.5", tx.Amount)
	assert.NotEmpty(t, tx.Date)
}

func TestHistoryService_CycleStoresResult(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{TxHash: "0xa1", From: userAddr, To: otherAddr, Value: tokens(1, 18), BlockNumber: 3},
	}
	chain.blockTimes[3] = 1700000000

	snapshot := loadedSnapshot(1.05, 0.98)
	vaults := &fakeVaults{snapshot: snapshot}
	balances := &fakeBalances{summary: entity.BalanceSummary{Decimals: 18}}
	svc := newHistoryService(chain, vaults, fakeAccount(userAddr), balances)

	_, loading, _ := svc.Latest()
	assert.True(t, loading, "loading until the first cycle completes")

	svc.RunCycle(context.Background())

	transactions, loading, err := svc.Latest()
	require.NoError(t, err)
	assert.False(t, loading)
	require.Len(t, transactions, 1)
	assert.Equal(t, "0xa1", transactions[0].TransactionID, "truncation leaves short hashes intact")
}

func TestHistoryService_CancelledContextKeepsPreviousResult(t *testing.T) {
	chain := newFakeChain()
	chain.transferLogs[alphaToken] = []entity.TransferLog{
		{TxHash: "0xa1", From: userAddr, To: otherAddr, Value: tokens(1, 18), BlockNumber: 3},
	}
	chain.blockTimes[3] = 1700000000

	balances := &fakeBalances{summary: entity.BalanceSummary{Decimals: 18}}
	svc := newHistoryService(chain, &fakeVaults{snapshot: loadedSnapshot(1, 1)}, fakeAccount(userAddr), balances)

	svc.RunCycle(context.Background())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	svc.RunCycle(cancelled)

	transactions, _, err := svc.Latest()
	assert.Error(t, err)
	require.Len(t, transactions, 1, "a failed cycle keeps the last good list")
}
