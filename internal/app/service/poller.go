package service

import (
	"context"
	"time"

	"nest_dashboard/internal/app/port"
)

// Poller drives the two fixed-interval refresh cycles: vault metadata plus
// balance aggregation, and transaction history reconstruction. Each loop
// fires immediately on start and then on its interval until the context is
// cancelled. A new cycle does not cancel an in-flight predecessor; each
// cycle fully replaces the stored snapshot when it completes.
type Poller struct {
	vaults  port.VaultProvider
	balance port.BalanceService
	history port.HistoryService
	logger  port.Logger

	vaultInterval   time.Duration
	historyInterval time.Duration
}

// NewPoller creates a new Poller.
func NewPoller(vaults port.VaultProvider, balance port.BalanceService, history port.HistoryService, l port.Logger, vaultInterval, historyInterval time.Duration) *Poller {
	return &Poller{
		vaults:          vaults,
		balance:         balance,
		history:         history,
		logger:          l,
		vaultInterval:   vaultInterval,
		historyInterval: historyInterval,
	}
}

// Run starts both poll loops and blocks until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Starting pollers",
		"vault_interval", p.vaultInterval.String(),
		"history_interval", p.historyInterval.String())

	go p.loop(ctx, p.vaultInterval, func(cycleCtx context.Context) {
		// Refresh failures are carried in the vault snapshot; the balance
		// cycle still runs so the error reaches the summary.
		_ = p.vaults.Refresh(cycleCtx)
		p.balance.RunCycle(cycleCtx)
	})
	p.loop(ctx, p.historyInterval, p.history.RunCycle)
}

func (p *Poller) loop(ctx context.Context, interval time.Duration, cycle func(context.Context)) {
	cycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle(ctx)
		}
	}
}
