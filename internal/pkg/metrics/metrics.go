// Package metrics provides Prometheus collectors for the dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// VaultPollTotal counts vault metadata poll cycles by outcome.
	VaultPollTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_poll_total",
			Help: "Vault metadata poll cycles by outcome.",
		},
		[]string{"status"},
	)

	// BalanceCyclesTotal counts balance aggregation cycles.
	BalanceCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_cycles_total",
			Help: "Balance aggregation cycles executed.",
		},
	)

	// HistoryCyclesTotal counts transaction history reconstruction cycles.
	HistoryCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "history_cycles_total",
			Help: "Transaction history reconstruction cycles executed.",
		},
	)

	// HistoryVaultErrorsTotal counts per-vault log query failures, labeled by vault.
	HistoryVaultErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_vault_errors_total",
			Help: "Per-vault log query failures during history reconstruction.",
		},
		[]string{"vault"},
	)

	// HistoryDroppedLogsTotal counts log entries dropped because their block
	// lookup failed.
	HistoryDroppedLogsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "history_dropped_logs_total",
			Help: "Transfer logs dropped due to block lookup failures.",
		},
	)

	// TransactionsLastCount is the size of the most recent reconstructed list.
	TransactionsLastCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "transactions_last_count",
			Help: "Transactions in the most recent reconstructed history.",
		},
	)

	// ProxyFailuresTotal counts failed upstream fetches on the vault proxy.
	ProxyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_proxy_failures_total",
			Help: "Failed upstream fetches served by the vault proxy endpoint.",
		},
	)
)

// MustRegister registers all collectors with the default registry.
func MustRegister() {
	prometheus.MustRegister(
		VaultPollTotal,
		BalanceCyclesTotal,
		HistoryCyclesTotal,
		HistoryVaultErrorsTotal,
		HistoryDroppedLogsTotal,
		TransactionsLastCount,
		ProxyFailuresTotal,
	)
}
