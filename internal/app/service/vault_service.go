package service

import (
	"context"
	"sync"

	"nest_dashboard/internal/app/port"
	"nest_dashboard/internal/domain/entity"
	"nest_dashboard/internal/pkg/metrics"
)

// vaultServiceImpl implements port.VaultProvider. It polls the upstream
// metadata source and resolves the two tracked vault addresses by exact
// display-name match.
//
// Name matching is deliberately exact: an upstream rename silently yields an
// unresolved address, which disables all dependent reads for that vault.
type vaultServiceImpl struct {
	source       port.VaultSource
	logger       port.Logger
	alphaName    string
	treasuryName string

	mu       sync.RWMutex
	snapshot entity.VaultSnapshot
}

// NewVaultService creates a new vault metadata provider.
func NewVaultService(source port.VaultSource, l port.Logger, alphaName, treasuryName string) port.VaultProvider {
	return &vaultServiceImpl{
		source:       source,
		logger:       l,
		alphaName:    alphaName,
		treasuryName: treasuryName,
	}
}

// Refresh performs one metadata fetch and replaces the snapshot wholesale.
func (s *vaultServiceImpl) Refresh(ctx context.Context) error {
	vaults, err := s.source.FetchVaults(ctx)
	if err != nil {
		s.logger.Error("Vault metadata fetch failed", "error", err)
		metrics.VaultPollTotal.WithLabelValues("error").Inc()

		s.mu.Lock()
		s.snapshot = entity.VaultSnapshot{Loaded: true, Err: err}
		s.mu.Unlock()
		return err
	}
	metrics.VaultPollTotal.WithLabelValues("ok").Inc()

	snapshot := entity.VaultSnapshot{Loaded: true}
	for i := range vaults {
		switch vaults[i].Name {
		case s.alphaName:
			snapshot.Alpha = &vaults[i]
			snapshot.Addresses.Alpha = vaults[i].Plume.ContractAddress
		case s.treasuryName:
			snapshot.Treasury = &vaults[i]
			snapshot.Addresses.Treasury = vaults[i].Plume.ContractAddress
		}
	}

	if snapshot.Alpha == nil {
		s.logger.Warn("Alpha vault not found in metadata", "expected_name", s.alphaName, "vault_count", len(vaults))
	}
	if snapshot.Treasury == nil {
		s.logger.Warn("Treasury vault not found in metadata", "expected_name", s.treasuryName, "vault_count", len(vaults))
	}
	s.logger.Debug("Vault metadata refreshed",
		"vault_count", len(vaults),
		"alpha_address", snapshot.Addresses.Alpha,
		"treasury_address", snapshot.Addresses.Treasury)

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	return nil
}

// Snapshot returns the latest metadata poll result.
func (s *vaultServiceImpl) Snapshot() entity.VaultSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
