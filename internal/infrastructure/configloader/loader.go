package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// VaultAPIConfig holds upstream vault metadata API configuration.
type VaultAPIConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ChainConfig holds EVM RPC endpoint configuration.
type ChainConfig struct {
	RPCURL                   string  `yaml:"rpcURL"`
	ConnectionTimeoutSeconds int     `yaml:"connectionTimeoutSeconds"`
	RPCCallTimeoutSeconds    int     `yaml:"rpcCallTimeoutSeconds"`
	RateLimitPerSecond       float64 `yaml:"rateLimitPerSecond"`
}

// VaultsConfig names the two tracked product vaults. Address resolution
// matches these against the upstream metadata by exact display name.
type VaultsConfig struct {
	AlphaName    string `yaml:"alphaName"`
	TreasuryName string `yaml:"treasuryName"`
}

// PollingConfig holds the fixed poll intervals.
type PollingConfig struct {
	VaultIntervalSeconds   int `yaml:"vaultIntervalSeconds"`
	HistoryIntervalSeconds int `yaml:"historyIntervalSeconds"`
}

// WalletConfig points at the connected-account source.
type WalletConfig struct {
	FilePath string `yaml:"filePath"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	VaultAPI VaultAPIConfig `yaml:"vaultApi"`
	Chain    ChainConfig    `yaml:"chain"`
	Vaults   VaultsConfig   `yaml:"vaults"`
	Polling  PollingConfig  `yaml:"polling"`
	Wallet   WalletConfig   `yaml:"wallet"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 15
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.VaultAPI.BaseURL == "" {
		cfg.VaultAPI.BaseURL = "https://app.nest.credit"
	}
	if cfg.VaultAPI.RequestTimeoutMillis <= 0 {
		cfg.VaultAPI.RequestTimeoutMillis = 10000
	}
	if cfg.Chain.ConnectionTimeoutSeconds <= 0 {
		cfg.Chain.ConnectionTimeoutSeconds = 10
	}
	if cfg.Chain.RPCCallTimeoutSeconds <= 0 {
		cfg.Chain.RPCCallTimeoutSeconds = 10
	}
	if cfg.Chain.RateLimitPerSecond <= 0 {
		cfg.Chain.RateLimitPerSecond = 10
	}
	if cfg.Vaults.AlphaName == "" {
		cfg.Vaults.AlphaName = "Nest Alpha Vault"
	}
	if cfg.Vaults.TreasuryName == "" {
		cfg.Vaults.TreasuryName = "Nest Treasury Vault"
	}
	if cfg.Polling.VaultIntervalSeconds <= 0 {
		cfg.Polling.VaultIntervalSeconds = 10
	}
	if cfg.Polling.HistoryIntervalSeconds <= 0 {
		cfg.Polling.HistoryIntervalSeconds = 60
	}
	if cfg.Wallet.FilePath == "" {
		cfg.Wallet.FilePath = "data/wallets.txt"
	}
}
