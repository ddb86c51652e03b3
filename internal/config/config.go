// Package config provides YAML-backed configuration for the helios wallet
// daemon: network selection, per-chain provider endpoints, keystore location
// and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/helioswallet/helios/internal/chain"
)

// ProviderConfig holds the endpoints for one chain's provider. Both URLs are
// kept so switching networks never requires editing the file.
type ProviderConfig struct {
	// MainnetURL is the endpoint used when running on mainnet.
	MainnetURL string `yaml:"mainnet_url"`

	// TestnetURL is the endpoint used when running on testnet.
	TestnetURL string `yaml:"testnet_url"`
}

// StorageConfig holds keystore storage settings.
type StorageConfig struct {
	// DataDir is the directory for the keystore database.
	DataDir string `yaml:"data_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// File is the log file path (empty for stderr).
	File string `yaml:"file"`
}

// Config holds all configuration for the wallet daemon.
type Config struct {
	// Network selects mainnet or testnet for every chain at once.
	Network chain.Network `yaml:"network"`

	// Providers maps a key type (ethereum, bitcoin, solana) to its
	// provider endpoints. Missing entries fall back to defaults.
	Providers map[chain.KeyType]*ProviderConfig `yaml:"providers,omitempty"`

	// Storage holds keystore settings.
	Storage StorageConfig `yaml:"storage"`

	// Logging holds logging settings.
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultProviders returns the public endpoints used when the config file
// does not override a chain. The Bitcoin entries are esplora REST bases; the
// others are JSON-RPC.
func DefaultProviders() map[chain.KeyType]*ProviderConfig {
	return map[chain.KeyType]*ProviderConfig{
		chain.KeyTypeEthereum: {
			MainnetURL: "https://eth.llamarpc.com",
			TestnetURL: "https://rpc.sepolia.org",
		},
		chain.KeyTypeBitcoin: {
			MainnetURL: "https://mempool.space/api",
			TestnetURL: "https://mempool.space/testnet/api",
		},
		chain.KeyTypeSolana: {
			MainnetURL: "https://api.mainnet-beta.solana.com",
			TestnetURL: "https://api.devnet.solana.com",
		},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Network:   chain.Mainnet,
		Providers: DefaultProviders(),
		Storage: StorageConfig{
			DataDir: "~/.helios",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// IsTestnet returns true if running on testnet.
func (c *Config) IsTestnet() bool {
	return c.Network == chain.Testnet
}

// GetProviderConfig returns the provider config for a key type, falling back
// to the built-in defaults when the file does not mention the chain.
func (c *Config) GetProviderConfig(kt chain.KeyType) *ProviderConfig {
	if c.Providers != nil {
		if pc, ok := c.Providers[kt]; ok && pc != nil {
			return pc
		}
	}
	return DefaultProviders()[kt]
}

// ProviderURL returns the endpoint for a key type on the configured network.
func (c *Config) ProviderURL(kt chain.KeyType) string {
	pc := c.GetProviderConfig(kt)
	if pc == nil {
		return ""
	}
	if c.IsTestnet() {
		return pc.TestnetURL
	}
	return pc.MainnetURL
}

// Validate checks the configuration for values that would fail later in a
// harder-to-diagnose way.
func (c *Config) Validate() error {
	if c.Network != chain.Mainnet && c.Network != chain.Testnet {
		return fmt.Errorf("invalid network %q (want mainnet or testnet)", c.Network)
	}
	for kt := range c.Providers {
		if !kt.Valid() {
			return fmt.Errorf("unknown provider key %q", kt)
		}
	}
	for _, kt := range chain.KeyTypes() {
		if c.ProviderURL(kt) == "" {
			return fmt.Errorf("no %s provider endpoint for %s", kt, c.Network)
		}
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage data_dir cannot be empty")
	}
	return nil
}

// ConfigFileName is the default config file name.
const ConfigFileName = "config.yaml"

// LoadConfig loads configuration from a YAML file in dataDir.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(dataDir string) (*Config, error) {
	expandedDir := ExpandPath(dataDir)
	configPath := filepath.Join(expandedDir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Storage.DataDir = dataDir

		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Helios Wallet Configuration\n# Generated automatically on first run\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigPath returns the full path to the config file for the given data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(ExpandPath(dataDir), ConfigFileName)
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
