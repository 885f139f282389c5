// Package config provides Viper-based configuration management for u2kctl.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete client configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
	State   StateConfig   `mapstructure:"state"`
}

// APIConfig points at the remote Urgent2kay API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WalletConfig describes the expected wallet environment.
type WalletConfig struct {
	// ExpectedChainID is the chain the U2K token contract is deployed on.
	ExpectedChainID string `mapstructure:"expected_chain_id"`
	// TokenAddress is the U2K ERC-20 contract address.
	TokenAddress string `mapstructure:"token_address"`
	// RPCURL backs the watch-only provider used in terminal environments.
	RPCURL string `mapstructure:"rpc_url"`
	// Address is the wallet address observed by the watch-only provider.
	Address string `mapstructure:"address"`
}

// CacheConfig tunes the query cache coordinator.
type CacheConfig struct {
	// CompensationDelay is the wait before the second refetch issued after a
	// mutation invalidates a key. Best-effort mitigation for backend
	// processing lag, not a correctness guarantee.
	CompensationDelay time.Duration `mapstructure:"compensation_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// OutputConfig contains terminal output settings.
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// StateConfig locates persisted client state.
type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".u2kctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/urgent2kay")
	}

	v.SetEnvPrefix("U2K")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.urgent2kay.com")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("wallet.expected_chain_id", "0x14a34") // Base Sepolia
	v.SetDefault("wallet.token_address", "")
	v.SetDefault("wallet.rpc_url", "")
	v.SetDefault("wallet.address", "")

	v.SetDefault("cache.compensation_delay", 2*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("output.colors", true)
	v.SetDefault("state.dir", "")
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if cfg.Cache.CompensationDelay < 0 {
		return fmt.Errorf("cache.compensation_delay must not be negative")
	}
	return nil
}
