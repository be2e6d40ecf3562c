package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Network NetworkConfig `yaml:"network"`
	Gateway GatewayConfig `yaml:"gateway"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// NetworkConfig identifies the target network and its well-known addresses.
type NetworkConfig struct {
	ID         uint8  `yaml:"id"`
	Name       string `yaml:"name"`
	XRDAddress string `yaml:"xrdAddress"`
}

// GatewayConfig holds the configuration for the ledger gateway client.
type GatewayConfig struct {
	BaseURL                string `yaml:"baseURL"`
	RequestTimeoutMillis   int64  `yaml:"requestTimeoutMillis"`
	MaxAddressesPerRequest int    `yaml:"maxAddressesPerRequest"`
	RateLimitPerSecond     int    `yaml:"rateLimitPerSecond"`
	RateLimitBurst         int    `yaml:"rateLimitBurst"`
}

// WalletConfig holds wallet-side analysis defaults applied when a request
// does not carry its own.
type WalletConfig struct {
	DefaultDepositGuarantee string `yaml:"defaultDepositGuarantee"`
}

// DefaultGuarantee parses the configured default deposit guarantee. An
// unparsable or empty value falls back to 1 (no offset).
func (w WalletConfig) DefaultGuarantee() decimal.Decimal {
	guarantee, err := decimal.NewFromString(w.DefaultDepositGuarantee)
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return guarantee
}

// CacheConfig holds configuration for the session entity cache.
type CacheConfig struct {
	DefaultExpirationMinutes int `yaml:"defaultExpirationMinutes"`
	CleanupIntervalMinutes   int `yaml:"cleanupIntervalMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Network.XRDAddress == "" {
		return nil, fmt.Errorf("network.xrdAddress must be set in %s", path)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}

	if cfg.Gateway.RequestTimeoutMillis == 0 {
		cfg.Gateway.RequestTimeoutMillis = 10000
		logrus.Infof("Gateway.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Gateway.RequestTimeoutMillis)
	}
	if cfg.Gateway.MaxAddressesPerRequest == 0 {
		cfg.Gateway.MaxAddressesPerRequest = 20
		logrus.Infof("Gateway.MaxAddressesPerRequest not set, defaulting to %d", cfg.Gateway.MaxAddressesPerRequest)
	}
	if cfg.Gateway.RateLimitPerSecond == 0 {
		cfg.Gateway.RateLimitPerSecond = 10
		logrus.Infof("Gateway.RateLimitPerSecond not set, defaulting to %d", cfg.Gateway.RateLimitPerSecond)
	}
	if cfg.Gateway.RateLimitBurst == 0 {
		cfg.Gateway.RateLimitBurst = cfg.Gateway.RateLimitPerSecond
	}

	if cfg.Wallet.DefaultDepositGuarantee == "" {
		cfg.Wallet.DefaultDepositGuarantee = "1"
		logrus.Info("Wallet.DefaultDepositGuarantee not set, defaulting to 1")
	}

	if cfg.Cache.DefaultExpirationMinutes == 0 {
		cfg.Cache.DefaultExpirationMinutes = 15
	}
	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 30
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
