package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

// Config mirrors config.yaml
type Config struct {
	Server struct {
		Port    int  `yaml:"port"`
		Verbose bool `yaml:"verbose"`
	} `yaml:"server"`

	StandaloneMode bool `yaml:"standalone_mode"`

	Ethereum struct {
		RPCURL          string `yaml:"rpc_url"`
		ContractAddress string `yaml:"contract_address"`
		ABIPath         string `yaml:"abi_path"`
		FromAddress     string `yaml:"from_address"`
		Gas             uint64 `yaml:"gas"`
		CallTimeout     string `yaml:"call_timeout"`
	} `yaml:"ethereum"`

	Codec struct {
		RateDelimiter string `yaml:"rate_delimiter"`
		DecimalScale  int32  `yaml:"decimal_scale"`
	} `yaml:"codec"`

	Rates struct {
		Path string `yaml:"path"`
	} `yaml:"rates"`

	Session struct {
		MaxAge          string `yaml:"max_age"`
		CleanupInterval string `yaml:"cleanup_interval"`
	} `yaml:"session"`

	Transfers struct {
		Retention string `yaml:"retention"`
	} `yaml:"transfers"`

	Directory struct {
		Driver      string `yaml:"driver"`
		DatabaseURL string `yaml:"database_url"`
		Users       []User `yaml:"users"`
	} `yaml:"directory"`

	Telemetry struct {
		ServiceName  string `yaml:"service_name"`
		OTLPEndpoint string `yaml:"otlp_endpoint"`
		Insecure     bool   `yaml:"insecure"`
	} `yaml:"telemetry"`
}

// User is one row of the static user table
type User struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Address     string `yaml:"address"`
}

// ParsedConfig contains parsed time.Duration values for easier use
type ParsedConfig struct {
	Config
	CallTimeout            time.Duration
	SessionMaxAge          time.Duration
	SessionCleanupInterval time.Duration
	TransferRetention      time.Duration
}

// Path returns CONFIG_PATH if set, otherwise config.yaml
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadConfig loads configuration from a YAML file, then applies environment overrides
func LoadConfig(filepath string) (*ParsedConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a ParsedConfig from YAML bytes
func Parse(data []byte) (*ParsedConfig, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyEnv(&cfg)

	callTimeout, err := time.ParseDuration(cfg.Ethereum.CallTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid ethereum call_timeout: %w", err)
	}
	maxAge, err := time.ParseDuration(cfg.Session.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("invalid session max_age: %w", err)
	}
	cleanup, err := time.ParseDuration(cfg.Session.CleanupInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid session cleanup_interval: %w", err)
	}

	retention, err := time.ParseDuration(cfg.Transfers.Retention)
	if err != nil {
		return nil, fmt.Errorf("invalid transfers retention: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	parsed := &ParsedConfig{
		Config:                 cfg,
		CallTimeout:            callTimeout,
		SessionMaxAge:          maxAge,
		SessionCleanupInterval: cleanup,
		TransferRetention:      retention,
	}
	if err := validateDurations(parsed); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return parsed, nil
}

func defaults() Config {
	var cfg Config
	cfg.Server.Port = 8081
	cfg.StandaloneMode = true
	cfg.Ethereum.Gas = 3000000
	cfg.Ethereum.CallTimeout = "10s"
	cfg.Codec.RateDelimiter = "_"
	cfg.Codec.DecimalScale = 6
	cfg.Rates.Path = "data/rate.json"
	cfg.Session.MaxAge = "1h"
	cfg.Session.CleanupInterval = "5m"
	cfg.Transfers.Retention = "24h"
	cfg.Directory.Driver = "static"
	cfg.Telemetry.ServiceName = "ticket-dashboard"
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	envOverride(&cfg.Ethereum.RPCURL, "GETH_URL")
	envOverride(&cfg.Ethereum.ContractAddress, "CONTRACT_TICKET_ADDRESS")
	envOverride(&cfg.Ethereum.FromAddress, "FROM_ADDRESS")
	envOverride(&cfg.Directory.DatabaseURL, "DB_DSN")
	envOverride(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// validateDurations rejects durations the cleanup tickers and expiry checks cannot use
func validateDurations(cfg *ParsedConfig) error {
	if cfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session max_age must be positive")
	}
	if cfg.SessionCleanupInterval <= 0 {
		return fmt.Errorf("session cleanup_interval must be positive")
	}
	if cfg.TransferRetention <= 0 {
		return fmt.Errorf("transfers retention must be positive")
	}
	if cfg.CallTimeout < 0 {
		return fmt.Errorf("ethereum call_timeout must not be negative")
	}
	return nil
}

// validateConfig validates the configuration values
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if cfg.Codec.RateDelimiter == "" || cfg.Codec.RateDelimiter == "." {
		return fmt.Errorf("codec rate_delimiter must be set and must not be \".\"")
	}
	if cfg.Codec.DecimalScale < 0 {
		return fmt.Errorf("codec decimal_scale must be non-negative")
	}

	if !cfg.StandaloneMode {
		if cfg.Ethereum.RPCURL == "" {
			return fmt.Errorf("ethereum rpc_url is required outside standalone mode")
		}
		if cfg.Ethereum.ContractAddress == "" || cfg.Ethereum.ABIPath == "" {
			return fmt.Errorf("ethereum contract_address and abi_path are required outside standalone mode")
		}
		if cfg.Ethereum.FromAddress == "" {
			return fmt.Errorf("ethereum from_address is required outside standalone mode")
		}
	}
	if cfg.Ethereum.Gas == 0 {
		return fmt.Errorf("ethereum gas must be positive")
	}

	switch cfg.Directory.Driver {
	case "static":
	case "postgres":
		if cfg.Directory.DatabaseURL == "" {
			return fmt.Errorf("directory database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
	}

	return nil
}
