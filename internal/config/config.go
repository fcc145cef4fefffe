// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Uniswap    UniswapConfig    `mapstructure:"uniswap"`
	SushiSwap  SushiSwapConfig  `mapstructure:"sushiswap"`
	ZeroEx     ZeroExConfig     `mapstructure:"zeroex"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	CrossChain CrossChainConfig `mapstructure:"crosschain"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	HTTPURL        string        `mapstructure:"http_url"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	CallTimeout    time.Duration `mapstructure:"call_timeout"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// UniswapConfig holds Uniswap V3 contract addresses.
type UniswapConfig struct {
	QuoterAddress  string `mapstructure:"quoter_address"`
	FactoryAddress string `mapstructure:"factory_address"`
	DefaultFeeTier int    `mapstructure:"default_fee_tier"`
}

// QuoterAddressHex returns the quoter address as common.Address.
func (c *UniswapConfig) QuoterAddressHex() common.Address {
	return common.HexToAddress(c.QuoterAddress)
}

// FactoryAddressHex returns the factory address as common.Address.
func (c *UniswapConfig) FactoryAddressHex() common.Address {
	return common.HexToAddress(c.FactoryAddress)
}

// SushiSwapConfig holds the SushiSwap V2 router address.
type SushiSwapConfig struct {
	RouterAddress string `mapstructure:"router_address"`
}

// RouterAddressHex returns the router address as common.Address.
func (c *SushiSwapConfig) RouterAddressHex() common.Address {
	return common.HexToAddress(c.RouterAddress)
}

// ZeroExConfig holds 0x swap API settings.
type ZeroExConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// RoutingConfig holds route-search tuning.
type RoutingConfig struct {
	Chains          []string      `mapstructure:"chains"`
	QuoteCacheTTL   time.Duration `mapstructure:"quote_cache_ttl"`
	AdapterTimeout  time.Duration `mapstructure:"adapter_timeout"`
	Tier1Budget     time.Duration `mapstructure:"tier1_budget"`
	Tier2Budget     time.Duration `mapstructure:"tier2_budget"`
	MaxHops         int           `mapstructure:"max_hops"`
	MaxRoutes       int           `mapstructure:"max_routes"`
	HopSlippagePct  float64       `mapstructure:"hop_slippage_pct"`
	LongPathPenalty float64       `mapstructure:"long_path_penalty_pct"`
	LiquidityTTL    time.Duration `mapstructure:"liquidity_ttl"`
}

// HopSlippageDecimal returns per-hop slippage as a fraction (0.003 for 0.3%).
func (c *RoutingConfig) HopSlippageDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.HopSlippagePct).Div(decimal.NewFromInt(100))
}

// LongPathPenaltyDecimal returns the extra slippage applied to paths longer
// than two hops, as a fraction.
func (c *RoutingConfig) LongPathPenaltyDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.LongPathPenalty).Div(decimal.NewFromInt(100))
}

// CrossChainConfig holds Tier 3 synthesis settings.
type CrossChainConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	FeedURL         string        `mapstructure:"feed_url"`
	MinPriceDiffPct float64       `mapstructure:"min_price_diff_pct"`
	ScanInterval    time.Duration `mapstructure:"scan_interval"`
}

// MinPriceDiffDecimal returns the arbitrage threshold as a fraction.
func (c *CrossChainConfig) MinPriceDiffDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinPriceDiffPct).Div(decimal.NewFromInt(100))
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("PSW")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "PSW_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "PSW_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "PSW_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.http_url", "PSW_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.websocket_url", "PSW_ETH_WS_URL", "ETH_WS_URL")
	v.BindEnv("ethereum.chain_id", "PSW_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Uniswap
	v.BindEnv("uniswap.quoter_address", "PSW_UNISWAP_QUOTER", "UNISWAP_QUOTER")
	v.BindEnv("uniswap.factory_address", "PSW_UNISWAP_FACTORY", "UNISWAP_FACTORY")

	// 0x
	v.BindEnv("zeroex.base_url", "PSW_ZEROEX_URL", "ZEROEX_URL")
	v.BindEnv("zeroex.api_key", "PSW_ZEROEX_API_KEY", "ZEROEX_API_KEY")

	// Routing
	v.BindEnv("routing.chains", "PSW_CHAINS")
	v.BindEnv("routing.quote_cache_ttl", "PSW_QUOTE_CACHE_TTL")
	v.BindEnv("routing.tier1_budget", "PSW_TIER1_BUDGET")
	v.BindEnv("routing.tier2_budget", "PSW_TIER2_BUDGET")
	v.BindEnv("routing.max_hops", "PSW_MAX_HOPS")

	// Cross-chain
	v.BindEnv("crosschain.enabled", "PSW_CROSSCHAIN_ENABLED")
	v.BindEnv("crosschain.feed_url", "PSW_CROSSCHAIN_FEED_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "PSW_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "PSW_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "PSW_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "peepsweep")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.call_timeout", "500ms")
	v.SetDefault("ethereum.max_reconnects", 0) // infinite
	v.SetDefault("ethereum.initial_backoff", "1s")
	v.SetDefault("ethereum.max_backoff", "30s")

	// Uniswap V3 Mainnet defaults
	v.SetDefault("uniswap.quoter_address", "0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	v.SetDefault("uniswap.factory_address", "0x1F98431c8aD98523631AE4a59f267346ea31F984")
	v.SetDefault("uniswap.default_fee_tier", 3000) // 0.3%

	// SushiSwap V2 Mainnet defaults
	v.SetDefault("sushiswap.router_address", "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F")

	// 0x defaults
	v.SetDefault("zeroex.base_url", "https://api.0x.org")

	// Routing defaults
	v.SetDefault("routing.chains", []string{"ethereum", "arbitrum", "base"})
	v.SetDefault("routing.quote_cache_ttl", "30s")
	v.SetDefault("routing.adapter_timeout", "2s")
	v.SetDefault("routing.tier1_budget", "5ms")
	v.SetDefault("routing.tier2_budget", "20ms")
	v.SetDefault("routing.max_hops", 3)
	v.SetDefault("routing.max_routes", 3)
	v.SetDefault("routing.hop_slippage_pct", 0.3)
	v.SetDefault("routing.long_path_penalty_pct", 0.5)
	v.SetDefault("routing.liquidity_ttl", "60s")

	// Cross-chain defaults
	v.SetDefault("crosschain.enabled", true)
	v.SetDefault("crosschain.min_price_diff_pct", 0.5)
	v.SetDefault("crosschain.scan_interval", "10s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "peepsweep")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Routing.Chains) == 0 {
		return fmt.Errorf("routing.chains cannot be empty")
	}
	if c.Routing.MaxHops < 1 {
		return fmt.Errorf("routing.max_hops must be at least 1")
	}
	if c.Routing.MaxRoutes < 1 {
		return fmt.Errorf("routing.max_routes must be at least 1")
	}
	if c.Routing.Tier1Budget <= 0 || c.Routing.Tier2Budget <= 0 {
		return fmt.Errorf("routing tier budgets must be positive")
	}
	if c.Uniswap.QuoterAddress != "" && !common.IsHexAddress(c.Uniswap.QuoterAddress) {
		return fmt.Errorf("invalid uniswap.quoter_address: %s", c.Uniswap.QuoterAddress)
	}
	if c.SushiSwap.RouterAddress != "" && !common.IsHexAddress(c.SushiSwap.RouterAddress) {
		return fmt.Errorf("invalid sushiswap.router_address: %s", c.SushiSwap.RouterAddress)
	}
	if c.CrossChain.Enabled && c.CrossChain.MinPriceDiffPct < 0 {
		return fmt.Errorf("crosschain.min_price_diff_pct cannot be negative")
	}
	return nil
}
