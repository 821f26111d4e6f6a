package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mverot/arbscan/internal/arb"
	"github.com/mverot/arbscan/internal/dex"
	"github.com/mverot/arbscan/internal/eth"
)

type PairConfig struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
}

type VenueConfig struct {
	Name     string              `yaml:"name"`
	Factory  string              `yaml:"factory"`
	Router   string              `yaml:"router"`
	FeeTiers []uint32            `yaml:"fee_tiers"`
	PairFees map[string][]uint32 `yaml:"pair_fee_tiers"`
}

type Config struct {
	// From the environment; never stored in the YAML file.
	RPCWSURL   string `yaml:"-"`
	PrivateKey string `yaml:"-"`

	Tokens map[string]string `yaml:"tokens"`
	Pairs  []PairConfig      `yaml:"pairs"`
	Venues []VenueConfig     `yaml:"venues"`

	Thresholds struct {
		FlashloanFeeRate  float64 `yaml:"flashloan_fee_rate"`
		GasCostUSD        float64 `yaml:"gas_cost_usd"`
		MinNetProfit      float64 `yaml:"min_net_profit"`
		MinQuoteLiquidity uint64  `yaml:"min_quote_liquidity"`
	} `yaml:"thresholds"`

	Execution struct {
		Enabled      bool    `yaml:"enabled"`
		Contract     string  `yaml:"contract"`
		LoanNotional float64 `yaml:"loan_notional"`
		CooldownSec  int     `yaml:"cooldown_sec"`
		GasLimit     uint64  `yaml:"gas_limit"`
	} `yaml:"execution"`

	HTTPAddr string `yaml:"http_addr"`
	DBPath   string `yaml:"db_path"`
	LogFile  string `yaml:"log_file"`
}

// Load reads .env for connection values and, when path is non-empty, a
// YAML file for the venue/watch-list tables. Anything the file leaves
// unset falls back to the Arbitrum defaults. Missing required connection
// values are fatal here and nowhere else.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.RPCWSURL = os.Getenv("ARBITRUM_RPC_WS_URL")
	cfg.PrivateKey = os.Getenv("PRIVATE_KEY")

	if cfg.RPCWSURL == "" {
		return nil, fmt.Errorf("ARBITRUM_RPC_WS_URL not set in environment or .env")
	}
	if cfg.Execution.Enabled {
		if cfg.PrivateKey == "" {
			return nil, fmt.Errorf("execution enabled but PRIVATE_KEY not set")
		}
		if cfg.Execution.Contract == "" {
			return nil, fmt.Errorf("execution enabled but no arbitrageur contract configured")
		}
	}
	if len(cfg.Venues) != 2 {
		return nil, fmt.Errorf("exactly two venues required, got %d", len(cfg.Venues))
	}

	return cfg, nil
}

// TokenTable resolves the configured symbol table to addresses.
func (c *Config) TokenTable() map[string]common.Address {
	table := make(map[string]common.Address, len(c.Tokens))
	for symbol, hex := range c.Tokens {
		table[symbol] = common.HexToAddress(hex)
	}
	return table
}

// WatchPairs converts the configured pair list.
func (c *Config) WatchPairs() []arb.TradingPair {
	pairs := make([]arb.TradingPair, 0, len(c.Pairs))
	for _, p := range c.Pairs {
		pairs = append(pairs, arb.TradingPair{Base: p.Base, Quote: p.Quote})
	}
	return pairs
}

// DexVenues materializes the two venue configs.
func (c *Config) DexVenues() []*dex.Venue {
	venues := make([]*dex.Venue, 0, len(c.Venues))
	for _, v := range c.Venues {
		venues = append(venues, &dex.Venue{
			Name:            v.Name,
			Factory:         common.HexToAddress(v.Factory),
			Router:          common.HexToAddress(v.Router),
			DefaultFeeTiers: v.FeeTiers,
			PairFeeTiers:    v.PairFees,
		})
	}
	return venues
}

// EvalParams bundles the evaluator cost assumptions.
func (c *Config) EvalParams() arb.Params {
	return arb.Params{
		FlashloanFeeRate: c.Thresholds.FlashloanFeeRate,
		GasCostUSD:       c.Thresholds.GasCostUSD,
		MinNetProfit:     c.Thresholds.MinNetProfit,
	}
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Execution.CooldownSec) * time.Second
}

// defaults is the Arbitrum One deployment this scanner was built around:
// Uniswap V3 against PancakeSwap V3, blue-chip pairs, per-pair fee-tier
// priorities tuned to where each pair's deepest pools actually live.
func defaults() *Config {
	cfg := &Config{
		Tokens: map[string]string{
			"WETH":  eth.WETHAddress.Hex(),
			"USDC":  eth.USDCAddress.Hex(),
			"USDCe": eth.USDCeAddress.Hex(),
			"USDT":  eth.USDTAddress.Hex(),
			"DAI":   eth.DAIAddress.Hex(),
			"WBTC":  eth.WBTCAddress.Hex(),
			"ARB":   eth.ARBAddress.Hex(),
			"AAVE":  eth.AAVEAddress.Hex(),
			"LINK":  eth.LINKAddress.Hex(),
			"GMX":   eth.GMXAddress.Hex(),
			"UNI":   eth.UNIAddress.Hex(),
			"MAGIC": eth.MAGICAddress.Hex(),
			"SUSHI": eth.SUSHIAddress.Hex(),
		},
		Pairs: []PairConfig{
			{Base: "WETH", Quote: "USDC"},
			{Base: "WBTC", Quote: "WETH"},
			{Base: "WETH", Quote: "USDT"},
			{Base: "USDC", Quote: "USDT"},
			{Base: "WBTC", Quote: "USDC"},
			{Base: "WETH", Quote: "ARB"},
			{Base: "WBTC", Quote: "USDT"},
			{Base: "WETH", Quote: "AAVE"},
			{Base: "USDC", Quote: "DAI"},
		},
		Venues: []VenueConfig{
			{
				Name:     "uniswap",
				Factory:  eth.UniswapV3Factory.Hex(),
				Router:   eth.UniswapV3Router.Hex(),
				FeeTiers: []uint32{500, 3000, 10000},
				PairFees: map[string][]uint32{
					"WETH/USDC": {500, 3000},
					"WBTC/WETH": {500, 3000},
					"WETH/USDT": {500, 3000},
					"USDC/USDT": {500, 3000},
					"WBTC/USDC": {500, 3000},
					"WETH/ARB":  {500, 3000},
					"WBTC/USDT": {500, 3000},
					"WETH/AAVE": {3000},
					"USDC/DAI":  {500, 3000},
				},
			},
			{
				Name:     "pancakeswap",
				Factory:  eth.PancakeV3Factory.Hex(),
				Router:   eth.SushiV3Router.Hex(),
				FeeTiers: []uint32{100, 500, 2500, 3000, 10000},
				PairFees: map[string][]uint32{
					"WETH/USDC": {100, 500},
					"WBTC/WETH": {100},
					"WETH/USDT": {100, 500},
					"USDC/USDT": {100},
					"WBTC/USDC": {500, 100},
					"WETH/ARB":  {100},
					"WBTC/USDT": {100},
					"WETH/AAVE": {500},
					"USDC/DAI":  {100},
				},
			},
		},
		HTTPAddr: ":3000",
		DBPath:   "data/arbscan.db",
		LogFile:  "arbitrage-opportunities.log",
	}

	cfg.Thresholds.FlashloanFeeRate = 0.0009
	cfg.Thresholds.GasCostUSD = 0.5
	cfg.Thresholds.MinNetProfit = 0.001
	cfg.Thresholds.MinQuoteLiquidity = 10_000

	cfg.Execution.LoanNotional = 0.00005
	cfg.Execution.CooldownSec = 60
	cfg.Execution.GasLimit = 5_000_000

	return cfg
}
