package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverot/arbscan/internal/eth"
)

const testRPC = "wss://arb-mainnet.example.test/ws"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)
	t.Setenv("PRIVATE_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, testRPC, cfg.RPCWSURL)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "data/arbscan.db", cfg.DBPath)
	assert.Equal(t, "arbitrage-opportunities.log", cfg.LogFile)

	assert.Len(t, cfg.Pairs, 9)
	assert.Len(t, cfg.Tokens, 13)
	require.Len(t, cfg.Venues, 2)
	assert.Equal(t, "uniswap", cfg.Venues[0].Name)
	assert.Equal(t, "pancakeswap", cfg.Venues[1].Name)

	assert.Equal(t, 0.0009, cfg.Thresholds.FlashloanFeeRate)
	assert.Equal(t, 0.5, cfg.Thresholds.GasCostUSD)
	assert.Equal(t, 0.001, cfg.Thresholds.MinNetProfit)
	assert.Equal(t, uint64(10_000), cfg.Thresholds.MinQuoteLiquidity)

	assert.False(t, cfg.Execution.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Cooldown())
	assert.Equal(t, uint64(5_000_000), cfg.Execution.GasLimit)
}

func TestLoadRequiresRPCURL(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARBITRUM_RPC_WS_URL")
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)

	path := filepath.Join(t.TempDir(), "arbscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":8080"
pairs:
  - base: WETH
    quote: USDC
thresholds:
  min_net_profit: 0.002
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	require.Len(t, cfg.Pairs, 1, "the file's pair list replaces the default list")
	assert.Equal(t, "WETH", cfg.Pairs[0].Base)
	assert.Equal(t, 0.002, cfg.Thresholds.MinNetProfit)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.0009, cfg.Thresholds.FlashloanFeeRate)
	assert.Len(t, cfg.Venues, 2)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadExecutionValidation(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)
	t.Setenv("PRIVATE_KEY", "")

	path := filepath.Join(t.TempDir(), "exec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
execution:
  enabled: true
  contract: "0x00000000000000000000000000000000000aB001"
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIVATE_KEY")

	t.Setenv("PRIVATE_KEY", "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Execution.Enabled)
	assert.NotEmpty(t, cfg.PrivateKey)
}

func TestLoadExecutionNeedsContract(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)
	t.Setenv("PRIVATE_KEY", "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")

	path := filepath.Join(t.TempDir(), "exec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("execution:\n  enabled: true\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract")
}

func TestLoadRequiresTwoVenues(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)

	path := filepath.Join(t.TempDir(), "venues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
venues:
  - name: uniswap
    factory: "0x1F98431c8aD98523631AE4a59f267346ea31F984"
    fee_tiers: [500]
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two venues")
}

func TestDerivedViews(t *testing.T) {
	t.Setenv("ARBITRUM_RPC_WS_URL", testRPC)

	cfg, err := Load("")
	require.NoError(t, err)

	table := cfg.TokenTable()
	assert.Equal(t, eth.WETHAddress, table["WETH"])
	assert.Equal(t, eth.USDCAddress, table["USDC"])

	pairs := cfg.WatchPairs()
	require.Len(t, pairs, 9)
	assert.Equal(t, "WETH/USDC", pairs[0].String())

	venues := cfg.DexVenues()
	require.Len(t, venues, 2)
	assert.Equal(t, eth.UniswapV3Factory, venues[0].Factory)
	assert.Equal(t, eth.PancakeV3Factory, venues[1].Factory)
	assert.Equal(t, []uint32{500, 3000}, venues[0].FeeTiersFor("WETH", "USDC"))
	assert.Equal(t, []uint32{100, 500, 2500, 3000, 10000}, venues[1].FeeTiersFor("GMX", "WETH"))

	p := cfg.EvalParams()
	assert.Equal(t, 0.0009, p.FlashloanFeeRate)
	assert.Equal(t, 0.5, p.GasCostUSD)
	assert.Equal(t, 0.001, p.MinNetProfit)
}

func TestTokenTableParsesAddresses(t *testing.T) {
	cfg := defaults()
	table := cfg.TokenTable()
	for symbol, addr := range table {
		assert.NotEqual(t, common.Address{}, addr, symbol)
	}
}
