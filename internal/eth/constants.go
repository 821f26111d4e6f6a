package eth

import (
	"github.com/ethereum/go-ethereum/common"
)

// Token addresses on Arbitrum One
var (
	WETHAddress  = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	USDCAddress  = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	USDCeAddress = common.HexToAddress("0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8")
	USDTAddress  = common.HexToAddress("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9")
	DAIAddress   = common.HexToAddress("0xda10009cbd5d07dd0cecc66161fc93d7c9000da1")
	WBTCAddress  = common.HexToAddress("0x2f2a2543b76a4166549f7aaab2e75b4cba5edac9")
	ARBAddress   = common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548")
	AAVEAddress  = common.HexToAddress("0x76fb31fb4af56892a25e32cfc43de717950c9278")
	LINKAddress  = common.HexToAddress("0xf97f4df75117a78c1A5a0DBb814Af92458539FB4")
	GMXAddress   = common.HexToAddress("0xfc5A1A6EB076a2C7aD06eD22C90d7E710E35ad0a")
	UNIAddress   = common.HexToAddress("0xfa7f8980a0f1e64a2062791cc3b0871572f1f7f0")
	MAGICAddress = common.HexToAddress("0x539bdE0d7Dbd336b79148AA742883198BBF60342")
	SUSHIAddress = common.HexToAddress("0xd4d42F0b6DEF4CE0383636770eF773390d85c61A")
)

// KnownTokens maps configured symbol strings to their addresses.
var KnownTokens = map[string]common.Address{
	"WETH":  WETHAddress,
	"USDC":  USDCAddress,
	"USDCe": USDCeAddress,
	"USDT":  USDTAddress,
	"DAI":   DAIAddress,
	"WBTC":  WBTCAddress,
	"ARB":   ARBAddress,
	"AAVE":  AAVEAddress,
	"LINK":  LINKAddress,
	"GMX":   GMXAddress,
	"UNI":   UNIAddress,
	"MAGIC": MAGICAddress,
	"SUSHI": SUSHIAddress,
}

// Factories and routers for the two tracked V3 venues on Arbitrum
var (
	UniswapV3Factory = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	PancakeV3Factory = common.HexToAddress("0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865")
	UniswapV3Router  = common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	SushiV3Router    = common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506")
)

// V3 factory ABI, getPool only
const FactoryABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "tokenA", "type": "address"},
			{"internalType": "address", "name": "tokenB", "type": "address"},
			{"internalType": "uint24", "name": "fee", "type": "uint24"}
		],
		"name": "getPool",
		"outputs": [{"internalType": "address", "name": "pool", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// V3 pool ABI, slot0 plus token metadata
const PoolABI = `[
	{
		"inputs": [],
		"name": "slot0",
		"outputs": [
			{"internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
			{"internalType": "int24", "name": "tick", "type": "int24"},
			{"internalType": "uint16", "name": "observationIndex", "type": "uint16"},
			{"internalType": "uint16", "name": "observationCardinality", "type": "uint16"},
			{"internalType": "uint16", "name": "observationCardinalityNext", "type": "uint16"},
			{"internalType": "uint8", "name": "feeProtocol", "type": "uint8"},
			{"internalType": "bool", "name": "unlocked", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{"inputs": [], "name": "token0", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "token1", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

// Minimal ERC-20 ABI for decimals and balanceOf reads
const ERC20ABI = `[
	{"inputs": [], "name": "decimals", "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
	{"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

// Flash-loan arbitrage executor contract entry point plus result event
const FlashArbitrageurABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "pool", "type": "address"},
			{"internalType": "uint256", "name": "amount0", "type": "uint256"},
			{"internalType": "uint256", "name": "amount1", "type": "uint256"},
			{"internalType": "address", "name": "tokenMid", "type": "address"},
			{"internalType": "uint24", "name": "fee1", "type": "uint24"},
			{"internalType": "uint24", "name": "fee2", "type": "uint24"},
			{"internalType": "uint256", "name": "minProfit", "type": "uint256"},
			{"internalType": "uint8", "name": "direction", "type": "uint8"},
			{"internalType": "address", "name": "router1", "type": "address"},
			{"internalType": "address", "name": "router2", "type": "address"}
		],
		"name": "startUniswapV3Flash",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "initiator", "type": "address"},
			{"indexed": true, "internalType": "address", "name": "asset", "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "profit", "type": "uint256"}
		],
		"name": "ArbitrageExecuted",
		"type": "event"
	}
]`
