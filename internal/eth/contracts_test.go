package eth

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestFactoryGetPoolSelector(t *testing.T) {
	data, err := factoryABI.Pack("getPool",
		WETHAddress, USDCAddress, big.NewInt(500))
	if err != nil {
		t.Fatalf("pack getPool: %v", err)
	}

	// getPool(address,address,uint24)
	want := crypto.Keccak256([]byte("getPool(address,address,uint24)"))[:4]
	if hex.EncodeToString(data[:4]) != hex.EncodeToString(want) {
		t.Errorf("selector = %x, want %x", data[:4], want)
	}
	if len(data) != 4+3*32 {
		t.Errorf("calldata length = %d, want %d", len(data), 4+3*32)
	}
}

func TestPoolABIMethods(t *testing.T) {
	for _, method := range []string{"slot0", "token0", "token1"} {
		if _, ok := poolABI.Methods[method]; !ok {
			t.Errorf("pool ABI missing %s", method)
		}
	}
}

func TestERC20ABIMethods(t *testing.T) {
	for _, method := range []string{"decimals", "balanceOf"} {
		if _, ok := erc20ABI.Methods[method]; !ok {
			t.Errorf("erc20 ABI missing %s", method)
		}
	}
}

func TestFlashArbitrageurABI(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(FlashArbitrageurABI))
	if err != nil {
		t.Fatalf("parse arbitrageur ABI: %v", err)
	}

	method, ok := parsed.Methods["startUniswapV3Flash"]
	if !ok {
		t.Fatal("missing startUniswapV3Flash")
	}
	if len(method.Inputs) != 10 {
		t.Errorf("startUniswapV3Flash has %d inputs, want 10", len(method.Inputs))
	}

	if _, ok := parsed.Events["ArbitrageExecuted"]; !ok {
		t.Error("missing ArbitrageExecuted event")
	}

	// Packing a full tuple must succeed with the calldata builder's types.
	_, err = parsed.Pack("startUniswapV3Flash",
		common.HexToAddress("0xC6962004f452bE9203591991D15f6b388e09E8D0"),
		big.NewInt(50_000_000_000_000),
		big.NewInt(0),
		USDCAddress,
		big.NewInt(500),
		big.NewInt(100),
		big.NewInt(0),
		uint8(1),
		UniswapV3Router,
		SushiV3Router,
	)
	if err != nil {
		t.Errorf("pack startUniswapV3Flash: %v", err)
	}
}

func TestKnownTokensTable(t *testing.T) {
	for symbol, addr := range KnownTokens {
		if addr == (common.Address{}) {
			t.Errorf("%s maps to the zero address", symbol)
		}
	}
	if KnownTokens["WETH"] != WETHAddress {
		t.Error("WETH table entry disagrees with the constant")
	}
}
