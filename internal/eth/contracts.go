package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	factoryABI = mustABI(FactoryABI)
	poolABI    = mustABI(PoolABI)
	erc20ABI   = mustABI(ERC20ABI)
)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse ABI: %v", err))
	}
	return parsed
}

// PoolState is the slice of V3 pool state the scanner needs: the current
// fixed-point price and the stored token ordering.
type PoolState struct {
	SqrtPriceX96 *big.Int
	Token0       common.Address
	Token1       common.Address
}

// GetPool queries a V3 factory for the pool of (tokenA, tokenB) at the given
// fee tier. The zero address means no pool exists at that tier.
func (c *Client) GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, feeTier uint32) (common.Address, error) {
	data, err := factoryABI.Pack("getPool", tokenA, tokenB, big.NewInt(int64(feeTier)))
	if err != nil {
		return common.Address{}, fmt.Errorf("pack getPool: %w", err)
	}

	result, err := c.CallContract(ctx, ethereum.CallMsg{To: &factory, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("call getPool: %w", err)
	}

	unpacked, err := factoryABI.Unpack("getPool", result)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpack getPool: %w", err)
	}
	if len(unpacked) == 0 {
		return common.Address{}, fmt.Errorf("empty getPool result")
	}

	pool, ok := unpacked[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("pool address type assertion failed")
	}

	return pool, nil
}

// PoolState reads slot0, token0 and token1 from a V3 pool.
func (c *Client) PoolState(ctx context.Context, pool common.Address) (*PoolState, error) {
	call := func(method string) ([]interface{}, error) {
		data, err := poolABI.Pack(method)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", method, err)
		}
		result, err := c.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		unpacked, err := poolABI.Unpack(method, result)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", method, err)
		}
		return unpacked, nil
	}

	slot0, err := call("slot0")
	if err != nil {
		return nil, err
	}
	if len(slot0) == 0 {
		return nil, fmt.Errorf("empty slot0 result")
	}
	sqrtPriceX96, ok := slot0[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("sqrtPriceX96 type assertion failed")
	}

	out0, err := call("token0")
	if err != nil {
		return nil, err
	}
	out1, err := call("token1")
	if err != nil {
		return nil, err
	}
	if len(out0) == 0 || len(out1) == 0 {
		return nil, fmt.Errorf("empty token0/token1 result")
	}

	token0, ok := out0[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("token0 type assertion failed")
	}
	token1, ok := out1[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("token1 type assertion failed")
	}

	return &PoolState{
		SqrtPriceX96: sqrtPriceX96,
		Token0:       token0,
		Token1:       token1,
	}, nil
}

// TokenDecimals reads the ERC-20 decimals of a token contract.
func (c *Client) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("pack decimals: %w", err)
	}

	result, err := c.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call decimals: %w", err)
	}

	unpacked, err := erc20ABI.Unpack("decimals", result)
	if err != nil || len(unpacked) == 0 {
		return 0, fmt.Errorf("unpack decimals: %w", err)
	}

	switch v := unpacked[0].(type) {
	case uint8:
		return v, nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unexpected decimals type %T", v)
	}
}

// TokenBalance reads the ERC-20 balance a holder has in a token contract.
func (c *Client) TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", holder)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	result, err := c.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}

	unpacked, err := erc20ABI.Unpack("balanceOf", result)
	if err != nil || len(unpacked) == 0 {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}

	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balance type assertion failed")
	}

	return balance, nil
}
