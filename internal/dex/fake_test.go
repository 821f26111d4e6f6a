package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mverot/arbscan/internal/eth"
)

// fakeReader implements ChainReader over in-memory tables. Pool keys are
// canonicalized by sorted token addresses, mirroring the on-chain factory's
// order independence.
type fakeReader struct {
	pools       map[string]common.Address
	tierErrs    map[uint32]error
	states      map[common.Address]*eth.PoolState
	balances    map[string]*big.Int
	balanceErrs map[string]error

	getPoolCalls   []uint32
	poolStateCalls int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		pools:       make(map[string]common.Address),
		tierErrs:    make(map[uint32]error),
		states:      make(map[common.Address]*eth.PoolState),
		balances:    make(map[string]*big.Int),
		balanceErrs: make(map[string]error),
	}
}

func poolKey(factory, tokenA, tokenB common.Address, fee uint32) string {
	a, b := tokenA, tokenB
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return fmt.Sprintf("%s|%s|%s|%d", factory.Hex(), a.Hex(), b.Hex(), fee)
}

func balanceKey(token, holder common.Address) string {
	return token.Hex() + "|" + holder.Hex()
}

func (f *fakeReader) addPool(factory, tokenA, tokenB common.Address, fee uint32, pool common.Address) {
	f.pools[poolKey(factory, tokenA, tokenB, fee)] = pool
}

func (f *fakeReader) GetPool(_ context.Context, factory, tokenA, tokenB common.Address, feeTier uint32) (common.Address, error) {
	f.getPoolCalls = append(f.getPoolCalls, feeTier)
	if err, ok := f.tierErrs[feeTier]; ok {
		return common.Address{}, err
	}
	return f.pools[poolKey(factory, tokenA, tokenB, feeTier)], nil
}

func (f *fakeReader) PoolState(_ context.Context, pool common.Address) (*eth.PoolState, error) {
	f.poolStateCalls++
	state, ok := f.states[pool]
	if !ok {
		return nil, fmt.Errorf("no state for pool %s", pool.Hex())
	}
	return state, nil
}

func (f *fakeReader) TokenBalance(_ context.Context, token, holder common.Address) (*big.Int, error) {
	key := balanceKey(token, holder)
	if err, ok := f.balanceErrs[key]; ok {
		return nil, err
	}
	if bal, ok := f.balances[key]; ok {
		return bal, nil
	}
	return big.NewInt(0), nil
}
