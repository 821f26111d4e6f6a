package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDecimalsReader struct {
	decimals map[common.Address]uint8
	errs     map[common.Address]error
	calls    int
}

func (f *fakeDecimalsReader) TokenDecimals(_ context.Context, token common.Address) (uint8, error) {
	f.calls++
	if err, ok := f.errs[token]; ok {
		return 0, err
	}
	return f.decimals[token], nil
}

var (
	wethAddr = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	usdcAddr = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
)

func newTestRegistry(t *testing.T, reader *fakeDecimalsReader) *Registry {
	t.Helper()
	reg, err := NewRegistry(reader, map[string]common.Address{
		"WETH": wethAddr,
		"USDC": usdcAddr,
	}, zap.NewNop())
	require.NoError(t, err)
	return reg
}

func TestRegistryAddress(t *testing.T) {
	reg := newTestRegistry(t, &fakeDecimalsReader{})

	addr, ok := reg.Address("WETH")
	assert.True(t, ok)
	assert.Equal(t, wethAddr, addr)

	_, ok = reg.Address("DOGE")
	assert.False(t, ok)
}

func TestRegistryRejectsEmptyTable(t *testing.T) {
	_, err := NewRegistry(&fakeDecimalsReader{}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestDecimalsCachedAfterFirstFetch(t *testing.T) {
	reader := &fakeDecimalsReader{decimals: map[common.Address]uint8{usdcAddr: 6}}
	reg := newTestRegistry(t, reader)

	ctx := context.Background()
	assert.Equal(t, 6, reg.Decimals(ctx, usdcAddr))
	assert.Equal(t, 6, reg.Decimals(ctx, usdcAddr))
	assert.Equal(t, 6, reg.Decimals(ctx, usdcAddr))
	assert.Equal(t, 1, reader.calls, "only the first lookup hits the chain")
}

func TestDecimalsFallbackOnError(t *testing.T) {
	reader := &fakeDecimalsReader{errs: map[common.Address]error{wethAddr: errors.New("execution reverted")}}
	reg := newTestRegistry(t, reader)

	ctx := context.Background()
	dec, ok := reg.DecimalsOK(ctx, wethAddr)
	assert.Equal(t, DefaultDecimals, dec)
	assert.False(t, ok)

	// The failure is cached too.
	dec, ok = reg.DecimalsOK(ctx, wethAddr)
	assert.Equal(t, DefaultDecimals, dec)
	assert.False(t, ok)
	assert.Equal(t, 1, reader.calls)
}

func TestDecimalsOKDistinguishesGenuineEighteen(t *testing.T) {
	reader := &fakeDecimalsReader{decimals: map[common.Address]uint8{wethAddr: 18}}
	reg := newTestRegistry(t, reader)

	dec, ok := reg.DecimalsOK(context.Background(), wethAddr)
	assert.Equal(t, 18, dec)
	assert.True(t, ok, "a fetched 18 is not the fallback")
}
