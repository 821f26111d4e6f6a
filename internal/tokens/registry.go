package tokens

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultDecimals is assumed whenever a decimals() lookup fails (token has
// no code, call reverts, RPC error).
const DefaultDecimals = 18

type DecimalsReader interface {
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
}

type cachedDecimals struct {
	value   int
	fetched bool
}

// Registry maps configured symbols to chain addresses and caches per-address
// decimals. The symbol table is immutable after construction; decimals are
// fetched lazily on first use.
type Registry struct {
	reader   DecimalsReader
	log      *zap.Logger
	bySymbol map[string]common.Address
	decimals *lru.Cache[common.Address, cachedDecimals]
}

func NewRegistry(reader DecimalsReader, table map[string]common.Address, log *zap.Logger) (*Registry, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("empty token table")
	}

	cache, err := lru.New[common.Address, cachedDecimals](256)
	if err != nil {
		return nil, fmt.Errorf("create decimals cache: %w", err)
	}

	bySymbol := make(map[string]common.Address, len(table))
	for symbol, addr := range table {
		bySymbol[symbol] = addr
	}

	return &Registry{
		reader:   reader,
		log:      log,
		bySymbol: bySymbol,
		decimals: cache,
	}, nil
}

// Address resolves a configured symbol to its chain address.
func (r *Registry) Address(symbol string) (common.Address, bool) {
	addr, ok := r.bySymbol[symbol]
	return addr, ok
}

// Decimals returns the token's decimals, fetching and caching on first use
// and falling back to DefaultDecimals on failure.
func (r *Registry) Decimals(ctx context.Context, token common.Address) int {
	dec, _ := r.DecimalsOK(ctx, token)
	return dec
}

// DecimalsOK is Decimals plus whether the value was genuinely fetched; a
// false second return means the DefaultDecimals fallback is in play. The
// fallback is cached too, so a broken token is not re-queried every tick.
func (r *Registry) DecimalsOK(ctx context.Context, token common.Address) (int, bool) {
	if cached, ok := r.decimals.Get(token); ok {
		return cached.value, cached.fetched
	}

	dec, err := r.reader.TokenDecimals(ctx, token)
	if err != nil {
		r.log.Warn("decimals lookup failed, assuming 18",
			zap.String("token", token.Hex()),
			zap.Error(err))
		r.decimals.Add(token, cachedDecimals{value: DefaultDecimals, fetched: false})
		return DefaultDecimals, false
	}

	r.decimals.Add(token, cachedDecimals{value: int(dec), fetched: true})
	return int(dec), true
}
