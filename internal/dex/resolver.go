package dex

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/mverot/arbscan/internal/eth"
)

// Resolver finds the pool for a pair on a venue by probing fee tiers in
// priority order.
type Resolver struct {
	reader ChainReader
	log    *zap.Logger
}

func NewResolver(reader ChainReader, log *zap.Logger) *Resolver {
	return &Resolver{reader: reader, log: log}
}

// Resolve probes the venue's fee tiers for (tokenA, tokenB) and returns the
// first tier with a deployed pool. Query errors on a tier are swallowed and
// the next tier is tried; there is no retry within a call. Returns false
// when no tier yields a pool.
func (r *Resolver) Resolve(ctx context.Context, venue *Venue, base, quote string, tokenA, tokenB common.Address) (PoolHandle, bool) {
	for _, tier := range venue.FeeTiersFor(base, quote) {
		pool, err := r.reader.GetPool(ctx, venue.Factory, tokenA, tokenB, tier)
		if err != nil {
			r.log.Debug("getPool failed",
				zap.String("venue", venue.Name),
				zap.String("pair", base+"/"+quote),
				zap.Uint32("fee", tier),
				zap.Error(err))
			continue
		}
		if pool == (common.Address{}) {
			continue
		}
		return PoolHandle{Address: pool, FeeTier: tier, Venue: venue.Name}, true
	}
	return PoolHandle{}, false
}

// PoolTokens reads the current state of a resolved pool.
func (r *Resolver) PoolTokens(ctx context.Context, pool common.Address) (*eth.PoolState, error) {
	return r.reader.PoolState(ctx, pool)
}
