package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mverot/arbscan/internal/eth"
)

// ChainReader is the read-only slice of the blockchain provider this
// package needs. *eth.Client satisfies it; tests substitute fakes.
type ChainReader interface {
	GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, feeTier uint32) (common.Address, error)
	PoolState(ctx context.Context, pool common.Address) (*eth.PoolState, error)
	TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error)
}

// Venue is one DEX deployment: its factory, its swap router, and the fee
// tiers to probe when resolving a pool for a pair.
type Venue struct {
	Name            string
	Factory         common.Address
	Router          common.Address
	DefaultFeeTiers []uint32
	// PairFeeTiers overrides the default tier list for specific pairs,
	// keyed "BASE/QUOTE". Either ordering of the key matches; a matching
	// override replaces the default list entirely.
	PairFeeTiers map[string][]uint32
}

// FeeTiersFor picks the tier list to probe for a pair. First match wins
// between the two key orderings, no merging with the defaults.
func (v *Venue) FeeTiersFor(base, quote string) []uint32 {
	if tiers, ok := v.PairFeeTiers[base+"/"+quote]; ok && len(tiers) > 0 {
		return tiers
	}
	if tiers, ok := v.PairFeeTiers[quote+"/"+base]; ok && len(tiers) > 0 {
		return tiers
	}
	return v.DefaultFeeTiers
}

// PoolHandle identifies a resolved pool on a venue. Handles are re-resolved
// every tick and never persisted.
type PoolHandle struct {
	Address common.Address
	FeeTier uint32
	Venue   string
}
