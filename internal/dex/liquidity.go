package dex

import (
	"context"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Gate rejects pools whose quote-token balance sits below a minimum, a
// cheap proxy for pool depth that guards against thin-pool price
// manipulation. It treats the quote token as a near-stable asset, so the
// threshold reads as approximate USD.
type Gate struct {
	reader ChainReader
	log    *zap.Logger
}

func NewGate(reader ChainReader, log *zap.Logger) *Gate {
	return &Gate{reader: reader, log: log}
}

// Check reads the pool's balance of the quote token and accepts the pool
// when it holds at least minQuote whole units. Read failures reject the
// pool for this tick only.
func (g *Gate) Check(ctx context.Context, pool, quoteToken common.Address, quoteDecimals int, minQuote uint64) bool {
	balance, err := g.reader.TokenBalance(ctx, quoteToken, pool)
	if err != nil {
		g.log.Warn("liquidity read failed",
			zap.String("pool", pool.Hex()),
			zap.String("quote", quoteToken.Hex()),
			zap.Error(err))
		return false
	}

	held, overflow := uint256.FromBig(balance)
	if overflow {
		// balanceOf returns a uint256 word, so this cannot happen for a
		// conforming token; treat it as a corrupt read.
		return false
	}

	if quoteDecimals < 0 || quoteDecimals > 77 {
		quoteDecimals = 18
	}
	threshold := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(quoteDecimals)))
	_, overflow = threshold.MulOverflow(threshold, uint256.NewInt(minQuote))
	if overflow {
		return false
	}

	if held.Lt(threshold) {
		g.log.Debug("pool below liquidity threshold",
			zap.String("pool", pool.Hex()),
			zap.Float64("held", unitsOf(held, quoteDecimals)),
			zap.Uint64("min", minQuote))
		return false
	}
	return true
}

func unitsOf(raw *uint256.Int, decimals int) float64 {
	return raw.Float64() / math.Pow10(decimals)
}
