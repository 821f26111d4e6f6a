package dex

import (
	"math"
	"math/big"
)

// MaxUsablePrice is a hard sanity ceiling: any normalized price at or above
// it is treated as corrupt and voids the quote for the current tick.
const MaxUsablePrice = 1e12

var (
	weiScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	q192     = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 192))
)

// NormalizePrice converts a pool's sqrtPriceX96 into the human-scale price
// of token1 in units of token0. The square is taken in integer arithmetic
// scaled by 10^18 to preserve precision before the 2^192 division, then the
// result is adjusted by the token decimals. Callers that could not fetch
// decimals pass 18 for both, which reduces the adjustment to dividing the
// scaled ratio by 10^18.
func NormalizePrice(sqrtPriceX96 *big.Int, decimals0, decimals1 int) float64 {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return math.NaN()
	}

	num := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	num.Mul(num, weiScale)

	scaled := new(big.Float).SetInt(num)
	scaled.Quo(scaled, q192)

	raw, _ := scaled.Float64()
	return raw / 1e18 * math.Pow10(decimals0-decimals1)
}

// QuotePerBase orients a token1-per-token0 price into the quote-per-base
// convention: when the pool stores the quote token as token0 the raw price
// is base-per-quote and must be inverted.
func QuotePerBase(price float64, token0IsQuote bool) float64 {
	if token0IsQuote {
		return 1 / price
	}
	return price
}

// PriceUsable reports whether a normalized price is positive, finite and
// under the sanity ceiling.
func PriceUsable(price float64) bool {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return false
	}
	return price > 0 && price < MaxUsablePrice
}
