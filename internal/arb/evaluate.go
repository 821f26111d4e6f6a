package arb

import (
	"math"
)

// maxPlausible caps net profit and spread: any direction reporting a 100%+
// return is treated as a corrupted input, not an opportunity.
const maxPlausible = 1.0

// Params are the cost assumptions applied to gross arbitrage returns.
type Params struct {
	// FlashloanFeeRate is the loan fee as a fraction of principal
	// (Aave v3 style, typically 0.0009).
	FlashloanFeeRate float64
	// GasCostUSD approximates total gas spend in USD; it is converted to a
	// fraction of the 1-base-unit principal via the source venue price.
	GasCostUSD float64
	// MinNetProfit is the qualification threshold, as a fraction.
	MinNetProfit float64
}

// Evaluate computes both arbitrage directions for a pair given each venue's
// quote-per-base price, and returns the directions whose net profit clears
// the threshold. Either, neither or both directions may qualify. A zero,
// negative or non-finite price voids only the direction(s) it feeds, via
// NaN, without affecting the other.
func Evaluate(quoteA, quoteB PriceQuote, p Params) []Opportunity {
	spread := Spread(quoteA.Price, quoteB.Price)

	out := make([]Opportunity, 0, 2)
	directions := [2]struct {
		dir      int
		src, dst PriceQuote
	}{
		{DirectionAB, quoteA, quoteB},
		{DirectionBA, quoteB, quoteA},
	}

	for _, d := range directions {
		gross, net := directionProfit(d.src.Price, d.dst.Price, p)
		if !qualifies(net, spread, p) {
			continue
		}
		out = append(out, Opportunity{
			Pair:        d.src.Pair,
			Direction:   d.dir,
			SourceVenue: d.src.Venue,
			TargetVenue: d.dst.Venue,
			SourcePrice: d.src.Price,
			TargetPrice: d.dst.Price,
			GrossProfit: gross,
			NetProfit:   net,
			Spread:      spread,
		})
	}
	return out
}

// directionProfit simulates starting with exactly 1 base unit: sell it for
// src quote units on the source venue, buy back on the target venue at
// 1/dst, leaving src/dst base units. Returns NaN for both values when an
// input price cannot support the computation.
func directionProfit(src, dst float64, p Params) (gross, net float64) {
	if !validPrice(src) || !validPrice(dst) {
		return math.NaN(), math.NaN()
	}

	gross = src/dst - 1
	net = gross - p.FlashloanFeeRate - p.GasCostUSD/src
	return gross, net
}

// Spread is the informational normalized price gap |a-b| / mean(a,b). It
// does not gate qualification by itself but shares the plausibility cap.
func Spread(a, b float64) float64 {
	mid := (a + b) / 2
	if mid == 0 {
		return math.NaN()
	}
	return math.Abs(a-b) / mid
}

func qualifies(net, spread float64, p Params) bool {
	if math.IsNaN(net) || math.IsInf(net, 0) {
		return false
	}
	if math.IsNaN(spread) || math.Abs(spread) >= maxPlausible {
		return false
	}
	return net > p.MinNetProfit && math.Abs(net) < maxPlausible
}

func validPrice(price float64) bool {
	return price > 0 && !math.IsNaN(price) && !math.IsInf(price, 0)
}
