package arb

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{
	FlashloanFeeRate: 0.0009,
	GasCostUSD:       0.5,
	MinNetProfit:     0.001,
}

func quotes(priceA, priceB float64) (PriceQuote, PriceQuote) {
	pair := TradingPair{Base: "WETH", Quote: "USDC"}
	return PriceQuote{Venue: "uniswap", Pair: pair, Price: priceA},
		PriceQuote{Venue: "pancakeswap", Pair: pair, Price: priceB}
}

func TestEvaluateOneDirectionQualifies(t *testing.T) {
	qA, qB := quotes(2000, 2010)

	opps := Evaluate(qA, qB, testParams)
	require.Len(t, opps, 1)

	o := opps[0]
	assert.Equal(t, DirectionBA, o.Direction)
	assert.Equal(t, "pancakeswap", o.SourceVenue)
	assert.Equal(t, "uniswap", o.TargetVenue)

	// gross = 2010/2000 - 1 = 0.005
	// net   = 0.005 - 0.0009 - 0.5/2010
	assert.InDelta(t, 0.005, o.GrossProfit, 1e-12)
	assert.InDelta(t, 0.005-0.0009-0.5/2010, o.NetProfit, 1e-12)
	assert.InDelta(t, 10.0/2005, o.Spread, 1e-12)
}

func TestEvaluateEqualPrices(t *testing.T) {
	qA, qB := quotes(2000, 2000)
	assert.Empty(t, Evaluate(qA, qB, testParams), "no spread means both directions lose the fee")
}

func TestEvaluateSpreadBelowCosts(t *testing.T) {
	// 0.05% spread covers neither the 0.09% loan fee nor gas.
	qA, qB := quotes(2000, 2001)
	assert.Empty(t, Evaluate(qA, qB, testParams))
}

func TestEvaluateBothDirectionsNeverQualifyTogether(t *testing.T) {
	// src/dst > 1 in one direction forces < 1 in the other, so at most one
	// direction can carry positive gross profit.
	for _, prices := range [][2]float64{{2000, 2100}, {2100, 2000}, {1, 1.5}, {0.5, 0.499}} {
		qA, qB := quotes(prices[0], prices[1])
		opps := Evaluate(qA, qB, testParams)
		assert.LessOrEqual(t, len(opps), 1, "prices %v", prices)
	}
}

func TestEvaluateInvalidPriceVoidsQuietly(t *testing.T) {
	for _, bad := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		qA, qB := quotes(bad, 2000)
		assert.Empty(t, Evaluate(qA, qB, testParams), "price %v", bad)

		qA, qB = quotes(2000, bad)
		assert.Empty(t, Evaluate(qA, qB, testParams), "price %v", bad)
	}
}

func TestEvaluatePlausibilityCap(t *testing.T) {
	// A 3x price gap is a corrupted read, not a trade.
	qA, qB := quotes(1000, 3000)
	assert.Empty(t, Evaluate(qA, qB, testParams))
}

func TestEvaluateNearCapStillQualifies(t *testing.T) {
	// ~33% spread with ~50% gross stays under the cap on both metrics.
	qA, qB := quotes(2000, 2800)
	opps := Evaluate(qA, qB, testParams)
	require.Len(t, opps, 1)
	assert.Less(t, math.Abs(opps[0].NetProfit), 1.0)
	assert.Less(t, math.Abs(opps[0].Spread), 1.0)
}

func TestEvaluateGasDominatesSmallPrices(t *testing.T) {
	// Gas converts through the source price; at price 1 the fixed 0.5 USD
	// swamps a 2% gross edge.
	qA, qB := quotes(1.0, 0.98)
	assert.Empty(t, Evaluate(qA, qB, testParams))
}

func TestSpread(t *testing.T) {
	assert.InDelta(t, 10.0/2005, Spread(2000, 2010), 1e-12)
	assert.InDelta(t, 10.0/2005, Spread(2010, 2000), 1e-12, "spread is symmetric")
	assert.True(t, math.IsNaN(Spread(0, 0)))
}

func TestOpportunityString(t *testing.T) {
	o := Opportunity{
		Pair:        TradingPair{Base: "WETH", Quote: "USDC"},
		SourceVenue: "pancakeswap",
		TargetVenue: "uniswap",
		NetProfit:   0.00385,
		Spread:      0.00499,
	}
	s := o.String()
	assert.True(t, strings.HasPrefix(s, "[OPPORTUNITY] WETH/USDC pancakeswap -> uniswap"), s)
	assert.Contains(t, s, "Net Profit: 0.385%")
	assert.Contains(t, s, "Spread: 0.499%")
}
