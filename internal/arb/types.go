package arb

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TradingPair is a directionless watch-list entry; price convention is
// quote units per one base unit.
type TradingPair struct {
	Base  string
	Quote string
}

func (p TradingPair) String() string {
	return p.Base + "/" + p.Quote
}

// PriceQuote is one venue's normalized quote-per-base price for a pair,
// valid for a single scan tick.
type PriceQuote struct {
	Venue  string
	Pair   TradingPair
	Price  float64
	Token0 common.Address
	Token1 common.Address
}

// Arbitrage directions over the two venues of a quote pair. Direction AB
// buys quote on venue A and sells on venue B, BA is the reverse.
const (
	DirectionAB = 0
	DirectionBA = 1
)

// Opportunity is one profitable direction for a pair on the current tick.
// Opportunities are ephemeral: computed, logged, possibly executed, never
// stored across ticks.
type Opportunity struct {
	Pair        TradingPair
	Direction   int
	SourceVenue string
	TargetVenue string
	SourcePrice float64
	TargetPrice float64
	GrossProfit float64
	NetProfit   float64
	Spread      float64
}

func (o Opportunity) String() string {
	return fmt.Sprintf("[OPPORTUNITY] %s %s -> %s | Net Profit: %.3f%% | Spread: %.3f%%",
		o.Pair, o.SourceVenue, o.TargetVenue, o.NetProfit*100, o.Spread*100)
}
