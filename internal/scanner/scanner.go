package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/mverot/arbscan/internal/arb"
	"github.com/mverot/arbscan/internal/dex"
	"github.com/mverot/arbscan/internal/metrics"
	"github.com/mverot/arbscan/internal/oplog"
	"github.com/mverot/arbscan/internal/tokens"
)

// HeadSource delivers new-block notifications.
type HeadSource interface {
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
}

// ExecutionTrigger consumes qualifying opportunities. Nil disables
// execution (detection-only mode).
type ExecutionTrigger interface {
	TryExecute(ctx context.Context, opp arb.Opportunity) bool
}

type Config struct {
	Pairs  []arb.TradingPair
	VenueA *dex.Venue
	VenueB *dex.Venue
	// MinQuoteLiquidity is the liquidity gate threshold in whole quote
	// units, read as approximate USD for stable quotes.
	MinQuoteLiquidity uint64
	Eval              arb.Params
}

// Scanner drives the per-block evaluation of the watch-list across the two
// venues. One goroutine processes one block notification to completion
// before the next; notifications queue FIFO on the subscription channel.
type Scanner struct {
	cfg      Config
	reader   dex.ChainReader
	registry *tokens.Registry
	resolver *dex.Resolver
	gate     *dex.Gate
	trigger  ExecutionTrigger
	recorder *oplog.Recorder
	log      *zap.Logger

	watch []arb.TradingPair
}

func New(
	cfg Config,
	reader dex.ChainReader,
	registry *tokens.Registry,
	resolver *dex.Resolver,
	gate *dex.Gate,
	trigger ExecutionTrigger,
	recorder *oplog.Recorder,
	log *zap.Logger,
) *Scanner {
	return &Scanner{
		cfg:      cfg,
		reader:   reader,
		registry: registry,
		resolver: resolver,
		gate:     gate,
		trigger:  trigger,
		recorder: recorder,
		log:      log,
	}
}

// PreFilter builds the process-lifetime watch-list: a configured pair is
// kept when at least one venue has a resolvable pool for it. Run once at
// startup and not re-validated per tick.
func (s *Scanner) PreFilter(ctx context.Context) error {
	watch := make([]arb.TradingPair, 0, len(s.cfg.Pairs))

	for _, pair := range s.cfg.Pairs {
		baseAddr, okBase := s.registry.Address(pair.Base)
		quoteAddr, okQuote := s.registry.Address(pair.Quote)
		if !okBase || !okQuote {
			s.log.Warn("pair dropped, token not in registry", zap.String("pair", pair.String()))
			continue
		}

		_, onA := s.resolver.Resolve(ctx, s.cfg.VenueA, pair.Base, pair.Quote, baseAddr, quoteAddr)
		_, onB := s.resolver.Resolve(ctx, s.cfg.VenueB, pair.Base, pair.Quote, baseAddr, quoteAddr)
		if !onA && !onB {
			s.log.Info("pair dropped, no pool on either venue", zap.String("pair", pair.String()))
			continue
		}
		watch = append(watch, pair)
	}

	if len(watch) == 0 {
		return fmt.Errorf("no watchable pairs after pool discovery")
	}

	s.watch = watch
	s.log.Info("watch-list ready", zap.Int("pairs", len(watch)))
	return nil
}

// Run subscribes to new heads and evaluates the watch-list on every block
// until the context is cancelled or the subscription dies. Per-pair
// failures never end the run; only provider-boundary loss does.
func (s *Scanner) Run(ctx context.Context, heads HeadSource) error {
	ch := make(chan *types.Header, 64)
	sub, err := heads.SubscribeNewHead(ctx, ch)
	if err != nil {
		return fmt.Errorf("subscribe new heads: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("head subscription lost: %w", err)
		case head := <-ch:
			s.Tick(ctx, head.Number.Uint64())
		}
	}
}

// Tick evaluates every watched pair once. Pairs are scanned sequentially;
// a failure on one pair is logged and the next pair proceeds.
func (s *Scanner) Tick(ctx context.Context, blockNumber uint64) {
	started := time.Now()
	metrics.TicksTotal.Inc()
	s.log.Debug("tick", zap.Uint64("block", blockNumber))

	for _, pair := range s.watch {
		if err := s.scanPair(ctx, pair); err != nil {
			metrics.PairsSkipped.Inc()
			s.log.Debug("pair skipped", zap.String("pair", pair.String()), zap.Error(err))
		}
	}

	metrics.TickLatency.Observe(time.Since(started).Seconds())
}

func (s *Scanner) scanPair(ctx context.Context, pair arb.TradingPair) error {
	baseAddr, _ := s.registry.Address(pair.Base)
	quoteAddr, _ := s.registry.Address(pair.Quote)

	// Pool handles are re-resolved every tick; a pool may move fee tier
	// between ticks.
	poolA, okA := s.resolver.Resolve(ctx, s.cfg.VenueA, pair.Base, pair.Quote, baseAddr, quoteAddr)
	poolB, okB := s.resolver.Resolve(ctx, s.cfg.VenueB, pair.Base, pair.Quote, baseAddr, quoteAddr)
	if !okA || !okB {
		return fmt.Errorf("pool missing (venueA=%v venueB=%v)", okA, okB)
	}

	// Depth check runs before any pricing. Evaluation is two-sided, so a
	// single thin pool skips the pair as surely as two.
	quoteDecimals := s.registry.Decimals(ctx, quoteAddr)
	if !s.gate.Check(ctx, poolA.Address, quoteAddr, quoteDecimals, s.cfg.MinQuoteLiquidity) {
		return fmt.Errorf("thin liquidity on %s", s.cfg.VenueA.Name)
	}
	if !s.gate.Check(ctx, poolB.Address, quoteAddr, quoteDecimals, s.cfg.MinQuoteLiquidity) {
		return fmt.Errorf("thin liquidity on %s", s.cfg.VenueB.Name)
	}

	quoteA, err := s.priceQuote(ctx, pair, poolA, quoteAddr, s.cfg.VenueA.Name)
	if err != nil {
		return fmt.Errorf("%s price: %w", s.cfg.VenueA.Name, err)
	}
	quoteB, err := s.priceQuote(ctx, pair, poolB, quoteAddr, s.cfg.VenueB.Name)
	if err != nil {
		return fmt.Errorf("%s price: %w", s.cfg.VenueB.Name, err)
	}

	for _, opp := range arb.Evaluate(quoteA, quoteB, s.cfg.Eval) {
		metrics.OpportunitiesTotal.Inc()
		s.log.Info("opportunity detected",
			zap.String("pair", opp.Pair.String()),
			zap.String("source", opp.SourceVenue),
			zap.String("target", opp.TargetVenue),
			zap.Float64("net_profit", opp.NetProfit),
			zap.Float64("spread", opp.Spread))
		s.recorder.Opportunity(opp.String())

		if s.trigger != nil {
			s.trigger.TryExecute(ctx, opp)
		}
	}
	return nil
}

// priceQuote reads pool state and normalizes it to quote-per-base. A quote
// that fails the sanity bounds voids this pair for this tick only.
func (s *Scanner) priceQuote(ctx context.Context, pair arb.TradingPair, pool dex.PoolHandle, quoteAddr common.Address, venue string) (arb.PriceQuote, error) {
	state, err := s.reader.PoolState(ctx, pool.Address)
	if err != nil {
		return arb.PriceQuote{}, err
	}

	dec0, ok0 := s.registry.DecimalsOK(ctx, state.Token0)
	dec1, ok1 := s.registry.DecimalsOK(ctx, state.Token1)
	if !ok0 || !ok1 {
		// One failed lookup degrades both to the default, matching the
		// plain 10^18 division in the price formula.
		dec0, dec1 = tokens.DefaultDecimals, tokens.DefaultDecimals
	}

	price := dex.NormalizePrice(state.SqrtPriceX96, dec0, dec1)
	price = dex.QuotePerBase(price, state.Token0 == quoteAddr)
	if !dex.PriceUsable(price) {
		return arb.PriceQuote{}, fmt.Errorf("unusable price %v on %s", price, venue)
	}

	return arb.PriceQuote{
		Venue:  venue,
		Pair:   pair,
		Price:  price,
		Token0: state.Token0,
		Token1: state.Token1,
	}, nil
}
