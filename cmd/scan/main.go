package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mverot/arbscan/internal/arb"
	"github.com/mverot/arbscan/internal/config"
	"github.com/mverot/arbscan/internal/dex"
	"github.com/mverot/arbscan/internal/eth"
	"github.com/mverot/arbscan/internal/tokens"
)

// One-shot diagnostic: resolve every watched pair on both venues at the
// current block, print pool addresses, prices and both directions' net
// profit. No execution, no persistence.
func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "optional YAML config file")
	rpcURL := flag.String("rpc", os.Getenv("ARBITRUM_RPC_WS_URL"), "RPC endpoint")
	flag.Parse()

	if *rpcURL == "" {
		log.Fatal("no RPC endpoint: set ARBITRUM_RPC_WS_URL or pass -rpc")
	}
	// config.Load validates the env var; honor -rpc here too.
	_ = os.Setenv("ARBITRUM_RPC_WS_URL", *rpcURL)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := eth.NewClient(*rpcURL)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	logger := zap.NewNop()
	registry, err := tokens.NewRegistry(client, cfg.TokenTable(), logger)
	if err != nil {
		log.Fatalf("token registry: %v", err)
	}
	resolver := dex.NewResolver(client, logger)
	venues := cfg.DexVenues()
	params := cfg.EvalParams()

	ctx := context.Background()

	block, err := client.BlockNumber(ctx)
	if err != nil {
		log.Fatalf("block number: %v", err)
	}
	fmt.Printf("scanning %d pairs at block %d...\n\n", len(cfg.Pairs), block)

	for _, pc := range cfg.Pairs {
		pair := arb.TradingPair{Base: pc.Base, Quote: pc.Quote}
		baseAddr, ok := registry.Address(pair.Base)
		if !ok {
			fmt.Printf("[%s] unknown base token\n", pair)
			continue
		}
		quoteAddr, ok := registry.Address(pair.Quote)
		if !ok {
			fmt.Printf("[%s] unknown quote token\n", pair)
			continue
		}

		quotes := make([]arb.PriceQuote, 0, 2)
		for _, venue := range venues {
			handle, ok := resolver.Resolve(ctx, venue, pair.Base, pair.Quote, baseAddr, quoteAddr)
			if !ok {
				fmt.Printf("[%s] %s: no pool found\n", pair, venue.Name)
				continue
			}

			state, err := resolver.PoolTokens(ctx, handle.Address)
			if err != nil {
				fmt.Printf("[%s] %s: pool state error: %v\n", pair, venue.Name, err)
				continue
			}

			dec0, ok0 := registry.DecimalsOK(ctx, state.Token0)
			dec1, ok1 := registry.DecimalsOK(ctx, state.Token1)
			if !ok0 || !ok1 {
				dec0, dec1 = tokens.DefaultDecimals, tokens.DefaultDecimals
			}

			price := dex.QuotePerBase(dex.NormalizePrice(state.SqrtPriceX96, dec0, dec1), state.Token0 == quoteAddr)
			if !dex.PriceUsable(price) {
				fmt.Printf("[%s] %s: unusable price %v\n", pair, venue.Name, price)
				continue
			}

			fmt.Printf("[%s] %s: pool %s (fee %d) price %.6f\n",
				pair, venue.Name, handle.Address.Hex(), handle.FeeTier, price)
			quotes = append(quotes, arb.PriceQuote{Venue: venue.Name, Pair: pair, Price: price})
		}

		if len(quotes) < 2 {
			fmt.Printf("[%s] cannot compare: need both venues\n\n", pair)
			continue
		}

		spread := arb.Spread(quotes[0].Price, quotes[1].Price)
		fmt.Printf("[%s] spread: %.4f%%\n", pair, spread*100)

		opps := arb.Evaluate(quotes[0], quotes[1], params)
		if len(opps) == 0 {
			fmt.Printf("[%s] no arbitrage opportunity > %.1f%% net detected\n\n", pair, params.MinNetProfit*100)
			continue
		}
		for _, opp := range opps {
			fmt.Println(opp.String())
		}
		fmt.Println()
	}

	fmt.Println("scan complete")
}
