package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/mverot/arbscan/internal/api"
	"github.com/mverot/arbscan/internal/config"
	"github.com/mverot/arbscan/internal/dex"
	"github.com/mverot/arbscan/internal/eth"
	"github.com/mverot/arbscan/internal/executor"
	"github.com/mverot/arbscan/internal/oplog"
	"github.com/mverot/arbscan/internal/scanner"
	"github.com/mverot/arbscan/internal/tokens"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file (built-in Arbitrum defaults otherwise)")
	devLog := flag.Bool("dev-log", false, "human-readable log output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(*devLog)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	client, err := eth.NewClient(cfg.RPCWSURL)
	if err != nil {
		logger.Fatal("connect provider", zap.Error(err))
	}
	defer client.Close()

	store, err := oplog.NewStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("open opportunity store", zap.Error(err))
	}
	defer store.Close()

	recorder := oplog.NewRecorder(oplog.NewFileSink(cfg.LogFile), store, logger)

	registry, err := tokens.NewRegistry(client, cfg.TokenTable(), logger)
	if err != nil {
		logger.Fatal("token registry", zap.Error(err))
	}

	resolver := dex.NewResolver(client, logger)
	gate := dex.NewGate(client, logger)
	venues := cfg.DexVenues()

	var trigger scanner.ExecutionTrigger
	if cfg.Execution.Enabled {
		t, err := executor.NewTrigger(
			executor.Config{
				Contract:     gethcommon.HexToAddress(cfg.Execution.Contract),
				LoanNotional: cfg.Execution.LoanNotional,
				GasLimit:     cfg.Execution.GasLimit,
				Cooldown:     cfg.Cooldown(),
			},
			client, resolver, registry, venues, recorder, cfg.PrivateKey, logger,
		)
		if err != nil {
			logger.Fatal("execution trigger", zap.Error(err))
		}
		trigger = t
		logger.Info("execution enabled", zap.String("contract", cfg.Execution.Contract))
	} else {
		logger.Info("detection-only mode, execution disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api.Serve(ctx, cfg.HTTPAddr, store, logger)

	scan := scanner.New(
		scanner.Config{
			Pairs:             cfg.WatchPairs(),
			VenueA:            venues[0],
			VenueB:            venues[1],
			MinQuoteLiquidity: cfg.Thresholds.MinQuoteLiquidity,
			Eval:              cfg.EvalParams(),
		},
		client, registry, resolver, gate, trigger, recorder, logger,
	)

	logger.Info("discovering pools for watch-list")
	if err := scan.PreFilter(ctx); err != nil {
		logger.Fatal("pool discovery", zap.Error(err))
	}

	if err := scan.Run(ctx, client); err != nil && ctx.Err() == nil {
		logger.Fatal("scan loop ended", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
