package executor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/mverot/arbscan/internal/arb"
	"github.com/mverot/arbscan/internal/dex"
	"github.com/mverot/arbscan/internal/eth"
	"github.com/mverot/arbscan/internal/metrics"
	"github.com/mverot/arbscan/internal/oplog"
	"github.com/mverot/arbscan/internal/tokens"
)

// Trigger state machine: Idle -> Submitting -> CoolingDown -> Idle.
// At most one execution is in flight or cooling down process-wide.
type state int

const (
	stateIdle state = iota
	stateSubmitting
	stateCoolingDown
)

// Backend is the transaction-path slice of the chain client.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Config struct {
	// Contract is the deployed flash-loan arbitrageur.
	Contract common.Address
	// LoanNotional is the flash-loan size in whole units of the borrowed
	// asset. Kept deliberately small.
	LoanNotional float64
	// GasLimit is the fixed, generous limit submitted with every call.
	GasLimit uint64
	// Cooldown is the post-submission wait before the next execution.
	Cooldown time.Duration
	// ConfirmTimeout bounds the receipt wait.
	ConfirmTimeout time.Duration
}

func (c *Config) withDefaults() {
	if c.GasLimit == 0 {
		c.GasLimit = 5_000_000
	}
	if c.Cooldown == 0 {
		c.Cooldown = 60 * time.Second
	}
	if c.ConfirmTimeout == 0 {
		c.ConfirmTimeout = 3 * time.Minute
	}
	if c.LoanNotional == 0 {
		c.LoanNotional = 0.00005
	}
}

// Trigger turns qualifying opportunities into flash-loan transactions, one
// at a time, with a fixed cooldown after every submission.
type Trigger struct {
	cfg      Config
	backend  Backend
	resolver *dex.Resolver
	registry *tokens.Registry
	venues   map[string]*dex.Venue
	recorder *oplog.Recorder
	log      *zap.Logger

	key    *ecdsa.PrivateKey
	sender common.Address

	flashABI abi.ABI

	mu    sync.Mutex
	state state
}

func NewTrigger(
	cfg Config,
	backend Backend,
	resolver *dex.Resolver,
	registry *tokens.Registry,
	venues []*dex.Venue,
	recorder *oplog.Recorder,
	privateKeyHex string,
	log *zap.Logger,
) (*Trigger, error) {
	cfg.withDefaults()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	flashABI, err := abi.JSON(strings.NewReader(eth.FlashArbitrageurABI))
	if err != nil {
		return nil, fmt.Errorf("parse arbitrageur ABI: %w", err)
	}

	byName := make(map[string]*dex.Venue, len(venues))
	for _, v := range venues {
		byName[v.Name] = v
	}

	return &Trigger{
		cfg:      cfg,
		backend:  backend,
		resolver: resolver,
		registry: registry,
		venues:   byName,
		recorder: recorder,
		log:      log,
		key:      key,
		sender:   crypto.PubkeyToAddress(key.PublicKey),
		flashABI: flashABI,
		state:    stateIdle,
	}, nil
}

// TryExecute submits a flash-loan arbitrage for the opportunity. Returns
// true only when a transaction was actually sent. While a previous
// execution is submitting or cooling down the opportunity is dropped.
// Failures before submission return the trigger to Idle without cooldown;
// once a transaction is accepted the cooldown runs regardless of its
// on-chain outcome.
func (t *Trigger) TryExecute(ctx context.Context, opp arb.Opportunity) bool {
	if !t.begin() {
		metrics.CooldownSkips.Inc()
		t.log.Info("opportunity skipped, trigger busy", zap.String("pair", opp.Pair.String()))
		return false
	}

	txHash, err := t.submit(ctx, opp)
	if err != nil {
		metrics.ExecutionErrors.Inc()
		t.log.Error("execution failed before submission",
			zap.String("pair", opp.Pair.String()),
			zap.Int("direction", opp.Direction),
			zap.Error(err))
		t.abort()
		return false
	}

	metrics.ExecutionsTotal.Inc()
	t.recorder.TradeSubmitted(oplog.Trade{
		Direction:      fmt.Sprintf("%s -> %s", opp.SourceVenue, opp.TargetVenue),
		Pair:           opp.Pair.String(),
		TxHash:         txHash.Hex(),
		ProfitEstimate: opp.NetProfit,
	})

	if profit, ok := t.awaitReceipt(ctx, opp, txHash); ok {
		t.recorder.TradeConfirmed(txHash.Hex(), profit.String())
	}
	t.coolDown()
	return true
}

func (t *Trigger) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateIdle {
		return false
	}
	t.state = stateSubmitting
	return true
}

func (t *Trigger) abort() {
	t.mu.Lock()
	t.state = stateIdle
	t.mu.Unlock()
}

func (t *Trigger) coolDown() {
	t.mu.Lock()
	t.state = stateCoolingDown
	t.mu.Unlock()

	time.AfterFunc(t.cfg.Cooldown, func() {
		t.mu.Lock()
		t.state = stateIdle
		t.mu.Unlock()
	})
}

func (t *Trigger) submit(ctx context.Context, opp arb.Opportunity) (common.Hash, error) {
	data, err := t.buildCalldata(ctx, opp)
	if err != nil {
		return common.Hash{}, err
	}

	// Pre-flight: a failing estimate means the call would revert, so do
	// not spend gas submitting it.
	contract := t.cfg.Contract
	if _, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: t.sender,
		To:   &contract,
		Data: data,
	}); err != nil {
		return common.Hash{}, fmt.Errorf("gas estimation: %w", err)
	}

	chainID, err := t.backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := t.backend.PendingNonceAt(ctx, t.sender)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := t.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Gas:      t.cfg.GasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), t.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}

	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send tx: %w", err)
	}

	t.log.Info("flash loan submitted",
		zap.String("pair", opp.Pair.String()),
		zap.String("tx", signed.Hash().Hex()),
		zap.Float64("net_profit_est", opp.NetProfit))

	return signed.Hash(), nil
}

// buildCalldata assembles the startUniswapV3Flash parameter tuple: loan
// pool on the source venue, the loan amount on whichever side of the pool
// holds the base asset, the quote token as intermediate settlement asset,
// both venues' fee tiers and routers, and a zero minimum-profit floor.
func (t *Trigger) buildCalldata(ctx context.Context, opp arb.Opportunity) ([]byte, error) {
	source, ok := t.venues[opp.SourceVenue]
	if !ok {
		return nil, fmt.Errorf("unknown source venue %q", opp.SourceVenue)
	}
	target, ok := t.venues[opp.TargetVenue]
	if !ok {
		return nil, fmt.Errorf("unknown target venue %q", opp.TargetVenue)
	}

	baseAddr, ok := t.registry.Address(opp.Pair.Base)
	if !ok {
		return nil, fmt.Errorf("unknown base token %q", opp.Pair.Base)
	}
	quoteAddr, ok := t.registry.Address(opp.Pair.Quote)
	if !ok {
		return nil, fmt.Errorf("unknown quote token %q", opp.Pair.Quote)
	}

	sourcePool, ok := t.resolver.Resolve(ctx, source, opp.Pair.Base, opp.Pair.Quote, baseAddr, quoteAddr)
	if !ok {
		return nil, fmt.Errorf("no pool on %s for %s", source.Name, opp.Pair)
	}
	targetPool, ok := t.resolver.Resolve(ctx, target, opp.Pair.Base, opp.Pair.Quote, baseAddr, quoteAddr)
	if !ok {
		return nil, fmt.Errorf("no pool on %s for %s", target.Name, opp.Pair)
	}

	loanAmount := scaleAmount(t.cfg.LoanNotional, t.registry.Decimals(ctx, baseAddr))
	if loanAmount.Sign() <= 0 {
		return nil, fmt.Errorf("loan amount rounds to zero for %s", opp.Pair.Base)
	}

	// The pool reports the borrowed asset as token0 or token1; exactly one
	// loan amount may be nonzero per call.
	state, err := t.resolver.PoolTokens(ctx, sourcePool.Address)
	if err != nil {
		return nil, fmt.Errorf("loan pool tokens: %w", err)
	}
	amount0, amount1 := big.NewInt(0), big.NewInt(0)
	switch baseAddr {
	case state.Token0:
		amount0 = loanAmount
	case state.Token1:
		amount1 = loanAmount
	default:
		return nil, fmt.Errorf("base token %s not in loan pool %s", baseAddr.Hex(), sourcePool.Address.Hex())
	}

	data, err := t.flashABI.Pack("startUniswapV3Flash",
		sourcePool.Address,
		amount0,
		amount1,
		quoteAddr,
		big.NewInt(int64(sourcePool.FeeTier)),
		big.NewInt(int64(targetPool.FeeTier)),
		big.NewInt(0),
		uint8(opp.Direction),
		source.Router,
		target.Router,
	)
	if err != nil {
		return nil, fmt.Errorf("pack startUniswapV3Flash: %w", err)
	}
	return data, nil
}

// awaitReceipt polls for the receipt and logs the outcome, returning the
// realized profit when the contract emitted one. The wait is best effort: a
// timeout or a reverted transaction still leads to cooldown, both are
// logged with whatever diagnostics the receipt carries.
func (t *Trigger) awaitReceipt(ctx context.Context, opp arb.Opportunity, txHash common.Hash) (*big.Int, bool) {
	waitCtx, cancel := context.WithTimeout(ctx, t.cfg.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		receipt, err := t.backend.TransactionReceipt(waitCtx, txHash)
		if err == nil && receipt != nil {
			return t.logReceipt(opp, receipt)
		}

		select {
		case <-waitCtx.Done():
			t.log.Warn("confirmation wait timed out",
				zap.String("tx", txHash.Hex()),
				zap.String("pair", opp.Pair.String()))
			return nil, false
		case <-ticker.C:
		}
	}
}

func (t *Trigger) logReceipt(opp arb.Opportunity, receipt *types.Receipt) (*big.Int, bool) {
	if receipt.Status != types.ReceiptStatusSuccessful {
		t.log.Warn("flash loan reverted on chain",
			zap.String("tx", receipt.TxHash.Hex()),
			zap.String("pair", opp.Pair.String()),
			zap.Uint64("gas_used", receipt.GasUsed))
		return nil, false
	}

	fields := []zap.Field{
		zap.String("tx", receipt.TxHash.Hex()),
		zap.String("pair", opp.Pair.String()),
		zap.Uint64("gas_used", receipt.GasUsed),
	}
	profit, ok := t.realizedProfit(receipt)
	if ok {
		fields = append(fields, zap.String("profit_realized", profit.String()))
	}
	t.log.Info("flash loan confirmed", fields...)
	return profit, ok
}

// realizedProfit extracts the profit from the ArbitrageExecuted event, when
// the contract emitted one.
func (t *Trigger) realizedProfit(receipt *types.Receipt) (*big.Int, bool) {
	event, ok := t.flashABI.Events["ArbitrageExecuted"]
	if !ok {
		return nil, false
	}
	for _, l := range receipt.Logs {
		if len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}
		values, err := event.Inputs.NonIndexed().Unpack(l.Data)
		if err != nil || len(values) == 0 {
			continue
		}
		if profit, ok := values[0].(*big.Int); ok {
			return profit, true
		}
	}
	return nil, false
}

func scaleAmount(notional float64, decimals int) *big.Int {
	f := new(big.Float).SetFloat64(notional)
	f.Mul(f, new(big.Float).SetFloat64(math.Pow10(decimals)))
	amount, _ := f.Int(nil)
	return amount
}
