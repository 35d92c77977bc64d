// Package executor drives a swap attempt end to end: quote, authorization,
// encoding, dry run, submission, and confirmation. One attempt per
// (wallet, input token) pair runs at a time and nothing is ever retried
// automatically.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/quartzlabs/swap-engine/internal/chain"
	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/metrics"
	"github.com/quartzlabs/swap-engine/internal/planner"
	"github.com/quartzlabs/swap-engine/internal/router"
)

var (
	ErrInvalidAmount  = errors.New("swap amount must be positive")
	ErrIntentExpired  = errors.New("intent deadline already passed")
	ErrConfirmTimeout = errors.New("confirmation window elapsed before the transaction landed")
)

// SimulationError reports a failed pre-submission dry run; nothing was sent.
type SimulationError struct {
	Cause error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Cause)
}

func (e *SimulationError) Unwrap() error {
	return e.Cause
}

// SwapRevertedError reports a swap that landed on chain and reverted.
type SwapRevertedError struct {
	TxHash ethcommon.Hash
}

func (e *SwapRevertedError) Error() string {
	return fmt.Sprintf("swap reverted on chain: %s", e.TxHash)
}

type State string

const (
	StateIdle         State = "idle"
	StateQuoting      State = "quoting"
	StateCheckingAuth State = "checking_authorization"
	StateApproving    State = "approving"
	StateSigning      State = "signing"
	StateSimulating   State = "simulating"
	StateSubmitting   State = "submitting"
	StateConfirming   State = "confirming"
	StateConfirmed    State = "confirmed"
	StateReverted     State = "reverted"
	StateTimeout      State = "timeout"
	StateFailed       State = "failed"
)

type Quoter interface {
	QuoteExactInput(ctx context.Context, route domain.Route, amount *big.Int) (domain.QuoteResult, error)
	QuoteExactOutput(ctx context.Context, route domain.Route, amount *big.Int) (domain.QuoteResult, error)
}

type Authorizer interface {
	EnsureErc20Approval(ctx context.Context, token ethcommon.Address, amount *big.Int) (bool, error)
	AcquirePermitIfNeeded(ctx context.Context, token ethcommon.Address, amount *big.Int, now time.Time) (*domain.SignedPermit, error)
}

type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceOf(ctx context.Context, token, account ethcommon.Address) (*big.Int, error)
	BuildDynamicTx(ctx context.Context, from, to ethcommon.Address, value *big.Int, data []byte) (*types.Transaction, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	WaitMined(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
}

type Sender interface {
	Address() ethcommon.Address
	SignTx(tx *types.Transaction) (*types.Transaction, error)
}

type Engine struct {
	resolver *router.Resolver
	quoter   Quoter
	auth     Authorizer
	backend  Backend
	wallet   Sender

	routerAddr     ethcommon.Address
	confirmTimeout time.Duration

	locks *keyedMutex
	now   func() time.Time
}

func NewEngine(
	resolver *router.Resolver,
	quoter Quoter,
	auth Authorizer,
	backend Backend,
	wallet Sender,
	routerAddr ethcommon.Address,
	confirmTimeout time.Duration,
) *Engine {
	return &Engine{
		resolver:       resolver,
		quoter:         quoter,
		auth:           auth,
		backend:        backend,
		wallet:         wallet,
		routerAddr:     routerAddr,
		confirmTimeout: confirmTimeout,
		locks:          newKeyedMutex(),
		now:            time.Now,
	}
}

// WalletAddress is the account the engine signs and submits with.
func (e *Engine) WalletAddress() ethcommon.Address {
	return e.wallet.Address()
}

func (e *Engine) quote(ctx context.Context, route domain.Route, intent domain.SwapIntent) (domain.QuoteResult, error) {
	start := e.now()
	var (
		quote domain.QuoteResult
		err   error
	)
	if intent.Direction == domain.ExactIn {
		quote, err = e.quoter.QuoteExactInput(ctx, route, intent.Amount)
	} else {
		quote, err = e.quoter.QuoteExactOutput(ctx, route, intent.Amount)
	}
	if err != nil {
		return domain.QuoteResult{}, err
	}
	metrics.QuoteDuration.WithLabelValues(intent.Direction.String()).Observe(time.Since(start).Seconds())
	metrics.QuoteGasEstimate.Observe(float64(quote.GasEstimate))
	return quote, nil
}

// Preview resolves and prices an intent without touching wallet state: the
// route, the live quote, and the bounds execution would enforce.
func (e *Engine) Preview(ctx context.Context, intent domain.SwapIntent) (domain.Preview, error) {
	if intent.Amount == nil || intent.Amount.Sign() <= 0 {
		return domain.Preview{}, ErrInvalidAmount
	}
	route, err := e.resolver.Resolve(intent.TokenIn, intent.TokenOut)
	if err != nil {
		return domain.Preview{}, err
	}
	quote, err := e.quote(ctx, route, intent)
	if err != nil {
		return domain.Preview{}, err
	}
	bounds, err := router.BoundsFor(intent.Direction, quote.CounterAmount, intent.SlippageBps)
	if err != nil {
		return domain.Preview{}, err
	}
	return domain.Preview{Route: route, Quote: quote, Bounds: bounds}, nil
}

// Swap executes an intent through the full pipeline. The returned receipt
// carries the transaction hash and balance deltas when one was submitted,
// even alongside a non-nil error.
func (e *Engine) Swap(ctx context.Context, intent domain.SwapIntent) (domain.SwapReceipt, error) {
	key := intent.Wallet.Hex() + "|" + intent.TokenIn
	e.locks.lock(key)
	defer e.locks.unlock(key)

	start := e.now()
	receipt, state, err := e.run(ctx, intent)

	metrics.SwapsTotal.WithLabelValues(intent.Direction.String(), string(state)).Inc()
	metrics.SwapDuration.WithLabelValues(intent.Direction.String()).Observe(time.Since(start).Seconds())
	return receipt, err
}

func (e *Engine) run(ctx context.Context, intent domain.SwapIntent) (domain.SwapReceipt, State, error) {
	logger := log.With().
		Stringer("wallet", intent.Wallet).
		Str("token_in", intent.TokenIn).
		Str("token_out", intent.TokenOut).
		Str("direction", intent.Direction.String()).
		Logger()

	if intent.Amount == nil || intent.Amount.Sign() <= 0 {
		return domain.SwapReceipt{}, StateFailed, ErrInvalidAmount
	}
	if !intent.Deadline.IsZero() && !e.now().Before(intent.Deadline) {
		return domain.SwapReceipt{}, StateFailed, ErrIntentExpired
	}

	route, err := e.resolver.Resolve(intent.TokenIn, intent.TokenOut)
	if err != nil {
		return domain.SwapReceipt{}, StateFailed, err
	}

	// Quoting: always a fresh quote, never a cached preview.
	logger.Debug().Str("state", string(StateQuoting)).Msg("[executor] Quoting")
	quote, err := e.quote(ctx, route, intent)
	if err != nil {
		return domain.SwapReceipt{}, StateQuoting, err
	}
	bounds, err := router.BoundsFor(intent.Direction, quote.CounterAmount, intent.SlippageBps)
	if err != nil {
		return domain.SwapReceipt{}, StateQuoting, err
	}

	// The input ceiling drives both authorization tiers.
	requiredIn := intent.Amount
	if intent.Direction == domain.ExactOut {
		requiredIn = bounds.MaxAmountIn
	}

	var permit *domain.SignedPermit
	if !route.TokenIn.IsNative() {
		logger.Debug().Str("state", string(StateCheckingAuth)).Msg("[executor] Checking authorization")
		approved, err := e.auth.EnsureErc20Approval(ctx, route.TokenIn.Address, requiredIn)
		if err != nil {
			return domain.SwapReceipt{}, StateApproving, err
		}
		if approved {
			logger.Info().Str("token", route.TokenIn.Symbol).Msg("[executor] ERC-20 approval granted")
		}
		permit, err = e.auth.AcquirePermitIfNeeded(ctx, route.TokenIn.Address, requiredIn, e.now())
		if err != nil {
			return domain.SwapReceipt{}, StateSigning, err
		}
	}

	deadline := intent.Deadline
	if deadline.IsZero() {
		deadline = e.now().Add(5 * time.Minute)
	}
	call, err := planner.BuildSwap(route, intent.Direction, intent.Amount, bounds, permit, deadline)
	if err != nil {
		return domain.SwapReceipt{}, StateFailed, err
	}
	calldata, err := call.Calldata()
	if err != nil {
		return domain.SwapReceipt{}, StateFailed, err
	}

	// Simulating: a reverting dry run aborts before anything is sent.
	logger.Debug().Str("state", string(StateSimulating)).Msg("[executor] Simulating")
	_, err = e.backend.CallContract(ctx, ethereum.CallMsg{
		From:  e.wallet.Address(),
		To:    &e.routerAddr,
		Value: call.Value,
		Data:  calldata,
	}, nil)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("reverted").Inc()
		return domain.SwapReceipt{}, StateSimulating, &SimulationError{Cause: chain.WrapCallError(err)}
	}
	metrics.SimulationsTotal.WithLabelValues("ok").Inc()

	receipt := domain.SwapReceipt{}
	receipt.BalanceInBefore, err = e.backend.BalanceOf(ctx, route.TokenIn.Address, intent.Wallet)
	if err != nil {
		return receipt, StateSubmitting, fmt.Errorf("snapshot input balance: %w", err)
	}
	receipt.BalanceOutBefore, err = e.backend.BalanceOf(ctx, route.TokenOut.Address, intent.Wallet)
	if err != nil {
		return receipt, StateSubmitting, fmt.Errorf("snapshot output balance: %w", err)
	}

	logger.Debug().Str("state", string(StateSubmitting)).Msg("[executor] Submitting")
	tx, err := e.backend.BuildDynamicTx(ctx, e.wallet.Address(), e.routerAddr, call.Value, calldata)
	if err != nil {
		return receipt, StateSubmitting, err
	}
	signed, err := e.wallet.SignTx(tx)
	if err != nil {
		return receipt, StateSubmitting, err
	}
	if err := e.backend.SendTransaction(ctx, signed); err != nil {
		return receipt, StateSubmitting, err
	}
	receipt.TxHash = signed.Hash()
	logger.Info().Stringer("tx", receipt.TxHash).Msg("[executor] Swap submitted")

	// Confirming: once the transaction is out, caller cancellation must not
	// abandon the wait, only the confirmation timeout may.
	confirmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.confirmTimeout)
	defer cancel()
	mined, err := e.backend.WaitMined(confirmCtx, receipt.TxHash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return receipt, StateTimeout, fmt.Errorf("%w: %s", ErrConfirmTimeout, receipt.TxHash)
		}
		return receipt, StateConfirming, err
	}

	receipt.GasUsed = mined.GasUsed
	if mined.Status != types.ReceiptStatusSuccessful {
		return receipt, StateReverted, &SwapRevertedError{TxHash: receipt.TxHash}
	}

	receipt.Confirmed = true
	if err := e.observeDeltas(confirmCtx, route, intent.Wallet, &receipt); err != nil {
		logger.Warn().Err(err).Msg("[executor] Post-confirmation balance read failed")
	}
	metrics.SwapGasUsed.Observe(float64(receipt.GasUsed))
	logger.Info().
		Stringer("tx", receipt.TxHash).
		Str("amount_in", bigString(receipt.AmountInActual)).
		Str("amount_out", bigString(receipt.AmountOutActual)).
		Msg("[executor] Swap confirmed")
	return receipt, StateConfirmed, nil
}

func (e *Engine) observeDeltas(ctx context.Context, route domain.Route, wallet ethcommon.Address, receipt *domain.SwapReceipt) error {
	var err error
	receipt.BalanceInAfter, err = e.backend.BalanceOf(ctx, route.TokenIn.Address, wallet)
	if err != nil {
		return err
	}
	receipt.BalanceOutAfter, err = e.backend.BalanceOf(ctx, route.TokenOut.Address, wallet)
	if err != nil {
		return err
	}
	receipt.AmountInActual = new(big.Int).Sub(receipt.BalanceInBefore, receipt.BalanceInAfter)
	receipt.AmountOutActual = new(big.Int).Sub(receipt.BalanceOutAfter, receipt.BalanceOutBefore)
	return nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
