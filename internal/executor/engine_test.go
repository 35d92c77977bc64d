package executor

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/swap-engine/internal/chain"
	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/registry"
	"github.com/quartzlabs/swap-engine/internal/router"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var routerAddr = ethcommon.HexToAddress("0x66a9893cC07D91D95644AEDD05D03f95e1dBA8Af")

const tableYAML = `
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 18
  - symbol: USDC
    address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
    decimals: 6
    pool:
      fee: 500
      tickSpacing: 10
  - symbol: WBTC
    address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"
    decimals: 8
    pool:
      fee: 3000
      tickSpacing: 60
`

type fakeQuoter struct {
	quote domain.QuoteResult
	err   error
	calls int
}

func (f *fakeQuoter) QuoteExactInput(_ context.Context, _ domain.Route, _ *big.Int) (domain.QuoteResult, error) {
	f.calls++
	return f.quote, f.err
}

func (f *fakeQuoter) QuoteExactOutput(_ context.Context, _ domain.Route, _ *big.Int) (domain.QuoteResult, error) {
	f.calls++
	return f.quote, f.err
}

type fakeAuth struct {
	approveCalls  int
	permitCalls   int
	approveAmount *big.Int
	permitAmount  *big.Int
	permit        *domain.SignedPermit
}

func (f *fakeAuth) EnsureErc20Approval(_ context.Context, _ ethcommon.Address, amount *big.Int) (bool, error) {
	f.approveCalls++
	f.approveAmount = amount
	return false, nil
}

func (f *fakeAuth) AcquirePermitIfNeeded(_ context.Context, _ ethcommon.Address, amount *big.Int, _ time.Time) (*domain.SignedPermit, error) {
	f.permitCalls++
	f.permitAmount = amount
	return f.permit, nil
}

type fakeBackend struct {
	simErr   error
	balances map[ethcommon.Address][]*big.Int

	simCalls int
	sent     []*types.Transaction
	waitErr  error
	status   uint64
	gasUsed  uint64
}

func (f *fakeBackend) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.simCalls++
	if f.simErr != nil {
		return nil, f.simErr
	}
	return []byte{}, nil
}

func (f *fakeBackend) BalanceOf(_ context.Context, token, _ ethcommon.Address) (*big.Int, error) {
	queue := f.balances[token]
	if len(queue) == 0 {
		return big.NewInt(0), nil
	}
	head := queue[0]
	f.balances[token] = queue[1:]
	return head, nil
}

func (f *fakeBackend) BuildDynamicTx(_ context.Context, _, to ethcommon.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(1),
		Nonce:     uint64(len(f.sent)),
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       300_000,
		To:        &to,
		Value:     value,
		Data:      data,
	}), nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) WaitMined(_ context.Context, txHash ethcommon.Hash) (*types.Receipt, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &types.Receipt{Status: f.status, GasUsed: f.gasUsed, TxHash: txHash}, nil
}

var (
	usdcAddr = ethcommon.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	wbtcAddr = ethcommon.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599")
)

func newTestEngine(t *testing.T, quoter *fakeQuoter, auth *fakeAuth, backend *fakeBackend) *Engine {
	t.Helper()
	reg, err := registry.Parse([]byte(tableYAML))
	require.NoError(t, err)
	wallet, err := chain.NewWallet(testKey, 1)
	require.NoError(t, err)
	return NewEngine(router.NewResolver(reg), quoter, auth, backend, wallet, routerAddr, time.Minute)
}

func intent(tokenIn, tokenOut string, amount int64, dir domain.Direction) domain.SwapIntent {
	return domain.SwapIntent{
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		Amount:      big.NewInt(amount),
		Direction:   dir,
		SlippageBps: 100,
		Deadline:    time.Now().Add(time.Hour),
	}
}

func TestPreviewReturnsQuoteAndBounds(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000), GasEstimate: 180_000}}
	engine := newTestEngine(t, quoter, &fakeAuth{}, &fakeBackend{})

	preview, err := engine.Preview(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactIn))
	require.NoError(t, err)
	require.Equal(t, domain.RouteHub, preview.Route.Kind)
	require.Equal(t, big.NewInt(10_000), preview.Quote.CounterAmount)
	require.Equal(t, big.NewInt(9_900), preview.Bounds.MinAmountOut)
	require.Equal(t, uint64(180_000), preview.Quote.GasEstimate)
}

func TestSwapSimulationFailureSendsNothing(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000)}}
	backend := &fakeBackend{simErr: errors.New("execution reverted"), balances: map[ethcommon.Address][]*big.Int{}}
	engine := newTestEngine(t, quoter, &fakeAuth{}, backend)

	_, err := engine.Swap(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactIn))

	var simErr *SimulationError
	require.ErrorAs(t, err, &simErr)
	require.Empty(t, backend.sent)
	require.Equal(t, 1, backend.simCalls)
}

func TestSwapConfirmedReportsObservedDeltas(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000)}}
	auth := &fakeAuth{}
	backend := &fakeBackend{
		status:  types.ReceiptStatusSuccessful,
		gasUsed: 192_034,
		balances: map[ethcommon.Address][]*big.Int{
			usdcAddr: {big.NewInt(50_000), big.NewInt(45_000)},
			wbtcAddr: {big.NewInt(1_000), big.NewInt(10_950)},
		},
	}
	engine := newTestEngine(t, quoter, auth, backend)

	receipt, err := engine.Swap(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactIn))
	require.NoError(t, err)

	require.True(t, receipt.Confirmed)
	require.Equal(t, uint64(192_034), receipt.GasUsed)
	require.Len(t, backend.sent, 1)
	require.Equal(t, backend.sent[0].Hash(), receipt.TxHash)

	// Deltas come from balances, not from the quote.
	require.Equal(t, big.NewInt(5_000), receipt.AmountInActual)
	require.Equal(t, big.NewInt(9_950), receipt.AmountOutActual)

	// Exactly one fresh quote, both authorization tiers checked with the
	// exact input amount.
	require.Equal(t, 1, quoter.calls)
	require.Equal(t, 1, auth.approveCalls)
	require.Equal(t, big.NewInt(5_000), auth.approveAmount)
}

func TestSwapExactOutAuthorizesBoundedMaximum(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000)}}
	auth := &fakeAuth{}
	backend := &fakeBackend{
		status:   types.ReceiptStatusSuccessful,
		balances: map[ethcommon.Address][]*big.Int{},
	}
	engine := newTestEngine(t, quoter, auth, backend)

	_, err := engine.Swap(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactOut))
	require.NoError(t, err)

	// quote 10000 + ceil(10000*100/10000) = 10100
	require.Equal(t, big.NewInt(10_100), auth.approveAmount)
	require.Equal(t, big.NewInt(10_100), auth.permitAmount)
}

func TestSwapNativeInputSkipsAuthorization(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000)}}
	auth := &fakeAuth{}
	backend := &fakeBackend{
		status:   types.ReceiptStatusSuccessful,
		balances: map[ethcommon.Address][]*big.Int{},
	}
	engine := newTestEngine(t, quoter, auth, backend)

	_, err := engine.Swap(context.Background(), intent("ETH", "USDC", 5_000, domain.ExactIn))
	require.NoError(t, err)
	require.Zero(t, auth.approveCalls)
	require.Zero(t, auth.permitCalls)

	// The attached value covers the exact input.
	require.Equal(t, big.NewInt(5_000), backend.sent[0].Value())
}

func TestSwapConfirmTimeout(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000)}}
	backend := &fakeBackend{
		waitErr:  context.DeadlineExceeded,
		balances: map[ethcommon.Address][]*big.Int{},
	}
	engine := newTestEngine(t, quoter, &fakeAuth{}, backend)

	receipt, err := engine.Swap(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactIn))

	// Timeout is its own failure: the transaction went out but never
	// confirmed within the window.
	require.ErrorIs(t, err, ErrConfirmTimeout)
	require.False(t, receipt.Confirmed)
	require.NotEqual(t, ethcommon.Hash{}, receipt.TxHash)
	require.Len(t, backend.sent, 1)
}

func TestSwapRevertedOnChain(t *testing.T) {
	quoter := &fakeQuoter{quote: domain.QuoteResult{CounterAmount: big.NewInt(10_000)}}
	backend := &fakeBackend{
		status:   types.ReceiptStatusFailed,
		gasUsed:  90_000,
		balances: map[ethcommon.Address][]*big.Int{},
	}
	engine := newTestEngine(t, quoter, &fakeAuth{}, backend)

	receipt, err := engine.Swap(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactIn))

	var revertErr *SwapRevertedError
	require.ErrorAs(t, err, &revertErr)
	require.Equal(t, receipt.TxHash, revertErr.TxHash)
	require.False(t, receipt.Confirmed)
	require.Equal(t, uint64(90_000), receipt.GasUsed)
}

func TestSwapRejectsInvalidIntents(t *testing.T) {
	engine := newTestEngine(t, &fakeQuoter{}, &fakeAuth{}, &fakeBackend{})

	bad := intent("USDC", "WBTC", 0, domain.ExactIn)
	_, err := engine.Swap(context.Background(), bad)
	require.ErrorIs(t, err, ErrInvalidAmount)

	expired := intent("USDC", "WBTC", 100, domain.ExactIn)
	expired.Deadline = time.Now().Add(-time.Second)
	_, err = engine.Swap(context.Background(), expired)
	require.ErrorIs(t, err, ErrIntentExpired)

	same := intent("USDC", "USDC", 100, domain.ExactIn)
	_, err = engine.Swap(context.Background(), same)
	require.ErrorIs(t, err, router.ErrSameAsset)
}

func TestSwapQuoteFailureStopsPipeline(t *testing.T) {
	quoter := &fakeQuoter{err: errors.New("quote unavailable")}
	auth := &fakeAuth{}
	backend := &fakeBackend{balances: map[ethcommon.Address][]*big.Int{}}
	engine := newTestEngine(t, quoter, auth, backend)

	_, err := engine.Swap(context.Background(), intent("USDC", "WBTC", 5_000, domain.ExactIn))
	require.Error(t, err)
	require.Zero(t, auth.approveCalls)
	require.Zero(t, backend.simCalls)
	require.Empty(t, backend.sent)
}
