package quoter

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

var (
	quoterAddr = common.HexToAddress("0x52F0E24D1c21C8A0cB1e5a5dD6198556BD9E1203")
	tokenA     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	tokenB     = common.HexToAddress("0x2000000000000000000000000000000000000002")
	hubTok     = common.HexToAddress("0x1500000000000000000000000000000000000015")
)

type fakeCaller struct {
	calls   []ethereum.CallMsg
	returns []byte
	err     error
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	if f.err != nil {
		return nil, f.err
	}
	return f.returns, nil
}

func quoteReturn(t *testing.T, method string, counter, gas int64) []byte {
	t.Helper()
	out, err := quoterABI.Methods[method].Outputs.Pack(big.NewInt(counter), big.NewInt(gas))
	require.NoError(t, err)
	return out
}

func directRoute() domain.Route {
	return domain.Route{
		Kind:       domain.RouteDirect,
		TokenIn:    domain.Asset{Address: tokenA, Symbol: "AAA", Decimals: 18},
		TokenOut:   domain.Asset{Address: tokenB, Symbol: "BBB", Decimals: 6},
		Pool:       domain.NewPoolKey(tokenA, tokenB, 500, 10, common.Address{}),
		ZeroForOne: true,
	}
}

func hubRoute() domain.Route {
	return domain.Route{
		Kind:     domain.RouteHub,
		TokenIn:  domain.Asset{Address: tokenA, Symbol: "AAA", Decimals: 18},
		TokenOut: domain.Asset{Address: tokenB, Symbol: "BBB", Decimals: 6},
		Hub:      domain.Asset{Address: hubTok, Symbol: "HUB", Decimals: 18},
		PoolIn:   domain.NewPoolKey(tokenA, hubTok, 500, 10, common.Address{}),
		PoolOut:  domain.NewPoolKey(tokenB, hubTok, 3000, 60, common.Address{}),
	}
}

func TestQuoteExactInputSingleHop(t *testing.T) {
	caller := &fakeCaller{returns: quoteReturn(t, "quoteExactInputSingle", 987, 180_000)}
	svc := NewService(caller, quoterAddr)

	quote, err := svc.QuoteExactInput(context.Background(), directRoute(), big.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(987), quote.CounterAmount)
	require.Equal(t, uint64(180_000), quote.GasEstimate)

	require.Len(t, caller.calls, 1)
	require.Equal(t, &quoterAddr, caller.calls[0].To)
	require.Equal(t, quoterABI.Methods["quoteExactInputSingle"].ID, caller.calls[0].Data[:4])
}

func TestQuoteExactInputMultiHopPath(t *testing.T) {
	route := hubRoute()
	caller := &fakeCaller{returns: quoteReturn(t, "quoteExactInput", 42, 250_000)}
	svc := NewService(caller, quoterAddr)

	_, err := svc.QuoteExactInput(context.Background(), route, big.NewInt(1000))
	require.NoError(t, err)

	require.Equal(t, quoterABI.Methods["quoteExactInput"].ID, caller.calls[0].Data[:4])

	// The exact currency is the input asset and the path walks forward.
	expected, err := quoterABI.Pack("quoteExactInput", pathQuoteParams{
		ExactCurrency: route.TokenIn.Address,
		Path:          pathParams(route.ForwardPath()),
		ExactAmount:   big.NewInt(1000),
	})
	require.NoError(t, err)
	require.Equal(t, expected, caller.calls[0].Data)
}

func TestQuoteExactOutputMultiHopReversesPath(t *testing.T) {
	route := hubRoute()
	caller := &fakeCaller{returns: quoteReturn(t, "quoteExactOutput", 42, 250_000)}
	svc := NewService(caller, quoterAddr)

	_, err := svc.QuoteExactOutput(context.Background(), route, big.NewInt(500))
	require.NoError(t, err)

	// The exact currency flips to the output asset and the hops come
	// pre-reversed, labeled hub then input token.
	expected, err := quoterABI.Pack("quoteExactOutput", pathQuoteParams{
		ExactCurrency: route.TokenOut.Address,
		Path:          pathParams(route.ReversePath()),
		ExactAmount:   big.NewInt(500),
	})
	require.NoError(t, err)
	require.Equal(t, expected, caller.calls[0].Data)
}

func TestQuoteExactOutputSingleHop(t *testing.T) {
	caller := &fakeCaller{returns: quoteReturn(t, "quoteExactOutputSingle", 1013, 175_000)}
	svc := NewService(caller, quoterAddr)

	quote, err := svc.QuoteExactOutput(context.Background(), directRoute(), big.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1013), quote.CounterAmount)
	require.Equal(t, quoterABI.Methods["quoteExactOutputSingle"].ID, caller.calls[0].Data[:4])
}

func TestQuoteRevertIsUnavailable(t *testing.T) {
	caller := &fakeCaller{err: errors.New("execution reverted")}
	svc := NewService(caller, quoterAddr)

	_, err := svc.QuoteExactInput(context.Background(), directRoute(), big.NewInt(1000))
	require.ErrorIs(t, err, ErrQuoteUnavailable)

	// One call only: reverted quotes are never retried.
	require.Len(t, caller.calls, 1)
}
