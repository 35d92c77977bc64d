// Package quoter prices swaps against the read-only v4 quoter contract.
package quoter

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/metrics"
)

// ErrQuoteUnavailable marks a quoter revert: the pool cannot price this
// amount right now. Callers surface it without retrying.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// ContractCaller is the slice of the RPC client the quoter needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type poolKeyParams struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

type pathKeyParams struct {
	IntermediateCurrency common.Address
	Fee                  *big.Int
	TickSpacing          *big.Int
	Hooks                common.Address
	HookData             []byte
}

type singleQuoteParams struct {
	PoolKey     poolKeyParams
	ZeroForOne  bool
	ExactAmount *big.Int
	HookData    []byte
}

type pathQuoteParams struct {
	ExactCurrency common.Address
	Path          []pathKeyParams
	ExactAmount   *big.Int
}

type Service struct {
	caller  ContractCaller
	address common.Address
}

func NewService(caller ContractCaller, quoterAddress common.Address) *Service {
	return &Service{caller: caller, address: quoterAddress}
}

// QuoteExactInput prices selling exactly amount of the route's input asset,
// returning the output amount the pools would deliver.
func (s *Service) QuoteExactInput(ctx context.Context, route domain.Route, amount *big.Int) (domain.QuoteResult, error) {
	if route.Kind == domain.RouteDirect {
		return s.call(ctx, "quoteExactInputSingle", singleParams(route, amount))
	}
	return s.call(ctx, "quoteExactInput", pathQuoteParams{
		ExactCurrency: route.TokenIn.Address,
		Path:          pathParams(route.ForwardPath()),
		ExactAmount:   amount,
	})
}

// QuoteExactOutput prices buying exactly amount of the route's output asset,
// returning the input amount the pools would charge. Multi-hop walks the
// path from the output side, so the hops come pre-reversed off the route.
func (s *Service) QuoteExactOutput(ctx context.Context, route domain.Route, amount *big.Int) (domain.QuoteResult, error) {
	if route.Kind == domain.RouteDirect {
		return s.call(ctx, "quoteExactOutputSingle", singleParams(route, amount))
	}
	return s.call(ctx, "quoteExactOutput", pathQuoteParams{
		ExactCurrency: route.TokenOut.Address,
		Path:          pathParams(route.ReversePath()),
		ExactAmount:   amount,
	})
}

func (s *Service) call(ctx context.Context, method string, params any) (domain.QuoteResult, error) {
	input, err := quoterABI.Pack(method, params)
	if err != nil {
		return domain.QuoteResult{}, fmt.Errorf("pack %s: %w", method, err)
	}

	output, err := s.caller.CallContract(ctx, ethereum.CallMsg{To: &s.address, Data: input}, nil)
	if err != nil {
		metrics.QuotesTotal.WithLabelValues(method, "unavailable").Inc()
		log.Debug().Err(err).Str("method", method).Msg("[quoter] Quote call reverted")
		return domain.QuoteResult{}, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	values, err := quoterABI.Unpack(method, output)
	if err != nil {
		return domain.QuoteResult{}, fmt.Errorf("unpack %s: %w", method, err)
	}
	counter, ok1 := values[0].(*big.Int)
	gas, ok2 := values[1].(*big.Int)
	if !ok1 || !ok2 {
		return domain.QuoteResult{}, fmt.Errorf("unpack %s: unexpected output shape", method)
	}

	metrics.QuotesTotal.WithLabelValues(method, "ok").Inc()
	return domain.QuoteResult{CounterAmount: counter, GasEstimate: gas.Uint64()}, nil
}

func singleParams(route domain.Route, amount *big.Int) singleQuoteParams {
	return singleQuoteParams{
		PoolKey:     poolParams(route.Pool),
		ZeroForOne:  route.ZeroForOne,
		ExactAmount: amount,
		HookData:    []byte{},
	}
}

func poolParams(k domain.PoolKey) poolKeyParams {
	return poolKeyParams{
		Currency0:   k.Currency0,
		Currency1:   k.Currency1,
		Fee:         big.NewInt(int64(k.Fee)),
		TickSpacing: big.NewInt(int64(k.TickSpacing)),
		Hooks:       k.Hooks,
	}
}

func pathParams(hops []domain.PathHop) []pathKeyParams {
	out := make([]pathKeyParams, len(hops))
	for i, h := range hops {
		hookData := h.HookData
		if hookData == nil {
			hookData = []byte{}
		}
		out[i] = pathKeyParams{
			IntermediateCurrency: h.IntermediateCurrency,
			Fee:                  big.NewInt(int64(h.Fee)),
			TickSpacing:          big.NewInt(int64(h.TickSpacing)),
			Hooks:                h.Hooks,
			HookData:             hookData,
		}
	}
	return out
}
