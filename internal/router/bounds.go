package router

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/quartzlabs/swap-engine/internal/common"
	"github.com/quartzlabs/swap-engine/internal/domain"
)

var (
	ErrInvalidSlippage = errors.New("slippage must be within [0, 10000] bps")
	ErrAmountOverflow  = errors.New("amount does not fit in 256 bits")
)

// ExactInBound returns the minimum acceptable output for a quoted output:
// quote − floor(quote·bps/10000), clamped at zero.
func ExactInBound(quote *big.Int, slippageBps uint16) (*big.Int, error) {
	q, err := toU256(quote)
	if err != nil {
		return nil, err
	}
	if slippageBps > common.BpsDenominator {
		return nil, ErrInvalidSlippage
	}

	cut := new(uint256.Int).Mul(q, uint256.NewInt(uint64(slippageBps)))
	cut.Div(cut, uint256.NewInt(common.BpsDenominator))
	bound := new(uint256.Int).Sub(q, cut)
	return bound.ToBig(), nil
}

// ExactOutBound returns the maximum acceptable input for a quoted input:
// quote + ceil(quote·bps/10000).
func ExactOutBound(quote *big.Int, slippageBps uint16) (*big.Int, error) {
	q, err := toU256(quote)
	if err != nil {
		return nil, err
	}
	if slippageBps > common.BpsDenominator {
		return nil, ErrInvalidSlippage
	}

	pad := new(uint256.Int).Mul(q, uint256.NewInt(uint64(slippageBps)))
	pad.Add(pad, uint256.NewInt(common.BpsDenominator-1))
	pad.Div(pad, uint256.NewInt(common.BpsDenominator))
	bound := new(uint256.Int).Add(q, pad)
	return bound.ToBig(), nil
}

// BoundsFor derives the direction-appropriate execution bounds from a quote.
func BoundsFor(direction domain.Direction, quote *big.Int, slippageBps uint16) (domain.ExecutionBounds, error) {
	switch direction {
	case domain.ExactIn:
		minOut, err := ExactInBound(quote, slippageBps)
		if err != nil {
			return domain.ExecutionBounds{}, err
		}
		return domain.ExecutionBounds{MinAmountOut: minOut}, nil
	default:
		maxIn, err := ExactOutBound(quote, slippageBps)
		if err != nil {
			return domain.ExecutionBounds{}, err
		}
		return domain.ExecutionBounds{MaxAmountIn: maxIn}, nil
	}
}

func toU256(v *big.Int) (*uint256.Int, error) {
	if v == nil || v.Sign() < 0 {
		return nil, ErrAmountOverflow
	}
	q, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return q, nil
}
