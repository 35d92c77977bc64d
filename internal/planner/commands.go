package planner

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

var ErrMissingBound = errors.New("execution bounds missing for direction")

const executeABIJSON = `[
  {
    "type": "function",
    "name": "execute",
    "stateMutability": "payable",
    "inputs": [
      {"name": "commands", "type": "bytes"},
      {"name": "inputs", "type": "bytes[]"},
      {"name": "deadline", "type": "uint256"}
    ],
    "outputs": []
  }
]`

var executeABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(executeABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// EncodedCall is a ready-to-send router batch: one command byte per input
// blob plus the execution deadline.
type EncodedCall struct {
	Commands []byte
	Inputs   [][]byte
	Deadline *big.Int

	// Value is attached ether when the input currency is native.
	Value *big.Int
}

// Calldata packs the batch into execute() calldata.
func (c EncodedCall) Calldata() ([]byte, error) {
	return executeABI.Pack("execute", c.Commands, c.Inputs, c.Deadline)
}

// BuildSwap encodes a quoted, bounded swap into a router batch. A non-nil
// permit is prepended as a PERMIT2_PERMIT command so the allowance lands in
// the same transaction that spends it.
func BuildSwap(
	route domain.Route,
	direction domain.Direction,
	amount *big.Int,
	bounds domain.ExecutionBounds,
	permit *domain.SignedPermit,
	deadline time.Time,
) (EncodedCall, error) {
	plan := NewPlan()

	var settleMax, takeMin *big.Int
	switch direction {
	case domain.ExactIn:
		if bounds.MinAmountOut == nil {
			return EncodedCall{}, ErrMissingBound
		}
		settleMax, takeMin = amount, bounds.MinAmountOut
		var err error
		if route.Kind == domain.RouteDirect {
			err = plan.AddSwapExactInSingle(route.Pool, route.ZeroForOne, amount, bounds.MinAmountOut)
		} else {
			err = plan.AddSwapExactIn(route.TokenIn.Address, route.ForwardPath(), amount, bounds.MinAmountOut)
		}
		if err != nil {
			return EncodedCall{}, err
		}
	case domain.ExactOut:
		if bounds.MaxAmountIn == nil {
			return EncodedCall{}, ErrMissingBound
		}
		settleMax, takeMin = bounds.MaxAmountIn, amount
		var err error
		if route.Kind == domain.RouteDirect {
			err = plan.AddSwapExactOutSingle(route.Pool, route.ZeroForOne, amount, bounds.MaxAmountIn)
		} else {
			err = plan.AddSwapExactOut(route.TokenOut.Address, route.ReversePath(), amount, bounds.MaxAmountIn)
		}
		if err != nil {
			return EncodedCall{}, err
		}
	default:
		return EncodedCall{}, fmt.Errorf("unknown swap direction %d", direction)
	}

	if err := plan.AddSettleAll(route.TokenIn.Address, settleMax); err != nil {
		return EncodedCall{}, err
	}
	if err := plan.AddTakeAll(route.TokenOut.Address, takeMin); err != nil {
		return EncodedCall{}, err
	}

	swapInput, err := plan.Encode()
	if err != nil {
		return EncodedCall{}, err
	}

	call := EncodedCall{
		Commands: []byte{byte(CommandV4Swap)},
		Inputs:   [][]byte{swapInput},
		Deadline: big.NewInt(deadline.Unix()),
		Value:    big.NewInt(0),
	}

	if permit != nil {
		permitInput, err := packPermit(*permit)
		if err != nil {
			return EncodedCall{}, err
		}
		call.Commands = append([]byte{byte(CommandPermit2Permit)}, call.Commands...)
		call.Inputs = append([][]byte{permitInput}, call.Inputs...)
	}

	if route.TokenIn.IsNative() {
		call.Value = new(big.Int).Set(settleMax)
	}

	return call, nil
}

func packPermit(p domain.SignedPermit) ([]byte, error) {
	value := permitSingleValue{
		Details: permitDetailsValue{
			Token:      p.Details.Token,
			Amount:     new(big.Int).Set(p.Details.Amount),
			Expiration: new(big.Int).SetUint64(p.Details.Expiration),
			Nonce:      new(big.Int).SetUint64(p.Details.Nonce),
		},
		Spender:     p.Spender,
		SigDeadline: p.SigDeadline,
	}
	packed, err := permitArgs.Pack(value, p.Signature)
	if err != nil {
		return nil, fmt.Errorf("pack permit: %w", err)
	}
	return packed, nil
}
