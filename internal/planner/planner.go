package planner

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

// Plan accumulates v4 router actions with their packed parameters, then
// encodes them into the single V4_SWAP input blob.
type Plan struct {
	actions []byte
	params  [][]byte
}

func NewPlan() *Plan {
	return &Plan{actions: []byte{}, params: [][]byte{}}
}

func (p *Plan) add(action Action, args abi.Arguments, values ...any) error {
	packed, err := args.Pack(values...)
	if err != nil {
		return fmt.Errorf("pack action 0x%02x: %w", byte(action), err)
	}
	p.actions = append(p.actions, byte(action))
	p.params = append(p.params, packed)
	return nil
}

func (p *Plan) AddSwapExactInSingle(pool domain.PoolKey, zeroForOne bool, amountIn, amountOutMin *big.Int) error {
	return p.add(ActionSwapExactInSingle, abi.Arguments{{Type: exactInSingleType}}, exactInSingleValue{
		PoolKey:          poolKeyVal(pool),
		ZeroForOne:       zeroForOne,
		AmountIn:         amountIn,
		AmountOutMinimum: amountOutMin,
		HookData:         []byte{},
	})
}

func (p *Plan) AddSwapExactIn(currencyIn common.Address, path []domain.PathHop, amountIn, amountOutMin *big.Int) error {
	return p.add(ActionSwapExactIn, abi.Arguments{{Type: exactInType}}, exactInValue{
		CurrencyIn:       currencyIn,
		Path:             pathVal(path),
		AmountIn:         amountIn,
		AmountOutMinimum: amountOutMin,
	})
}

func (p *Plan) AddSwapExactOutSingle(pool domain.PoolKey, zeroForOne bool, amountOut, amountInMax *big.Int) error {
	return p.add(ActionSwapExactOutSingle, abi.Arguments{{Type: exactOutSingleType}}, exactOutSingleValue{
		PoolKey:         poolKeyVal(pool),
		ZeroForOne:      zeroForOne,
		AmountOut:       amountOut,
		AmountInMaximum: amountInMax,
		HookData:        []byte{},
	})
}

func (p *Plan) AddSwapExactOut(currencyOut common.Address, path []domain.PathHop, amountOut, amountInMax *big.Int) error {
	return p.add(ActionSwapExactOut, abi.Arguments{{Type: exactOutType}}, exactOutValue{
		CurrencyOut:     currencyOut,
		Path:            pathVal(path),
		AmountOut:       amountOut,
		AmountInMaximum: amountInMax,
	})
}

// AddSettleAll pays the router's debt in currency, capped at maxAmount.
func (p *Plan) AddSettleAll(currency common.Address, maxAmount *big.Int) error {
	return p.add(ActionSettleAll, settleTakeArgs, currency, maxAmount)
}

// AddTakeAll collects the full credit in currency, requiring at least minAmount.
func (p *Plan) AddTakeAll(currency common.Address, minAmount *big.Int) error {
	return p.add(ActionTakeAll, settleTakeArgs, currency, minAmount)
}

// Encode packs the action list into the V4_SWAP command input.
func (p *Plan) Encode() ([]byte, error) {
	return actionListArgs.Pack(p.actions, p.params)
}
