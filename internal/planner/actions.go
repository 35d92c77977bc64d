// Package planner turns resolved routes into the batched router calldata:
// an optional permit command followed by the v4 swap action list.
package planner

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

type Action byte

const (
	ActionSwapExactInSingle  Action = 0x06
	ActionSwapExactIn        Action = 0x07
	ActionSwapExactOutSingle Action = 0x08
	ActionSwapExactOut       Action = 0x09
	ActionSettleAll          Action = 0x0c
	ActionTakeAll            Action = 0x0f
)

type Command byte

const (
	CommandPermit2Permit Command = 0x0a
	CommandV4Swap        Command = 0x10
)

var poolKeyComponents = []abi.ArgumentMarshaling{
	{Name: "currency0", Type: "address"},
	{Name: "currency1", Type: "address"},
	{Name: "fee", Type: "uint24"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
}

var pathKeyComponents = []abi.ArgumentMarshaling{
	{Name: "intermediateCurrency", Type: "address"},
	{Name: "fee", Type: "uint24"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
	{Name: "hookData", Type: "bytes"},
}

var (
	exactInSingleType = mustTupleType([]abi.ArgumentMarshaling{
		{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
		{Name: "zeroForOne", Type: "bool"},
		{Name: "amountIn", Type: "uint128"},
		{Name: "amountOutMinimum", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})

	exactInType = mustTupleType([]abi.ArgumentMarshaling{
		{Name: "currencyIn", Type: "address"},
		{Name: "path", Type: "tuple[]", Components: pathKeyComponents},
		{Name: "amountIn", Type: "uint128"},
		{Name: "amountOutMinimum", Type: "uint128"},
	})

	exactOutSingleType = mustTupleType([]abi.ArgumentMarshaling{
		{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
		{Name: "zeroForOne", Type: "bool"},
		{Name: "amountOut", Type: "uint128"},
		{Name: "amountInMaximum", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})

	exactOutType = mustTupleType([]abi.ArgumentMarshaling{
		{Name: "currencyOut", Type: "address"},
		{Name: "path", Type: "tuple[]", Components: pathKeyComponents},
		{Name: "amountOut", Type: "uint128"},
		{Name: "amountInMaximum", Type: "uint128"},
	})

	permitSingleType = mustTupleType([]abi.ArgumentMarshaling{
		{Name: "details", Type: "tuple", Components: []abi.ArgumentMarshaling{
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint160"},
			{Name: "expiration", Type: "uint48"},
			{Name: "nonce", Type: "uint48"},
		}},
		{Name: "spender", Type: "address"},
		{Name: "sigDeadline", Type: "uint256"},
	})

	addressType  = mustType("address")
	uint256Type  = mustType("uint256")
	bytesType    = mustType("bytes")
	bytesArrType = mustType("bytes[]")
)

var (
	settleTakeArgs = abi.Arguments{{Type: addressType}, {Type: uint256Type}}
	actionListArgs = abi.Arguments{{Type: bytesType}, {Type: bytesArrType}}
	permitArgs     = abi.Arguments{{Type: permitSingleType}, {Type: bytesType}}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func mustTupleType(components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType("tuple", "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

// ABI-shaped mirrors of the domain types; field names must line up with the
// tuple component names above for reflection-based packing.

type poolKeyValue struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

type pathKeyValue struct {
	IntermediateCurrency common.Address
	Fee                  *big.Int
	TickSpacing          *big.Int
	Hooks                common.Address
	HookData             []byte
}

type exactInSingleValue struct {
	PoolKey          poolKeyValue
	ZeroForOne       bool
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
	HookData         []byte
}

type exactInValue struct {
	CurrencyIn       common.Address
	Path             []pathKeyValue
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

type exactOutSingleValue struct {
	PoolKey         poolKeyValue
	ZeroForOne      bool
	AmountOut       *big.Int
	AmountInMaximum *big.Int
	HookData        []byte
}

type exactOutValue struct {
	CurrencyOut     common.Address
	Path            []pathKeyValue
	AmountOut       *big.Int
	AmountInMaximum *big.Int
}

type permitDetailsValue struct {
	Token      common.Address
	Amount     *big.Int
	Expiration *big.Int
	Nonce      *big.Int
}

type permitSingleValue struct {
	Details     permitDetailsValue
	Spender     common.Address
	SigDeadline *big.Int
}

func poolKeyVal(k domain.PoolKey) poolKeyValue {
	return poolKeyValue{
		Currency0:   k.Currency0,
		Currency1:   k.Currency1,
		Fee:         big.NewInt(int64(k.Fee)),
		TickSpacing: big.NewInt(int64(k.TickSpacing)),
		Hooks:       k.Hooks,
	}
}

func pathVal(hops []domain.PathHop) []pathKeyValue {
	out := make([]pathKeyValue, len(hops))
	for i, h := range hops {
		hookData := h.HookData
		if hookData == nil {
			hookData = []byte{}
		}
		out[i] = pathKeyValue{
			IntermediateCurrency: h.IntermediateCurrency,
			Fee:                  big.NewInt(int64(h.Fee)),
			TickSpacing:          big.NewInt(int64(h.TickSpacing)),
			Hooks:                h.Hooks,
			HookData:             hookData,
		}
	}
	return out
}
