package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Direction int

const (
	ExactIn Direction = iota
	ExactOut
)

func (d Direction) String() string {
	if d == ExactIn {
		return "exactIn"
	}
	return "exactOut"
}

// SwapIntent is the caller's description of a desired swap. Amount is the
// exact leg in base units; the counter leg comes from quoting.
type SwapIntent struct {
	Wallet      common.Address
	TokenIn     string
	TokenOut    string
	Amount      *big.Int
	Direction   Direction
	SlippageBps uint16
	Deadline    time.Time
}

// QuoteResult is the counter amount for an intent's exact leg: amount out for
// exact-input, amount in for exact-output. GasEstimate comes straight from
// the quoter contract.
type QuoteResult struct {
	CounterAmount *big.Int
	GasEstimate   uint64
}

// ExecutionBounds pins the protection limits signed into the transaction.
// Exactly one of the two is meaningful per direction: MinAmountOut for
// exact-input, MaxAmountIn for exact-output.
type ExecutionBounds struct {
	MinAmountOut *big.Int
	MaxAmountIn  *big.Int
}

// PermitDetails mirrors the Permit2 allowance record for (owner, token,
// spender): amount granted, unix expiration, and the next expected nonce.
type PermitDetails struct {
	Token      common.Address
	Amount     *big.Int
	Expiration uint64
	Nonce      uint64
}

// SignedPermit is a PermitSingle ready to ride along in the router batch.
type SignedPermit struct {
	Details     PermitDetails
	Spender     common.Address
	SigDeadline *big.Int
	Signature   []byte
}

// AuthorizationState is the read-only view of both approval tiers for a
// (wallet, token) pair, captured before deciding what needs fixing.
type AuthorizationState struct {
	Erc20Allowance   *big.Int
	NeedsErc20       bool
	Permit           PermitDetails
	NeedsPermit      bool
	PermitExpiration time.Time
}

type SimulationResult struct {
	Success bool   `json:"success"`
	GasUsed uint64 `json:"gasUsed,omitempty"`
	Revert  string `json:"revert,omitempty"`
}

// SwapReceipt reports what actually happened on chain, measured as balance
// deltas around the transaction rather than echoing the quote.
type SwapReceipt struct {
	TxHash           common.Hash `json:"txHash"`
	Confirmed        bool        `json:"confirmed"`
	GasUsed          uint64      `json:"gasUsed"`
	AmountInActual   *big.Int    `json:"amountInActual"`
	AmountOutActual  *big.Int    `json:"amountOutActual"`
	BalanceInBefore  *big.Int    `json:"-"`
	BalanceInAfter   *big.Int    `json:"-"`
	BalanceOutBefore *big.Int    `json:"-"`
	BalanceOutAfter  *big.Int    `json:"-"`
}

// Preview is the dry read-path result: resolved route, live quote, and the
// bounds that would be enforced at execution.
type Preview struct {
	Route  Route
	Quote  QuoteResult
	Bounds ExecutionBounds
}
