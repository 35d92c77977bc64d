package domain

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKey identifies a v4 pool. Currency0 must sort below Currency1 byte-wise;
// use NewPoolKey to get the ordering right.
type PoolKey struct {
	Currency0   common.Address `json:"currency0"`
	Currency1   common.Address `json:"currency1"`
	Fee         uint32         `json:"fee"`
	TickSpacing int32          `json:"tickSpacing"`
	Hooks       common.Address `json:"hooks"`
}

// NewPoolKey builds a PoolKey from two currencies in either order.
func NewPoolKey(a, b common.Address, fee uint32, tickSpacing int32, hooks common.Address) PoolKey {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return PoolKey{
		Currency0:   a,
		Currency1:   b,
		Fee:         fee,
		TickSpacing: tickSpacing,
		Hooks:       hooks,
	}
}

// Involves reports whether currency is one of the pool's two sides.
func (k PoolKey) Involves(currency common.Address) bool {
	return k.Currency0 == currency || k.Currency1 == currency
}

// Counter returns the pool currency opposite to the given one.
func (k PoolKey) Counter(currency common.Address) common.Address {
	if k.Currency0 == currency {
		return k.Currency1
	}
	return k.Currency0
}

// PathHop is one step of a multi-hop quote/swap path: the currency the hop
// arrives at plus the parameters of the pool crossed to get there.
type PathHop struct {
	IntermediateCurrency common.Address
	Fee                  uint32
	TickSpacing          int32
	Hooks                common.Address
	HookData             []byte
}

type RouteKind int

const (
	RouteDirect RouteKind = iota
	RouteHub
)

func (k RouteKind) String() string {
	if k == RouteDirect {
		return "direct"
	}
	return "hub"
}

// Route is the resolved trading path between two registered assets. Direct
// routes cross a single pool; hub routes cross PoolIn (tokenIn↔hub) then
// PoolOut (hub↔tokenOut).
type Route struct {
	Kind     RouteKind
	TokenIn  Asset
	TokenOut Asset

	// Direct only.
	Pool       PoolKey
	ZeroForOne bool

	// Hub only.
	Hub     Asset
	PoolIn  PoolKey
	PoolOut PoolKey
}

func hop(target common.Address, pool PoolKey) PathHop {
	return PathHop{
		IntermediateCurrency: target,
		Fee:                  pool.Fee,
		TickSpacing:          pool.TickSpacing,
		Hooks:                pool.Hooks,
		HookData:             []byte{},
	}
}

// ForwardPath is the hub-route path for exact-input quoting and swapping:
// it walks from TokenIn, landing first on the hub, then on TokenOut.
func (r Route) ForwardPath() []PathHop {
	return []PathHop{
		hop(r.Hub.Address, r.PoolIn),
		hop(r.TokenOut.Address, r.PoolOut),
	}
}

// ReversePath is the hub-route path for exact-output quoting and swapping.
// The walk starts from TokenOut, so hop order flips and each hop is labeled
// with the currency reached walking backward: the hub, then TokenIn.
func (r Route) ReversePath() []PathHop {
	return []PathHop{
		hop(r.Hub.Address, r.PoolOut),
		hop(r.TokenIn.Address, r.PoolIn),
	}
}
