package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	addrLow  = common.HexToAddress("0x1000000000000000000000000000000000000001")
	addrHigh = common.HexToAddress("0x2000000000000000000000000000000000000002")
	addrHub  = common.HexToAddress("0x1500000000000000000000000000000000000015")
)

func TestNewPoolKeyOrdersCurrencies(t *testing.T) {
	a := NewPoolKey(addrHigh, addrLow, 500, 10, common.Address{})
	b := NewPoolKey(addrLow, addrHigh, 500, 10, common.Address{})

	require.Equal(t, a, b)
	require.Equal(t, addrLow, a.Currency0)
	require.Equal(t, addrHigh, a.Currency1)
}

func TestNewPoolKeyNativeSortsFirst(t *testing.T) {
	k := NewPoolKey(addrHigh, NativeCurrency, 3000, 60, common.Address{})
	require.Equal(t, NativeCurrency, k.Currency0)
	require.Equal(t, addrHigh, k.Currency1)
}

func TestPoolKeyCounter(t *testing.T) {
	k := NewPoolKey(addrLow, addrHigh, 500, 10, common.Address{})
	require.Equal(t, addrHigh, k.Counter(addrLow))
	require.Equal(t, addrLow, k.Counter(addrHigh))
	require.True(t, k.Involves(addrLow))
	require.False(t, k.Involves(addrHub))
}

func hubRoute() Route {
	tokenIn := Asset{Address: addrLow, Symbol: "AAA", Decimals: 18}
	tokenOut := Asset{Address: addrHigh, Symbol: "BBB", Decimals: 6}
	hub := Asset{Address: addrHub, Symbol: "HUB", Decimals: 18}
	return Route{
		Kind:     RouteHub,
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		Hub:      hub,
		PoolIn:   NewPoolKey(tokenIn.Address, hub.Address, 500, 10, common.Address{}),
		PoolOut:  NewPoolKey(tokenOut.Address, hub.Address, 3000, 60, common.Address{}),
	}
}

func TestForwardPathWalksInToOut(t *testing.T) {
	r := hubRoute()
	path := r.ForwardPath()

	require.Len(t, path, 2)
	require.Equal(t, r.Hub.Address, path[0].IntermediateCurrency)
	require.Equal(t, uint32(500), path[0].Fee)
	require.Equal(t, r.TokenOut.Address, path[1].IntermediateCurrency)
	require.Equal(t, uint32(3000), path[1].Fee)
}

func TestReversePathWalksOutToIn(t *testing.T) {
	r := hubRoute()
	path := r.ReversePath()

	// Hop order flips and labels walk backward: hub first, then the input
	// token, each carrying the pool crossed to reach it.
	require.Len(t, path, 2)
	require.Equal(t, r.Hub.Address, path[0].IntermediateCurrency)
	require.Equal(t, uint32(3000), path[0].Fee)
	require.Equal(t, int32(60), path[0].TickSpacing)
	require.Equal(t, r.TokenIn.Address, path[1].IntermediateCurrency)
	require.Equal(t, uint32(500), path[1].Fee)
	require.Equal(t, int32(10), path[1].TickSpacing)
}

func TestAssetIsNative(t *testing.T) {
	require.True(t, Asset{Address: NativeCurrency}.IsNative())
	require.False(t, Asset{Address: addrLow}.IsNative())
}
