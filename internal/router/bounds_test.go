package router

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

func TestExactInBoundFloors(t *testing.T) {
	// 1001 * 50 / 10000 = 5.005 → floor 5, bound 996
	bound, err := ExactInBound(big.NewInt(1001), 50)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(996), bound)
}

func TestExactOutBoundCeils(t *testing.T) {
	// 1001 * 50 / 10000 = 5.005 → ceil 6, bound 1007
	bound, err := ExactOutBound(big.NewInt(1001), 50)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1007), bound)
}

func TestZeroSlippageIsIdentity(t *testing.T) {
	q := big.NewInt(123456789)

	minOut, err := ExactInBound(q, 0)
	require.NoError(t, err)
	require.Equal(t, q, minOut)

	maxIn, err := ExactOutBound(q, 0)
	require.NoError(t, err)
	require.Equal(t, q, maxIn)
}

func TestFullSlippage(t *testing.T) {
	q := big.NewInt(1000)

	minOut, err := ExactInBound(q, 10000)
	require.NoError(t, err)
	require.Zero(t, minOut.Sign())

	maxIn, err := ExactOutBound(q, 10000)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2000), maxIn)
}

func TestSlippageOutOfRange(t *testing.T) {
	_, err := ExactInBound(big.NewInt(1000), 10001)
	require.ErrorIs(t, err, ErrInvalidSlippage)

	_, err = ExactOutBound(big.NewInt(1000), 10001)
	require.ErrorIs(t, err, ErrInvalidSlippage)
}

func TestBoundsRejectNegativeAndOversized(t *testing.T) {
	_, err := ExactInBound(big.NewInt(-1), 50)
	require.ErrorIs(t, err, ErrAmountOverflow)

	huge := new(big.Int).Lsh(big.NewInt(1), 257)
	_, err = ExactOutBound(huge, 50)
	require.ErrorIs(t, err, ErrAmountOverflow)
}

func TestLargeAmountsStayExact(t *testing.T) {
	// Values beyond uint64 must not lose precision.
	q, ok := new(big.Int).SetString("340282366920938463463374607431768211456", 10) // 2^128
	require.True(t, ok)

	minOut, err := ExactInBound(q, 1)
	require.NoError(t, err)
	cut := new(big.Int).Div(new(big.Int).Mul(q, big.NewInt(1)), big.NewInt(10000))
	require.Equal(t, new(big.Int).Sub(q, cut), minOut)
}

func TestBoundsForDirection(t *testing.T) {
	q := big.NewInt(10000)

	b, err := BoundsFor(domain.ExactIn, q, 100)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(9900), b.MinAmountOut)
	require.Nil(t, b.MaxAmountIn)

	b, err = BoundsFor(domain.ExactOut, q, 100)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10100), b.MaxAmountIn)
	require.Nil(t, b.MinAmountOut)
}
