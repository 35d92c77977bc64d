package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

const validYAML = `
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 18
  - symbol: USDC
    address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
    decimals: 6
    pool:
      fee: 500
      tickSpacing: 10
  - symbol: WBTC
    address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"
    decimals: 8
    pool:
      fee: 3000
      tickSpacing: 60
`

func TestParseValidTable(t *testing.T) {
	reg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	require.Equal(t, "ETH", reg.Hub().Symbol)
	require.True(t, reg.Hub().IsNative())

	usdc, err := reg.Lookup("USDC")
	require.NoError(t, err)
	require.Equal(t, uint8(6), usdc.Asset.Decimals)
	require.False(t, usdc.IsHub)

	// Native hub sorts below any real token address.
	require.Equal(t, domain.NativeCurrency, usdc.Pool.Currency0)
	require.Equal(t, usdc.Asset.Address, usdc.Pool.Currency1)
	require.Equal(t, uint32(500), usdc.Pool.Fee)
	require.Equal(t, int32(10), usdc.Pool.TickSpacing)

	require.Len(t, reg.List(), 3)
}

func TestLookupUnknownSymbol(t *testing.T) {
	reg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	_, err = reg.Lookup("DOGE")
	require.ErrorIs(t, err, ErrUnknownAsset)
}

func TestParseRejectsMissingHub(t *testing.T) {
	_, err := Parse([]byte("tokens:\n  - symbol: USDC\n    decimals: 6\n"))
	require.ErrorIs(t, err, ErrNoHub)
}

func TestParseRejectsHubNotRegistered(t *testing.T) {
	_, err := Parse([]byte(`
hub: ETH
tokens:
  - symbol: USDC
    address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
    decimals: 6
    pool:
      fee: 500
      tickSpacing: 10
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "hub")
}

func TestParseRejectsNonHubWithoutPool(t *testing.T) {
	_, err := Parse([]byte(`
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 18
  - symbol: USDC
    address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
    decimals: 6
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no hub pool")
}

func TestParseRejectsExcessiveDecimals(t *testing.T) {
	_, err := Parse([]byte(`
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 19
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "decimals")
}

func TestParseRejectsDuplicateSymbol(t *testing.T) {
	_, err := Parse([]byte(`
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 18
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000001"
    decimals: 18
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "twice")
}

func TestParseRejectsHubWithPool(t *testing.T) {
	_, err := Parse([]byte(`
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 18
    pool:
      fee: 500
      tickSpacing: 10
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not declare a pool")
}

func TestParseHooksAddress(t *testing.T) {
	reg, err := Parse([]byte(`
hub: ETH
tokens:
  - symbol: ETH
    address: "0x0000000000000000000000000000000000000000"
    decimals: 18
  - symbol: USDC
    address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
    decimals: 6
    pool:
      fee: 500
      tickSpacing: 10
      hooks: "0x1111111111111111111111111111111111111111"
`))
	require.NoError(t, err)
	usdc, err := reg.Lookup("USDC")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), usdc.Pool.Hooks)
}
