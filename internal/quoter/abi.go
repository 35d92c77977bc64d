package quoter

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Quoter contract surface: single-hop quotes keyed by pool, multi-hop quotes
// keyed by the exact currency plus the hop path. All four revert to report
// unquotable pools, so every call goes through eth_call only.
const quoterABIJSON = `[
  {
    "type": "function",
    "name": "quoteExactInputSingle",
    "stateMutability": "nonpayable",
    "inputs": [
      {
        "name": "params",
        "type": "tuple",
        "components": [
          {
            "name": "poolKey",
            "type": "tuple",
            "components": [
              {"name": "currency0", "type": "address"},
              {"name": "currency1", "type": "address"},
              {"name": "fee", "type": "uint24"},
              {"name": "tickSpacing", "type": "int24"},
              {"name": "hooks", "type": "address"}
            ]
          },
          {"name": "zeroForOne", "type": "bool"},
          {"name": "exactAmount", "type": "uint128"},
          {"name": "hookData", "type": "bytes"}
        ]
      }
    ],
    "outputs": [
      {"name": "amountOut", "type": "uint256"},
      {"name": "gasEstimate", "type": "uint256"}
    ]
  },
  {
    "type": "function",
    "name": "quoteExactOutputSingle",
    "stateMutability": "nonpayable",
    "inputs": [
      {
        "name": "params",
        "type": "tuple",
        "components": [
          {
            "name": "poolKey",
            "type": "tuple",
            "components": [
              {"name": "currency0", "type": "address"},
              {"name": "currency1", "type": "address"},
              {"name": "fee", "type": "uint24"},
              {"name": "tickSpacing", "type": "int24"},
              {"name": "hooks", "type": "address"}
            ]
          },
          {"name": "zeroForOne", "type": "bool"},
          {"name": "exactAmount", "type": "uint128"},
          {"name": "hookData", "type": "bytes"}
        ]
      }
    ],
    "outputs": [
      {"name": "amountIn", "type": "uint256"},
      {"name": "gasEstimate", "type": "uint256"}
    ]
  },
  {
    "type": "function",
    "name": "quoteExactInput",
    "stateMutability": "nonpayable",
    "inputs": [
      {
        "name": "params",
        "type": "tuple",
        "components": [
          {"name": "exactCurrency", "type": "address"},
          {
            "name": "path",
            "type": "tuple[]",
            "components": [
              {"name": "intermediateCurrency", "type": "address"},
              {"name": "fee", "type": "uint24"},
              {"name": "tickSpacing", "type": "int24"},
              {"name": "hooks", "type": "address"},
              {"name": "hookData", "type": "bytes"}
            ]
          },
          {"name": "exactAmount", "type": "uint128"}
        ]
      }
    ],
    "outputs": [
      {"name": "amountOut", "type": "uint256"},
      {"name": "gasEstimate", "type": "uint256"}
    ]
  },
  {
    "type": "function",
    "name": "quoteExactOutput",
    "stateMutability": "nonpayable",
    "inputs": [
      {
        "name": "params",
        "type": "tuple",
        "components": [
          {"name": "exactCurrency", "type": "address"},
          {
            "name": "path",
            "type": "tuple[]",
            "components": [
              {"name": "intermediateCurrency", "type": "address"},
              {"name": "fee", "type": "uint24"},
              {"name": "tickSpacing", "type": "int24"},
              {"name": "hooks", "type": "address"},
              {"name": "hookData", "type": "bytes"}
            ]
          },
          {"name": "exactAmount", "type": "uint128"}
        ]
      }
    ],
    "outputs": [
      {"name": "amountIn", "type": "uint256"},
      {"name": "gasEstimate", "type": "uint256"}
    ]
  }
]`

var quoterABI = mustParseABI(quoterABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
