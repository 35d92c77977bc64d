// Package common contains common constants and variables used across services
package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// Permit2 is deployed at the same address on every chain.
	Permit2Address = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")

	// MaxUint160 is the largest amount a Permit2 allowance can hold.
	MaxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

	// MaxUint256 is used for effectively-unlimited ERC-20 approvals.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

const BpsDenominator = 10_000
