package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// NativeCurrency is the reserved currency address for the chain's native
// asset inside pool keys and paths.
var NativeCurrency = common.Address{}

// MaxDecimals is the largest token precision the engine accepts.
const MaxDecimals = 18

type Asset struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

func (a Asset) IsNative() bool {
	return a.Address == NativeCurrency
}

// Equal compares assets by address only; symbols are display metadata.
func (a Asset) Equal(other Asset) bool {
	return a.Address == other.Address
}
