package allowance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

// Typed-data constants from the Permit2 contract.
var (
	domainTypehash = crypto.Keccak256Hash(
		[]byte("EIP712Domain(string name,uint256 chainId,address verifyingContract)"))
	permitDetailsTypehash = crypto.Keccak256Hash(
		[]byte("PermitDetails(address token,uint160 amount,uint48 expiration,uint48 nonce)"))
	permitSingleTypehash = crypto.Keccak256Hash(
		[]byte("PermitSingle(PermitDetails details,address spender,uint256 sigDeadline)PermitDetails(address token,uint160 amount,uint48 expiration,uint48 nonce)"))
	permit2NameHash = crypto.Keccak256Hash([]byte("Permit2"))
)

func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

func uintWord(v *big.Int) []byte {
	return word(v.Bytes())
}

// DomainSeparator computes the Permit2 EIP-712 domain separator for a chain.
func DomainSeparator(chainID *big.Int, permit2 common.Address) common.Hash {
	return crypto.Keccak256Hash(
		domainTypehash.Bytes(),
		permit2NameHash.Bytes(),
		uintWord(chainID),
		word(permit2.Bytes()),
	)
}

// PermitDigest hashes a PermitSingle into the 32-byte digest the owner signs.
func PermitDigest(domainSeparator common.Hash, details domain.PermitDetails, spender common.Address, sigDeadline *big.Int) [32]byte {
	detailsHash := crypto.Keccak256Hash(
		permitDetailsTypehash.Bytes(),
		word(details.Token.Bytes()),
		uintWord(details.Amount),
		uintWord(new(big.Int).SetUint64(details.Expiration)),
		uintWord(new(big.Int).SetUint64(details.Nonce)),
	)
	structHash := crypto.Keccak256Hash(
		permitSingleTypehash.Bytes(),
		detailsHash.Bytes(),
		word(spender.Bytes()),
		uintWord(sigDeadline),
	)
	return [32]byte(crypto.Keccak256Hash(
		[]byte("\x19\x01"),
		domainSeparator.Bytes(),
		structHash.Bytes(),
	))
}
