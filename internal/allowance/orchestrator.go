// Package allowance manages the two authorization tiers in front of every
// ERC-20 swap: the token's on-chain approval of the Permit2 proxy, and the
// time-boxed Permit2 allowance record for the router spender.
package allowance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/quartzlabs/swap-engine/internal/chain"
	"github.com/quartzlabs/swap-engine/internal/common"
	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/metrics"
)

var ErrApprovalReverted = errors.New("erc20 approval transaction reverted")

const permit2ABIJSON = `[
  {
    "type": "function",
    "name": "allowance",
    "stateMutability": "view",
    "inputs": [
      {"name": "owner", "type": "address"},
      {"name": "token", "type": "address"},
      {"name": "spender", "type": "address"}
    ],
    "outputs": [
      {"name": "amount", "type": "uint160"},
      {"name": "expiration", "type": "uint48"},
      {"name": "nonce", "type": "uint48"}
    ]
  }
]`

var permit2ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(permit2ABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Backend is the slice of the chain client the orchestrator needs.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Erc20Allowance(ctx context.Context, token, owner, spender ethcommon.Address) (*big.Int, error)
	BuildDynamicTx(ctx context.Context, from, to ethcommon.Address, value *big.Int, data []byte) (*types.Transaction, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	WaitMined(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
	ChainID() *big.Int
}

// Signer produces transactions and typed-data signatures for the owner key.
type Signer interface {
	Address() ethcommon.Address
	SignTx(tx *types.Transaction) (*types.Transaction, error)
	SignDigest(digest [32]byte) ([]byte, error)
}

type Orchestrator struct {
	backend Backend
	signer  Signer
	permit2 ethcommon.Address
	spender ethcommon.Address

	permitTTL time.Duration
	sigTTL    time.Duration

	domainSeparator ethcommon.Hash
}

// Permit records last about a day; the signature itself is only submittable
// for half an hour.
const (
	defaultPermitTTL = 24 * time.Hour
	defaultSigTTL    = 30 * time.Minute
)

func NewOrchestrator(backend Backend, signer Signer, spender ethcommon.Address) *Orchestrator {
	return &Orchestrator{
		backend:         backend,
		signer:          signer,
		permit2:         common.Permit2Address,
		spender:         spender,
		permitTTL:       defaultPermitTTL,
		sigTTL:          defaultSigTTL,
		domainSeparator: DomainSeparator(backend.ChainID(), common.Permit2Address),
	}
}

// Erc20Allowance reads the owner's token approval toward the Permit2 proxy.
func (o *Orchestrator) Erc20Allowance(ctx context.Context, token ethcommon.Address) (*big.Int, error) {
	return o.backend.Erc20Allowance(ctx, token, o.signer.Address(), o.permit2)
}

// NeedsErc20Approval reports whether the Permit2 proxy cannot yet move the
// required amount of token for the owner.
func (o *Orchestrator) NeedsErc20Approval(ctx context.Context, token ethcommon.Address, amount *big.Int) (bool, error) {
	current, err := o.Erc20Allowance(ctx, token)
	if err != nil {
		return false, err
	}
	return current.Cmp(amount) < 0, nil
}

// EnsureErc20Approval grants the Permit2 proxy an effectively-unlimited
// approval when the current one is short, waiting for the transaction to be
// mined. Returns whether an approval was sent.
func (o *Orchestrator) EnsureErc20Approval(ctx context.Context, token ethcommon.Address, amount *big.Int) (bool, error) {
	needed, err := o.NeedsErc20Approval(ctx, token, amount)
	if err != nil {
		return false, err
	}
	if !needed {
		return false, nil
	}

	data, err := chain.PackApprove(o.permit2, common.MaxUint256)
	if err != nil {
		return false, err
	}
	tx, err := o.backend.BuildDynamicTx(ctx, o.signer.Address(), token, big.NewInt(0), data)
	if err != nil {
		return false, fmt.Errorf("build approval: %w", err)
	}
	signed, err := o.signer.SignTx(tx)
	if err != nil {
		return false, fmt.Errorf("sign approval: %w", err)
	}
	if err := o.backend.SendTransaction(ctx, signed); err != nil {
		return false, fmt.Errorf("send approval: %w", err)
	}

	log.Info().Stringer("token", token).Stringer("tx", signed.Hash()).Msg("[allowance] Approval submitted")
	receipt, err := o.backend.WaitMined(ctx, signed.Hash())
	if err != nil {
		return false, fmt.Errorf("await approval: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return false, ErrApprovalReverted
	}
	metrics.Erc20Approvals.Inc()
	return true, nil
}

// PermitAllowance reads the Permit2 record for (owner, token, spender).
func (o *Orchestrator) PermitAllowance(ctx context.Context, token ethcommon.Address) (domain.PermitDetails, error) {
	input, err := permit2ABI.Pack("allowance", o.signer.Address(), token, o.spender)
	if err != nil {
		return domain.PermitDetails{}, err
	}
	output, err := o.backend.CallContract(ctx, ethereum.CallMsg{To: &o.permit2, Data: input}, nil)
	if err != nil {
		return domain.PermitDetails{}, fmt.Errorf("permit2 allowance: %w", err)
	}
	values, err := permit2ABI.Unpack("allowance", output)
	if err != nil {
		return domain.PermitDetails{}, err
	}
	return domain.PermitDetails{
		Token:      token,
		Amount:     values[0].(*big.Int),
		Expiration: values[1].(*big.Int).Uint64(),
		Nonce:      values[2].(*big.Int).Uint64(),
	}, nil
}

// NeedsPermitSignature reports whether the current record cannot cover the
// amount at the given time.
func (o *Orchestrator) NeedsPermitSignature(record domain.PermitDetails, amount *big.Int, now time.Time) bool {
	if record.Amount == nil || record.Amount.Cmp(amount) < 0 {
		return true
	}
	return record.Expiration <= uint64(now.Unix())
}

// AcquirePermitIfNeeded returns a fresh signed PermitSingle when the current
// record is short or expired, and nil when the record already covers the
// amount. The new permit grants exactly the requested amount against the
// record's current nonce.
func (o *Orchestrator) AcquirePermitIfNeeded(ctx context.Context, token ethcommon.Address, amount *big.Int, now time.Time) (*domain.SignedPermit, error) {
	record, err := o.PermitAllowance(ctx, token)
	if err != nil {
		return nil, err
	}
	if !o.NeedsPermitSignature(record, amount, now) {
		return nil, nil
	}

	details := domain.PermitDetails{
		Token:      token,
		Amount:     new(big.Int).Set(amount),
		Expiration: uint64(now.Add(o.permitTTL).Unix()),
		Nonce:      record.Nonce,
	}
	sigDeadline := big.NewInt(now.Add(o.sigTTL).Unix())

	digest := PermitDigest(o.domainSeparator, details, o.spender, sigDeadline)
	sig, err := o.signer.SignDigest(digest)
	if err != nil {
		return nil, fmt.Errorf("sign permit: %w", err)
	}

	metrics.PermitSignatures.Inc()
	log.Debug().Stringer("token", token).Uint64("nonce", details.Nonce).Msg("[allowance] Permit signed")
	return &domain.SignedPermit{
		Details:     details,
		Spender:     o.spender,
		SigDeadline: sigDeadline,
		Signature:   sig,
	}, nil
}

// Authorization captures both tiers in one read pass.
func (o *Orchestrator) Authorization(ctx context.Context, token ethcommon.Address, amount *big.Int, now time.Time) (domain.AuthorizationState, error) {
	erc20, err := o.Erc20Allowance(ctx, token)
	if err != nil {
		return domain.AuthorizationState{}, err
	}
	record, err := o.PermitAllowance(ctx, token)
	if err != nil {
		return domain.AuthorizationState{}, err
	}
	return domain.AuthorizationState{
		Erc20Allowance:   erc20,
		NeedsErc20:       erc20.Cmp(amount) < 0,
		Permit:           record,
		NeedsPermit:      o.NeedsPermitSignature(record, amount, now),
		PermitExpiration: time.Unix(int64(record.Expiration), 0),
	}, nil
}
