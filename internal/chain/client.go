// Package chain wraps the JSON-RPC connection: contract reads, balance
// snapshots, transaction submission, and confirmation waits.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
)

const erc20ABIJSON = `[
  {
    "type": "function",
    "name": "balanceOf",
    "stateMutability": "view",
    "inputs": [{"name": "account", "type": "address"}],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "allowance",
    "stateMutability": "view",
    "inputs": [
      {"name": "owner", "type": "address"},
      {"name": "spender", "type": "address"}
    ],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "approve",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "spender", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": [{"name": "", "type": "bool"}]
  }
]`

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

const receiptPollInterval = 2 * time.Second

type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
}

// Dial connects to the RPC endpoint and verifies it serves the expected
// chain.
func Dial(ctx context.Context, url string, chainID uint64) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	remote, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	if remote.Uint64() != chainID {
		eth.Close()
		return nil, fmt.Errorf("rpc serves chain %d, expected %d", remote.Uint64(), chainID)
	}
	log.Info().Uint64("chain_id", chainID).Msg("[chain] Connected")
	return &Client{eth: eth, chainID: remote}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.eth.CallContract(ctx, msg, blockNumber)
}

// BalanceOf reads the account's balance in token base units. The zero token
// address means the chain's native asset.
func (c *Client) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	if token == (common.Address{}) {
		return c.eth.BalanceAt(ctx, account, nil)
	}
	input, err := erc20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, err
	}
	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf %s: %w", token, err)
	}
	values, err := erc20ABI.Unpack("balanceOf", output)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}

// Erc20Allowance reads allowance(owner, spender) on the token contract.
func (c *Client) Erc20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	input, err := erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("allowance %s: %w", token, err)
	}
	values, err := erc20ABI.Unpack("allowance", output)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}

// PackApprove builds approve(spender, amount) calldata.
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.eth.PendingNonceAt(ctx, account)
}

func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return c.eth.EstimateGas(ctx, msg)
}

func (c *Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasTipCap(ctx)
}

func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return c.eth.HeaderByNumber(ctx, number)
}

// BuildDynamicTx assembles an unsigned EIP-1559 transaction with the node's
// suggested tip, a fee cap of twice the current base fee plus tip, and an
// estimated gas limit padded by a fifth.
func (c *Client) BuildDynamicTx(ctx context.Context, from common.Address, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}
	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest tip: %w", err)
	}
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch head: %w", err)
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", WrapCallError(err))
	}
	gas += gas / 5

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	}), nil
}

func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.eth.SendTransaction(ctx, tx)
}

func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.eth.TransactionReceipt(ctx, txHash)
}

// WaitMined polls for the transaction receipt until it lands or ctx ends.
func (c *Client) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			log.Debug().Err(err).Stringer("tx", txHash).Msg("[chain] Receipt poll failed")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
