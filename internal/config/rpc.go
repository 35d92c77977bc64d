package config

import (
	"errors"
	"os"
	"strconv"
)

type RPCConfig struct {
	RPCUrl  string
	ChainID uint64
	// WalletKey is the hex-encoded private key the executor submits with.
	WalletKey string
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.RPCUrl = os.Getenv("RPC_URL")
	r.WalletKey = os.Getenv("WALLET_KEY")
	if raw := os.Getenv("CHAIN_ID"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return errors.New("CHAIN_ID must be a decimal chain id")
		}
		r.ChainID = id
	}
	return nil
}

func (r *RPCConfig) Validate() error {
	if r.RPCUrl == "" {
		return errors.New("invalid rpc config: RPC_URL is required")
	}
	if r.ChainID == 0 {
		return errors.New("invalid rpc config: CHAIN_ID is required")
	}
	return nil
}
