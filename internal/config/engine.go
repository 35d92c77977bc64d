package config

import (
	"errors"
	"time"

	"github.com/andrew-solarstorm/go-packages/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type EngineConfig struct {
	// RegistryPath points at the YAML token/pool table loaded at startup.
	RegistryPath string

	// RouterAddress is the Universal-Router-style batch executor.
	RouterAddress ethcommon.Address

	// QuoterAddress is the read-only v4 quoter contract.
	QuoterAddress ethcommon.Address

	// ConfirmTimeout bounds the wait for a submitted swap to land.
	ConfirmTimeout time.Duration

	// DefaultSlippageBps applies when a request omits slippage.
	DefaultSlippageBps uint16

	// DefaultDeadline applies when a request omits the intent deadline.
	DefaultDeadline time.Duration
}

func (c *EngineConfig) Key() string {
	return ENGINE_CONFIG_KEY
}

func (c *EngineConfig) Load() error {
	c.RegistryPath = common.GetEnvOrDefault("REGISTRY_PATH", "./config/registry.yaml")
	c.RouterAddress = ethcommon.HexToAddress(common.GetEnvOrDefault("ROUTER_ADDRESS", ""))
	c.QuoterAddress = ethcommon.HexToAddress(common.GetEnvOrDefault("QUOTER_ADDRESS", ""))
	c.ConfirmTimeout = time.Duration(common.GetEnvOrDefaultInt("CONFIRM_TIMEOUT_SECONDS", 90)) * time.Second
	c.DefaultSlippageBps = uint16(common.GetEnvOrDefaultInt("DEFAULT_SLIPPAGE_BPS", 50))
	c.DefaultDeadline = time.Duration(common.GetEnvOrDefaultInt("DEFAULT_DEADLINE_SECONDS", 300)) * time.Second
	return nil
}

func (c *EngineConfig) Validate() error {
	if c.RegistryPath == "" {
		return errors.New("invalid engine config: REGISTRY_PATH is required")
	}
	zero := ethcommon.Address{}
	if c.RouterAddress == zero || c.QuoterAddress == zero {
		return errors.New("invalid engine config: ROUTER_ADDRESS and QUOTER_ADDRESS are required")
	}
	if c.DefaultSlippageBps > 10_000 {
		return errors.New("invalid engine config: DEFAULT_SLIPPAGE_BPS out of range")
	}
	return nil
}
