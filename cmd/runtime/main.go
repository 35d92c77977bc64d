package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/quartzlabs/swap-engine/internal/allowance"
	"github.com/quartzlabs/swap-engine/internal/chain"
	"github.com/quartzlabs/swap-engine/internal/common"
	"github.com/quartzlabs/swap-engine/internal/config"
	"github.com/quartzlabs/swap-engine/internal/executor"
	"github.com/quartzlabs/swap-engine/internal/http"
	"github.com/quartzlabs/swap-engine/internal/metrics"
	"github.com/quartzlabs/swap-engine/internal/quoter"
	"github.com/quartzlabs/swap-engine/internal/registry"
	"github.com/quartzlabs/swap-engine/internal/router"
)

// @title Swap Engine API
// @version 1.0
// @description Routing, quoting, and execution engine for v4-style pools.
// @description
// @description ## - Features
// @description - **Automatic Routing**: Direct pool or two hops through the hub asset
// @description - **Live Quotes**: Priced by the on-chain quoter contract, gas estimate included
// @description - **Slippage Protection**: Integer bound math signed into every transaction
// @description - **Authorization Handling**: ERC-20 approval and Permit2 signatures managed per swap
// @description - **Transaction Simulation**: Mandatory dry run before anything is submitted
// @description
// @description ## - Usage Tips
// @description - Amounts are smallest token units (wei for 18-decimal tokens)
// @description - Default slippage is 50 bps (0.5%)
// @description - Rate limit: 10 requests/second (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Preview routes, quotes, and execution bounds
// @tag.name swap
// @tag.description Execute swaps end to end with observed-delta receipts
// @tag.name tokens
// @tag.description Inspect the registered token and pool table

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	generalConf := &config.GeneralConfig{}
	rpcConf := &config.RPCConfig{}
	engineConf := &config.EngineConfig{}
	for _, c := range []interface {
		Load() error
		Validate() error
		Key() string
	}{generalConf, rpcConf, engineConf} {
		if err := c.Load(); err != nil {
			log.Fatal().Err(err).Str("config", c.Key()).Msg("failed to load config")
		}
		if err := c.Validate(); err != nil {
			log.Fatal().Err(err).Str("config", c.Key()).Msg("invalid config")
		}
	}

	common.SetupLogger(generalConf.LogLevel, generalConf.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := registry.LoadFile(engineConf.RegistryPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", engineConf.RegistryPath).Msg("failed to load registry")
	}
	metrics.TokenCount.Set(float64(len(reg.List())))
	log.Info().Int("tokens", len(reg.List())).Str("hub", reg.Hub().Symbol).Msg("registry loaded")

	client, err := chain.Dial(ctx, rpcConf.RPCUrl, rpcConf.ChainID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect rpc")
	}
	defer client.Close()

	wallet, err := chain.NewWallet(rpcConf.WalletKey, rpcConf.ChainID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load wallet key")
	}
	log.Info().Stringer("wallet", wallet.Address()).Msg("wallet loaded")

	resolver := router.NewResolver(reg)
	quotes := quoter.NewService(client, engineConf.QuoterAddress)
	auth := allowance.NewOrchestrator(client, wallet, engineConf.RouterAddress)
	engine := executor.NewEngine(
		resolver,
		quotes,
		auth,
		client,
		wallet,
		engineConf.RouterAddress,
		engineConf.ConfirmTimeout,
	)

	httpSvc := http.NewService(generalConf, engineConf, engine, reg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down services...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	if err := httpSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
