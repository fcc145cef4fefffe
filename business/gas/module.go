// Package gas implements the gas bounded context: chain gas prices and
// transaction cost estimates for route cost annotation.
package gas

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	gasDI "github.com/scr1ptjunk13/peepsweep/business/gas/di"
	"github.com/scr1ptjunk13/peepsweep/business/gas/infra/ethereum"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/monolith"
)

// Module implements the gas bounded context.
type Module struct{}

// RegisterServices registers the gas oracle with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, gasDI.Oracle, func(sr di.ServiceRegistry) *ethereum.Oracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		oCfg := ethereum.DefaultOracleConfig()
		if cfg.Ethereum.CallTimeout > 0 {
			oCfg.CallTimeout = cfg.Ethereum.CallTimeout
		}

		oracle, err := ethereum.NewOracle(client, oCfg, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	return nil
}

// Startup warms the price cache when a node is available.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	if mono.EthClient() == nil {
		log.Info(ctx, "no ethereum node configured, gas oracle disabled")
		return nil
	}

	oracle := gasDI.GetOracle(mono.Services())
	if price, err := oracle.GasPrice(ctx); err != nil {
		log.Warn(ctx, "initial gas price fetch failed", "error", err)
	} else {
		log.Info(ctx, "gas module started", "gwei", price.Gwei)
	}

	return nil
}
