// Package venues implements the venues bounded context: the liquidity
// venue adapters feeding Tier 1 of the route search.
package venues

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	routingDI "github.com/scr1ptjunk13/peepsweep/business/routing/di"
	venuesDI "github.com/scr1ptjunk13/peepsweep/business/venues/di"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/sushiswap"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/uniswap"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/zeroex"
	"github.com/scr1ptjunk13/peepsweep/internal/asset"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/monolith"
)

// Module implements the venues bounded context.
type Module struct{}

// RegisterServices registers all venue adapters with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, venuesDI.UniswapAdapter, func(sr di.ServiceRegistry) *uniswap.Adapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		adapter, err := uniswap.NewAdapter(client, cfg.Uniswap, registry, log)
		if err != nil {
			panic("failed to create uniswap adapter: " + err.Error())
		}
		return adapter
	})

	di.RegisterToken(c, venuesDI.SushiSwapAdapter, func(sr di.ServiceRegistry) *sushiswap.Adapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		adapter, err := sushiswap.NewAdapter(client, cfg.SushiSwap, registry, log)
		if err != nil {
			panic("failed to create sushiswap adapter: " + err.Error())
		}
		return adapter
	})

	di.RegisterToken(c, venuesDI.ZeroExAdapter, func(sr di.ServiceRegistry) *zeroex.Adapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		adapter, err := zeroex.NewAdapter(cfg.ZeroEx, registry, log)
		if err != nil {
			panic("failed to create zeroex adapter: " + err.Error())
		}
		return adapter
	})

	return nil
}

// Startup registers the adapters into the routing venue registry. On-chain
// venues need an Ethereum node and are skipped without one.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	registry := routingDI.GetRegistry(mono.Services())

	registry.Register(venuesDI.GetZeroExAdapter(mono.Services()))

	if mono.EthClient() != nil {
		registry.Register(venuesDI.GetUniswapAdapter(mono.Services()))
		registry.Register(venuesDI.GetSushiSwapAdapter(mono.Services()))
	} else {
		log.Info(ctx, "no ethereum node configured, on-chain venues disabled")
	}

	log.Info(ctx, "venues module started", "adapters", registry.AdapterCount())
	return nil
}
