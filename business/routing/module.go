// Package routing implements the routing bounded context: the three-tier
// route search and its shared allocation policy.
package routing

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	crosschainDI "github.com/scr1ptjunk13/peepsweep/business/crosschain/di"
	gasDI "github.com/scr1ptjunk13/peepsweep/business/gas/di"
	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
	routingDI "github.com/scr1ptjunk13/peepsweep/business/routing/di"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/business/routing/infra/rates"
	"github.com/scr1ptjunk13/peepsweep/business/routing/infra/seed"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/monolith"
)

// Module implements the routing bounded context.
type Module struct{}

// RegisterServices registers all routing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, routingDI.TokenGraph, func(sr di.ServiceRegistry) *domain.TokenGraph {
		return domain.NewTokenGraph()
	})

	di.RegisterToken(c, routingDI.RateOracle, func(sr di.ServiceRegistry) app.RateOracle {
		return rates.NewStaticOracle()
	})

	di.RegisterToken(c, routingDI.Registry, func(sr di.ServiceRegistry) *app.Registry {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		regCfg := app.DefaultRegistryConfig()
		if cfg.Routing.AdapterTimeout > 0 {
			regCfg.AdapterTimeout = cfg.Routing.AdapterTimeout
		}
		if cfg.Routing.QuoteCacheTTL > 0 {
			regCfg.CacheTTL = cfg.Routing.QuoteCacheTTL
		}
		return app.NewRegistry(regCfg, log)
	})

	di.RegisterToken(c, routingDI.MultiHopRouter, func(sr di.ServiceRegistry) *app.MultiHopRouter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		pfCfg := app.DefaultPathfinderConfig()
		if cfg.Routing.MaxHops > 0 {
			pfCfg.MaxHops = cfg.Routing.MaxHops
		}
		if cfg.Routing.HopSlippagePct > 0 {
			pfCfg.HopSlippage = cfg.Routing.HopSlippageDecimal()
		}
		return app.NewMultiHopRouter(pfCfg, routingDI.GetTokenGraph(sr), di.GetToken(sr, routingDI.RateOracle), log)
	})

	di.RegisterToken(c, routingDI.Synthesizer, func(sr di.ServiceRegistry) *app.ComplexRouteSynthesizer {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		synCfg := app.DefaultSynthesizerConfig()
		if cfg.Routing.HopSlippagePct > 0 {
			synCfg.HopSlippage = cfg.Routing.HopSlippageDecimal()
		}
		if cfg.Routing.LongPathPenalty > 0 {
			synCfg.ComplexityPenalty = cfg.Routing.LongPathPenaltyDecimal()
		}

		return app.NewComplexRouteSynthesizer(
			synCfg,
			crosschainDI.GetBridgeDirectory(sr),
			crosschainDI.GetDetector(sr),
			log,
		)
	})

	di.RegisterToken(c, routingDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		oCfg := app.DefaultOrchestratorConfig()
		if cfg.Routing.Tier1Budget > 0 {
			oCfg.Tier1Budget = cfg.Routing.Tier1Budget
		}
		if cfg.Routing.Tier2Budget > 0 {
			oCfg.Tier2Budget = cfg.Routing.Tier2Budget
		}
		if cfg.Routing.MaxRoutes > 0 {
			oCfg.MaxRoutes = cfg.Routing.MaxRoutes
		}

		return app.NewOrchestrator(
			oCfg,
			routingDI.GetRegistry(sr),
			di.GetToken(sr, routingDI.MultiHopRouter),
			di.GetToken(sr, routingDI.Synthesizer),
			log,
		)
	})

	di.RegisterToken(c, routingDI.RouteService, func(sr di.ServiceRegistry) *app.RouteService {
		// Gas annotation needs a node; without one quotes still work.
		var gasPrices app.GasPriceSource
		if client, ok := sr.Get("ethClient").(*ethclient.Client); ok && client != nil {
			gasPrices = gasDI.GetOracle(sr)
		}
		return app.NewRouteService(routingDI.GetOrchestrator(sr), gasPrices)
	})

	return nil
}

// Startup seeds the token graph and launches the liquidity refresh loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	graph := routingDI.GetTokenGraph(mono.Services())
	if err := seed.Apply(graph); err != nil {
		return err
	}
	log.Info(ctx, "token graph seeded",
		"tokens", graph.TokenCount(), "edges", graph.EdgeCount())

	// Re-registering the seed pairs refreshes their liquidity figures once a
	// live source replaces the static seed.
	interval := cfg.Routing.LiquidityTTL
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := seed.Apply(graph); err != nil {
					log.Warn(ctx, "liquidity refresh failed", "error", err)
				}
			}
		}
	}()

	log.Info(ctx, "routing module started")
	return nil
}
