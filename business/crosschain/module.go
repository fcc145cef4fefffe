// Package crosschain implements the crosschain bounded context: bridge
// reference data and live arbitrage-opportunity detection.
package crosschain

import (
	"context"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/app"
	crosschainDI "github.com/scr1ptjunk13/peepsweep/business/crosschain/di"
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/infra/bridges"
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/infra/feed"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/monolith"
)

// Module implements the crosschain bounded context.
type Module struct{}

// RegisterServices registers all crosschain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, crosschainDI.BridgeDirectory, func(sr di.ServiceRegistry) *bridges.Directory {
		return bridges.NewDirectory()
	})

	di.RegisterToken(c, crosschainDI.OpportunityFeed, func(sr di.ServiceRegistry) app.OpportunityFeed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := feed.NewClient(cfg.CrossChain.FeedURL, log)
		if err != nil {
			panic("failed to create crosschain feed: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, crosschainDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		// The feed is optional; without it the detector serves an empty table.
		var src app.OpportunityFeed
		if cfg.CrossChain.Enabled && cfg.CrossChain.FeedURL != "" {
			src = crosschainDI.GetOpportunityFeed(sr)
		}

		return app.NewDetector(src, cfg.CrossChain.MinPriceDiffDecimal(), log)
	})

	return nil
}

// Startup connects the detector's feed.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	detector := crosschainDI.GetDetector(mono.Services())
	if err := detector.Start(ctx); err != nil {
		// The feed retries in the background; a failed first connect only
		// delays cross-chain candidates, it never blocks startup.
		log.Warn(ctx, "crosschain feed connect failed, continuing without it", "error", err)
	}

	log.Info(ctx, "crosschain module started")
	return nil
}
