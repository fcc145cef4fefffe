package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

type opportunityKey struct {
	chainA string
	chainB string
	token  string
}

// Detector maintains the table of currently actionable cross-chain price
// differences. The feed pushes updates; the route synthesizer reads
// snapshots through the Opportunities method.
type Detector struct {
	feed      OpportunityFeed
	threshold decimal.Decimal
	log       logger.LoggerInterface

	mu            sync.RWMutex
	opportunities map[opportunityKey]domain.ArbitrageRoute
}

// NewDetector creates a Detector. Records below threshold are evicted
// rather than served.
func NewDetector(feed OpportunityFeed, threshold decimal.Decimal, log logger.LoggerInterface) *Detector {
	return &Detector{
		feed:          feed,
		threshold:     threshold,
		log:           log,
		opportunities: make(map[opportunityKey]domain.ArbitrageRoute),
	}
}

// Start subscribes the detector to its feed. A nil feed leaves the table
// empty, which degrades Tier 3 to long-hop and flash-loan routes only.
func (d *Detector) Start(ctx context.Context) error {
	if d.feed == nil {
		d.log.Info(ctx, "arbitrage feed not configured, cross-chain detection disabled")
		return nil
	}
	return d.feed.Start(ctx, d.apply)
}

// Stop disconnects the feed.
func (d *Detector) Stop() error {
	if d.feed == nil {
		return nil
	}
	return d.feed.Stop()
}

// apply merges one feed record into the table.
func (d *Detector) apply(ctx context.Context, route domain.ArbitrageRoute) {
	key := opportunityKey{chainA: route.ChainA, chainB: route.ChainB, token: route.Token}

	d.mu.Lock()
	if route.IsActionable(d.threshold) {
		d.opportunities[key] = route
	} else {
		delete(d.opportunities, key)
	}
	size := len(d.opportunities)
	d.mu.Unlock()

	d.log.Debug(ctx, "arbitrage table updated",
		"token", route.Token, "chains", route.ChainA+"/"+route.ChainB,
		"diff", route.PriceDifference.String(), "active", size)
}

// Opportunities returns a snapshot of the current table.
func (d *Detector) Opportunities(_ context.Context) []domain.ArbitrageRoute {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.ArbitrageRoute, 0, len(d.opportunities))
	for _, r := range d.opportunities {
		out = append(out, r)
	}
	return out
}
