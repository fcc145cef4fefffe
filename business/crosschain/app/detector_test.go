package app_test

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/app"
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

// scriptedFeed replays fixed records into the handler on Start.
type scriptedFeed struct {
	records []domain.ArbitrageRoute
	stopped bool
}

func (f *scriptedFeed) Start(ctx context.Context, handler app.OpportunityHandler) error {
	for _, r := range f.records {
		handler(ctx, r)
	}
	return nil
}

func (f *scriptedFeed) Stop() error {
	f.stopped = true
	return nil
}

func route(token string, diff string) domain.ArbitrageRoute {
	return domain.ArbitrageRoute{
		ChainA:          "ethereum",
		ChainB:          "arbitrum",
		Token:           token,
		PriceDifference: decimal.RequireFromString(diff),
		Bridge:          "Across Protocol",
	}
}

func TestDetector_KeepsActionableOpportunities(t *testing.T) {
	feed := &scriptedFeed{records: []domain.ArbitrageRoute{
		route("USDC", "0.01"),  // above threshold
		route("DAI", "0.001"),  // below threshold
		route("WBTC", "0.005"), // exactly at threshold
	}}

	d := app.NewDetector(feed, decimal.RequireFromString("0.005"), testLogger())
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	opps := d.Opportunities(context.Background())
	if len(opps) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(opps))
	}
	for _, o := range opps {
		if o.Token == "DAI" {
			t.Error("below-threshold record served")
		}
	}
}

func TestDetector_EvictsWhenDifferenceCollapses(t *testing.T) {
	feed := &scriptedFeed{records: []domain.ArbitrageRoute{
		route("USDC", "0.01"),
		route("USDC", "0.0001"), // same key, now below threshold
	}}

	d := app.NewDetector(feed, decimal.RequireFromString("0.005"), testLogger())
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if opps := d.Opportunities(context.Background()); len(opps) != 0 {
		t.Errorf("got %d opportunities, want 0 after collapse", len(opps))
	}
}

func TestDetector_NilFeed(t *testing.T) {
	d := app.NewDetector(nil, decimal.RequireFromString("0.005"), testLogger())

	if err := d.Start(context.Background()); err != nil {
		t.Errorf("start with nil feed: %v", err)
	}
	if err := d.Stop(); err != nil {
		t.Errorf("stop with nil feed: %v", err)
	}
	if opps := d.Opportunities(context.Background()); len(opps) != 0 {
		t.Errorf("got %d opportunities, want 0", len(opps))
	}
}

func TestDetector_StopDisconnectsFeed(t *testing.T) {
	feed := &scriptedFeed{}
	d := app.NewDetector(feed, decimal.RequireFromString("0.005"), testLogger())

	if err := d.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !feed.stopped {
		t.Error("feed not stopped")
	}
}
