package app_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

// fakeAdapter is a scriptable venue for registry tests.
type fakeAdapter struct {
	name      string
	chains    []string
	amountOut decimal.Decimal
	gas       uint64
	err       error
	delay     time.Duration
	calls     atomic.Int64
}

func (f *fakeAdapter) Name() string              { return f.name }
func (f *fakeAdapter) SupportedChains() []string { return f.chains }

func (f *fakeAdapter) IsPairSupported(ctx context.Context, tokenIn, tokenOut, chain string) bool {
	return true
}

func (f *fakeAdapter) Quote(ctx context.Context, req domain.SwapRequest) (domain.RouteCandidate, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.RouteCandidate{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.RouteCandidate{}, f.err
	}
	return domain.RouteCandidate{Venue: f.name, AmountOut: f.amountOut, GasEstimate: f.gas}, nil
}

func ethUSDC(t *testing.T, amount string) domain.SwapRequest {
	t.Helper()
	req, err := domain.NewSwapRequest(
		domain.NewTokenRef("ETH"), domain.NewTokenRef("USDC"), amount, "ethereum")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return req
}

func newTestRegistry(adapters ...app.VenueAdapter) *app.Registry {
	r := app.NewRegistry(app.DefaultRegistryConfig(), testLogger())
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func TestGetBestDirectQuote_PicksHighestOutput(t *testing.T) {
	uni := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3400"), gas: 150_000}
	sushi := &fakeAdapter{name: "SushiSwap", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3398.50"), gas: 120_000}

	r := newTestRegistry(uni, sushi)
	defer r.Close()

	best, err := r.GetBestDirectQuote(context.Background(), ethUSDC(t, "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Venue != "Uniswap V3" {
		t.Errorf("venue = %s, want Uniswap V3", best.Venue)
	}
	if !best.AllocationPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("allocation = %s, want 100", best.AllocationPercent)
	}
}

func TestGetBestDirectQuote_TieBreakLowerScoreWins(t *testing.T) {
	amount := decimal.RequireFromString("3400")
	uni := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"}, amountOut: amount}
	oneinch := &fakeAdapter{name: "1inch", chains: []string{"ethereum"}, amountOut: amount}

	// Same amounts on every run; the winner must be stable.
	for i := 0; i < 10; i++ {
		r := newTestRegistry(uni, oneinch)
		best, err := r.GetBestDirectQuote(context.Background(), ethUSDC(t, "1"))
		r.Close()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if best.Venue != "1inch" {
			t.Fatalf("run %d: venue = %s, want 1inch (score 5 beats 10 on ties)", i, best.Venue)
		}
	}
}

func TestGetBestDirectQuote_TieBreakEqualScores(t *testing.T) {
	amount := decimal.RequireFromString("3400")

	// SushiSwap and PancakeSwap V3 share a priority score, so the venue
	// name decides and arrival order must not.
	sushi := &fakeAdapter{name: "SushiSwap", chains: []string{"ethereum"}, amountOut: amount}
	pancake := &fakeAdapter{name: "PancakeSwap V3", chains: []string{"ethereum"}, amountOut: amount}

	for i := 0; i < 10; i++ {
		r := newTestRegistry(sushi, pancake)
		best, err := r.GetBestDirectQuote(context.Background(), ethUSDC(t, "1"))
		r.Close()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if best.Venue != "PancakeSwap V3" {
			t.Fatalf("run %d: venue = %s, want PancakeSwap V3 (name breaks equal scores)", i, best.Venue)
		}
	}
}

func TestGetBestDirectQuote_ToleratesPartialFailure(t *testing.T) {
	failing := &fakeAdapter{name: "Curve", chains: []string{"ethereum"},
		err: apperror.New(apperror.CodeVenueNetworkError)}
	alsoFailing := &fakeAdapter{name: "Balancer V2", chains: []string{"ethereum"},
		err: errors.New("connection reset")}
	working := &fakeAdapter{name: "SushiSwap", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3390")}

	r := newTestRegistry(failing, alsoFailing, working)
	defer r.Close()

	best, err := r.GetBestDirectQuote(context.Background(), ethUSDC(t, "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Venue != "SushiSwap" {
		t.Errorf("venue = %s, want SushiSwap", best.Venue)
	}
}

func TestGetBestDirectQuote_AllFail(t *testing.T) {
	a := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"}, err: errors.New("down")}
	b := &fakeAdapter{name: "SushiSwap", chains: []string{"ethereum"}, err: errors.New("down")}

	r := newTestRegistry(a, b)
	defer r.Close()

	_, err := r.GetBestDirectQuote(context.Background(), ethUSDC(t, "1"))
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNoLiquidity {
		t.Errorf("got %v, want %s", err, apperror.CodeNoLiquidity)
	}
}

func TestGetBestDirectQuote_NoVenueForChain(t *testing.T) {
	a := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("1")}

	r := newTestRegistry(a)
	defer r.Close()

	req, err := domain.NewSwapRequest(
		domain.NewTokenRef("ETH"), domain.NewTokenRef("USDC"), "1", "arbitrum")
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.GetBestDirectQuote(context.Background(), req)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNoLiquidity {
		t.Errorf("got %v, want %s", err, apperror.CodeNoLiquidity)
	}
	if a.calls.Load() != 0 {
		t.Errorf("adapter called %d times, want 0", a.calls.Load())
	}
}

func TestGetBestDirectQuote_CacheShortCircuits(t *testing.T) {
	a := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3400")}

	r := newTestRegistry(a)
	defer r.Close()

	ctx := context.Background()
	req := ethUSDC(t, "1")

	if _, err := r.GetBestDirectQuote(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetBestDirectQuote(ctx, req); err != nil {
		t.Fatal(err)
	}
	if a.calls.Load() != 1 {
		t.Errorf("adapter called %d times, want 1 (second hit cached)", a.calls.Load())
	}

	// A different amount is a different cache key.
	if _, err := r.GetBestDirectQuote(ctx, ethUSDC(t, "2")); err != nil {
		t.Fatal(err)
	}
	if a.calls.Load() != 2 {
		t.Errorf("adapter called %d times, want 2", a.calls.Load())
	}
}

func TestGetBestDirectQuote_CacheExpiry(t *testing.T) {
	a := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3400")}

	cfg := app.DefaultRegistryConfig()
	cfg.CacheTTL = 10 * time.Millisecond
	r := app.NewRegistry(cfg, testLogger())
	defer r.Close()
	r.Register(a)

	ctx := context.Background()
	req := ethUSDC(t, "1")

	if _, err := r.GetBestDirectQuote(ctx, req); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := r.GetBestDirectQuote(ctx, req); err != nil {
		t.Fatal(err)
	}
	if a.calls.Load() != 2 {
		t.Errorf("adapter called %d times, want 2 after TTL expiry", a.calls.Load())
	}
}

func TestGetBestDirectQuote_SlowAdapterTimesOut(t *testing.T) {
	slow := &fakeAdapter{name: "Curve", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("9999"), delay: time.Second}
	fast := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3400")}

	cfg := app.DefaultRegistryConfig()
	cfg.AdapterTimeout = 20 * time.Millisecond
	r := app.NewRegistry(cfg, testLogger())
	defer r.Close()
	r.Register(slow)
	r.Register(fast)

	best, err := r.GetBestDirectQuote(context.Background(), ethUSDC(t, "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Venue != "Uniswap V3" {
		t.Errorf("venue = %s, want Uniswap V3 (slow venue cut off)", best.Venue)
	}
}
