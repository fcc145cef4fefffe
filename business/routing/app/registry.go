package app

import (
	"context"
	"sync"
	"time"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/cache"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

// RegistryConfig holds Tier 1 tuning.
type RegistryConfig struct {
	// AdapterTimeout caps each venue call so one stuck venue cannot stall
	// the whole fan-out. Independent of the orchestrator's tier budgets.
	AdapterTimeout time.Duration
	CacheTTL       time.Duration
}

// DefaultRegistryConfig returns the standard tuning.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		AdapterTimeout: 2 * time.Second,
		CacheTTL:       30 * time.Second,
	}
}

// DefaultPriorities is the venue ranking used to break exact-amount ties,
// based on liquidity depth and reliability.
func DefaultPriorities() map[string]int {
	return map[string]int{
		"Uniswap V3":     10,
		"Curve":          9,
		"Uniswap V2":     8,
		"SushiSwap":      7,
		"PancakeSwap V3": 7,
		"Balancer V2":    6,
		"CoW Swap":       6,
		"0x":             6,
		"1inch":          5,
		"Matcha":         5,
	}
}

// Registry holds the venue adapters active for the process, their priority
// table and the short-lived quote cache. It implements Tier 1: concurrent
// direct-quote fan-out with best-single-venue selection.
type Registry struct {
	cfg RegistryConfig
	log logger.LoggerInterface

	mu         sync.RWMutex
	adapters   []VenueAdapter
	priorities map[string]int

	cache *cache.Cache[string, []domain.RouteCandidate]
}

// NewRegistry creates a Registry with the default priority table.
func NewRegistry(cfg RegistryConfig, log logger.LoggerInterface) *Registry {
	return &Registry{
		cfg:        cfg,
		log:        log,
		priorities: DefaultPriorities(),
		cache:      cache.New[string, []domain.RouteCandidate](cfg.CacheTTL),
	}
}

// Register adds a venue adapter.
func (r *Registry) Register(adapter VenueAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, adapter)
}

// SetPriority overrides the tie-break score for a venue.
func (r *Registry) SetPriority(venue string, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.priorities[venue] = score
}

// Priority returns the tie-break score for a venue, 0 if unknown.
func (r *Registry) Priority(venue string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.priorities[venue]
}

// AdapterCount returns the number of registered adapters.
func (r *Registry) AdapterCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}

// Close releases the cache janitor.
func (r *Registry) Close() {
	r.cache.Close()
}

type quoteResult struct {
	candidate domain.RouteCandidate
	venue     string
	err       error
}

// GetBestDirectQuote fans the request out to every adapter supporting the
// chain and returns the best single-venue candidate as a 100% allocation.
// Adapter failures are logged and skipped; a cache hit younger than the TTL
// short-circuits the fan-out entirely.
func (r *Registry) GetBestDirectQuote(ctx context.Context, req domain.SwapRequest) (*domain.RouteCandidate, error) {
	key := req.CacheKey()
	if cached, ok := r.cache.Get(ctx, key); ok && len(cached) > 0 {
		r.log.Debug(ctx, "direct quote cache hit", "key", key)
		best := cached[0]
		return &best, nil
	}

	eligible := r.eligibleAdapters(ctx, req)
	if len(eligible) == 0 {
		return nil, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext("no venue supports chain "+req.Chain))
	}

	results := make(chan quoteResult, len(eligible))
	var wg sync.WaitGroup
	for _, adapter := range eligible {
		wg.Add(1)
		go func(a VenueAdapter) {
			defer wg.Done()
			qctx, cancel := context.WithTimeout(ctx, r.cfg.AdapterTimeout)
			defer cancel()

			candidate, err := a.Quote(qctx, req)
			results <- quoteResult{candidate: candidate, venue: a.Name(), err: err}
		}(adapter)
	}
	wg.Wait()
	close(results)

	var best *domain.RouteCandidate
	for res := range results {
		if res.err != nil {
			r.log.Warn(ctx, "venue quote failed", "venue", res.venue, "pair", req.Pair(), "error", res.err)
			continue
		}
		c := res.candidate
		if best == nil || r.better(c, *best) {
			best = &c
		}
	}

	if best == nil {
		return nil, apperror.New(apperror.CodeNoLiquidity,
			apperror.WithContext("all venues failed for "+req.Pair()))
	}

	single := domain.Allocate([]domain.RouteCandidate{*best})
	best = &single[0]
	r.cache.Set(ctx, key, single, r.cfg.CacheTTL)

	r.log.Debug(ctx, "direct quote selected",
		"venue", best.Venue, "pair", req.Pair(), "amountOut", best.AmountOut.String())
	return best, nil
}

func (r *Registry) eligibleAdapters(ctx context.Context, req domain.SwapRequest) []VenueAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var eligible []VenueAdapter
	for _, a := range r.adapters {
		if !supportsChain(a, req.Chain) {
			continue
		}
		if !a.IsPairSupported(ctx, req.TokenIn.Symbol, req.TokenOut.Symbol, req.Chain) {
			continue
		}
		eligible = append(eligible, a)
	}
	return eligible
}

// better reports whether a beats b: amount descending, exact amount ties
// broken by ascending priority score. Lower score winning ties is the
// long-standing behavior callers depend on for reproducibility. Equal
// scores fall back to venue name so the winner never depends on the
// order results arrive in.
func (r *Registry) better(a, b domain.RouteCandidate) bool {
	switch {
	case a.AmountOut.GreaterThan(b.AmountOut):
		return true
	case a.AmountOut.LessThan(b.AmountOut):
		return false
	default:
		pa, pb := r.Priority(a.Venue), r.Priority(b.Venue)
		if pa != pb {
			return pa < pb
		}
		return a.Venue < b.Venue
	}
}

func supportsChain(a VenueAdapter, chain string) bool {
	for _, c := range a.SupportedChains() {
		if c == chain {
			return true
		}
	}
	return false
}
