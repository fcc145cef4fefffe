package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apm"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

// OrchestratorConfig holds the tier budgets and final truncation.
type OrchestratorConfig struct {
	// Tier1Budget is the fast-path cutoff: a direct quote found under this
	// elapsed time is returned without consulting further tiers.
	Tier1Budget time.Duration
	// Tier2Budget gates Tier 3 on the cumulative Tier1+Tier2 elapsed time.
	Tier2Budget time.Duration
	// MaxRoutes is the final candidate count after ranking.
	MaxRoutes int
}

// DefaultOrchestratorConfig returns the standard budgets.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Tier1Budget: 5 * time.Millisecond,
		Tier2Budget: 20 * time.Millisecond,
		MaxRoutes:   3,
	}
}

// Orchestrator runs the three tiers in order under soft time budgets and
// merges their candidates into the final allocation. Budgets never abort a
// tier mid-flight; they only decide whether a later tier runs.
type Orchestrator struct {
	cfg         OrchestratorConfig
	registry    *Registry
	multiHop    MultiHopFinder
	synthesizer ComplexRouteFinder
	log         logger.LoggerInterface
	tracer      apm.Tracer

	tierLatency metric.Float64Histogram
	routeCount  metric.Int64Counter
}

// NewOrchestrator wires the three tiers together.
func NewOrchestrator(
	cfg OrchestratorConfig,
	registry *Registry,
	multiHop MultiHopFinder,
	synthesizer ComplexRouteFinder,
	log logger.LoggerInterface,
) *Orchestrator {
	meter := otel.GetMeterProvider().Meter("routing_orchestrator")
	tierLatency, _ := meter.Float64Histogram("routing_tier_latency_ms",
		metric.WithDescription("Per-tier search latency in milliseconds"))
	routeCount, _ := meter.Int64Counter("routing_candidates_total",
		metric.WithDescription("Candidates produced, by tier"))

	return &Orchestrator{
		cfg:         cfg,
		registry:    registry,
		multiHop:    multiHop,
		synthesizer: synthesizer,
		log:         log,
		tracer:      apm.NewTracer("routing"),
		tierLatency: tierLatency,
		routeCount:  routeCount,
	}
}

// GetOptimalRoute answers a swap request with a ranked, fully allocated
// candidate list, or NoLiquidity when every tier comes back empty.
func (o *Orchestrator) GetOptimalRoute(ctx context.Context, req domain.SwapRequest) ([]domain.RouteCandidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.StartSpanFromContext(ctx, "GetOptimalRoute")
	defer span.End()
	span.SetAttributes(
		attribute.String("pair", req.Pair()),
		attribute.String("chain", req.Chain),
	)

	start := time.Now()

	// Tier 1: direct quotes.
	tier1 := o.runTier1(ctx, req)
	tier1Elapsed := time.Since(start)

	if len(tier1) > 0 && tier1Elapsed < o.cfg.Tier1Budget {
		o.log.Debug(ctx, "tier 1 fast path", "pair", req.Pair(), "elapsed", tier1Elapsed)
		return tier1, nil
	}

	// Tier 2: multi-hop.
	tier2 := o.runTier2(ctx, req)
	cumulative := time.Since(start)

	if len(tier2) > 0 && cumulative < o.cfg.Tier2Budget {
		merged := append(append([]domain.RouteCandidate{}, tier1...), tier2...)
		return o.finish(ctx, req, merged)
	}

	// Tier 3: complex synthesis, unconditional at this point.
	tier3 := o.runTier3(ctx, req)

	merged := append(append(append([]domain.RouteCandidate{}, tier1...), tier2...), tier3...)
	return o.finish(ctx, req, merged)
}

func (o *Orchestrator) finish(ctx context.Context, req domain.SwapRequest, merged []domain.RouteCandidate) ([]domain.RouteCandidate, error) {
	if len(merged) == 0 {
		return nil, apperror.New(apperror.CodeNoLiquidity, apperror.WithContext(req.Pair()))
	}
	return domain.RankByEfficiency(merged, o.cfg.MaxRoutes), nil
}

func (o *Orchestrator) runTier1(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	ctx, span := o.tracer.StartSpanFromContext(ctx, "tier1.direct")
	defer span.End()
	start := time.Now()

	var out []domain.RouteCandidate
	best, err := o.registry.GetBestDirectQuote(ctx, req)
	if err != nil {
		// Tier-level NoLiquidity falls through to the next tier.
		o.log.Debug(ctx, "tier 1 empty", "pair", req.Pair(), "error", err)
	} else {
		out = []domain.RouteCandidate{*best}
	}

	o.recordTier(ctx, "tier1", start, len(out))
	return out
}

func (o *Orchestrator) runTier2(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	ctx, span := o.tracer.StartSpanFromContext(ctx, "tier2.multihop")
	defer span.End()
	start := time.Now()

	out := o.multiHop.FindMultiHopRoutes(ctx, req)
	o.recordTier(ctx, "tier2", start, len(out))
	return out
}

func (o *Orchestrator) runTier3(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	ctx, span := o.tracer.StartSpanFromContext(ctx, "tier3.complex")
	defer span.End()
	start := time.Now()

	out := o.synthesizer.FindComplexRoutes(ctx, req)
	o.recordTier(ctx, "tier3", start, len(out))
	return out
}

func (o *Orchestrator) recordTier(ctx context.Context, tier string, start time.Time, count int) {
	attrs := metric.WithAttributes(attribute.String("tier", tier))
	if o.tierLatency != nil {
		o.tierLatency.Record(ctx, float64(time.Since(start).Microseconds())/1000.0, attrs)
	}
	if o.routeCount != nil {
		o.routeCount.Add(ctx, int64(count), attrs)
	}
}
