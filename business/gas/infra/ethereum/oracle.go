// Package ethereum implements the gas oracle against a go-ethereum node
// client. Prices are cached for roughly one block and fetched through a
// circuit breaker so a flaky node degrades to stale prices, not errors.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/scr1ptjunk13/peepsweep/business/gas/app"
	"github.com/scr1ptjunk13/peepsweep/business/gas/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/cache"
	"github.com/scr1ptjunk13/peepsweep/internal/circuitbreaker"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

const (
	tracerName = "gas"
	meterName  = "gas"
)

// Ensure Oracle implements the port.
var _ app.Oracle = (*Oracle)(nil)

// OracleConfig holds configuration for the gas oracle.
type OracleConfig struct {
	CacheTTL    time.Duration // How long to cache gas prices
	CallTimeout time.Duration // Per-RPC deadline
	MaxGasPrice *big.Int      // Maximum acceptable gas price (safety)
	DefaultGas  uint64        // Default gas limit when estimation fails
}

// DefaultOracleConfig returns sensible defaults.
func DefaultOracleConfig() OracleConfig {
	maxGas := new(big.Int)
	maxGas.SetString("500000000000", 10) // 500 gwei max

	return OracleConfig{
		CacheTTL:    12 * time.Second, // ~1 block
		CallTimeout: 500 * time.Millisecond,
		MaxGasPrice: maxGas,
		DefaultGas:  200_000,
	}
}

// oracleMetrics holds OTEL metric instruments.
type oracleMetrics struct {
	priceFetches metric.Int64Counter
	priceGwei    metric.Float64Gauge
	estimates    metric.Int64Counter
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
}

// Oracle implements app.Oracle over a shared node client.
type Oracle struct {
	config OracleConfig
	logger logger.LoggerInterface
	client *ethclient.Client

	priceCache *cache.Cache[string, *domain.GasPrice]
	cb         *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *oracleMetrics
}

// NewOracle creates a gas oracle on top of an existing node client.
func NewOracle(client *ethclient.Client, cfg OracleConfig, log logger.LoggerInterface) (*Oracle, error) {
	o := &Oracle{
		config:     cfg,
		logger:     log,
		client:     client,
		priceCache: cache.New[string, *domain.GasPrice](5 * time.Minute),
		cb:         circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-oracle")),
		tracer:     otel.Tracer(tracerName),
	}

	if err := o.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return o, nil
}

func (o *Oracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	o.metrics = &oracleMetrics{}

	o.metrics.priceFetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	o.metrics.priceGwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	o.metrics.estimates, err = meter.Int64Counter(
		"gas_estimate_total",
		metric.WithDescription("Total gas estimation calls"),
		metric.WithUnit("{estimate}"),
	)
	if err != nil {
		return err
	}

	o.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	o.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Gas price cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GasPrice implements app.Oracle.
func (o *Oracle) GasPrice(ctx context.Context) (*domain.GasPrice, error) {
	ctx, span := o.tracer.Start(ctx, "gas.get_price")
	defer span.End()

	if price, found := o.priceCache.Get(ctx, "current"); found {
		o.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return price, nil
	}

	o.metrics.cacheMisses.Add(ctx, 1)
	o.metrics.priceFetches.Add(ctx, 1)

	wei, err := o.cb.Execute(func() (*big.Int, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.config.CallTimeout)
		defer cancel()
		return o.client.SuggestGasPrice(callCtx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.New(apperror.CodeEthereumRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to get gas price"))
	}

	// Safety clamp
	if o.config.MaxGasPrice != nil && wei.Cmp(o.config.MaxGasPrice) > 0 {
		span.AddEvent("gas_price_exceeded_max",
			trace.WithAttributes(attribute.String("wei", wei.String())))
		o.logger.Warn(ctx, "gas price exceeds max", "wei", wei.String())
		wei = o.config.MaxGasPrice
	}

	price := domain.NewGasPrice(wei)
	o.priceCache.Set(ctx, "current", price, o.config.CacheTTL)
	o.metrics.priceGwei.Record(ctx, price.Gwei)

	span.SetAttributes(attribute.Float64("gwei", price.Gwei))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

// GasPriceGwei is a convenience for callers that only annotate costs.
func (o *Oracle) GasPriceGwei(ctx context.Context) (float64, error) {
	price, err := o.GasPrice(ctx)
	if err != nil {
		return 0, err
	}
	return price.Gwei, nil
}

// EstimateGas implements app.Oracle.
func (o *Oracle) EstimateGas(ctx context.Context, data []byte, to string) (uint64, error) {
	ctx, span := o.tracer.Start(ctx, "gas.estimate",
		trace.WithAttributes(
			attribute.String("to", to),
			attribute.Int("data_len", len(data)),
		),
	)
	defer span.End()

	o.metrics.estimates.Add(ctx, 1)

	toAddr := common.HexToAddress(to)
	callCtx, cancel := context.WithTimeout(ctx, o.config.CallTimeout)
	defer cancel()

	gas, err := o.client.EstimateGas(callCtx, ethereum.CallMsg{
		To:   &toAddr,
		Data: data,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "estimate failed")
		return 0, apperror.New(apperror.CodeGasEstimationFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to estimate gas for %s", to)))
	}

	// Add safety margin (10%)
	gas = gas + (gas / 10)

	span.SetAttributes(attribute.Int64("gas", int64(gas)))
	span.SetStatus(codes.Ok, "estimated")

	return gas, nil
}

// Estimate implements app.Oracle.
func (o *Oracle) Estimate(ctx context.Context, data []byte, to string) (*domain.GasEstimate, error) {
	ctx, span := o.tracer.Start(ctx, "gas.full_estimate")
	defer span.End()

	price, err := o.GasPrice(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	gasLimit, err := o.EstimateGas(ctx, data, to)
	if err != nil {
		// Use default if estimation fails
		gasLimit = o.config.DefaultGas
		span.AddEvent("using_default_gas", trace.WithAttributes(
			attribute.Int64("default", int64(gasLimit))))
	}

	estimate := domain.NewGasEstimate(gasLimit, price)

	span.SetAttributes(
		attribute.Int64("gas_limit", int64(estimate.GasLimit)),
		attribute.Float64("total_gwei", estimate.TotalGwei),
	)
	span.SetStatus(codes.Ok, "estimated")

	return estimate, nil
}

// Close releases the price cache janitor. The node client is shared and
// closed by its owner.
func (o *Oracle) Close() error {
	o.priceCache.Close()
	return nil
}
