// Package zeroex adapts the 0x swap API to the routing venue port. The
// indicative /swap/v1/price endpoint is enough for routing; firm quotes
// with calldata only matter at execution time.
package zeroex

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/evm"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/asset"
	"github.com/scr1ptjunk13/peepsweep/internal/circuitbreaker"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/httpclient"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/ratelimit"
)

const (
	venueName  = "0x"
	tracerName = "zeroex"

	pricePath = "/swap/v1/price"

	// defaultGasEstimate is used when the API omits estimatedGas.
	defaultGasEstimate = 150_000
)

// Ensure Adapter implements the venue port.
var _ app.VenueAdapter = (*Adapter)(nil)

// priceResponse is the subset of the 0x price payload we consume.
type priceResponse struct {
	Price        string `json:"price"`
	BuyAmount    string `json:"buyAmount"`
	SellAmount   string `json:"sellAmount"`
	EstimatedGas string `json:"estimatedGas"`
}

// Adapter quotes swaps via the 0x aggregation API.
type Adapter struct {
	http     httpclient.Client
	registry *asset.Registry
	logger   logger.LoggerInterface
	limiter  *ratelimit.Limiter
	cb       *circuitbreaker.CircuitBreaker[*priceResponse]
	tracer   trace.Tracer
}

// NewAdapter creates a 0x venue adapter.
func NewAdapter(cfg config.ZeroExConfig, registry *asset.Registry, log logger.LoggerInterface) (*Adapter, error) {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["0x-api-key"] = cfg.APIKey
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("zeroex"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(5*time.Second),
		httpclient.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return &Adapter{
		http:     client,
		registry: registry,
		logger:   log,
		// The public tier allows roughly 10 requests per second.
		limiter: ratelimit.NewWithBurst(10, 5),
		cb:      circuitbreaker.New[*priceResponse](circuitbreaker.DefaultConfig("zeroex-api")),
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Name implements app.VenueAdapter.
func (a *Adapter) Name() string {
	return venueName
}

// SupportedChains implements app.VenueAdapter.
func (a *Adapter) SupportedChains() []string {
	return []string{"ethereum"}
}

// IsPairSupported implements app.VenueAdapter. The API aggregates most
// ERC20 pairs, so unsupported pairs surface as quote failures instead.
func (a *Adapter) IsPairSupported(ctx context.Context, tokenIn, tokenOut, chain string) bool {
	return true
}

// Quote implements app.VenueAdapter.
func (a *Adapter) Quote(ctx context.Context, req domain.SwapRequest) (domain.RouteCandidate, error) {
	ctx, span := a.tracer.Start(ctx, "zeroex.quote")
	defer span.End()

	if err := a.limiter.Wait(ctx); err != nil {
		return domain.RouteCandidate{}, apperror.Wrap(err, apperror.CodeServiceTimeout, "zeroex rate limit wait")
	}

	chainID, ok := asset.ChainIDByName(req.Chain)
	if !ok {
		return domain.RouteCandidate{}, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext("chain="+req.Chain))
	}

	assetIn, err := evm.ResolveToken(a.registry, req.TokenIn, chainID)
	if err != nil {
		return domain.RouteCandidate{}, err
	}
	assetOut, err := evm.ResolveToken(a.registry, req.TokenOut, chainID)
	if err != nil {
		return domain.RouteCandidate{}, err
	}

	price, err := a.cb.Execute(func() (*priceResponse, error) {
		return a.fetchPrice(ctx, assetIn.Address().Hex(), assetOut.Address().Hex(),
			evm.ToBaseUnits(assetIn, req.AmountIn))
	})
	if err != nil {
		return domain.RouteCandidate{}, err
	}

	buyAmount, ok := new(big.Int).SetString(price.BuyAmount, 10)
	if !ok || buyAmount.Sign() <= 0 {
		return domain.RouteCandidate{}, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("buyAmount=%q", price.BuyAmount)))
	}

	gas := uint64(defaultGasEstimate)
	if g, err := strconv.ParseUint(price.EstimatedGas, 10, 64); err == nil && g > 0 {
		gas = g
	}

	a.logger.Debug(ctx, "zeroex quote",
		"pair", req.Pair(),
		"buy_amount", price.BuyAmount,
		"gas", gas,
	)

	return domain.RouteCandidate{
		Venue:       venueName,
		AmountOut:   evm.FromBaseUnits(assetOut, buyAmount),
		GasEstimate: gas,
	}, nil
}

func (a *Adapter) fetchPrice(ctx context.Context, sellToken, buyToken string, sellAmount *big.Int) (*priceResponse, error) {
	var result priceResponse

	resp, err := a.http.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(priceErrorHandler),
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "price")),
	).
		SetQueryParams(map[string]string{
			"sellToken":  sellToken,
			"buyToken":   buyToken,
			"sellAmount": sellAmount.String(),
		}).
		SetResult(&result).
		Get(ctx, pricePath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithContext(fmt.Sprintf("status=%d", resp.StatusCode)))
	}

	return &result, nil
}

// priceErrorHandler maps API failures to typed errors so the registry can
// log them distinctly.
func priceErrorHandler(statusCode int, body []byte) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return apperror.New(apperror.CodeVenueRateLimited,
			apperror.WithContext("zeroex"))
	case statusCode >= http.StatusInternalServerError:
		return apperror.New(apperror.CodeExternalServiceError,
			apperror.WithContext(fmt.Sprintf("zeroex status=%d", statusCode)))
	case statusCode >= http.StatusBadRequest:
		return apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithContext(fmt.Sprintf("zeroex status=%d body=%.120s", statusCode, body)))
	default:
		return nil
	}
}
