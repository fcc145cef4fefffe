// Package rates provides a static conversion-rate oracle for multi-hop
// estimation. It stands in for a real price-oracle integration; the routing
// core only sees the RateOracle port.
package rates

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/internal/asset"
)

type pair struct {
	from string
	to   string
}

// StaticOracle serves approximate rates for a handful of major pairs,
// stored as asset prices so a live oracle can slot in behind the same
// port. Unknown pairs report ok=false so the caller can apply its own
// discount.
type StaticOracle struct {
	assets *asset.Registry

	mu     sync.RWMutex
	prices map[pair]asset.Price
}

// NewStaticOracle returns an oracle seeded with the major-pair table.
func NewStaticOracle() *StaticOracle {
	o := &StaticOracle{
		assets: asset.DefaultRegistry(),
		prices: make(map[pair]asset.Price),
	}

	ethUSD := decimal.NewFromInt(3400)
	btcUSD := decimal.NewFromInt(65000)
	stable := decimal.NewFromFloat(0.9999)

	o.SetRate("ETH", "USDC", ethUSD)
	o.SetRate("ETH", "USDT", ethUSD)
	o.SetRate("ETH", "WBTC", ethUSD.Div(btcUSD))

	// Stablecoins pay the peg spread in both directions, so neither leg is
	// the inverse of the other.
	o.setBoth("USDC", "USDT", stable, stable)
	o.setBoth("USDC", "DAI", stable, stable)

	// WETH trades 1:1 with ETH, so it inherits the ETH legs.
	o.SetRate("WETH", "USDC", ethUSD)
	o.SetRate("WETH", "USDT", ethUSD)
	o.setBoth("ETH", "WETH", decimal.NewFromInt(1), decimal.NewFromInt(1))

	return o
}

// SetRate registers a rate and its inverse.
func (o *StaticOracle) SetRate(from, to string, rate decimal.Decimal) {
	p := asset.NewPriceNow(o.lookup(from), o.lookup(to), rate)
	o.store(p)
	o.store(p.Invert())
}

func (o *StaticOracle) setBoth(from, to string, forward, backward decimal.Decimal) {
	base, quote := o.lookup(from), o.lookup(to)
	o.store(asset.NewPriceNow(base, quote, forward))
	o.store(asset.NewPriceNow(quote, base, backward))
}

func (o *StaticOracle) store(p asset.Price) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[pair{p.Base().Symbol(), p.Quote().Symbol()}] = p
}

// lookup resolves a symbol against the well-known registry, falling back to
// an ad-hoc 18-decimal token so callers can register rates for anything.
func (o *StaticOracle) lookup(symbol string) *asset.Asset {
	if a, ok := o.assets.GetBySymbolAndChain(symbol, asset.ChainIDEthereum); ok {
		return a
	}
	return asset.NewAsset(asset.NewTokenAssetID(asset.ChainIDEthereum, common.Address{}), symbol, 18)
}

// Rate implements the routing RateOracle port.
func (o *StaticOracle) Rate(_ context.Context, from, to string) (decimal.Decimal, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[pair{from, to}]
	if !ok {
		return decimal.Zero, false
	}
	return p.Rate(), true
}
