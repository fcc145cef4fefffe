package domain

import "github.com/shopspring/decimal"

// ArbitrageRoute records a detected price difference for one token between
// two chains, and the bridge that would carry the position across.
type ArbitrageRoute struct {
	ChainA          string
	ChainB          string
	Token           string
	PriceDifference decimal.Decimal // fraction, e.g. 0.012 for +1.2% on ChainB
	Bridge          string
}

// IsActionable reports whether the difference clears the given threshold.
func (r ArbitrageRoute) IsActionable(threshold decimal.Decimal) bool {
	return r.PriceDifference.GreaterThanOrEqual(threshold)
}
