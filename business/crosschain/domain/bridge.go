// Package domain contains the core domain types for the crosschain context.
package domain

import "github.com/shopspring/decimal"

// BridgeInfo is the static reference record for one bridge. Refreshed
// out-of-band; the route synthesizer never calls a bridge directly.
type BridgeInfo struct {
	Name            string
	SupportedChains []string
	FeePercent      decimal.Decimal // percentage, e.g. 0.04 for 0.04%
	ETAMinutes      uint32
	GasCost         uint64
}

// SupportsChain reports whether the bridge serves the given chain.
func (b BridgeInfo) SupportsChain(chain string) bool {
	for _, c := range b.SupportedChains {
		if c == chain {
			return true
		}
	}
	return false
}
