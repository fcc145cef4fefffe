// Package bridges holds the static bridge reference directory.
package bridges

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
)

// Directory is an in-memory bridge catalog. Entries are refreshed
// out-of-band; readers only ever see complete records.
type Directory struct {
	mu      sync.RWMutex
	bridges map[string]domain.BridgeInfo
}

// NewDirectory returns a directory seeded with the known bridges.
func NewDirectory() *Directory {
	d := &Directory{bridges: make(map[string]domain.BridgeInfo)}

	d.Update(domain.BridgeInfo{
		Name:            "Hop Protocol",
		SupportedChains: []string{"ethereum", "polygon", "arbitrum", "optimism"},
		FeePercent:      decimal.NewFromFloat(0.04),
		ETAMinutes:      5,
		GasCost:         200_000,
	})
	d.Update(domain.BridgeInfo{
		Name:            "Across Protocol",
		SupportedChains: []string{"ethereum", "polygon", "arbitrum"},
		FeePercent:      decimal.NewFromFloat(0.03),
		ETAMinutes:      3,
		GasCost:         180_000,
	})
	d.Update(domain.BridgeInfo{
		Name:            "Stargate",
		SupportedChains: []string{"ethereum", "bsc", "avalanche", "polygon"},
		FeePercent:      decimal.NewFromFloat(0.06),
		ETAMinutes:      8,
		GasCost:         250_000,
	})

	return d
}

// Update inserts or replaces a bridge record.
func (d *Directory) Update(info domain.BridgeInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bridges[info.Name] = info
}

// Bridge returns the record for a bridge by name.
func (d *Directory) Bridge(name string) (domain.BridgeInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.bridges[name]
	return b, ok
}

// All returns every known bridge.
func (d *Directory) All() []domain.BridgeInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.BridgeInfo, 0, len(d.bridges))
	for _, b := range d.bridges {
		out = append(out, b)
	}
	return out
}

// SupportedChains returns the union of chains served by any bridge.
func (d *Directory) SupportedChains() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]struct{})
	var chains []string
	for _, b := range d.bridges {
		for _, c := range b.SupportedChains {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				chains = append(chains, c)
			}
		}
	}
	return chains
}
