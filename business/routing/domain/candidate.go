package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RouteCandidate is a priced, gas-estimated proposed execution path. A list
// of candidates whose AllocationPercent sums to 100 is the unit returned to
// the caller.
type RouteCandidate struct {
	Venue             string
	AmountOut         decimal.Decimal
	GasEstimate       uint64
	AllocationPercent decimal.Decimal
}

// Efficiency is output amount per unit of gas. A zero gas estimate is
// treated as 1 so gasless venues rank by raw output instead of dividing
// by zero.
func (c RouteCandidate) Efficiency() decimal.Decimal {
	gas := c.GasEstimate
	if gas == 0 {
		gas = 1
	}
	return c.AmountOut.Div(decimal.NewFromUint64(gas))
}

var (
	alloc100 = decimal.NewFromInt(100)
	alloc70  = decimal.NewFromInt(70)
	alloc50  = decimal.NewFromInt(50)
	alloc30  = decimal.NewFromInt(30)
	alloc20  = decimal.NewFromInt(20)
)

// Allocate assigns allocation percentages in place, best candidate first:
// 1 route takes 100, 2 split 70/30, 3 split 50/30/20, anything longer
// splits evenly. The percentages always sum to 100.
func Allocate(routes []RouteCandidate) []RouteCandidate {
	switch len(routes) {
	case 0:
	case 1:
		routes[0].AllocationPercent = alloc100
	case 2:
		routes[0].AllocationPercent = alloc70
		routes[1].AllocationPercent = alloc30
	case 3:
		routes[0].AllocationPercent = alloc50
		routes[1].AllocationPercent = alloc30
		routes[2].AllocationPercent = alloc20
	default:
		n := int64(len(routes))
		share := alloc100.Div(decimal.NewFromInt(n))
		for i := range routes {
			routes[i].AllocationPercent = share
		}
		// Division truncates at decimal precision, so the last route absorbs
		// the remainder to keep the total at exactly 100.
		routes[n-1].AllocationPercent = alloc100.Sub(share.Mul(decimal.NewFromInt(n - 1)))
	}
	return routes
}

// RankByEfficiency sorts candidates by efficiency descending, truncates to
// maxRoutes and applies the allocation policy. This is the shared merge
// step used after every tier combination.
func RankByEfficiency(routes []RouteCandidate, maxRoutes int) []RouteCandidate {
	if len(routes) == 0 {
		return routes
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Efficiency().GreaterThan(routes[j].Efficiency())
	})

	if maxRoutes > 0 && len(routes) > maxRoutes {
		routes = routes[:maxRoutes]
	}
	return Allocate(routes)
}
