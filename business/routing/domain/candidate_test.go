package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
)

func candidate(venue string, amountOut string, gas uint64) domain.RouteCandidate {
	return domain.RouteCandidate{
		Venue:       venue,
		AmountOut:   decimal.RequireFromString(amountOut),
		GasEstimate: gas,
	}
}

func TestAllocate_Splits(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		splits []string
	}{
		{"single", 1, []string{"100"}},
		{"pair", 2, []string{"70", "30"}},
		{"triple", 3, []string{"50", "30", "20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := make([]domain.RouteCandidate, tt.count)
			for i := range routes {
				routes[i] = candidate("v", "100", 1000)
			}

			routes = domain.Allocate(routes)
			for i, want := range tt.splits {
				got := routes[i].AllocationPercent
				if !got.Equal(decimal.RequireFromString(want)) {
					t.Errorf("route %d: allocation = %s, want %s", i, got, want)
				}
			}
		})
	}
}

func TestAllocate_SumsToHundred(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	for count := 1; count <= 6; count++ {
		routes := make([]domain.RouteCandidate, count)
		for i := range routes {
			routes[i] = candidate("v", "100", 1000)
		}

		routes = domain.Allocate(routes)

		sum := decimal.Zero
		for _, r := range routes {
			sum = sum.Add(r.AllocationPercent)
		}
		if !sum.Equal(hundred) {
			t.Errorf("count %d: allocations sum to %s, want 100", count, sum)
		}

		// Beyond three routes the split is even with the division remainder
		// landing on the last route.
		if count > 3 {
			share := routes[0].AllocationPercent
			for i := 0; i < count-1; i++ {
				if !routes[i].AllocationPercent.Equal(share) {
					t.Errorf("count %d: route %d allocation = %s, want %s", count, i, routes[i].AllocationPercent, share)
				}
			}
			wantLast := hundred.Sub(share.Mul(decimal.NewFromInt(int64(count - 1))))
			if !routes[count-1].AllocationPercent.Equal(wantLast) {
				t.Errorf("count %d: last allocation = %s, want %s", count, routes[count-1].AllocationPercent, wantLast)
			}
		}
	}
}

func TestEfficiency_ZeroGasRanksByOutput(t *testing.T) {
	gasless := candidate("gasless", "10", 0)
	if !gasless.Efficiency().Equal(decimal.NewFromInt(10)) {
		t.Errorf("zero-gas efficiency = %s, want 10", gasless.Efficiency())
	}

	priced := candidate("priced", "1000", 100)
	if !priced.Efficiency().Equal(decimal.NewFromInt(10)) {
		t.Errorf("efficiency = %s, want 10", priced.Efficiency())
	}
}

func TestRankByEfficiency_OrdersAndTruncates(t *testing.T) {
	routes := []domain.RouteCandidate{
		candidate("low", "1000", 1000),   // eff 1
		candidate("high", "3000", 1000),  // eff 3
		candidate("mid", "2000", 1000),   // eff 2
		candidate("worst", "500", 1000),  // eff 0.5
		candidate("tiny", "100", 100000), // eff 0.001
	}

	ranked := domain.RankByEfficiency(routes, 3)

	if len(ranked) != 3 {
		t.Fatalf("got %d routes, want 3", len(ranked))
	}
	wantOrder := []string{"high", "mid", "low"}
	for i, want := range wantOrder {
		if ranked[i].Venue != want {
			t.Errorf("rank %d = %s, want %s", i, ranked[i].Venue, want)
		}
	}

	// The truncated list gets the 3-way split.
	if !ranked[0].AllocationPercent.Equal(decimal.NewFromInt(50)) {
		t.Errorf("best allocation = %s, want 50", ranked[0].AllocationPercent)
	}
}

func TestRankByEfficiency_Empty(t *testing.T) {
	if got := domain.RankByEfficiency(nil, 3); len(got) != 0 {
		t.Errorf("got %d routes, want 0", len(got))
	}
}
