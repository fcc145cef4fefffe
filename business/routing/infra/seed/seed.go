// Package seed populates the token graph with the known major-pair edges.
// Pool data is static reference; the background liquidity refresher
// re-registers pairs to keep it current.
package seed

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
)

var tokens = []string{
	"ETH", "WETH", "USDC", "USDT", "DAI", "WBTC",
	"UNI", "LINK", "AAVE", "COMP", "MKR", "SNX",
	"CRV", "BAL", "SUSHI", "YFI", "1INCH",
}

type seedPair struct {
	tokenA string
	tokenB string
	route  domain.PairRoute
}

var majorPairs = []seedPair{
	{"ETH", "USDC", domain.PairRoute{
		Venue:       "Uniswap V3",
		PoolAddress: common.HexToAddress("0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640"),
		FeeTier:     500,
		Liquidity:   50_000_000,
		GasEstimate: 150_000,
	}},
	{"ETH", "USDT", domain.PairRoute{
		Venue:       "Uniswap V3",
		PoolAddress: common.HexToAddress("0x11b815efb8f581194ae79006d24e0d814b7697f6"),
		FeeTier:     3000,
		Liquidity:   180_000_000,
		GasEstimate: 150_000,
	}},
	{"ETH", "WBTC", domain.PairRoute{
		Venue:       "Uniswap V3",
		PoolAddress: common.HexToAddress("0xcbcdf9626bc03e24f779434178a73a0b4bad62ed"),
		FeeTier:     3000,
		Liquidity:   75_000_000,
		GasEstimate: 150_000,
	}},
	{"USDC", "USDT", domain.PairRoute{
		Venue:       "Curve",
		PoolAddress: common.HexToAddress("0xbebc44782c7db0a1a60cb6fe97d0b483032ff1c7"),
		FeeTier:     4,
		Liquidity:   500_000_000,
		GasEstimate: 120_000,
	}},
	{"USDC", "DAI", domain.PairRoute{
		Venue:       "Uniswap V3",
		PoolAddress: common.HexToAddress("0x5777d92f208679db4b9778590fa3cab3ac9e2168"),
		FeeTier:     100,
		Liquidity:   80_000_000,
		GasEstimate: 150_000,
	}},
	{"ETH", "UNI", domain.PairRoute{
		Venue:       "Uniswap V3",
		PoolAddress: common.HexToAddress("0x1d42064fc4beb5f8aaf85f4617ae8b3b5b8bd801"),
		FeeTier:     3000,
		Liquidity:   30_000_000,
		GasEstimate: 150_000,
	}},
	{"ETH", "LINK", domain.PairRoute{
		Venue:       "Uniswap V3",
		PoolAddress: common.HexToAddress("0xa6cc3c2531fdaa6ae1a3ca84c2855806728693e8"),
		FeeTier:     3000,
		Liquidity:   25_000_000,
		GasEstimate: 150_000,
	}},
}

// Apply registers the token node set and major-pair edges on the graph.
func Apply(g *domain.TokenGraph) error {
	for _, t := range tokens {
		g.AddToken(t)
	}
	for _, p := range majorPairs {
		if err := g.AddPair(p.tokenA, p.tokenB, []domain.PairRoute{p.route}); err != nil {
			return err
		}
	}
	return nil
}
