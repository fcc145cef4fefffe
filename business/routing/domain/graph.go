package domain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
)

// PairRoute is one known direct venue route for a token pair.
type PairRoute struct {
	Venue       string
	PoolAddress common.Address
	FeeTier     uint32
	Liquidity   uint64
	GasEstimate uint64
}

type pairKey struct {
	from string
	to   string
}

// TokenGraph is the shared pathfinding graph: nodes are token symbols,
// edges map an ordered pair to the venue routes known for it. Searches run
// concurrently with pair registration, so all access goes through a
// reader/writer lock.
type TokenGraph struct {
	mu    sync.RWMutex
	nodes map[string][]string
	edges map[pairKey][]PairRoute
}

// NewTokenGraph creates an empty graph.
func NewTokenGraph() *TokenGraph {
	return &TokenGraph{
		nodes: make(map[string][]string),
		edges: make(map[pairKey][]PairRoute),
	}
}

// AddToken registers a token node with no edges. Adding an existing token
// is a no-op.
func (g *TokenGraph) AddToken(symbol string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[symbol]; !ok {
		g.nodes[symbol] = nil
	}
}

// AddPair registers venue routes for a pair in both directions. Self-loops
// and empty route lists are rejected.
func (g *TokenGraph) AddPair(tokenA, tokenB string, routes []PairRoute) error {
	if tokenA == tokenB {
		return apperror.New(apperror.CodeSelfLoopPair, apperror.WithContext(tokenA))
	}
	if len(routes) == 0 {
		return apperror.New(apperror.CodeEmptyPairRoute,
			apperror.WithContext(fmt.Sprintf("%s/%s", tokenA, tokenB)))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNeighbor(tokenA, tokenB)
	g.addNeighbor(tokenB, tokenA)
	g.edges[pairKey{tokenA, tokenB}] = routes
	g.edges[pairKey{tokenB, tokenA}] = routes
	return nil
}

func (g *TokenGraph) addNeighbor(from, to string) {
	for _, n := range g.nodes[from] {
		if n == to {
			return
		}
	}
	g.nodes[from] = append(g.nodes[from], to)
}

// Routes returns the venue routes for an ordered pair.
func (g *TokenGraph) Routes(from, to string) []PairRoute {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[pairKey{from, to}]
}

// HasToken reports whether symbol is a node in the graph.
func (g *TokenGraph) HasToken(symbol string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[symbol]
	return ok
}

// TokenCount returns the number of nodes.
func (g *TokenGraph) TokenCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges.
func (g *TokenGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Paths enumerates simple paths from `from` to `to` breadth-first, each at
// most maxHops edges long. Cycle avoidance is per-path: a token already on
// the current path is not revisited, but sibling paths may reuse it. The
// result is sorted by increasing length, shortest first.
func (g *TokenGraph) Paths(from, to string, maxHops int) [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[from]; !ok {
		return nil
	}

	type state struct {
		current string
		path    []string
	}

	var paths [][]string
	queue := []state{{current: from, path: []string{from}}}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if len(s.path) > maxHops+1 {
			continue
		}
		if s.current == to && len(s.path) > 1 {
			paths = append(paths, s.path)
			continue
		}

		for _, neighbor := range g.nodes[s.current] {
			if containsToken(s.path, neighbor) {
				continue
			}
			next := make([]string, len(s.path), len(s.path)+1)
			copy(next, s.path)
			queue = append(queue, state{current: neighbor, path: append(next, neighbor)})
		}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return len(paths[i]) < len(paths[j])
	})
	return paths
}

func containsToken(path []string, token string) bool {
	for _, t := range path {
		if t == token {
			return true
		}
	}
	return false
}
