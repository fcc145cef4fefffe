// Package app contains application services and port definitions for the crosschain context.
package app

import (
	"context"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
)

// OpportunityHandler receives one decoded price-difference record.
type OpportunityHandler func(ctx context.Context, route domain.ArbitrageRoute)

// OpportunityFeed is a live source of cross-chain price-difference records.
type OpportunityFeed interface {
	// Start connects the feed and delivers records to the handler until the
	// context is cancelled or Stop is called.
	Start(ctx context.Context, handler OpportunityHandler) error

	// Stop disconnects the feed.
	Stop() error
}
