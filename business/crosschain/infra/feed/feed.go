// Package feed streams cross-chain price-difference records over a
// reconnecting websocket.
package feed

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/app"
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/wsconn"
)

// message is the wire shape of one feed record.
type message struct {
	ChainA          string          `json:"chain_a"`
	ChainB          string          `json:"chain_b"`
	Token           string          `json:"token"`
	PriceDifference decimal.Decimal `json:"price_difference"`
	Bridge          string          `json:"bridge"`
}

// Client adapts a websocket price-difference stream to the OpportunityFeed
// port. Reconnection is handled by the underlying connection.
type Client struct {
	conn *wsconn.Client
	log  logger.LoggerInterface
}

// NewClient creates a feed client for the given websocket URL.
func NewClient(url string, log logger.LoggerInterface) (*Client, error) {
	conn, err := wsconn.New(wsconn.DefaultConfig(url, "crosschain-feed"))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeConfigurationError, "crosschain feed")
	}
	return &Client{conn: conn, log: log}, nil
}

// Start implements app.OpportunityFeed.
func (c *Client) Start(ctx context.Context, handler app.OpportunityHandler) error {
	c.conn.OnMessage(func(ctx context.Context, data []byte) {
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn(ctx, "feed message malformed",
				"error", apperror.Wrap(err, apperror.CodeFeedDecodeError, "crosschain feed"))
			return
		}

		handler(ctx, domain.ArbitrageRoute{
			ChainA:          msg.ChainA,
			ChainB:          msg.ChainB,
			Token:           msg.Token,
			PriceDifference: msg.PriceDifference,
			Bridge:          msg.Bridge,
		})
	})

	c.conn.OnStateChange(func(state wsconn.State, err error) {
		if state == wsconn.StateReconnecting {
			c.log.Warn(ctx, "feed connection lost, reconnecting",
				"error", apperror.Wrap(err, apperror.CodeFeedConnectionLost, "crosschain feed"))
		}
	})

	if err := c.conn.Connect(ctx); err != nil {
		return apperror.Wrap(err, apperror.CodeFeedConnectionLost, "crosschain feed connect")
	}

	c.log.Info(ctx, "crosschain feed connected")
	return nil
}

// Stop implements app.OpportunityFeed.
func (c *Client) Stop() error {
	return c.conn.Close()
}
