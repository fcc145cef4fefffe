// Package wsconn provides a production-grade WebSocket client with reconnection.
package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// ErrClosed is returned by Send after Close has been called.
var ErrClosed = errors.New("wsconn: client closed")

// MessageHandler is invoked for every received message.
type MessageHandler func(ctx context.Context, msg []byte)

// StateChangeHandler is invoked on every state transition. err is non-nil
// for transitions caused by a failure.
type StateChangeHandler func(state State, err error)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Name           string // used for diagnostics
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	PongTimeout    time.Duration
	MaxMessageSize int64 // 0 = 1MB
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:            url,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		MaxMessageSize: 1 << 20,
	}
}

// Client is a WebSocket client that reconnects with exponential backoff.
type Client struct {
	config Config

	state   State
	stateMu sync.RWMutex

	conn    *websocket.Conn
	connMu  sync.Mutex
	writeMu sync.Mutex

	onMessage     MessageHandler
	onStateChange StateChangeHandler
	handlerMu     sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new WebSocket client.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("wsconn: URL is required")
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = 1 << 20
	}
	return &Client{
		config: config,
		state:  StateDisconnected,
		done:   make(chan struct{}),
	}, nil
}

// OnMessage registers the handler invoked for each received message.
// Must be called before Connect.
func (c *Client) OnMessage(h MessageHandler) {
	c.handlerMu.Lock()
	c.onMessage = h
	c.handlerMu.Unlock()
}

// OnStateChange registers the handler invoked on state transitions.
// Must be called before Connect.
func (c *Client) OnStateChange(h StateChangeHandler) {
	c.handlerMu.Lock()
	c.onStateChange = h
	c.handlerMu.Unlock()
}

// Connect establishes the connection and starts the read loop. Reconnection
// after the initial connection is handled in the background.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting, nil)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected, err)
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	c.setState(StateConnected, nil)

	go c.readLoop(ctx)
	if c.config.PingInterval > 0 {
		go c.pingLoop(ctx)
	}
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(c.config.MaxMessageSize)
	return conn, nil
}

// Send sends a text message through the WebSocket.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	if conn == nil {
		return errors.New("wsconn: not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.Write(ctx, websocket.MessageText, msg)
}

// SendJSON marshals v and sends it as a text message.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(ctx, data)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// IsConnected reports whether the client is currently connected.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close gracefully closes the WebSocket connection. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.connMu.Lock()
		if c.conn != nil {
			c.conn.Close(websocket.StatusNormalClosure, "shutdown")
		}
		c.connMu.Unlock()
		c.setState(StateClosed, nil)
	})
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	reconnects := 0
	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		var readErr error
		for conn != nil {
			_, data, err := conn.Read(ctx)
			if err != nil {
				readErr = err
				break
			}
			c.handlerMu.RLock()
			h := c.onMessage
			c.handlerMu.RUnlock()
			if h != nil {
				h(ctx, data)
			}
		}

		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		if c.config.MaxReconnects > 0 && reconnects >= c.config.MaxReconnects {
			c.setState(StateDisconnected, readErr)
			return
		}

		c.setState(StateReconnecting, readErr)
		backoff := c.backoff(reconnects)
		reconnects++

		select {
		case <-time.After(backoff):
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}

		newConn, err := c.dial(ctx)
		if err != nil {
			c.connMu.Lock()
			c.conn = nil
			c.connMu.Unlock()
			continue
		}

		c.connMu.Lock()
		c.conn = newConn
		c.connMu.Unlock()
		c.setState(StateConnected, nil)
		reconnects = 0
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()
			if conn == nil {
				continue
			}

			pingCtx, cancel := context.WithTimeout(ctx, c.config.PongTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				// The read loop will observe the dead connection and reconnect.
				conn.Close(websocket.StatusGoingAway, "ping timeout")
			}
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.config.InitialBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= c.config.MaxBackoff {
			return c.config.MaxBackoff
		}
	}
	if d > c.config.MaxBackoff {
		d = c.config.MaxBackoff
	}
	return d
}

func (c *Client) setState(state State, err error) {
	c.stateMu.Lock()
	// Closed is terminal.
	if c.state == StateClosed && state != StateClosed {
		c.stateMu.Unlock()
		return
	}
	c.state = state
	c.stateMu.Unlock()

	c.handlerMu.RLock()
	h := c.onStateChange
	c.handlerMu.RUnlock()
	if h != nil {
		h(state, err)
	}
}
