// Package backend talks JSON-RPC 2.0 over a websocket to the native
// automation backend, which performs matching, recognition and capture.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kiwi-automation/kiwi/utils"
)

// DefaultTimeout bounds a single call when no other timeout is configured.
const DefaultTimeout = 5 * time.Second

// NotificationHandler receives backend notifications (messages without an
// id). It runs on the read loop and must not block.
type NotificationHandler func(method string, params json.RawMessage)

type Client struct {
	wsURL      string
	httpURL    string
	httpClient *http.Client
	timeout    time.Duration
	onNotify   NotificationHandler
	requestID  atomic.Int64

	mu       sync.Mutex
	conn     *websocket.Conn
	pending  map[int64]chan jsonRPCMessage
	closeErr error
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithNotificationHandler(h NotificationHandler) Option {
	return func(c *Client) {
		c.onNotify = h
	}
}

// NewClient prepares a client for the websocket endpoint at rawURL, e.g.
// ws://localhost:12100/rpc. No connection is made until the first call.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	var httpScheme string
	switch u.Scheme {
	case "ws":
		httpScheme = "http"
	case "wss":
		httpScheme = "https"
	default:
		return nil, fmt.Errorf("unsupported backend scheme: %s (expected ws or wss)", u.Scheme)
	}

	c := &Client{
		wsURL:   u.String(),
		httpURL: fmt.Sprintf("%s://%s", httpScheme, u.Host),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		timeout: DefaultTimeout,
		pending: make(map[int64]chan jsonRPCMessage),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) URL() string {
	return c.wsURL
}

func (c *Client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to backend at %s: %w", c.wsURL, err)
	}

	utils.Verbose("Connected to backend at %s", c.wsURL)
	c.conn = conn
	c.closeErr = nil
	go c.readLoop(conn)

	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var msg jsonRPCMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			c.mu.Lock()
			// a replaced connection has nothing left to fail; Close already
			// failed its calls and the pending map belongs to the new one
			if c.conn == conn {
				c.conn = nil
				c.closeErr = err
				for _, ch := range c.pending {
					close(ch)
				}
				c.pending = make(map[int64]chan jsonRPCMessage)
			}
			c.mu.Unlock()
			utils.Verbose("Backend connection closed: %v", err)
			return
		}

		if msg.ID == nil {
			if msg.Method != "" && c.onNotify != nil {
				c.onNotify(msg.Method, msg.Params)
			}
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[*msg.ID]
		if ok {
			delete(c.pending, *msg.ID)
		}
		c.mu.Unlock()

		if ok {
			ch <- msg
		}
	}
}

// Close drops the connection and fails every pending call.
func (c *Client) Close() {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[int64]chan jsonRPCMessage)
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
}

// LastError returns why the previous connection ended, if it did.
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

func (c *Client) HealthCheck(ctx context.Context) error {
	healthURL := fmt.Sprintf("%s/health", c.httpURL)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for backend to be ready")
		case <-ticker.C:
			err := c.HealthCheck(ctx)
			if err != nil {
				utils.Verbose("Backend not ready yet: %v", err)
				continue
			}
			utils.Verbose("Backend is ready!")
			return nil
		}
	}
}
