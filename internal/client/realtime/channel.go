// Package realtime maintains the server-push socket: one connection per
// authenticated session, carrying the access token, with a bounded
// fixed-delay reconnect policy and observable connectivity state.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	neturl "net/url"
	"sync"
	"time"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/repositories/tokens"
	"github.com/VijayPalsawdiya/ttrush-go/internal/common"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
)

// EventNotificationNew is the only server-pushed event type in this core.
const EventNotificationNew = "notification:new"

const (
	handshakeTimeout     = 5 * time.Second
	reconnectDelay       = time.Second
	maxReconnectAttempts = 5
)

// Event is a server-pushed message.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Channel is the realtime connection. Lifecycle is owned by the caller: Open
// when a session becomes authenticated, Close when it becomes nil. After the
// reconnect budget is exhausted the channel stays disconnected until the next
// Open.
type Channel struct {
	url    string
	tokens tokens.Store
	log    logging.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	openCtx   context.Context
	connSubs  map[uuid.UUID]func(connected bool)
	eventSubs map[uuid.UUID]func(Event)
}

func NewChannel(wsURL string, store tokens.Store, log logging.Logger) *Channel {
	return &Channel{
		url:       wsURL,
		tokens:    store,
		log:       log.With("component", "realtime"),
		connSubs:  make(map[uuid.UUID]func(bool)),
		eventSubs: make(map[uuid.UUID]func(Event)),
	}
}

// Open dials the socket with the stored access token and starts the read
// loop. Calling Open on an already-open channel is a no-op.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.closed = false
	c.openCtx = ctx
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	c.attach(conn)
	go c.reader(conn)
	return nil
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	pair, err := c.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, errors.New("realtime: no access token stored")
	}

	// Token goes in the header and as a query param; some proxies strip
	// websocket upgrade headers.
	hdr := http.Header{}
	hdr.Set(common.AuthorizationHeaderName, common.BearerPrefix+pair.AccessToken)

	dialURL := c.url
	if u, err := neturl.Parse(dialURL); err == nil {
		q := u.Query()
		q.Set("token", pair.AccessToken)
		u.RawQuery = q.Encode()
		dialURL = u.String()
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, dialURL, hdr)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			c.log.Warn(ctx, "socket dial failed", "status", resp.Status, "error", err)
		} else {
			c.log.Warn(ctx, "socket dial failed", "error", err)
		}
		return nil, err
	}
	return conn, nil
}

func (c *Channel) attach(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setConnected(true)
}

func (c *Channel) reader(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			stale := c.conn != conn
			closed := c.closed
			if !stale {
				c.conn = nil
			}
			c.mu.Unlock()
			if stale {
				return
			}
			c.setConnected(false)
			if !closed {
				c.reconnect()
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		c.dispatch(ev)
	}
}

// reconnect retries the dial with a fixed delay, giving up after the attempt
// budget. Exhaustion leaves the channel disconnected; the next session
// transition (or explicit Open) starts over with a fresh budget.
func (c *Channel) reconnect() {
	c.mu.Lock()
	ctx := c.openCtx
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := retry.WithMaxRetries(maxReconnectAttempts, retry.NewConstant(reconnectDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return errors.New("realtime: channel closed")
		}
		c.mu.Unlock()

		conn, err := c.dial(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		c.attach(conn)
		go c.reader(conn)
		return nil
	})
	if err != nil {
		c.log.Warn(ctx, "socket reconnect attempts exhausted", "error", err)
	}
}

// Close tears the connection down; safe to call when already closed.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed && c.conn == nil {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.setConnected(false)

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Connected reports the current connectivity state.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Channel) setConnected(connected bool) {
	c.mu.Lock()
	if c.connected == connected {
		c.mu.Unlock()
		return
	}
	c.connected = connected
	subs := make([]func(bool), 0, len(c.connSubs))
	for _, fn := range c.connSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(connected)
	}
}

func (c *Channel) dispatch(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), 0, len(c.eventSubs))
	for _, fn := range c.eventSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// SubscribeConnectivity registers fn for connectivity changes and returns an
// unsubscribe function.
func (c *Channel) SubscribeConnectivity(fn func(connected bool)) func() {
	id := uuid.New()
	c.mu.Lock()
	c.connSubs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.connSubs, id)
		c.mu.Unlock()
	}
}

// SubscribeEvents registers fn for server-pushed events and returns an
// unsubscribe function.
func (c *Channel) SubscribeEvents(fn func(Event)) func() {
	id := uuid.New()
	c.mu.Lock()
	c.eventSubs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.eventSubs, id)
		c.mu.Unlock()
	}
}
