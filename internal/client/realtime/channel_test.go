package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu   sync.Mutex
	pair *models.TokenPair
}

func (s *memTokens) Get(ctx context.Context) (*models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil {
		return nil, nil
	}
	p := *s.pair
	return &p, nil
}

func (s *memTokens) Set(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = &pair
	return nil
}

func (s *memTokens) SetAccessToken(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair != nil {
		s.pair.AccessToken = accessToken
	}
	return nil
}

func (s *memTokens) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}

// wsServer upgrades incoming connections and exposes them for the test to
// push events through.
type wsServer struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn

	gotAuth  chan string
	gotQuery chan string
}

func newWSServer(t *testing.T) (*wsServer, *httptest.Server) {
	s := &wsServer{
		t:        t,
		gotAuth:  make(chan string, 4),
		gotQuery: make(chan string, 4),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.gotAuth <- r.Header.Get("Authorization")
		s.gotQuery <- r.URL.Query().Get("token")
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		// Keep the connection open; the client only reads.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *wsServer) push(payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(s.t, s.conns)
	conn := s.conns[len(s.conns)-1]
	require.NoError(s.t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newChannelFixture(t *testing.T) (*wsServer, *Channel) {
	server, srv := newWSServer(t)
	store := &memTokens{pair: &models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	ch := NewChannel(wsURL(srv), store, logging.NewDefault())
	t.Cleanup(func() { _ = ch.Close() })
	return server, ch
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestOpen_SendsTokenInHeaderAndQuery(t *testing.T) {
	server, ch := newChannelFixture(t)

	require.NoError(t, ch.Open(context.Background()))
	require.True(t, ch.Connected())

	require.Equal(t, "Bearer access-1", <-server.gotAuth)
	require.Equal(t, "access-1", <-server.gotQuery)

	// Re-opening an open channel is a no-op.
	require.NoError(t, ch.Open(context.Background()))
}

func TestOpen_FailsWithoutStoredToken(t *testing.T) {
	_, srv := newWSServer(t)
	ch := NewChannel(wsURL(srv), &memTokens{}, logging.NewDefault())

	err := ch.Open(context.Background())
	require.Error(t, err)
	require.False(t, ch.Connected())
}

func TestEvents_DispatchedToSubscribers(t *testing.T) {
	server, ch := newChannelFixture(t)

	var mu sync.Mutex
	var events []Event
	unsubscribe := ch.SubscribeEvents(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, ch.Open(context.Background()))
	server.push(`{"type":"notification:new","data":{"id":"n1"}}`)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 1
	})
	mu.Lock()
	require.Equal(t, EventNotificationNew, events[0].Type)
	mu.Unlock()

	// Malformed frames are dropped without breaking the stream.
	server.push(`not json`)
	server.push(`{"type":"notification:new"}`)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	})
}

func TestConnectivity_SubscribersSeeOpenAndClose(t *testing.T) {
	_, ch := newChannelFixture(t)

	var mu sync.Mutex
	var states []bool
	unsubscribe := ch.SubscribeConnectivity(func(connected bool) {
		mu.Lock()
		states = append(states, connected)
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, ch.Open(context.Background()))
	require.NoError(t, ch.Close())

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	})
	mu.Lock()
	require.Equal(t, []bool{true, false}, states)
	mu.Unlock()
	require.False(t, ch.Connected())
}

func TestClose_Idempotent(t *testing.T) {
	_, ch := newChannelFixture(t)
	require.NoError(t, ch.Open(context.Background()))
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	server, ch := newChannelFixture(t)

	var mu sync.Mutex
	count := 0
	unsubscribe := ch.SubscribeEvents(func(ev Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.NoError(t, ch.Open(context.Background()))
	server.push(`{"type":"notification:new"}`)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	unsubscribe()
	server.push(`{"type":"notification:new"}`)
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	require.Equal(t, 1, count)
	mu.Unlock()
}
