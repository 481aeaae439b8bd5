package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHub sets up a Hub behind a test server that upgrades connections and
// registers them under the user in the ?user= query parameter.
func testHub(t *testing.T, maxConnections int) (*Hub, func(userID uuid.UUID) *ws.Conn) {
	t.Helper()

	hub := NewHub(maxConnections, nil)
	t.Cleanup(hub.Stop)

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		userID := uuid.MustParse(r.URL.Query().Get("user"))
		if err := hub.Register(userID, conn); err != nil {
			conn.Close()
			return
		}

		go func() {
			defer hub.Unregister(userID, conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}))
	t.Cleanup(server.Close)

	dial := func(userID uuid.UUID) *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=" + userID.String()
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return hub, dial
}

// waitForClientCount polls until the hub has the expected count for a user.
func waitForClientCount(hub *Hub, userID uuid.UUID, expected int) bool {
	for range 200 {
		if hub.ConnectionCount(userID) == expected {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func readText(t *testing.T, conn *ws.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestHub_RegisterAndSend(t *testing.T) {
	hub, dial := testHub(t, 10)
	userID := uuid.New()

	conn := dial(userID)
	require.True(t, waitForClientCount(hub, userID, 1))

	hub.Send(userID, []byte(`{"kind":"maintenance"}`))

	assert.JSONEq(t, `{"kind":"maintenance"}`, readText(t, conn))
}

func TestHub_SendReachesEveryTabOfTheUser(t *testing.T) {
	hub, dial := testHub(t, 10)
	userID := uuid.New()

	conn1 := dial(userID)
	conn2 := dial(userID)
	require.True(t, waitForClientCount(hub, userID, 2))

	hub.Send(userID, []byte("hello"))

	assert.Equal(t, "hello", readText(t, conn1))
	assert.Equal(t, "hello", readText(t, conn2))
}

func TestHub_SendIsScopedToUser(t *testing.T) {
	hub, dial := testHub(t, 10)
	alice, bob := uuid.New(), uuid.New()

	aliceConn := dial(alice)
	bobConn := dial(bob)
	require.True(t, waitForClientCount(hub, alice, 1))
	require.True(t, waitForClientCount(hub, bob, 1))

	hub.Send(alice, []byte("for alice"))
	hub.Send(bob, []byte("for bob"))

	assert.Equal(t, "for alice", readText(t, aliceConn))
	assert.Equal(t, "for bob", readText(t, bobConn))
}

func TestHub_SendWithoutSocketIsDropped(t *testing.T) {
	hub, _ := testHub(t, 10)
	hub.Send(uuid.New(), []byte("nobody listens"))
	assert.Equal(t, 0, hub.TotalConnections())
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, dial := testHub(t, 10)
	userID := uuid.New()

	conn1 := dial(userID)
	dial(userID)
	require.True(t, waitForClientCount(hub, userID, 2))
	assert.Equal(t, 2, hub.TotalConnections())

	conn1.Close()
	require.True(t, waitForClientCount(hub, userID, 1))
	assert.Equal(t, 1, hub.TotalConnections())
}

func TestHub_ConnectionLimit(t *testing.T) {
	hub := NewHub(2, nil)
	t.Cleanup(hub.Stop)

	userID := uuid.New()
	for i := range 2 {
		server, _ := newTestConnPair(t)
		require.NoError(t, hub.Register(userID, server), "client %d", i)
	}

	server, _ := newTestConnPair(t)
	err := hub.Register(uuid.New(), server)
	require.ErrorIs(t, err, ErrTooManyConnections)
	assert.Equal(t, 2, hub.TotalConnections())
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWebSocketMetrics(reg)

	// Driven synchronously, without the run loop, so the send buffer can be
	// filled deterministically.
	hub := &Hub{
		clients:        make(map[uuid.UUID]map[*ws.Conn]*clientWriter),
		maxConnections: 10,
		metrics:        m,
	}
	userID := uuid.New()
	server, client := newTestConnPair(t)

	cw := &clientWriter{conn: server, sendCh: make(chan []byte, 1), done: make(chan struct{})}
	cw.sendCh <- []byte("backlog")
	hub.clients[userID] = map[*ws.Conn]*clientWriter{server: cw}
	hub.total = 1

	hub.handleSend(cmdSend{userID: userID, data: []byte("overflow")})

	assert.Empty(t, hub.clients)
	assert.Equal(t, 0, hub.total)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SlowClientsDropped), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.ActiveConnections), 0)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err, "dropped client should see the connection close")
}

func TestHub_StopClosesClientsAndIsIdempotent(t *testing.T) {
	hub, dial := testHub(t, 10)
	userID := uuid.New()

	conn := dial(userID)
	require.True(t, waitForClientCount(hub, userID, 1))

	hub.Stop()
	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	server, _ := newTestConnPair(t)
	assert.ErrorIs(t, hub.Register(userID, server), ErrHubStopped)
	assert.Equal(t, 0, hub.ConnectionCount(userID))
	hub.Send(userID, []byte("after stop"))
}

// newTestConnPair creates a connected pair of WebSocket connections for testing.
func newTestConnPair(t *testing.T) (server *ws.Conn, client *ws.Conn) {
	t.Helper()
	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *ws.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-ready
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}
