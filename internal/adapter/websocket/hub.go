package websocket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

var (
	ErrHubStopped         = errors.New("hub stopped")
	ErrTooManyConnections = errors.New("too many connections")
)

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	userID uuid.UUID
	conn   *websocket.Conn
	errCh  chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	userID uuid.UUID
	conn   *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdSend struct {
	userID uuid.UUID
	data   []byte
}

func (cmdSend) hubCmd() {}

type cmdCount struct {
	userID  *uuid.UUID
	replyCh chan int
}

func (cmdCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

// clientWriter owns all data writes to one connection. Pings go through
// WriteControl, which gorilla allows concurrently with WriteMessage.
type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-cw.sendCh:
			_ = cw.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := cw.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	_ = cw.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
	_ = cw.conn.Close()
}

// --- Hub ---

// Hub tracks the open notification sockets of each user. A single goroutine
// owns the connection map; the public methods talk to it over cmdCh.
type Hub struct {
	cmdCh          chan hubCmd
	stopped        chan struct{}
	stopOnce       sync.Once
	clients        map[uuid.UUID]map[*websocket.Conn]*clientWriter
	total          int
	maxConnections int
	metrics        *metrics.WebSocketMetrics
}

// NewHub starts the hub loop. maxConnections caps sockets across all users;
// m may be nil.
func NewHub(maxConnections int, m *metrics.WebSocketMetrics) *Hub {
	hub := &Hub{
		cmdCh:          make(chan hubCmd, 256),
		stopped:        make(chan struct{}),
		clients:        make(map[uuid.UUID]map[*websocket.Conn]*clientWriter),
		maxConnections: maxConnections,
		metrics:        m,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			c.errCh <- h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.userID, c.conn)
		case cmdSend:
			h.handleSend(c)
		case cmdCount:
			if c.userID == nil {
				c.replyCh <- h.total
			} else {
				c.replyCh <- len(h.clients[*c.userID])
			}
		case cmdStop:
			h.handleStop()
			close(h.stopped)
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) error {
	if h.total >= h.maxConnections {
		slog.Warn("Rejecting websocket client, connection limit reached", "user_id", c.userID, "max", h.maxConnections)
		if h.metrics != nil {
			h.metrics.Rejected.WithLabelValues("limit").Inc()
		}
		return fmt.Errorf("%w: max %d", ErrTooManyConnections, h.maxConnections)
	}

	clients, exists := h.clients[c.userID]
	if !exists {
		clients = make(map[*websocket.Conn]*clientWriter)
		h.clients[c.userID] = clients
	}
	clients[c.conn] = newClientWriter(c.conn)
	h.total++
	h.observeConnections()
	slog.Debug("Websocket client registered", "user_id", c.userID, "user_clients", len(clients), "total", h.total)
	return nil
}

func (h *Hub) handleUnregister(userID uuid.UUID, conn *websocket.Conn) {
	clients, exists := h.clients[userID]
	if !exists {
		return
	}
	cw, exists := clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, conn)
	h.total--
	h.observeConnections()

	if len(clients) == 0 {
		delete(h.clients, userID)
	}
	slog.Debug("Websocket client unregistered", "user_id", userID, "total", h.total)
}

func (h *Hub) handleSend(c cmdSend) {
	clients, exists := h.clients[c.userID]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, cw := range clients {
		select {
		case cw.sendCh <- c.data:
			if h.metrics != nil {
				h.metrics.MessagesSent.Inc()
			}
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Info("Disconnecting slow websocket client", "user_id", c.userID)
		if h.metrics != nil {
			h.metrics.SlowClientsDropped.Inc()
		}
		h.handleUnregister(c.userID, conn)
	}
}

func (h *Hub) handleStop() {
	for userID, clients := range h.clients {
		for _, cw := range clients {
			cw.stop()
		}
		delete(h.clients, userID)
	}
	h.total = 0
	h.observeConnections()
}

func (h *Hub) observeConnections() {
	if h.metrics != nil {
		h.metrics.ActiveConnections.Set(float64(h.total))
	}
}

func (h *Hub) submit(cmd hubCmd) bool {
	select {
	case h.cmdCh <- cmd:
		return true
	case <-h.stopped:
		return false
	}
}

// --- Public API ---

// Register adds conn to the user's sockets. On error the caller still owns
// conn and should close it.
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	if !h.submit(cmdRegister{userID: userID, conn: conn, errCh: errCh}) {
		return ErrHubStopped
	}
	select {
	case err := <-errCh:
		return err
	case <-h.stopped:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.submit(cmdUnregister{userID: userID, conn: conn})
}

// Send queues data to every open socket of the user. Users without a socket
// are skipped; there is no buffering for later delivery.
func (h *Hub) Send(userID uuid.UUID, data []byte) {
	h.submit(cmdSend{userID: userID, data: data})
}

// ConnectionCount returns the number of open sockets of one user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	return h.count(&userID)
}

// TotalConnections returns the number of open sockets across all users.
func (h *Hub) TotalConnections() int {
	return h.count(nil)
}

func (h *Hub) count(userID *uuid.UUID) int {
	replyCh := make(chan int, 1)
	if !h.submit(cmdCount{userID: userID, replyCh: replyCh}) {
		return 0
	}
	select {
	case n := <-replyCh:
		return n
	case <-h.stopped:
		return 0
	}
}

// Stop closes every socket and ends the hub loop. It is safe to call more
// than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { h.cmdCh <- cmdStop{} })
	<-h.stopped
}
