package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/gorilla/websocket"
)

const maxMessageSize = 512

// TokenVerifier resolves a bearer token to the authenticated user.
type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

// AccountChecker rejects tokens whose account was deactivated or deleted.
type AccountChecker interface {
	Authenticate(ctx context.Context, p *auth.Principal) (*domain.User, error)
}

// Handler upgrades authenticated requests to notification sockets. The
// socket is push-only: inbound frames are read and discarded so that pongs
// and close frames are processed.
type Handler struct {
	hub      *Hub
	verifier TokenVerifier
	accounts AccountChecker
	upgrader websocket.Upgrader
	metrics  *metrics.WebSocketMetrics
}

func NewHandler(hub *Hub, verifier TokenVerifier, accounts AccountChecker, checkOrigin func(*http.Request) bool, m *metrics.WebSocketMetrics) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		accounts: accounts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		metrics: m,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, err := h.verifier.Verify(tokenFromRequest(r))
	if err != nil {
		h.reject("unauthorized")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if _, err := h.accounts.Authenticate(r.Context(), principal); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.reject("error")
			slog.ErrorContext(r.Context(), "Websocket account check failed", "user_id", principal.UserID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		h.reject("unauthorized")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.reject("upgrade")
		slog.Debug("Websocket upgrade failed", "error", err)
		return
	}

	if err := h.hub.Register(principal.UserID, conn); err != nil {
		code := websocket.CloseInternalServerErr
		if errors.Is(err, ErrTooManyConnections) {
			code = websocket.CloseTryAgainLater
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, err.Error()), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer h.hub.Unregister(principal.UserID, conn)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("Websocket closed unexpectedly", "user_id", principal.UserID, "error", err)
			}
			return
		}
	}
}

func (h *Handler) reject(reason string) {
	if h.metrics != nil {
		h.metrics.Rejected.WithLabelValues(reason).Inc()
	}
}

// tokenFromRequest prefers the token query parameter since browsers cannot
// set headers on a WebSocket handshake.
func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return bearer
	}
	return ""
}
