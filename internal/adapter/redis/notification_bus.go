package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const notificationChannel = "notifications"

// Deliverer hands a payload to the sockets a user has open on this instance.
type Deliverer interface {
	Send(userID uuid.UUID, data []byte)
}

// busMessage is the wire format on the notifications channel.
type busMessage struct {
	UserIDs []uuid.UUID     `json:"user_ids"`
	Payload json.RawMessage `json:"payload"`
}

// NotificationBus fans notifications out to every instance through Redis
// pub/sub. Each instance delivers to its own sockets; users without an open
// socket on any instance simply miss the push.
type NotificationBus struct {
	rdb       *goredis.Client
	deliverer Deliverer
	metrics   *metrics.NotificationMetrics
}

var _ domain.NotificationPublisher = (*NotificationBus)(nil)

func NewNotificationBus(rdb *goredis.Client, deliverer Deliverer, m *metrics.NotificationMetrics) *NotificationBus {
	return &NotificationBus{rdb: rdb, deliverer: deliverer, metrics: m}
}

// Publish requires payload to be valid JSON.
func (b *NotificationBus) Publish(ctx context.Context, userIDs []uuid.UUID, payload []byte) error {
	if len(userIDs) == 0 {
		return nil
	}
	if !json.Valid(payload) {
		return fmt.Errorf("notification payload is not valid JSON")
	}

	data, err := json.Marshal(busMessage{UserIDs: userIDs, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := b.rdb.Publish(ctx, notificationChannel, data).Err(); err != nil {
		b.count("error")
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	b.count("ok")
	return nil
}

// Run delivers messages from the bus to the local deliverer until ctx is
// cancelled. It blocks.
func (b *NotificationBus) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, notificationChannel)
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	slog.Info("Notification bus subscribed", "channel", notificationChannel)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.deliver(msg.Payload)
		case <-ctx.Done():
			return
		}
	}
}

func (b *NotificationBus) deliver(raw string) {
	var msg busMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		slog.Warn("Dropping malformed notification message", "error", err)
		return
	}

	for _, userID := range msg.UserIDs {
		b.deliverer.Send(userID, msg.Payload)
	}
	if b.metrics != nil {
		b.metrics.Delivered.Inc()
	}
}

func (b *NotificationBus) count(result string) {
	if b.metrics != nil {
		b.metrics.Published.WithLabelValues(result).Inc()
	}
}
