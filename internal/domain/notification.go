package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationMaintenance  NotificationKind = "maintenance"
	NotificationAnnouncement NotificationKind = "announcement"
	NotificationActivity     NotificationKind = "activity"
	NotificationMarket       NotificationKind = "market"
)

type Notification struct {
	ID            uuid.UUID        `json:"id"`
	CondominiumID uuid.UUID        `json:"condominium_id"`
	UserID        uuid.UUID        `json:"user_id"`
	Kind          NotificationKind `json:"kind"`
	Title         string           `json:"title"`
	Body          string           `json:"body"`
	ReferenceID   *uuid.UUID       `json:"reference_id,omitempty"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type NotificationRepository interface {
	CreateMany(ctx context.Context, ns []*Notification) error
	List(ctx context.Context, condominiumID, userID uuid.UUID, unreadOnly bool, page Page) ([]*Notification, error)
	MarkRead(ctx context.Context, condominiumID, userID, id uuid.UUID, at time.Time) error
}

// NotificationPublisher pushes a payload to the live connections of users,
// on this and every other instance. Delivery is best effort.
type NotificationPublisher interface {
	Publish(ctx context.Context, userIDs []uuid.UUID, payload []byte) error
}
