package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
)

// pushEvent is the payload sent over the notification sockets. Clients
// refetch the list for ids and read state.
type pushEvent struct {
	Type        string                  `json:"type"`
	Kind        domain.NotificationKind `json:"kind"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body"`
	ReferenceID *uuid.UUID              `json:"reference_id,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// Notify stores one notification per recipient and then pushes it to their
// open sockets. The push is best effort: a publish failure is logged and the
// stored notifications stay listable.
func (s *Service) Notify(ctx context.Context, condominiumID uuid.UUID, userIDs []uuid.UUID, kind domain.NotificationKind, title, body string, referenceID *uuid.UUID) error {
	userIDs = uniqueIDs(userIDs)
	if len(userIDs) == 0 {
		return nil
	}

	ns := make([]*domain.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		ns = append(ns, &domain.Notification{
			CondominiumID: condominiumID,
			UserID:        id,
			Kind:          kind,
			Title:         title,
			Body:          body,
			ReferenceID:   referenceID,
		})
	}
	if err := s.repos.Notifications.CreateMany(ctx, ns); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}
	if s.metrics != nil {
		s.metrics.Created.WithLabelValues(string(kind)).Add(float64(len(ns)))
	}

	payload, err := json.Marshal(pushEvent{
		Type:        "notification",
		Kind:        kind,
		Title:       title,
		Body:        body,
		ReferenceID: referenceID,
		CreatedAt:   ns[0].CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := s.publisher.Publish(ctx, userIDs, payload); err != nil {
		slog.WarnContext(ctx, "Notification push failed", "kind", kind, "recipients", len(userIDs), "error", err)
	}
	return nil
}

// notifyBestEffort is used after a primary write has succeeded; a failing
// notification must not fail the request.
func (s *Service) notifyBestEffort(ctx context.Context, condominiumID uuid.UUID, userIDs []uuid.UUID, kind domain.NotificationKind, title, body string, referenceID *uuid.UUID) {
	if err := s.Notify(ctx, condominiumID, userIDs, kind, title, body, referenceID); err != nil {
		slog.ErrorContext(ctx, "Notify failed", "condominium_id", condominiumID, "kind", kind, "error", err)
	}
}

func (s *Service) ListNotifications(ctx context.Context, actor Actor, unreadOnly bool, page domain.Page) ([]*domain.Notification, error) {
	return s.repos.Notifications.List(ctx, actor.CondominiumID, actor.UserID, unreadOnly, page)
}

// MarkNotificationRead is idempotent; a notification of another user is not found.
func (s *Service) MarkNotificationRead(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Notifications.MarkRead(ctx, actor.CondominiumID, actor.UserID, id, s.now())
}
