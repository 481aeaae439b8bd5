package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID            uuid.UUID  `json:"id"`
	CondominiumID uuid.UUID  `json:"condominium_id"`
	AuthorID      uuid.UUID  `json:"author_id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Pinned        bool       `json:"pinned"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (a *Announcement) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*Announcement, error)
	// List returns pinned first, then newest; expired ones only when includeExpired.
	List(ctx context.Context, condominiumID uuid.UUID, now time.Time, includeExpired bool, page Page) ([]*Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}
