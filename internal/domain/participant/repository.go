package participant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for Participant aggregates.
//
// It is implemented by infrastructure layers (e.g. GORM) while the domain
// and service layers depend only on this interface.
type Repository interface {
	// Save persists a new participant.
	Save(ctx context.Context, p *Participant) error

	// FindByID returns the participant with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Participant, error)

	// FindByPhone returns the participant with the given contact address,
	// or ErrNotFound. Matching is exact.
	FindByPhone(ctx context.Context, phone string) (*Participant, error)

	// ListActive returns every participant currently flagged active.
	ListActive(ctx context.Context) ([]*Participant, error)

	// List returns every enrolled participant.
	List(ctx context.Context) ([]*Participant, error)

	// SetActive flips the active flag for the given participant.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
