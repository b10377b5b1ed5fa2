package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for Campaign aggregates.
type Repository interface {
	// Save persists a new campaign.
	Save(ctx context.Context, c *Campaign) error

	// FindByID returns the campaign with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Campaign, error)

	// FindByName returns the campaign with the given name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*Campaign, error)

	// List returns every campaign.
	List(ctx context.Context) ([]*Campaign, error)

	// ListRunning returns active campaigns whose window contains the given
	// day, ordered by creation time ascending.
	ListRunning(ctx context.Context, today time.Time) ([]*Campaign, error)
}
