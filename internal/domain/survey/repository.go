package survey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InstanceRepository defines persistence for survey instances.
//
// Create must be atomic with respect to the (participant, campaign, date)
// uniqueness key: of two concurrent creates for the same key exactly one
// wins and the other receives ErrInstanceExists. Implementations enforce
// this with a store-level unique constraint, not an application lock.
type InstanceRepository interface {
	// Create inserts a new instance. Returns ErrInstanceExists when an
	// instance with the same dispatch key is already stored.
	Create(ctx context.Context, in *Instance) error

	// FindByKey returns the instance for the given dispatch key,
	// or ErrInstanceNotFound.
	FindByKey(ctx context.Context, participantID, campaignID uuid.UUID, surveyDate time.Time) (*Instance, error)

	// UpdateStatus persists the current status, provider id and sent
	// timestamp of an instance.
	UpdateStatus(ctx context.Context, in *Instance) error

	// ListSent returns a paginated list of sent instances, newest first,
	// along with the total number of sent records.
	ListSent(ctx context.Context, page, limit int) ([]*Instance, int64, error)

	// DeleteBefore permanently removes instances whose survey date is
	// strictly before cutoff and returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ResponseRepository defines persistence for survey responses.
type ResponseRepository interface {
	// Save inserts a new response. Inserts are unconditional: a participant
	// may submit several responses for the same day.
	Save(ctx context.Context, r *Response) error

	// ListByPair returns responses for a (participant, campaign) pair
	// ordered by survey date descending.
	ListByPair(ctx context.Context, participantID, campaignID uuid.UUID) ([]*Response, error)

	// Summarize computes rating averages for a (participant, campaign) pair.
	Summarize(ctx context.Context, participantID, campaignID uuid.UUID) (*Summary, error)
}
