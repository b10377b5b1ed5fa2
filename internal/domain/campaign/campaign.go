// Package campaign holds the domain model for time-bounded survey campaigns.
package campaign

import (
	"errors"
	"github.com/google/uuid"
	"strings"
	"time"
)

var (
	// ErrEmptyName is returned when no campaign name is provided.
	ErrEmptyName = errors.New("campaign name is required")
	// ErrInvalidWindow is returned when the end date precedes the start date.
	ErrInvalidWindow = errors.New("campaign end date must not precede start date")
	// ErrNotFound is returned when no campaign matches the lookup.
	ErrNotFound = errors.New("campaign not found")
)

// Campaign is a survey initiative with an inclusive start/end date window.
// All active participants are implicitly eligible while it runs.
type Campaign struct {
	ID          uuid.UUID
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Active      bool
	CreatedAt   time.Time
}

// New constructs an active Campaign. Both window dates are inclusive and
// a single-day campaign (start == end) is valid.
func New(name, description string, start, end time.Time) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	start = Day(start)
	end = Day(end)
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	return &Campaign{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		StartDate:   start,
		EndDate:     end,
		Active:      true,
		CreatedAt:   time.Now(),
	}, nil
}

// IsRunning reports whether the campaign is active and the given day falls
// inside its inclusive date window.
func (c *Campaign) IsRunning(today time.Time) bool {
	if !c.Active {
		return false
	}
	d := Day(today)
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}

// Day truncates a timestamp to its calendar day in UTC. Survey dates and
// campaign windows are compared at day granularity only.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
