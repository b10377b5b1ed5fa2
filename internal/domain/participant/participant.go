// Package participant holds the domain model and invariants for survey participants.
package participant

import (
	"errors"
	"github.com/google/uuid"
	"strings"
	"time"
)

var (
	// ErrEmptyPhoneNumber is returned when no contact phone number is provided.
	ErrEmptyPhoneNumber = errors.New("participant phone number is required")
	// ErrNotFound is returned when no participant matches the lookup.
	ErrNotFound = errors.New("participant not found")
	// ErrPhoneNumberTaken is returned when the phone number is already enrolled.
	ErrPhoneNumberTaken = errors.New("participant with this phone number already exists")
)

// Participant is a person enrolled to receive surveys, identified by their
// contact phone number. Participants are never deleted, only deactivated.
type Participant struct {
	ID          uuid.UUID
	Name        string
	PhoneNumber string
	Active      bool
	CreatedAt   time.Time
}

// New constructs an active Participant and enforces basic domain rules.
// An empty name is allowed; outbound messages fall back to a generic greeting.
func New(name, phoneNumber string) (*Participant, error) {
	name = strings.TrimSpace(name)
	phoneNumber = strings.TrimSpace(phoneNumber)

	if phoneNumber == "" {
		return nil, ErrEmptyPhoneNumber
	}

	return &Participant{
		ID:          uuid.New(),
		Name:        name,
		PhoneNumber: phoneNumber,
		Active:      true,
		CreatedAt:   time.Now(),
	}, nil
}
