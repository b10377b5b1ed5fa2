// Package survey holds the survey-message lifecycle entities: the outbound
// SurveyInstance with its idempotent dispatch key, and the inbound Response.
package survey

import (
	"errors"
	"github.com/google/uuid"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

var (
	// ErrInstanceExists is returned when an instance for the same
	// (participant, campaign, survey date) key already exists.
	ErrInstanceExists = errors.New("survey instance already exists for this key")
	// ErrInstanceNotFound is returned when no instance matches the lookup.
	ErrInstanceNotFound = errors.New("survey instance not found")
)

// Instance is one scheduled/sent survey occurrence for one participant, one
// campaign, one calendar day. The (ParticipantID, CampaignID, SurveyDate)
// triple is unique; it is the idempotency boundary for dispatch.
//
// Status is monotonic: pending -> sent | failed, terminal thereafter.
type Instance struct {
	ID            uuid.UUID
	ParticipantID uuid.UUID
	CampaignID    uuid.UUID
	SurveyDate    time.Time
	ProviderMsgID string
	Status        Status
	SentAt        *time.Time
	CreatedAt     time.Time
}

// NewInstance constructs a pending Instance for the given dispatch key.
// The survey date is truncated to its calendar day.
func NewInstance(participantID, campaignID uuid.UUID, surveyDate time.Time) *Instance {
	return &Instance{
		ID:            uuid.New(),
		ParticipantID: participantID,
		CampaignID:    campaignID,
		SurveyDate:    day(surveyDate),
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
}

// MarkSent records the provider message id and moves the instance to sent.
func (i *Instance) MarkSent(providerMsgID string) {
	now := time.Now()
	i.ProviderMsgID = providerMsgID
	i.SentAt = &now
	i.Status = StatusSent
}

// MarkFailed moves the instance to failed. No automatic retry follows;
// a failed instance stays failed for its key.
func (i *Instance) MarkFailed() {
	i.Status = StatusFailed
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
