package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/google/uuid"
)

// Defaults used by the admin test-send path when the target participant or
// campaign does not exist yet.
const (
	testParticipantName  = "Test User"
	testCampaignName     = "Test Campaign"
	testCampaignDuration = 30 * 24 * time.Hour
)

// RosterService covers the admin-facing participant and campaign operations.
// It is plumbing around the store; the engine only depends on the rows it
// maintains.
type RosterService interface {
	RegisterParticipant(ctx context.Context, name, phone string) (*participant.Participant, error)
	SetParticipantActive(ctx context.Context, id uuid.UUID, active bool) error
	ListParticipants(ctx context.Context) ([]*participant.Participant, error)

	CreateCampaign(ctx context.Context, name, description string, start, end time.Time) (*campaign.Campaign, error)
	ListCampaigns(ctx context.Context) ([]*campaign.Campaign, error)

	// TestSend dispatches an ad hoc survey to the given phone number,
	// creating a test participant and campaign as needed. It reuses the
	// standard dispatch idempotency: a second test send on the same day
	// returns the original instance.
	TestSend(ctx context.Context, phone string, now time.Time) (*survey.Instance, error)
}

type rosterService struct {
	participants participant.Repository
	campaigns    campaign.Repository
	dispatch     DispatchService
}

// NewRosterService creates a roster service.
func NewRosterService(
	participants participant.Repository,
	campaigns campaign.Repository,
	dispatch DispatchService,
) RosterService {
	return &rosterService{
		participants: participants,
		campaigns:    campaigns,
		dispatch:     dispatch,
	}
}

func (s *rosterService) RegisterParticipant(ctx context.Context, name, phone string) (*participant.Participant, error) {
	p, err := participant.New(name, phone)
	if err != nil {
		return nil, err
	}
	if err := s.participants.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *rosterService) SetParticipantActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.participants.SetActive(ctx, id, active)
}

func (s *rosterService) ListParticipants(ctx context.Context) ([]*participant.Participant, error) {
	return s.participants.List(ctx)
}

func (s *rosterService) CreateCampaign(ctx context.Context, name, description string, start, end time.Time) (*campaign.Campaign, error) {
	c, err := campaign.New(name, description, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *rosterService) ListCampaigns(ctx context.Context) ([]*campaign.Campaign, error) {
	return s.campaigns.List(ctx)
}

func (s *rosterService) TestSend(ctx context.Context, phone string, now time.Time) (*survey.Instance, error) {
	p, err := s.participants.FindByPhone(ctx, phone)
	if errors.Is(err, participant.ErrNotFound) {
		p, err = s.RegisterParticipant(ctx, testParticipantName, phone)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve test participant: %w", err)
	}

	c, err := s.campaigns.FindByName(ctx, testCampaignName)
	if errors.Is(err, campaign.ErrNotFound) {
		c, err = s.CreateCampaign(ctx, testCampaignName, "", now, now.Add(testCampaignDuration))
	}
	if err != nil {
		return nil, fmt.Errorf("resolve test campaign: %w", err)
	}

	return s.dispatch.Dispatch(ctx, p, c, now)
}
