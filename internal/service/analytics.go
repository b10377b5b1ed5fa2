package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/cache"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/google/uuid"
)

// summaryCacheTTL bounds staleness if an invalidation is missed.
const summaryCacheTTL = 10 * time.Minute

// Analytics bundles the aggregate summary and the raw responses for one
// (participant, campaign) pair.
type Analytics struct {
	Participant *participant.Participant
	Campaign    *campaign.Campaign
	Summary     *survey.Summary
	Responses   []*survey.Response
}

// AnalyticsService computes read-side wellbeing aggregates. It only reads
// rows the engine produced; the engine itself never computes analytics.
type AnalyticsService interface {
	ForPair(ctx context.Context, participantID, campaignID uuid.UUID) (*Analytics, error)
}

type analyticsService struct {
	participants participant.Repository
	campaigns    campaign.Repository
	responses    survey.ResponseRepository
	cache        cache.Cache
}

// NewAnalyticsService creates an analytics service backed by the response
// store with a cache in front of the aggregate query.
func NewAnalyticsService(
	participants participant.Repository,
	campaigns campaign.Repository,
	responses survey.ResponseRepository,
	cache cache.Cache,
) AnalyticsService {
	return &analyticsService{
		participants: participants,
		campaigns:    campaigns,
		responses:    responses,
		cache:        cache,
	}
}

func (s *analyticsService) ForPair(ctx context.Context, participantID, campaignID uuid.UUID) (*Analytics, error) {
	p, err := s.participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	c, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, participantID, campaignID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.ListByPair(ctx, participantID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	return &Analytics{
		Participant: p,
		Campaign:    c,
		Summary:     summary,
		Responses:   responses,
	}, nil
}

// summarize serves the aggregate from cache when possible. Cache failures
// are logged and fall through to the store.
func (s *analyticsService) summarize(ctx context.Context, participantID, campaignID uuid.UUID) (*survey.Summary, error) {
	key := cache.AnalyticsSummary.PairKey(participantID.String(), campaignID.String())

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached survey.Summary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.responses.Summarize(ctx, participantID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("summarize responses: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), summaryCacheTTL); err != nil {
				log.Printf("[Analytics] Failed to cache summary for %s: %v", key, err)
			}
		}
	}

	return summary, nil
}
