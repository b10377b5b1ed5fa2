package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/cache"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/emrekip/wellbeing-survey/internal/gateway"
)

var (
	// ErrUnknownSender is returned when the inbound address matches no
	// enrolled participant. Nothing is written.
	ErrUnknownSender = errors.New("sender does not match any participant")

	// ErrMalformedResponse is returned when the reply body does not parse
	// into at least four '/'-separated fields with three leading integers.
	ErrMalformedResponse = errors.New("response body is not in joy/achievement/meaningfulness/influence format")

	// ErrNoActiveCampaign is returned when no campaign is running at
	// ingest time.
	ErrNoActiveCampaign = errors.New("no active campaign")

	// ErrAmbiguousCampaign is returned in strict mode when more than one
	// campaign is running and the reply cannot be attributed.
	ErrAmbiguousCampaign = errors.New("multiple campaigns are running; cannot attribute response")
)

// IngestResult is returned on a successful ingest. ConfirmationErr carries a
// secondary confirmation-send failure; the response itself stays committed.
type IngestResult struct {
	Response        *survey.Response
	FeedbackURL     string
	ConfirmationErr error
}

// ReconcileService turns one inbound text message into a persisted,
// structured Response and triggers a confirmation send.
type ReconcileService interface {
	Ingest(ctx context.Context, fromAddress, rawBody string) (*IngestResult, error)
}

type reconcileService struct {
	participants participant.Repository
	campaigns    campaign.Repository
	instances    survey.InstanceRepository
	responses    survey.ResponseRepository
	gw           gateway.Gateway
	cache        cache.Cache

	baseURL               string
	requireSingleCampaign bool
}

// NewReconcileService creates a reconciliation service. baseURL is the
// public origin used to build feedback links. When requireSingleCampaign is
// set, ingest rejects replies while several campaigns run concurrently;
// otherwise the oldest running campaign wins.
func NewReconcileService(
	participants participant.Repository,
	campaigns campaign.Repository,
	instances survey.InstanceRepository,
	responses survey.ResponseRepository,
	gw gateway.Gateway,
	cache cache.Cache,
	baseURL string,
	requireSingleCampaign bool,
) ReconcileService {
	return &reconcileService{
		participants:          participants,
		campaigns:             campaigns,
		instances:             instances,
		responses:             responses,
		gw:                    gw,
		cache:                 cache,
		baseURL:               strings.TrimRight(baseURL, "/"),
		requireSingleCampaign: requireSingleCampaign,
	}
}

// Ingest validates strictly before persisting: sender resolution, body
// parsing and campaign resolution all happen before the insert, so every
// failure path leaves zero rows behind.
func (s *reconcileService) Ingest(ctx context.Context, fromAddress, rawBody string) (*IngestResult, error) {
	p, err := s.participants.FindByPhone(ctx, strings.TrimSpace(fromAddress))
	if err != nil {
		if errors.Is(err, participant.ErrNotFound) {
			return nil, ErrUnknownSender
		}
		return nil, fmt.Errorf("resolve sender: %w", err)
	}

	joy, achievement, meaningfulness, influence, err := parseReply(rawBody)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	camp, err := s.resolveCampaign(ctx, now)
	if err != nil {
		return nil, err
	}

	resp := survey.NewResponse(p.ID, camp.ID, now, joy, achievement, meaningfulness, influence)

	// Link the reply to today's dispatched instance when one exists. The
	// link is best-effort: replies are accepted on days with no dispatch.
	if in, err := s.instances.FindByKey(ctx, p.ID, camp.ID, now); err == nil {
		resp.LinkInstance(in.ID)
	}

	if err := s.responses.Save(ctx, resp); err != nil {
		return nil, fmt.Errorf("persist response: %w", err)
	}

	// The cached analytics summary for this pair is now stale.
	if s.cache != nil {
		key := cache.AnalyticsSummary.PairKey(p.ID.String(), camp.ID.String())
		if err := s.cache.Del(ctx, key); err != nil {
			log.Printf("[Reconcile] Failed to invalidate analytics cache for %s: %v", key, err)
		}
	}

	feedbackURL := fmt.Sprintf("%s/feedback/%s/%s", s.baseURL, p.ID, camp.ID)

	result := &IngestResult{
		Response:    resp,
		FeedbackURL: feedbackURL,
	}

	// The confirmation send is secondary: a failure here is reported but
	// never rolls back the committed response.
	confirmation := fmt.Sprintf("Thank you for your response! 🌟 View your personalized wellbeing insights: %s", feedbackURL)
	if _, err := s.gw.Send(ctx, p.PhoneNumber, confirmation); err != nil {
		log.Printf("[Reconcile] Confirmation send to %s failed: %v", p.PhoneNumber, err)
		result.ConfirmationErr = err
	}

	return result, nil
}

// resolveCampaign picks "the" campaign an unaddressed inbound reply belongs
// to. Zero running campaigns is a hard failure; several running campaigns is
// either rejected (strict) or settled oldest-first (lenient).
func (s *reconcileService) resolveCampaign(ctx context.Context, now time.Time) (*campaign.Campaign, error) {
	running, err := s.campaigns.ListRunning(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list running campaigns: %w", err)
	}

	switch {
	case len(running) == 0:
		return nil, ErrNoActiveCampaign
	case len(running) > 1 && s.requireSingleCampaign:
		return nil, ErrAmbiguousCampaign
	default:
		return running[0], nil
	}
}

// parseReply splits a raw reply on '/' into joy, achievement and
// meaningfulness ratings plus the influence note. Only the first three
// slashes delimit; everything after them is the note verbatim.
func parseReply(raw string) (joy, achievement, meaningfulness int, influence string, err error) {
	parts := strings.SplitN(raw, "/", 4)
	if len(parts) < 4 {
		return 0, 0, 0, "", ErrMalformedResponse
	}

	joy, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, 0, "", ErrMalformedResponse
	}
	achievement, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, 0, "", ErrMalformedResponse
	}
	meaningfulness, err = strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return 0, 0, 0, "", ErrMalformedResponse
	}

	return joy, achievement, meaningfulness, strings.TrimSpace(parts[3]), nil
}
