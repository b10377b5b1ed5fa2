package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/cache"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/emrekip/wellbeing-survey/internal/gateway"
)

var (
	// ErrInactiveParticipant is returned when dispatch is requested for a
	// participant that is not active.
	ErrInactiveParticipant = errors.New("participant is not active")
)

// DispatchService ensures every eligible (participant, campaign, day) triple
// has exactly one outbound survey instance and performs the actual send.
type DispatchService interface {
	// Dispatch idempotently creates and sends the survey instance for the
	// given key. A second call for the same key returns the stored instance
	// unchanged, whatever its status; even failed instances are not retried.
	Dispatch(ctx context.Context, p *participant.Participant, c *campaign.Campaign, date time.Time) (*survey.Instance, error)

	// RunDailyBatch dispatches to every active participant of every running
	// campaign. Per-participant failures are logged and never abort the batch.
	RunDailyBatch(ctx context.Context, now time.Time) error

	// PurgeOlderThan removes instances dated strictly before cutoff and
	// returns how many rows were deleted. Idempotent.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// ListSent returns a paginated list of sent instances.
	ListSent(ctx context.Context, page, limit int) ([]*survey.Instance, int64, error)
}

type dispatchService struct {
	instances    survey.InstanceRepository
	participants participant.Repository
	campaigns    campaign.Repository
	gw           gateway.Gateway
	cache        cache.Cache

	maxWorkers        int
	perMessageTimeout time.Duration
}

// NewDispatchService creates a dispatch service with the given dependencies
// and batch settings. The config values are passed explicitly from the
// caller so this package does not depend on env.
func NewDispatchService(
	instances survey.InstanceRepository,
	participants participant.Repository,
	campaigns campaign.Repository,
	gw gateway.Gateway,
	cache cache.Cache,
	maxWorkers int,
	perMessageTimeout time.Duration,
) DispatchService {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if perMessageTimeout <= 0 {
		perMessageTimeout = 5 * time.Second
	}

	return &dispatchService{
		instances:         instances,
		participants:      participants,
		campaigns:         campaigns,
		gw:                gw,
		cache:             cache,
		maxWorkers:        maxWorkers,
		perMessageTimeout: perMessageTimeout,
	}
}

// Dispatch implements the idempotent create-then-send flow.
//
// The pending row is written before any network call: a crash mid-send
// leaves a recoverable pending record instead of silent loss. The unique
// dispatch key in the store settles concurrent callers; a loser re-reads
// and returns the winner's row.
func (s *dispatchService) Dispatch(ctx context.Context, p *participant.Participant, c *campaign.Campaign, date time.Time) (*survey.Instance, error) {
	if !p.Active {
		return nil, ErrInactiveParticipant
	}

	existing, err := s.instances.FindByKey(ctx, p.ID, c.ID, date)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, survey.ErrInstanceNotFound) {
		return nil, fmt.Errorf("lookup survey instance: %w", err)
	}

	in := survey.NewInstance(p.ID, c.ID, date)
	if err := s.instances.Create(ctx, in); err != nil {
		if errors.Is(err, survey.ErrInstanceExists) {
			// A concurrent dispatch won the insert; return its row.
			return s.instances.FindByKey(ctx, p.ID, c.ID, date)
		}
		return nil, fmt.Errorf("create survey instance: %w", err)
	}

	body := RenderSurveyBody(p.Name, in.SurveyDate)

	receipt, err := s.gw.Send(ctx, p.PhoneNumber, body)
	if err != nil {
		in.MarkFailed()
		if uErr := s.instances.UpdateStatus(ctx, in); uErr != nil {
			log.Printf("[Dispatch] Failed to persist failed status for %s: %v", in.ID, uErr)
		}
		return in, fmt.Errorf("send survey to %s: %w", p.PhoneNumber, err)
	}

	in.MarkSent(receipt.ProviderID)
	if err := s.instances.UpdateStatus(ctx, in); err != nil {
		return in, fmt.Errorf("persist sent status for %s: %w", in.ID, err)
	}

	// Best-effort: cache the sent timestamp keyed by provider message id.
	if s.cache != nil && receipt.ProviderID != "" && in.SentAt != nil {
		key := cache.SentInstances.Key(receipt.ProviderID)
		if err := s.cache.Set(ctx, key, in.SentAt.Format(time.RFC3339), 24*time.Hour); err != nil {
			log.Printf("[Dispatch] Failed to cache sent timestamp for %s: %v", receipt.ProviderID, err)
		}
	}

	return in, nil
}

// RunDailyBatch fans dispatch out over a small worker pool per campaign.
// Keys are disjoint across participants, so parallel dispatch is safe.
func (s *dispatchService) RunDailyBatch(ctx context.Context, now time.Time) error {
	running, err := s.campaigns.ListRunning(ctx, now)
	if err != nil {
		return fmt.Errorf("list running campaigns: %w", err)
	}
	if len(running) == 0 {
		log.Println("[Dispatch] No running campaigns; nothing to send.")
		return nil
	}

	active, err := s.participants.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active participants: %w", err)
	}
	if len(active) == 0 {
		log.Println("[Dispatch] No active participants; nothing to send.")
		return nil
	}

	for _, camp := range running {
		s.dispatchCampaign(ctx, camp, active, now)
	}
	return nil
}

func (s *dispatchService) dispatchCampaign(ctx context.Context, camp *campaign.Campaign, participants []*participant.Participant, now time.Time) {
	log.Printf("[Dispatch] Campaign %q: dispatching to %d participants (maxWorkers=%d)...",
		camp.Name, len(participants), s.maxWorkers)

	workerCount := len(participants)
	if workerCount > s.maxWorkers {
		workerCount = s.maxWorkers
	}

	var wg sync.WaitGroup

	// Each worker processes a stride of the participant list: with 4
	// workers, worker 1 takes indices 0, 4, 8... and so on.
	for w := 0; w < workerCount; w++ {
		wg.Add(1)

		go func(workerID, start int) {
			defer wg.Done()

			for i := start; i < len(participants); i += workerCount {
				if ctx.Err() != nil {
					log.Printf("[Dispatch] Worker %d: context cancelled, stopping", workerID)
					return
				}

				p := participants[i]

				msgCtx, cancel := context.WithTimeout(ctx, s.perMessageTimeout)
				_, err := s.Dispatch(msgCtx, p, camp, now)
				cancel()

				// A single participant's failure must not abort the batch.
				if err != nil {
					log.Printf("[Dispatch] Worker %d: failed for %s: %v", workerID, p.PhoneNumber, err)
					continue
				}
			}
		}(w+1, w)
	}

	wg.Wait()
	log.Printf("[Dispatch] Campaign %q: batch completed.", camp.Name)
}

// PurgeOlderThan deletes instances outside the retention window.
func (s *dispatchService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.instances.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge survey instances: %w", err)
	}
	log.Printf("[Dispatch] Purged %d survey instances older than %s", n, cutoff.Format("2006-01-02"))
	return n, nil
}

func (s *dispatchService) ListSent(ctx context.Context, page, limit int) ([]*survey.Instance, int64, error) {
	return s.instances.ListSent(ctx, page, limit)
}

// RenderSurveyBody produces the outbound survey prompt. The reply
// instruction line and the worked example are a compatibility contract
// with participants who learned the format; do not reword them.
func RenderSurveyBody(name string, surveyDate time.Time) string {
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(`Hi %s! 🌟

Daily Wellbeing Check-in for %s:

Please rate your day yesterday (1-10):

1️⃣ Joy: How much joy did you get?
2️⃣ Achievement: How much achievement did you get?
3️⃣ Meaningfulness: How much meaningfulness did you get?
4️⃣ Influence: What influenced your ratings most?

Reply with: joy/achievement/meaningfulness/influence
Example: 8/7/9/Spent time with family

Thank you for participating! 💙`, name, surveyDate.Format("January 02, 2006"))
}
