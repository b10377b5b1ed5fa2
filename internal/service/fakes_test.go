package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/emrekip/wellbeing-survey/internal/gateway"
	"github.com/google/uuid"
)

// In-memory repository fakes. The instance fake enforces the same unique
// dispatch key the Postgres index does, so concurrency tests exercise the
// real winner/loser semantics.

type fakeParticipantRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*participant.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{items: make(map[uuid.UUID]*participant.Participant)}
}

func (f *fakeParticipantRepo) Save(_ context.Context, p *participant.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.PhoneNumber == p.PhoneNumber {
			return participant.ErrPhoneNumberTaken
		}
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeParticipantRepo) FindByID(_ context.Context, id uuid.UUID) (*participant.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, participant.ErrNotFound
}

func (f *fakeParticipantRepo) FindByPhone(_ context.Context, phone string) (*participant.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.PhoneNumber == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, participant.ErrNotFound
}

func (f *fakeParticipantRepo) ListActive(_ context.Context) ([]*participant.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*participant.Participant
	for _, p := range f.items {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) List(_ context.Context) ([]*participant.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*participant.Participant
	for _, p := range f.items {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeParticipantRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return participant.ErrNotFound
	}
	p.Active = active
	return nil
}

var _ participant.Repository = (*fakeParticipantRepo)(nil)

type fakeCampaignRepo struct {
	mu    sync.Mutex
	items []*campaign.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo { return &fakeCampaignRepo{} }

func (f *fakeCampaignRepo) Save(_ context.Context, c *campaign.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeCampaignRepo) FindByID(_ context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, campaign.ErrNotFound
}

func (f *fakeCampaignRepo) FindByName(_ context.Context, name string) (*campaign.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, campaign.ErrNotFound
}

func (f *fakeCampaignRepo) List(_ context.Context) ([]*campaign.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*campaign.Campaign, 0, len(f.items))
	for _, c := range f.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCampaignRepo) ListRunning(_ context.Context, today time.Time) ([]*campaign.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*campaign.Campaign
	for _, c := range f.items {
		if c.IsRunning(today) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ campaign.Repository = (*fakeCampaignRepo)(nil)

type dispatchKey struct {
	participantID uuid.UUID
	campaignID    uuid.UUID
	date          time.Time
}

type fakeInstanceRepo struct {
	mu    sync.Mutex
	byKey map[dispatchKey]*survey.Instance
}

func newFakeInstanceRepo() *fakeInstanceRepo {
	return &fakeInstanceRepo{byKey: make(map[dispatchKey]*survey.Instance)}
}

func (f *fakeInstanceRepo) key(in *survey.Instance) dispatchKey {
	return dispatchKey{in.ParticipantID, in.CampaignID, campaign.Day(in.SurveyDate)}
}

func (f *fakeInstanceRepo) Create(_ context.Context, in *survey.Instance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(in)
	if _, exists := f.byKey[k]; exists {
		return survey.ErrInstanceExists
	}
	cp := *in
	f.byKey[k] = &cp
	return nil
}

func (f *fakeInstanceRepo) FindByKey(_ context.Context, participantID, campaignID uuid.UUID, surveyDate time.Time) (*survey.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := dispatchKey{participantID, campaignID, campaign.Day(surveyDate)}
	if in, ok := f.byKey[k]; ok {
		cp := *in
		return &cp, nil
	}
	return nil, survey.ErrInstanceNotFound
}

func (f *fakeInstanceRepo) UpdateStatus(_ context.Context, in *survey.Instance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byKey[f.key(in)]
	if !ok {
		return survey.ErrInstanceNotFound
	}
	stored.Status = in.Status
	stored.ProviderMsgID = in.ProviderMsgID
	stored.SentAt = in.SentAt
	return nil
}

func (f *fakeInstanceRepo) ListSent(_ context.Context, page, limit int) ([]*survey.Instance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*survey.Instance
	for _, in := range f.byKey {
		if in.Status == survey.StatusSent {
			cp := *in
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInstanceRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := campaign.Day(cutoff)
	var n int64
	for k, in := range f.byKey {
		if in.SurveyDate.Before(day) {
			delete(f.byKey, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeInstanceRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byKey)
}

var _ survey.InstanceRepository = (*fakeInstanceRepo)(nil)

type fakeResponseRepo struct {
	mu    sync.Mutex
	items []*survey.Response
}

func newFakeResponseRepo() *fakeResponseRepo { return &fakeResponseRepo{} }

func (f *fakeResponseRepo) Save(_ context.Context, r *survey.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeResponseRepo) ListByPair(_ context.Context, participantID, campaignID uuid.UUID) ([]*survey.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*survey.Response
	for _, r := range f.items {
		if r.ParticipantID == participantID && r.CampaignID == campaignID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) Summarize(_ context.Context, participantID, campaignID uuid.UUID) (*survey.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := &survey.Summary{}
	var joy, ach, mean int
	for _, r := range f.items {
		if r.ParticipantID != participantID || r.CampaignID != campaignID {
			continue
		}
		sum.TotalResponses++
		joy += r.JoyRating
		ach += r.AchievementRating
		mean += r.MeaningfulnessRating
	}
	if sum.TotalResponses > 0 {
		n := float64(sum.TotalResponses)
		sum.AvgJoy = float64(joy) / n
		sum.AvgAchievement = float64(ach) / n
		sum.AvgMeaningfulness = float64(mean) / n
	}
	return sum, nil
}

func (f *fakeResponseRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

var _ survey.ResponseRepository = (*fakeResponseRepo)(nil)

// fakeGateway records sends and can be told to fail. failNext makes the
// next N sends fail, for secondary-failure scenarios.
type fakeGateway struct {
	mu       sync.Mutex
	counter  int
	sent     []sentMessage
	failAll  bool
	failNext int
}

type sentMessage struct {
	To   string
	Body string
}

func newFakeGateway() *fakeGateway { return &fakeGateway{} }

func (f *fakeGateway) Send(_ context.Context, to, body string) (gateway.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || f.failNext > 0 {
		if f.failNext > 0 {
			f.failNext--
		}
		return gateway.Receipt{}, &gateway.DeliveryError{Detail: "provider rejected message"}
	}
	f.counter++
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return gateway.Receipt{
		ProviderID: fmt.Sprintf("fake_%d", f.counter),
		Status:     gateway.StatusQueued,
	}, nil
}

func (f *fakeGateway) Health(context.Context) error { return nil }

func (f *fakeGateway) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeGateway) lastSent() (sentMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}, false
	}
	return f.sent[len(f.sent)-1], true
}

var _ gateway.Gateway = (*fakeGateway)(nil)

// fakeCache is a map-backed cache for asserting set/invalidate behavior.
type fakeCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{items: make(map[string]string)} }

func (f *fakeCache) Ping(context.Context) error { return nil }

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.items[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (f *fakeCache) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

func (f *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	return 0, nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[key]
	return ok
}
