package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/cache"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/stretchr/testify/require"
)

type dispatchFixture struct {
	instances    *fakeInstanceRepo
	participants *fakeParticipantRepo
	campaigns    *fakeCampaignRepo
	gw           *fakeGateway
	cache        *fakeCache
	svc          DispatchService
}

func newDispatchFixture(t *testing.T, maxWorkers int) *dispatchFixture {
	t.Helper()

	f := &dispatchFixture{
		instances:    newFakeInstanceRepo(),
		participants: newFakeParticipantRepo(),
		campaigns:    newFakeCampaignRepo(),
		gw:           newFakeGateway(),
		cache:        newFakeCache(),
	}
	f.svc = NewDispatchService(f.instances, f.participants, f.campaigns, f.gw, f.cache, maxWorkers, time.Second)
	return f
}

func (f *dispatchFixture) addParticipant(t *testing.T, name, phone string) *participant.Participant {
	t.Helper()

	p, err := participant.New(name, phone)
	require.NoError(t, err)
	require.NoError(t, f.participants.Save(context.Background(), p))
	return p
}

func (f *dispatchFixture) addCampaign(t *testing.T, name string, start, end time.Time) *campaign.Campaign {
	t.Helper()

	c, err := campaign.New(name, "", start, end)
	require.NoError(t, err)
	require.NoError(t, f.campaigns.Save(context.Background(), c))
	return c
}

func TestDispatchSendsAndMarksSent(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)

	now := time.Now()
	p := f.addParticipant(t, "Alice", "+15550000001")
	c := f.addCampaign(t, "Spring Check-in", now, now.AddDate(0, 0, 7))

	in, err := f.svc.Dispatch(ctx, p, c, now)
	require.NoError(t, err)
	require.Equal(t, survey.StatusSent, in.Status)
	require.NotEmpty(t, in.ProviderMsgID)
	require.NotNil(t, in.SentAt)

	msg, ok := f.gw.lastSent()
	require.True(t, ok)
	require.Equal(t, p.PhoneNumber, msg.To)
	require.Contains(t, msg.Body, "Hi Alice!")
	require.Contains(t, msg.Body, "Reply with: joy/achievement/meaningfulness/influence")

	// Sent timestamp is cached under the provider message id.
	require.True(t, f.cache.has(cache.SentInstances.Key(in.ProviderMsgID)))

	// The stored row reflects the sent status.
	stored, err := f.instances.FindByKey(ctx, p.ID, c.ID, now)
	require.NoError(t, err)
	require.Equal(t, survey.StatusSent, stored.Status)
}

func TestDispatchIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)

	now := time.Now()
	p := f.addParticipant(t, "Alice", "+15550000001")
	c := f.addCampaign(t, "Spring Check-in", now, now.AddDate(0, 0, 7))

	first, err := f.svc.Dispatch(ctx, p, c, now)
	require.NoError(t, err)

	second, err := f.svc.Dispatch(ctx, p, c, now)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, f.instances.count())
	require.Equal(t, 1, f.gw.sendCount())

	// A different time on the same calendar day hits the same key.
	later := now.Add(3 * time.Hour)
	third, err := f.svc.Dispatch(ctx, p, c, later)
	require.NoError(t, err)
	require.Equal(t, first.ID, third.ID)
	require.Equal(t, 1, f.gw.sendCount())
}

func TestDispatchConcurrentCallersShareOneInstance(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)

	now := time.Now()
	p := f.addParticipant(t, "Alice", "+15550000001")
	c := f.addCampaign(t, "Spring Check-in", now, now.AddDate(0, 0, 7))

	const callers = 16

	var wg sync.WaitGroup
	ids := make(chan string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in, err := f.svc.Dispatch(ctx, p, c, now)
			if err == nil {
				ids <- in.ID.String()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{})
	for id := range ids {
		seen[id] = struct{}{}
	}

	require.Len(t, seen, 1, "all concurrent callers must observe the same instance")
	require.Equal(t, 1, f.instances.count())
	require.Equal(t, 1, f.gw.sendCount(), "exactly one send for the key")
}

func TestDispatchFailedSendIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)
	f.gw.failAll = true

	now := time.Now()
	p := f.addParticipant(t, "Alice", "+15550000001")
	c := f.addCampaign(t, "Spring Check-in", now, now.AddDate(0, 0, 7))

	in, err := f.svc.Dispatch(ctx, p, c, now)
	require.Error(t, err)
	require.NotNil(t, in)
	require.Equal(t, survey.StatusFailed, in.Status)

	stored, err := f.instances.FindByKey(ctx, p.ID, c.ID, now)
	require.NoError(t, err)
	require.Equal(t, survey.StatusFailed, stored.Status)

	// Re-dispatch for the same key does not retry: the failed row is
	// returned as-is even though the gateway would now succeed.
	f.gw.failAll = false
	again, err := f.svc.Dispatch(ctx, p, c, now)
	require.NoError(t, err)
	require.Equal(t, in.ID, again.ID)
	require.Equal(t, survey.StatusFailed, again.Status)
	require.Equal(t, 0, f.gw.sendCount())
}

func TestDispatchRejectsInactiveParticipant(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)

	now := time.Now()
	p := f.addParticipant(t, "Alice", "+15550000001")
	c := f.addCampaign(t, "Spring Check-in", now, now.AddDate(0, 0, 7))

	require.NoError(t, f.participants.SetActive(ctx, p.ID, false))
	p.Active = false

	_, err := f.svc.Dispatch(ctx, p, c, now)
	require.ErrorIs(t, err, ErrInactiveParticipant)
	require.Equal(t, 0, f.instances.count())
	require.Equal(t, 0, f.gw.sendCount())
}

func TestRunDailyBatchIsolatesFailures(t *testing.T) {
	ctx := context.Background()

	f := newDispatchFixture(t, 1)
	f.gw.failNext = 1

	now := time.Now()
	f.addParticipant(t, "Alice", "+15550000001")
	f.addParticipant(t, "Bob", "+15550000002")
	f.addParticipant(t, "Carol", "+15550000003")
	f.addCampaign(t, "Spring Check-in", now, now.AddDate(0, 0, 7))

	require.NoError(t, f.svc.RunDailyBatch(ctx, now))

	// Every participant got an instance; the one failed send did not stop
	// the others.
	require.Equal(t, 3, f.instances.count())
	require.Equal(t, 2, f.gw.sendCount())

	sent, total, err := f.svc.ListSent(ctx, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, sent, 2)
}

func TestRunDailyBatchSkipsWhenNothingRunning(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)

	now := time.Now()
	f.addParticipant(t, "Alice", "+15550000001")

	// Campaign ended yesterday.
	f.addCampaign(t, "Old Campaign", now.AddDate(0, 0, -10), now.AddDate(0, 0, -1))

	require.NoError(t, f.svc.RunDailyBatch(ctx, now))
	require.Equal(t, 0, f.instances.count())
	require.Equal(t, 0, f.gw.sendCount())
}

func TestPurgeOlderThanIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t, 2)

	now := time.Now()
	p := f.addParticipant(t, "Alice", "+15550000001")
	c := f.addCampaign(t, "Spring Check-in", now.AddDate(0, 0, -120), now.AddDate(0, 0, 7))

	old := survey.NewInstance(p.ID, c.ID, now.AddDate(0, 0, -100))
	recent := survey.NewInstance(p.ID, c.ID, now)
	require.NoError(t, f.instances.Create(ctx, old))
	require.NoError(t, f.instances.Create(ctx, recent))

	cutoff := now.AddDate(0, 0, -90)

	n, err := f.svc.PurgeOlderThan(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, 1, f.instances.count())

	// Running the purge again deletes nothing further.
	n, err = f.svc.PurgeOlderThan(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
	require.Equal(t, 1, f.instances.count())
}

func TestRenderSurveyBody(t *testing.T) {
	date := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	body := RenderSurveyBody("Alice", date)
	require.True(t, strings.HasPrefix(body, "Hi Alice! 🌟"))
	require.Contains(t, body, "Daily Wellbeing Check-in for March 05, 2025:")
	require.Contains(t, body, "Example: 8/7/9/Spent time with family")
	require.True(t, strings.HasSuffix(body, "Thank you for participating! 💙"))

	// A blank name falls back to a generic greeting.
	require.True(t, strings.HasPrefix(RenderSurveyBody("", date), "Hi there! 🌟"))
}
