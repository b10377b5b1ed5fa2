package service

import (
	"context"
	"testing"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/cache"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/stretchr/testify/require"
)

type reconcileFixture struct {
	participants *fakeParticipantRepo
	campaigns    *fakeCampaignRepo
	instances    *fakeInstanceRepo
	responses    *fakeResponseRepo
	gw           *fakeGateway
	cache        *fakeCache
	svc          ReconcileService
}

func newReconcileFixture(t *testing.T, requireSingle bool) *reconcileFixture {
	t.Helper()

	f := &reconcileFixture{
		participants: newFakeParticipantRepo(),
		campaigns:    newFakeCampaignRepo(),
		instances:    newFakeInstanceRepo(),
		responses:    newFakeResponseRepo(),
		gw:           newFakeGateway(),
		cache:        newFakeCache(),
	}
	f.svc = NewReconcileService(
		f.participants, f.campaigns, f.instances, f.responses,
		f.gw, f.cache, "https://wellbeing.example.com", requireSingle,
	)
	return f
}

func (f *reconcileFixture) enroll(t *testing.T, name, phone string) *participant.Participant {
	t.Helper()

	p, err := participant.New(name, phone)
	require.NoError(t, err)
	require.NoError(t, f.participants.Save(context.Background(), p))
	return p
}

func (f *reconcileFixture) runCampaign(t *testing.T, name string) *campaign.Campaign {
	t.Helper()

	now := time.Now()
	c, err := campaign.New(name, "", now.AddDate(0, 0, -1), now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NoError(t, f.campaigns.Save(context.Background(), c))
	return c
}

func TestIngestPersistsParsedResponse(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)

	p := f.enroll(t, "Alice", "+15550000001")
	c := f.runCampaign(t, "Spring Check-in")

	res, err := f.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/Spent time with family")
	require.NoError(t, err)
	require.NoError(t, res.ConfirmationErr)

	r := res.Response
	require.Equal(t, p.ID, r.ParticipantID)
	require.Equal(t, c.ID, r.CampaignID)
	require.Equal(t, 8, r.JoyRating)
	require.Equal(t, 7, r.AchievementRating)
	require.Equal(t, 9, r.MeaningfulnessRating)
	require.Equal(t, "Spent time with family", r.InfluenceText)

	require.Equal(t, 1, f.responses.count())

	// The feedback link carries both ids and was sent back in the
	// confirmation message.
	wantURL := "https://wellbeing.example.com/feedback/" + p.ID.String() + "/" + c.ID.String()
	require.Equal(t, wantURL, res.FeedbackURL)

	msg, ok := f.gw.lastSent()
	require.True(t, ok)
	require.Equal(t, p.PhoneNumber, msg.To)
	require.Contains(t, msg.Body, wantURL)
}

func TestIngestLinksTodaysInstance(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)

	p := f.enroll(t, "Alice", "+15550000001")
	c := f.runCampaign(t, "Spring Check-in")

	in := survey.NewInstance(p.ID, c.ID, time.Now())
	require.NoError(t, f.instances.Create(ctx, in))

	res, err := f.svc.Ingest(ctx, p.PhoneNumber, "5/5/5/ok")
	require.NoError(t, err)
	require.NotNil(t, res.Response.InstanceID)
	require.Equal(t, in.ID, *res.Response.InstanceID)
}

func TestIngestInfluenceKeepsEmbeddedSlashes(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)

	p := f.enroll(t, "Alice", "+15550000001")
	f.runCampaign(t, "Spring Check-in")

	res, err := f.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/reading w/ kids / relaxing")
	require.NoError(t, err)
	require.Equal(t, "reading w/ kids / relaxing", res.Response.InfluenceText)
}

func TestIngestMalformedBodyWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)

	p := f.enroll(t, "Alice", "+15550000001")
	f.runCampaign(t, "Spring Check-in")

	for _, body := range []string{
		"",
		"thanks!",
		"8/7/9",
		"a/b/c/note",
		"8/x/9/note",
	} {
		_, err := f.svc.Ingest(ctx, p.PhoneNumber, body)
		require.ErrorIs(t, err, ErrMalformedResponse, "body %q", body)
	}

	require.Equal(t, 0, f.responses.count())
	require.Equal(t, 0, f.gw.sendCount())
}

func TestIngestUnknownSender(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)
	f.runCampaign(t, "Spring Check-in")

	_, err := f.svc.Ingest(ctx, "+19999999999", "8/7/9/note")
	require.ErrorIs(t, err, ErrUnknownSender)
	require.Equal(t, 0, f.responses.count())
}

func TestIngestNoActiveCampaign(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)
	p := f.enroll(t, "Alice", "+15550000001")

	_, err := f.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/note")
	require.ErrorIs(t, err, ErrNoActiveCampaign)
	require.Equal(t, 0, f.responses.count())
}

func TestIngestAmbiguousCampaign(t *testing.T) {
	ctx := context.Background()

	// Strict mode rejects when two campaigns run at once.
	strict := newReconcileFixture(t, true)
	p := strict.enroll(t, "Alice", "+15550000001")
	strict.runCampaign(t, "Campaign A")
	strict.runCampaign(t, "Campaign B")

	_, err := strict.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/note")
	require.ErrorIs(t, err, ErrAmbiguousCampaign)
	require.Equal(t, 0, strict.responses.count())

	// Lenient mode settles on the oldest running campaign instead.
	lenient := newReconcileFixture(t, false)
	p = lenient.enroll(t, "Alice", "+15550000001")
	oldest := lenient.runCampaign(t, "Campaign A")
	lenient.runCampaign(t, "Campaign B")

	res, err := lenient.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/note")
	require.NoError(t, err)
	require.Equal(t, 1, lenient.responses.count())
	require.Equal(t, oldest.ID, res.Response.CampaignID)
}

func TestIngestConfirmationFailureKeepsResponse(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)

	p := f.enroll(t, "Alice", "+15550000001")
	f.runCampaign(t, "Spring Check-in")
	f.gw.failAll = true

	res, err := f.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/note")
	require.NoError(t, err, "a confirmation failure is secondary")
	require.Error(t, res.ConfirmationErr)
	require.Equal(t, 1, f.responses.count())
}

func TestIngestInvalidatesAnalyticsCache(t *testing.T) {
	ctx := context.Background()
	f := newReconcileFixture(t, true)

	p := f.enroll(t, "Alice", "+15550000001")
	c := f.runCampaign(t, "Spring Check-in")

	key := cache.AnalyticsSummary.PairKey(p.ID.String(), c.ID.String())
	require.NoError(t, f.cache.Set(ctx, key, "{}", time.Minute))

	_, err := f.svc.Ingest(ctx, p.PhoneNumber, "8/7/9/note")
	require.NoError(t, err)
	require.False(t, f.cache.has(key), "stale summary must be evicted")
}
