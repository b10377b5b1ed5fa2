package survey

import (
	"github.com/google/uuid"
	"strings"
	"time"
)

// Response is one participant's parsed answer to a survey prompt. Rows are
// insert-only; there is no update or delete path.
//
// InstanceID links the response to the dispatched instance it answers when
// one exists for (participant, campaign, survey date). The link is optional:
// a reply can arrive for a day no survey was dispatched on.
type Response struct {
	ID            uuid.UUID
	ParticipantID uuid.UUID
	CampaignID    uuid.UUID
	InstanceID    *uuid.UUID
	SurveyDate    time.Time

	JoyRating            int
	AchievementRating    int
	MeaningfulnessRating int
	InfluenceText        string

	SubmittedAt time.Time
}

// NewResponse constructs a Response dated to the given day.
// Ratings are stored as parsed; the 1-10 range is a prompt convention,
// not a data-model constraint.
func NewResponse(participantID, campaignID uuid.UUID, surveyDate time.Time, joy, achievement, meaningfulness int, influence string) *Response {
	return &Response{
		ID:                   uuid.New(),
		ParticipantID:        participantID,
		CampaignID:           campaignID,
		SurveyDate:           day(surveyDate),
		JoyRating:            joy,
		AchievementRating:    achievement,
		MeaningfulnessRating: meaningfulness,
		InfluenceText:        strings.TrimSpace(influence),
		SubmittedAt:          time.Now(),
	}
}

// LinkInstance records the originating survey instance.
func (r *Response) LinkInstance(instanceID uuid.UUID) {
	id := instanceID
	r.InstanceID = &id
}

// Summary aggregates rating averages over a set of responses.
type Summary struct {
	AvgJoy            float64
	AvgAchievement    float64
	AvgMeaningfulness float64
	TotalResponses    int64
}
