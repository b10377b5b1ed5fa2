package response

import (
	"time"

	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/emrekip/wellbeing-survey/internal/service"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status string `json:"status"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
}

// ParticipantDTO is the public-facing representation of a participant.
type ParticipantDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CampaignDTO is the public-facing representation of a campaign.
type CampaignDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InstanceDTO is a public-facing representation of a survey instance
// used in API responses. It decouples the wire format from the domain
// entity and plays nicely with Swagger.
type InstanceDTO struct {
	ID            string     `json:"id"`
	ParticipantID string     `json:"participantId"`
	CampaignID    string     `json:"campaignId"`
	SurveyDate    string     `json:"surveyDate"`
	ProviderMsgID string     `json:"providerMsgId,omitempty"`
	Status        string     `json:"status"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type SentInstancesPayload struct {
	Items []InstanceDTO `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ResponseDTO is the public-facing representation of a survey response.
type ResponseDTO struct {
	ID                   string    `json:"id"`
	InstanceID           *string   `json:"instanceId,omitempty"`
	SurveyDate           string    `json:"surveyDate"`
	JoyRating            int       `json:"joyRating"`
	AchievementRating    int       `json:"achievementRating"`
	MeaningfulnessRating int       `json:"meaningfulnessRating"`
	InfluenceText        string    `json:"influenceText"`
	SubmittedAt          time.Time `json:"submittedAt"`
}

type SummaryDTO struct {
	AvgJoy            float64 `json:"avgJoy"`
	AvgAchievement    float64 `json:"avgAchievement"`
	AvgMeaningfulness float64 `json:"avgMeaningfulness"`
	TotalResponses    int64   `json:"totalResponses"`
}

type AnalyticsPayload struct {
	Participant ParticipantDTO `json:"participant"`
	Campaign    CampaignDTO    `json:"campaign"`
	Analytics   SummaryDTO     `json:"analytics"`
	Responses   []ResponseDTO  `json:"responses"`
}

// WebhookPayload reports the outcome of a processed inbound reply.
type WebhookPayload struct {
	Message          string `json:"message"`
	ResponseID       string `json:"responseId"`
	FeedbackURL      string `json:"feedbackUrl"`
	ConfirmationSent bool   `json:"confirmationSent"`
}

// TestSMSPayload reports the outcome of an admin test send.
type TestSMSPayload struct {
	Message  string      `json:"message"`
	Instance InstanceDTO `json:"instance"`
}

// FromDomainParticipant converts a domain participant into its DTO.
func FromDomainParticipant(p *participant.Participant) ParticipantDTO {
	return ParticipantDTO{
		ID:          p.ID.String(),
		Name:        p.Name,
		PhoneNumber: p.PhoneNumber,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

// FromDomainParticipants converts domain participants into DTOs.
func FromDomainParticipants(ps []*participant.Participant) []ParticipantDTO {
	out := make([]ParticipantDTO, len(ps))
	for i, p := range ps {
		out[i] = FromDomainParticipant(p)
	}
	return out
}

// FromDomainCampaign converts a domain campaign into its DTO.
func FromDomainCampaign(c *campaign.Campaign) CampaignDTO {
	return CampaignDTO{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		StartDate:   c.StartDate.Format("2006-01-02"),
		EndDate:     c.EndDate.Format("2006-01-02"),
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

// FromDomainCampaigns converts domain campaigns into DTOs.
func FromDomainCampaigns(cs []*campaign.Campaign) []CampaignDTO {
	out := make([]CampaignDTO, len(cs))
	for i, c := range cs {
		out[i] = FromDomainCampaign(c)
	}
	return out
}

// FromDomainInstance converts a domain survey instance into its DTO.
func FromDomainInstance(in *survey.Instance) InstanceDTO {
	return InstanceDTO{
		ID:            in.ID.String(),
		ParticipantID: in.ParticipantID.String(),
		CampaignID:    in.CampaignID.String(),
		SurveyDate:    in.SurveyDate.Format("2006-01-02"),
		ProviderMsgID: in.ProviderMsgID,
		Status:        string(in.Status),
		SentAt:        in.SentAt,
		CreatedAt:     in.CreatedAt,
	}
}

// FromDomainInstances converts domain survey instances into DTOs.
func FromDomainInstances(ins []*survey.Instance) []InstanceDTO {
	out := make([]InstanceDTO, len(ins))
	for i, in := range ins {
		out[i] = FromDomainInstance(in)
	}
	return out
}

// FromDomainResponses converts domain survey responses into DTOs.
func FromDomainResponses(rs []*survey.Response) []ResponseDTO {
	out := make([]ResponseDTO, len(rs))
	for i, r := range rs {
		dto := ResponseDTO{
			ID:                   r.ID.String(),
			SurveyDate:           r.SurveyDate.Format("2006-01-02"),
			JoyRating:            r.JoyRating,
			AchievementRating:    r.AchievementRating,
			MeaningfulnessRating: r.MeaningfulnessRating,
			InfluenceText:        r.InfluenceText,
			SubmittedAt:          r.SubmittedAt,
		}
		if r.InstanceID != nil {
			s := r.InstanceID.String()
			dto.InstanceID = &s
		}
		out[i] = dto
	}
	return out
}

// FromAnalytics converts a service analytics bundle into its payload.
func FromAnalytics(a *service.Analytics) AnalyticsPayload {
	return AnalyticsPayload{
		Participant: FromDomainParticipant(a.Participant),
		Campaign:    FromDomainCampaign(a.Campaign),
		Analytics: SummaryDTO{
			AvgJoy:            a.Summary.AvgJoy,
			AvgAchievement:    a.Summary.AvgAchievement,
			AvgMeaningfulness: a.Summary.AvgMeaningfulness,
			TotalResponses:    a.Summary.TotalResponses,
		},
		Responses: FromDomainResponses(a.Responses),
	}
}
