package surveygorm

import (
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
)

func instanceToDomain(m *InstanceModel) *survey.Instance {
	return &survey.Instance{
		ID:            m.ID,
		ParticipantID: m.ParticipantID,
		CampaignID:    m.CampaignID,
		SurveyDate:    m.SurveyDate,
		ProviderMsgID: m.ProviderMsgID,
		Status:        survey.Status(m.Status),
		SentAt:        m.SentAt,
		CreatedAt:     m.CreatedAt,
	}
}

func instancesToDomain(models []InstanceModel) []*survey.Instance {
	out := make([]*survey.Instance, len(models))
	for i := range models {
		out[i] = instanceToDomain(&models[i])
	}
	return out
}

func instanceFromDomain(d *survey.Instance) *InstanceModel {
	return &InstanceModel{
		ID:            d.ID,
		ParticipantID: d.ParticipantID,
		CampaignID:    d.CampaignID,
		SurveyDate:    d.SurveyDate,
		ProviderMsgID: d.ProviderMsgID,
		Status:        string(d.Status),
		SentAt:        d.SentAt,
		CreatedAt:     d.CreatedAt,
	}
}

func responseToDomain(m *ResponseModel) *survey.Response {
	return &survey.Response{
		ID:                   m.ID,
		ParticipantID:        m.ParticipantID,
		CampaignID:           m.CampaignID,
		InstanceID:           m.InstanceID,
		SurveyDate:           m.SurveyDate,
		JoyRating:            m.JoyRating,
		AchievementRating:    m.AchievementRating,
		MeaningfulnessRating: m.MeaningfulnessRating,
		InfluenceText:        m.InfluenceText,
		SubmittedAt:          m.SubmittedAt,
	}
}

func responsesToDomain(models []ResponseModel) []*survey.Response {
	out := make([]*survey.Response, len(models))
	for i := range models {
		out[i] = responseToDomain(&models[i])
	}
	return out
}

func responseFromDomain(d *survey.Response) *ResponseModel {
	return &ResponseModel{
		ID:                   d.ID,
		ParticipantID:        d.ParticipantID,
		CampaignID:           d.CampaignID,
		InstanceID:           d.InstanceID,
		SurveyDate:           d.SurveyDate,
		JoyRating:            d.JoyRating,
		AchievementRating:    d.AchievementRating,
		MeaningfulnessRating: d.MeaningfulnessRating,
		InfluenceText:        d.InfluenceText,
		SubmittedAt:          d.SubmittedAt,
	}
}
