package campaigngorm

import (
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
)

func toDomain(m *CampaignModel) *campaign.Campaign {
	return &campaign.Campaign{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		StartDate:   campaign.Day(m.StartDate),
		EndDate:     campaign.Day(m.EndDate),
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainMany(models []CampaignModel) []*campaign.Campaign {
	out := make([]*campaign.Campaign, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

func fromDomain(d *campaign.Campaign) *CampaignModel {
	return &CampaignModel{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
	}
}
