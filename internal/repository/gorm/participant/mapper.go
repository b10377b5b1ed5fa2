package participantgorm

import (
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
)

// toDomain maps a GORM ParticipantModel to a domain-level Participant.
func toDomain(m *ParticipantModel) *participant.Participant {
	return &participant.Participant{
		ID:          m.ID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
	}
}

// toDomainMany maps a slice of ParticipantModel to domain Participants.
func toDomainMany(models []ParticipantModel) []*participant.Participant {
	out := make([]*participant.Participant, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain-level Participant to a GORM ParticipantModel.
func fromDomain(d *participant.Participant) *ParticipantModel {
	return &ParticipantModel{
		ID:          d.ID,
		Name:        d.Name,
		PhoneNumber: d.PhoneNumber,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
	}
}
