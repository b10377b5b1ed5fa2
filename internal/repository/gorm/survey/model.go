package surveygorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstanceModel is the GORM persistence model for survey instances.
//
// The composite unique index on (participant_id, campaign_id, survey_date)
// is the dispatch idempotency boundary: concurrent creates for the same key
// race on this constraint and exactly one insert wins.
type InstanceModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParticipantID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_dispatch_key,priority:1"`
	CampaignID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_dispatch_key,priority:2"`
	SurveyDate    time.Time  `gorm:"type:date;not null;uniqueIndex:ux_dispatch_key,priority:3;index"`
	ProviderMsgID string     `gorm:"size:100;index"`
	Status        string     `gorm:"size:20;not null;index"`
	SentAt        *time.Time `gorm:"index"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time
}

// TableName overrides the default table name used by GORM.
func (InstanceModel) TableName() string {
	return "survey_instances"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *InstanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ResponseModel is the GORM persistence model for survey responses.
type ResponseModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParticipantID uuid.UUID  `gorm:"type:uuid;not null;index:ix_response_pair,priority:1"`
	CampaignID    uuid.UUID  `gorm:"type:uuid;not null;index:ix_response_pair,priority:2"`
	InstanceID    *uuid.UUID `gorm:"type:uuid;index"`
	SurveyDate    time.Time  `gorm:"type:date;not null;index"`

	JoyRating            int `gorm:"not null"`
	AchievementRating    int `gorm:"not null"`
	MeaningfulnessRating int `gorm:"not null"`
	InfluenceText        string `gorm:"type:text"`

	SubmittedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name used by GORM.
func (ResponseModel) TableName() string {
	return "responses"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *ResponseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
