package campaigngorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignModel is the GORM persistence model for campaigns.
type CampaignModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null;index"`
	Description string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Active      bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

// TableName overrides the default table name used by GORM.
func (CampaignModel) TableName() string {
	return "campaigns"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *CampaignModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
