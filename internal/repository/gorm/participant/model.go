package participantgorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipantModel is the GORM persistence model for participants.
// It maps directly to the "participants" table in Postgres.
type ParticipantModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100"`
	PhoneNumber string    `gorm:"size:20;not null;uniqueIndex"`
	Active      bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

// TableName overrides the default table name used by GORM.
func (ParticipantModel) TableName() string {
	return "participants"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *ParticipantModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
