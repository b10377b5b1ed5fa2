package participantgorm

import (
	"context"
	"errors"

	"github.com/emrekip/wellbeing-survey/internal/db"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is a GORM-backed implementation of participant.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a participant repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Save inserts a new participant record. A phone number collision is mapped
// to participant.ErrPhoneNumberTaken.
func (r *Repository) Save(ctx context.Context, p *participant.Participant) error {
	err := r.db.WithContext(ctx).Create(fromDomain(p)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return participant.ErrPhoneNumberTaken
	}
	return err
}

// FindByID returns the participant with the given id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	var model ParticipantModel

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, participant.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDomain(&model), nil
}

// FindByPhone returns the participant enrolled with the given phone number.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*participant.Participant, error) {
	var model ParticipantModel

	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, participant.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDomain(&model), nil
}

// ListActive returns every active participant ordered by creation time.
func (r *Repository) ListActive(ctx context.Context) ([]*participant.Participant, error) {
	var models []ParticipantModel

	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// List returns every enrolled participant ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]*participant.Participant, error) {
	var models []ParticipantModel

	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// SetActive flips the active flag for the given participant.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&ParticipantModel{}).
		Where("id = ?", id).
		Update("active", active)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return participant.ErrNotFound
	}
	return nil
}

// compile-time interface check
var _ participant.Repository = (*Repository)(nil)
