package campaigngorm

import (
	"context"
	"errors"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/db"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is a GORM-backed implementation of campaign.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a campaign repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Save inserts a new campaign record.
func (r *Repository) Save(ctx context.Context, c *campaign.Campaign) error {
	return r.db.WithContext(ctx).Create(fromDomain(c)).Error
}

// FindByID returns the campaign with the given id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	var model CampaignModel

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDomain(&model), nil
}

// FindByName returns the campaign with the given name.
func (r *Repository) FindByName(ctx context.Context, name string) (*campaign.Campaign, error) {
	var model CampaignModel

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDomain(&model), nil
}

// List returns every campaign ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]*campaign.Campaign, error) {
	var models []CampaignModel

	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// ListRunning returns active campaigns whose inclusive window contains the
// given day, oldest first. Oldest-first keeps the lenient campaign
// resolution at ingest deterministic.
func (r *Repository) ListRunning(ctx context.Context, today time.Time) ([]*campaign.Campaign, error) {
	var models []CampaignModel
	day := campaign.Day(today)

	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// compile-time interface check
var _ campaign.Repository = (*Repository)(nil)
