package surveygorm

import (
	"context"
	"errors"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/db"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/survey"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstanceRepository is a GORM-backed implementation of survey.InstanceRepository.
type InstanceRepository struct {
	db *gorm.DB
}

// NewInstanceRepository constructs an instance repository using the given DB adapter.
func NewInstanceRepository(d db.DB) *InstanceRepository {
	return &InstanceRepository{
		db: d.Conn().(*gorm.DB),
	}
}

// Create inserts a new instance. The unique index on the dispatch key makes
// the check-then-insert race safe across processes: the losing writer gets
// a duplicate-key error here, mapped to survey.ErrInstanceExists so the
// caller can re-read the winner's row.
func (r *InstanceRepository) Create(ctx context.Context, in *survey.Instance) error {
	err := r.db.WithContext(ctx).Create(instanceFromDomain(in)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return survey.ErrInstanceExists
	}
	return err
}

// FindByKey returns the instance for the given dispatch key.
func (r *InstanceRepository) FindByKey(ctx context.Context, participantID, campaignID uuid.UUID, surveyDate time.Time) (*survey.Instance, error) {
	var model InstanceModel

	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND campaign_id = ? AND survey_date = ?",
			participantID, campaignID, campaign.Day(surveyDate)).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, survey.ErrInstanceNotFound
	}
	if err != nil {
		return nil, err
	}

	return instanceToDomain(&model), nil
}

// UpdateStatus persists the current status and provider metadata of an instance.
func (r *InstanceRepository) UpdateStatus(ctx context.Context, in *survey.Instance) error {
	updates := map[string]interface{}{
		"status":          string(in.Status),
		"provider_msg_id": in.ProviderMsgID,
		"sent_at":         in.SentAt,
	}

	return r.db.WithContext(ctx).
		Model(&InstanceModel{}).
		Where("id = ?", in.ID).
		Updates(updates).Error
}

// ListSent returns a paginated list of sent instances and the total count.
func (r *InstanceRepository) ListSent(ctx context.Context, page, limit int) ([]*survey.Instance, int64, error) {
	var models []InstanceModel
	var total int64

	query := r.db.WithContext(ctx).
		Model(&InstanceModel{}).
		Where("status = ?", survey.StatusSent)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	err := query.
		Order("sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, err
	}

	return instancesToDomain(models), total, nil
}

// DeleteBefore removes instances with survey_date strictly before cutoff.
// Safe to re-run; a second pass deletes zero rows.
func (r *InstanceRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("survey_date < ?", campaign.Day(cutoff)).
		Delete(&InstanceModel{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// compile-time interface check
var _ survey.InstanceRepository = (*InstanceRepository)(nil)

// ResponseRepository is a GORM-backed implementation of survey.ResponseRepository.
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository constructs a response repository using the given DB adapter.
func NewResponseRepository(d db.DB) *ResponseRepository {
	return &ResponseRepository{
		db: d.Conn().(*gorm.DB),
	}
}

// Save inserts a new response record.
func (r *ResponseRepository) Save(ctx context.Context, resp *survey.Response) error {
	return r.db.WithContext(ctx).Create(responseFromDomain(resp)).Error
}

// ListByPair returns responses for a (participant, campaign) pair,
// newest survey date first.
func (r *ResponseRepository) ListByPair(ctx context.Context, participantID, campaignID uuid.UUID) ([]*survey.Response, error) {
	var models []ResponseModel

	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND campaign_id = ?", participantID, campaignID).
		Order("survey_date DESC").
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	return responsesToDomain(models), nil
}

// Summarize computes rating averages for a (participant, campaign) pair.
func (r *ResponseRepository) Summarize(ctx context.Context, participantID, campaignID uuid.UUID) (*survey.Summary, error) {
	var row struct {
		AvgJoy            *float64
		AvgAchievement    *float64
		AvgMeaningfulness *float64
		TotalResponses    int64
	}

	err := r.db.WithContext(ctx).
		Model(&ResponseModel{}).
		Select(
			"AVG(joy_rating) AS avg_joy",
			"AVG(achievement_rating) AS avg_achievement",
			"AVG(meaningfulness_rating) AS avg_meaningfulness",
			"COUNT(*) AS total_responses",
		).
		Where("participant_id = ? AND campaign_id = ?", participantID, campaignID).
		Scan(&row).Error

	if err != nil {
		return nil, err
	}

	out := &survey.Summary{TotalResponses: row.TotalResponses}
	if row.AvgJoy != nil {
		out.AvgJoy = *row.AvgJoy
	}
	if row.AvgAchievement != nil {
		out.AvgAchievement = *row.AvgAchievement
	}
	if row.AvgMeaningfulness != nil {
		out.AvgMeaningfulness = *row.AvgMeaningfulness
	}
	return out, nil
}

// compile-time interface check
var _ survey.ResponseRepository = (*ResponseRepository)(nil)
