package repository

import (
	"context"
	"time"

	"golang-chart-predictor/internal/entity"

	"gorm.io/gorm"
)

// PredictionFeedbackRepository defines the interface for the prediction
// feedback sink.
type PredictionFeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.PredictionFeedback) error
	List(ctx context.Context, limit, offset int) ([]entity.PredictionFeedback, error)
	ListPendingValidation(ctx context.Context, before time.Time) ([]entity.PredictionFeedback, error)
}

type predictionFeedbackRepository struct {
	db *gorm.DB
}

// NewPredictionFeedbackRepository creates a new PredictionFeedbackRepository.
func NewPredictionFeedbackRepository(db *gorm.DB) PredictionFeedbackRepository {
	return &predictionFeedbackRepository{db: db}
}

func (r *predictionFeedbackRepository) Create(ctx context.Context, feedback *entity.PredictionFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *predictionFeedbackRepository) List(ctx context.Context, limit, offset int) ([]entity.PredictionFeedback, error) {
	var feedbacks []entity.PredictionFeedback
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// ListPendingValidation returns predictions past their validation horizon
// whose observation still has no recorded outcome.
func (r *predictionFeedbackRepository) ListPendingValidation(ctx context.Context, before time.Time) ([]entity.PredictionFeedback, error) {
	var feedbacks []entity.PredictionFeedback
	err := r.db.WithContext(ctx).
		Joins("JOIN chart_observations ON chart_observations.id = prediction_feedbacks.observation_id").
		Where("prediction_feedbacks.validate_after <= ? AND chart_observations.actual_outcome IS NULL", before).
		Order("prediction_feedbacks.validate_after asc").
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}
