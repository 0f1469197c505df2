package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-chart-predictor/internal/entity"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// ChartObservationRepository defines the interface for stored chart
// observations.
type ChartObservationRepository interface {
	Create(ctx context.Context, observation *entity.ChartObservation) error
	GetByID(ctx context.Context, id uint) (*entity.ChartObservation, error)
	List(ctx context.Context, limit, offset int) ([]entity.ChartObservation, error)
	GetValidatedHistory(ctx context.Context, minConfidence float64, limit int) ([]entity.ChartObservation, error)
	GetValidatedByDayOfWeek(ctx context.Context, dayOfWeek string, limit int) ([]entity.ChartObservation, error)
	AttachOutcome(ctx context.Context, id uint, outcome string) error
}

type chartObservationRepository struct {
	db    *gorm.DB
	cache *gocache.Cache
}

// NewChartObservationRepository creates a new ChartObservationRepository.
// Validated-history reads are cached for cacheTTL; outcome writes flush the
// cache so new feedback becomes visible on the next prediction.
func NewChartObservationRepository(db *gorm.DB, cacheTTL time.Duration) ChartObservationRepository {
	return &chartObservationRepository{
		db:    db,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (r *chartObservationRepository) Create(ctx context.Context, observation *entity.ChartObservation) error {
	return r.db.WithContext(ctx).Create(observation).Error
}

func (r *chartObservationRepository) GetByID(ctx context.Context, id uint) (*entity.ChartObservation, error) {
	var observation entity.ChartObservation
	if err := r.db.WithContext(ctx).First(&observation, id).Error; err != nil {
		return nil, err
	}
	return &observation, nil
}

func (r *chartObservationRepository) List(ctx context.Context, limit, offset int) ([]entity.ChartObservation, error) {
	var observations []entity.ChartObservation
	err := r.db.WithContext(ctx).
		Order("observed_at desc").
		Limit(limit).
		Offset(offset).
		Find(&observations).Error
	if err != nil {
		return nil, err
	}
	return observations, nil
}

// GetValidatedHistory returns the newest observations with a known outcome
// and at least the given confidence, the candidate pool for similarity
// scoring.
func (r *chartObservationRepository) GetValidatedHistory(ctx context.Context, minConfidence float64, limit int) ([]entity.ChartObservation, error) {
	cacheKey := fmt.Sprintf("history:%.2f:%d", minConfidence, limit)
	if cached, found := r.cache.Get(cacheKey); found {
		return cached.([]entity.ChartObservation), nil
	}

	var observations []entity.ChartObservation
	err := r.db.WithContext(ctx).
		Where("confidence_score >= ? AND actual_outcome IS NOT NULL", minConfidence).
		Order("observed_at desc").
		Limit(limit).
		Find(&observations).Error
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(cacheKey, observations)
	return observations, nil
}

func (r *chartObservationRepository) GetValidatedByDayOfWeek(ctx context.Context, dayOfWeek string, limit int) ([]entity.ChartObservation, error) {
	day := strings.ToLower(dayOfWeek)
	cacheKey := fmt.Sprintf("history:dow:%s:%d", day, limit)
	if cached, found := r.cache.Get(cacheKey); found {
		return cached.([]entity.ChartObservation), nil
	}

	var observations []entity.ChartObservation
	err := r.db.WithContext(ctx).
		Where("LOWER(day_of_week) = ? AND actual_outcome IS NOT NULL", day).
		Order("observed_at desc").
		Limit(limit).
		Find(&observations).Error
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(cacheKey, observations)
	return observations, nil
}

// AttachOutcome records the realized direction for an observation. Outcomes
// are append-only: a second write for the same observation is rejected.
func (r *chartObservationRepository) AttachOutcome(ctx context.Context, id uint, outcome string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.ChartObservation{}).
		Where("id = ? AND actual_outcome IS NULL", id).
		Update("actual_outcome", outcome)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("observation %d not found or outcome already recorded", id)
	}

	r.cache.Flush()
	return nil
}
