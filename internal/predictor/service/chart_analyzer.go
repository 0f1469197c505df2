package service

import (
	"context"
	"fmt"
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/internal/predictor/engine"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/pkg/logger"
	"golang-chart-predictor/pkg/utils"
)

// ChartAnalyzerService turns a chart screenshot into an enriched
// observation: vision description, synthesized indicators, regime labels.
type ChartAnalyzerService interface {
	Analyze(ctx context.Context, image []byte, mimeType, filename string) (*dto.AnalysisResult, error)
}

type chartAnalyzerService struct {
	log             *logger.Logger
	visionRepo      repository.VisionAIRepository
	observationRepo repository.ChartObservationRepository
}

// NewChartAnalyzerService creates a new ChartAnalyzerService.
func NewChartAnalyzerService(log *logger.Logger,
	visionRepo repository.VisionAIRepository,
	observationRepo repository.ChartObservationRepository) ChartAnalyzerService {
	return &chartAnalyzerService{
		log:             log,
		visionRepo:      visionRepo,
		observationRepo: observationRepo,
	}
}

// Analyze describes the screenshot and enriches the result. The only error
// it returns is an unreachable vision service; a degraded description flows
// through as a neutral observation. The persistence write is best effort.
func (s *chartAnalyzerService) Analyze(ctx context.Context, image []byte, mimeType, filename string) (*dto.AnalysisResult, error) {
	description, err := s.visionRepo.DescribeChart(ctx, image, mimeType, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to describe chart: %w", err)
	}

	now := utils.TimeNowET()

	sessionType := strings.ToLower(description.SessionType)
	if sessionType == "" {
		sessionType = utils.SessionTypeAt(now)
	}

	observation := dto.ChartObservation{
		Filename:         filename,
		Date:             now,
		DayOfWeek:        utils.DayOfWeek(now),
		Direction:        description.Direction,
		Sentiment:        strings.ToLower(description.Sentiment),
		Momentum:         description.Momentum,
		Volatility:       description.Volatility,
		VolumeProfile:    description.VolumeProfile,
		SessionType:      sessionType,
		ConfidenceScore:  float64(description.ConfidenceLevel) / 100.0,
		CurrentPrice:     description.CurrentPrice,
		KeyLevels:        description.KeyLevels,
		ExtendedFromVWAP: description.Extended,
	}

	indicators := engine.Synthesize(engine.SynthesisInput{
		Direction:     observation.Direction,
		Momentum:      observation.Momentum,
		Volatility:    observation.Volatility,
		VolumeProfile: observation.VolumeProfile,
		CurrentPrice:  observation.CurrentPrice,
		Extended:      observation.ExtendedFromVWAP,
	})
	observation.RSI = indicators.RSI
	observation.ATR = indicators.ATR
	observation.MACD = indicators.MACD
	observation.VolumeVsAverage = indicators.VolumeVsAverage
	observation.DistanceFromVWAP = indicators.DistanceFromVWAP

	regime := engine.Classify(observation.Direction, observation.Momentum, observation.Volatility, observation.RSI)
	observation.Regime = regime.Regime
	observation.VolatilityRegime = regime.VolatilityRegime
	observation.VolumeRegime = regime.VolumeRegime

	record := dto.ObservationToEntity(observation)
	if err := s.observationRepo.Create(ctx, &record); err != nil {
		s.log.Error("Failed to persist chart observation", logger.ErrorField(err), logger.StringField("filename", filename))
	} else {
		observation.ID = record.ID
	}

	return &dto.AnalysisResult{
		Observation: observation,
		Timeframes:  description.Timeframes,
	}, nil
}
