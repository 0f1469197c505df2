package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang-chart-predictor/internal/entity"
	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChartAnalyzer struct {
	result *dto.AnalysisResult
}

func (f *fakeChartAnalyzer) Analyze(ctx context.Context, image []byte, mimeType, filename string) (*dto.AnalysisResult, error) {
	return f.result, nil
}

type fakeObservationRepo struct {
	history    []entity.ChartObservation
	byDay      []entity.ChartObservation
	created    []*entity.ChartObservation
	outcomes   map[uint]string
	historyErr error
}

func (f *fakeObservationRepo) Create(ctx context.Context, observation *entity.ChartObservation) error {
	f.created = append(f.created, observation)
	return nil
}

func (f *fakeObservationRepo) GetByID(ctx context.Context, id uint) (*entity.ChartObservation, error) {
	return nil, nil
}

func (f *fakeObservationRepo) List(ctx context.Context, limit, offset int) ([]entity.ChartObservation, error) {
	return nil, nil
}

func (f *fakeObservationRepo) GetValidatedHistory(ctx context.Context, minConfidence float64, limit int) ([]entity.ChartObservation, error) {
	return f.history, f.historyErr
}

func (f *fakeObservationRepo) GetValidatedByDayOfWeek(ctx context.Context, dayOfWeek string, limit int) ([]entity.ChartObservation, error) {
	return f.byDay, nil
}

func (f *fakeObservationRepo) AttachOutcome(ctx context.Context, id uint, outcome string) error {
	if f.outcomes == nil {
		f.outcomes = map[uint]string{}
	}
	f.outcomes[id] = outcome
	return nil
}

type fakeVisionRepo struct {
	vote    *dto.AIVoteResult
	voteErr error
}

func (f *fakeVisionRepo) DescribeChart(ctx context.Context, image []byte, mimeType, filename string) (*dto.ChartDescriptionResult, error) {
	return nil, nil
}

func (f *fakeVisionRepo) EnsembleVote(ctx context.Context, current dto.ChartObservation, patterns []dto.ScoredPattern, headlines []string) (*dto.AIVoteResult, error) {
	return f.vote, f.voteErr
}

type fakeHeadlinesRepo struct{}

func (f *fakeHeadlinesRepo) GetTopHeadlines(ctx context.Context, limit int) ([]string, error) {
	return []string{"Futures higher ahead of the open"}, nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Predictor: config.Predictor{
			AIVoteTimeout:     5 * time.Second,
			ValidationHorizon: 24 * time.Hour,
		},
		Headlines: config.Headlines{Limit: 5},
	}
}

// strongBullishObservation matches the historical records built by
// matchingHistory on every similarity dimension.
func strongBullishObservation() dto.ChartObservation {
	return dto.ChartObservation{
		ID:            1,
		Filename:      "spy-0930.png",
		DayOfWeek:     "monday",
		Direction:     "bullish",
		Sentiment:     "bullish",
		Momentum:      "strong",
		Volatility:    "medium",
		VolumeProfile: "high",
		SessionType:   "market-open",
		CurrentPrice:  100.0,
		KeyLevels: []dto.KeyLevel{
			{Kind: "support", Price: 95.0, Strength: 0.7},
			{Kind: "resistance", Price: 105.0, Strength: 0.8},
		},
		RSI:              75.0,
		ATR:              0.2,
		MACD:             dto.MACD{Value: 25.0, Signal: 17.5, Histogram: 7.5},
		Regime:           "strong_bull",
		VolatilityRegime: "normal",
		VolumeRegime:     "average",
	}
}

// matchingHistory builds validated records that score 1.0 against
// strongBullishObservation.
func matchingHistory(n int, outcome string) []entity.ChartObservation {
	records := make([]entity.ChartObservation, 0, n)
	for i := 0; i < n; i++ {
		o := outcome
		records = append(records, entity.ChartObservation{
			ID:               uint(100 + i),
			DayOfWeek:        "monday",
			Direction:        "bullish",
			Sentiment:        "bullish",
			Momentum:         "strong",
			Volatility:       "medium",
			VolumeProfile:    "high",
			SessionType:      "market-open",
			ConfidenceScore:  0.8,
			RSI:              72.0,
			VolatilityRegime: "normal",
			ActualOutcome:    &o,
		})
	}
	return records
}

func newTestPredictor(t *testing.T, analyzer *fakeChartAnalyzer, obsRepo *fakeObservationRepo, vision *fakeVisionRepo) EnsemblePredictorService {
	t.Helper()
	return NewEnsemblePredictorService(testConfig(), newTestLogger(t), nil,
		analyzer, obsRepo, vision, &fakeHeadlinesRepo{}, nil)
}

func TestScoreSimilarPatternsInclusiveCutoff(t *testing.T) {
	s := &ensemblePredictorService{}

	current := dto.ChartObservation{
		DayOfWeek:        "monday",
		Sentiment:        "bullish",
		Momentum:         "strong",
		VolumeProfile:    "high",
		SessionType:      "market-open",
		VolatilityRegime: "high",
	}

	history := []dto.ChartObservation{
		// everything but volume: 0.90
		{DayOfWeek: "monday", Sentiment: "bullish", Momentum: "strong", VolumeProfile: "low", SessionType: "market-open", VolatilityRegime: "high"},
		// session + price pattern + momentum: exactly 0.60
		{DayOfWeek: "tuesday", Sentiment: "bullish", Momentum: "strong", VolumeProfile: "low", SessionType: "market-open", VolatilityRegime: "low"},
		// day + price pattern + momentum: 0.55, below the cutoff
		{DayOfWeek: "monday", Sentiment: "bullish", Momentum: "strong", VolumeProfile: "low", SessionType: "after-hours", VolatilityRegime: "low"},
		// day + momentum: 0.30
		{DayOfWeek: "monday", Sentiment: "bearish", Momentum: "strong", VolumeProfile: "low", SessionType: "after-hours", VolatilityRegime: "low"},
	}

	got := s.scoreSimilarPatterns(current, history)

	require.Len(t, got, 2)
	assert.InDelta(t, 0.90, got[0].SimilarityScore, 1e-9)
	assert.InDelta(t, 0.60, got[1].SimilarityScore, 1e-9)
}

func TestScoreSimilarPatternsCapsAtTwenty(t *testing.T) {
	s := &ensemblePredictorService{}

	current := strongBullishObservation()
	var history []dto.ChartObservation
	for _, r := range matchingHistory(30, "bullish") {
		history = append(history, dto.ObservationFromEntity(r))
	}

	got := s.scoreSimilarPatterns(current, history)

	assert.Len(t, got, maxSimilarPatterns)
}

func TestReconcileVotesMajorityMeansAgreeingConfidence(t *testing.T) {
	votes := []dto.Vote{
		{Method: "pattern", Direction: "bullish", Confidence: 0.8},
		{Method: "day_of_week", Direction: "bullish", Confidence: 0.7},
		{Method: "technical", Direction: "bullish", Confidence: 0.75},
		{Method: "ai", Direction: "neutral", Confidence: 0.9},
	}

	direction, confidence, agreeing := reconcileVotes(votes)

	assert.Equal(t, "bullish", direction)
	assert.InDelta(t, 0.75, confidence, 1e-9)
	assert.Equal(t, 3, agreeing)
}

func TestReconcileVotesNoConsensusIsNeutral(t *testing.T) {
	votes := []dto.Vote{
		{Method: "pattern", Direction: "bullish", Confidence: 0.9},
		{Method: "day_of_week", Direction: "bearish", Confidence: 0.9},
		{Method: "technical", Direction: "neutral", Confidence: 0.9},
		{Method: "ai", Direction: "bullish", Confidence: 0.9},
	}

	direction, confidence, agreeing := reconcileVotes(votes)

	assert.Equal(t, "neutral", direction)
	assert.InDelta(t, 0.5, confidence, 1e-9)
	assert.Equal(t, 2, agreeing)
}

func TestReconcileVotesNeutralMajorityKeepsFloor(t *testing.T) {
	// three neutral votes are not a consensus and never average
	votes := []dto.Vote{
		{Method: "pattern", Direction: "neutral", Confidence: 0.6},
		{Method: "day_of_week", Direction: "neutral", Confidence: 0.5},
		{Method: "technical", Direction: "neutral", Confidence: 0.5},
		{Method: "ai", Direction: "bullish", Confidence: 0.9},
	}

	direction, confidence, agreeing := reconcileVotes(votes)

	assert.Equal(t, "neutral", direction)
	assert.Equal(t, 0.5, confidence)
	assert.Equal(t, 1, agreeing)
}

// scoredOutcomes builds similar patterns whose predicted direction is neutral
// so only the realized outcomes drive the vote.
func scoredOutcomes(bullish, bearish, neutral int) []dto.ScoredPattern {
	var patterns []dto.ScoredPattern
	add := func(outcome string, n int) {
		for i := 0; i < n; i++ {
			patterns = append(patterns, dto.ScoredPattern{
				Observation:     dto.ChartObservation{Direction: "neutral", ActualOutcome: outcome},
				SimilarityScore: 0.9,
			})
		}
	}
	add("bullish", bullish)
	add("bearish", bearish)
	add("neutral", neutral)
	return patterns
}

func TestPatternVoteFractionIgnoresNeutralOutcomes(t *testing.T) {
	vote := patternVote(scoredOutcomes(6, 1, 3))

	assert.Equal(t, "bullish", vote.Direction)
	assert.InDelta(t, 6.0/7.0, vote.Confidence, 1e-9)
}

func TestPatternVoteThresholdIsStrict(t *testing.T) {
	// 13 of 20 directional records is exactly the 0.65 threshold
	vote := patternVote(scoredOutcomes(13, 7, 0))

	assert.Equal(t, "neutral", vote.Direction)
	assert.Equal(t, 0.5, vote.Confidence)
	assert.Equal(t, "no dominant outcome among similar setups", vote.Reasoning)
}

func TestPatternVoteFallsBackToPredictedDirection(t *testing.T) {
	var similar []dto.ScoredPattern
	for i := 0; i < 5; i++ {
		similar = append(similar, dto.ScoredPattern{
			Observation:     dto.ChartObservation{Direction: "bullish"},
			SimilarityScore: 0.9,
		})
	}

	vote := patternVote(similar)

	assert.Equal(t, "bullish", vote.Direction)
	assert.InDelta(t, 1.0, vote.Confidence, 1e-9)
}

func TestDayOfWeekVoteFractionIgnoresNeutralOutcomes(t *testing.T) {
	records := append(matchingHistory(8, "bullish"), matchingHistory(1, "bearish")...)
	for _, r := range matchingHistory(3, "neutral") {
		r.Direction = "neutral"
		records = append(records, r)
	}
	s := &ensemblePredictorService{
		log:             newTestLogger(t),
		observationRepo: &fakeObservationRepo{byDay: records},
	}

	vote := s.dayOfWeekVote(context.Background(), "monday")

	assert.Equal(t, "bullish", vote.Direction)
	assert.InDelta(t, 8.0/9.0, vote.Confidence, 1e-9)
}

func TestPatternVoteInsufficientSamples(t *testing.T) {
	similar := []dto.ScoredPattern{
		{Observation: dto.ChartObservation{ActualOutcome: "bullish"}, SimilarityScore: 0.9},
		{Observation: dto.ChartObservation{ActualOutcome: "bullish"}, SimilarityScore: 0.9},
		{Observation: dto.ChartObservation{ActualOutcome: "bullish"}, SimilarityScore: 0.9},
		{Observation: dto.ChartObservation{ActualOutcome: "bullish"}, SimilarityScore: 0.9},
	}

	vote := patternVote(similar)

	assert.Equal(t, "neutral", vote.Direction)
	assert.Equal(t, 0.0, vote.Confidence)
	assert.Equal(t, "insufficient pattern data", vote.Reasoning)
}

func TestTechnicalVoteRules(t *testing.T) {
	tests := []struct {
		name       string
		rsi        float64
		macd       float64
		direction  string
		confidence float64
	}{
		{"trend following bullish", 75, 25, "bullish", 0.85},
		{"trend following bearish", 25, -25, "bearish", 0.85},
		{"overbought mean reversion", 72, 5, "bearish", 0.65},
		{"oversold mean reversion", 28, -5, "bullish", 0.65},
		{"neutral range", 50, 0, "neutral", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vote := technicalVote(dto.ChartObservation{RSI: tt.rsi, MACD: dto.MACD{Value: tt.macd}})
			assert.Equal(t, tt.direction, vote.Direction)
			assert.InDelta(t, tt.confidence, vote.Confidence, 1e-9)
		})
	}
}

func TestNearestKeyLevelMatchesKindOnly(t *testing.T) {
	observation := dto.ChartObservation{
		CurrentPrice: 100.0,
		KeyLevels: []dto.KeyLevel{
			{Kind: "resistance", Price: 100.3},
			{Kind: "support", Price: 99.8},
		},
	}

	level, near := nearestKeyLevel(observation, "resistance")
	assert.True(t, near)
	assert.Equal(t, 100.3, level.Price)

	// a nearby level of the other kind never qualifies
	observation.KeyLevels = []dto.KeyLevel{{Kind: "support", Price: 99.8}}
	_, near = nearestKeyLevel(observation, "resistance")
	assert.False(t, near)
}

func TestPredictFullConsensusProducesBuy(t *testing.T) {
	analyzer := &fakeChartAnalyzer{result: &dto.AnalysisResult{
		Observation: strongBullishObservation(),
		Timeframes:  dto.TimeframeTrends{TF5Min: "bullish", TF15Min: "bullish", TF60Min: "bullish"},
	}}
	obsRepo := &fakeObservationRepo{
		history: matchingHistory(12, "bullish"),
		byDay:   matchingHistory(12, "bullish"),
	}
	vision := &fakeVisionRepo{vote: &dto.AIVoteResult{Direction: "bullish", ConfidenceLevel: 80, Reasoning: "similar setups resolved higher"}}

	result, err := newTestPredictor(t, analyzer, obsRepo, vision).Predict(context.Background(), []byte("img"), "image/png", "spy-0930.png")

	require.NoError(t, err)
	assert.Equal(t, "bullish", result.Direction)
	// pattern 1.0, day-of-week 1.0, technical 0.85, ai 0.80
	assert.InDelta(t, 0.9125, result.Confidence, 1e-9)
	assert.Equal(t, "4/4", result.Quality.ConsensusRatio)
	assert.True(t, result.Quality.ConfidenceGate)
	assert.True(t, result.Quality.SampleGate)
	assert.True(t, result.Quality.ConsensusGate)
	assert.Equal(t, 12, result.SimilarCount)
	assert.True(t, result.Timeframes.AllAligned)

	assert.Equal(t, "buy", result.Recommendation.Action)
	assert.Equal(t, 100.0, result.Recommendation.EntryPrice)
	assert.InDelta(t, 99.7, result.Recommendation.StopLoss, 1e-9)
	assert.Equal(t, 105.0, result.Recommendation.TakeProfit)
	assert.Equal(t, "medium", result.Recommendation.PositionSize)
}

func TestPredictTooFewSimilarPatternsWaits(t *testing.T) {
	analyzer := &fakeChartAnalyzer{result: &dto.AnalysisResult{
		Observation: strongBullishObservation(),
		Timeframes:  dto.TimeframeTrends{TF5Min: "bullish", TF15Min: "bullish", TF60Min: "bullish"},
	}}
	obsRepo := &fakeObservationRepo{
		history: matchingHistory(8, "bullish"),
		byDay:   matchingHistory(12, "bullish"),
	}
	vision := &fakeVisionRepo{vote: &dto.AIVoteResult{Direction: "bullish", ConfidenceLevel: 80}}

	result, err := newTestPredictor(t, analyzer, obsRepo, vision).Predict(context.Background(), []byte("img"), "image/png", "spy-0930.png")

	require.NoError(t, err)
	assert.Equal(t, "bullish", result.Direction)
	assert.True(t, result.Quality.ConfidenceGate)
	assert.False(t, result.Quality.SampleGate)
	assert.Equal(t, "wait", result.Recommendation.Action)
	assert.Equal(t, "none", result.Recommendation.PositionSize)
}

func TestPredictProximityPenaltyBlocksAction(t *testing.T) {
	observation := strongBullishObservation()
	// a resistance level inside the proximity band cuts confidence by 30%
	observation.KeyLevels = append(observation.KeyLevels, dto.KeyLevel{Kind: "resistance", Price: 100.3, Strength: 0.9})

	analyzer := &fakeChartAnalyzer{result: &dto.AnalysisResult{
		Observation: observation,
		Timeframes:  dto.TimeframeTrends{TF5Min: "bullish", TF15Min: "bullish", TF60Min: "bullish"},
	}}
	// 8 of 10 bullish gives both outcome votes confidence 0.8; with the
	// technical 0.85 and AI 0.75 the reconciled mean is exactly 0.80.
	mixed := append(matchingHistory(8, "bullish"), matchingHistory(2, "bearish")...)
	obsRepo := &fakeObservationRepo{
		history: mixed,
		byDay:   mixed,
	}
	vision := &fakeVisionRepo{vote: &dto.AIVoteResult{Direction: "bullish", ConfidenceLevel: 75}}

	result, err := newTestPredictor(t, analyzer, obsRepo, vision).Predict(context.Background(), []byte("img"), "image/png", "spy-0930.png")

	require.NoError(t, err)
	assert.InDelta(t, 0.56, result.Confidence, 1e-9)
	assert.False(t, result.Quality.ConfidenceGate)
	assert.Equal(t, "wait", result.Recommendation.Action)

	found := false
	for _, factor := range result.RiskFactors {
		if strings.Contains(factor, "resistance") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPredictBullishNearSupportKeepsConfidence(t *testing.T) {
	observation := strongBullishObservation()
	// support just below the entry is a favorable setup, not a penalty
	observation.KeyLevels = append(observation.KeyLevels, dto.KeyLevel{Kind: "support", Price: 99.7, Strength: 0.9})

	analyzer := &fakeChartAnalyzer{result: &dto.AnalysisResult{
		Observation: observation,
		Timeframes:  dto.TimeframeTrends{TF5Min: "bullish", TF15Min: "bullish", TF60Min: "bullish"},
	}}
	obsRepo := &fakeObservationRepo{
		history: matchingHistory(12, "bullish"),
		byDay:   matchingHistory(12, "bullish"),
	}
	vision := &fakeVisionRepo{vote: &dto.AIVoteResult{Direction: "bullish", ConfidenceLevel: 80}}

	result, err := newTestPredictor(t, analyzer, obsRepo, vision).Predict(context.Background(), []byte("img"), "image/png", "spy-0930.png")

	require.NoError(t, err)
	assert.InDelta(t, 0.9125, result.Confidence, 1e-9)
	assert.Equal(t, "buy", result.Recommendation.Action)
	for _, factor := range result.RiskFactors {
		assert.NotContains(t, factor, "support")
	}
}

func TestPredictBuyWithoutOpposingLevelHasNoTakeProfit(t *testing.T) {
	observation := strongBullishObservation()
	observation.KeyLevels = []dto.KeyLevel{{Kind: "support", Price: 95.0, Strength: 0.7}}

	analyzer := &fakeChartAnalyzer{result: &dto.AnalysisResult{
		Observation: observation,
		Timeframes:  dto.TimeframeTrends{TF5Min: "bullish", TF15Min: "bullish", TF60Min: "bullish"},
	}}
	obsRepo := &fakeObservationRepo{
		history: matchingHistory(12, "bullish"),
		byDay:   matchingHistory(12, "bullish"),
	}
	vision := &fakeVisionRepo{vote: &dto.AIVoteResult{Direction: "bullish", ConfidenceLevel: 80}}

	result, err := newTestPredictor(t, analyzer, obsRepo, vision).Predict(context.Background(), []byte("img"), "image/png", "spy-0930.png")

	require.NoError(t, err)
	assert.Equal(t, "buy", result.Recommendation.Action)
	assert.InDelta(t, 99.7, result.Recommendation.StopLoss, 1e-9)
	assert.Zero(t, result.Recommendation.TakeProfit)
}

func TestPredictAIFailureDegradesToNeutralVote(t *testing.T) {
	analyzer := &fakeChartAnalyzer{result: &dto.AnalysisResult{
		Observation: strongBullishObservation(),
		Timeframes:  dto.TimeframeTrends{TF5Min: "bullish", TF15Min: "bullish", TF60Min: "bullish"},
	}}
	obsRepo := &fakeObservationRepo{
		history: matchingHistory(12, "bullish"),
		byDay:   matchingHistory(12, "bullish"),
	}
	vision := &fakeVisionRepo{voteErr: context.DeadlineExceeded}

	result, err := newTestPredictor(t, analyzer, obsRepo, vision).Predict(context.Background(), []byte("img"), "image/png", "spy-0930.png")

	require.NoError(t, err)
	aiVote := result.Votes[3]
	assert.Equal(t, "ai", aiVote.Method)
	assert.Equal(t, "neutral", aiVote.Direction)
	assert.Equal(t, 0.5, aiVote.Confidence)
	assert.Equal(t, "AI analysis unavailable", aiVote.Reasoning)

	// the remaining three votes still carry the prediction
	assert.Equal(t, "bullish", result.Direction)
	assert.Equal(t, "3/4", result.Quality.ConsensusRatio)
}
