package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/internal/predictor/engine"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/pkg/common"
	"golang-chart-predictor/pkg/logger"
	"golang-chart-predictor/pkg/telegram"
	"golang-chart-predictor/pkg/utils"

	goRedis "github.com/redis/go-redis/v9"
)

const (
	historicalFetchLimit    = 500
	minHistoricalConfidence = 0.65
	minSimilarityScore      = 0.60
	maxSimilarPatterns      = 20

	minPatternVoteSamples = 5
	patternVoteThreshold  = 0.65

	dayOfWeekFetchLimit    = 100
	minDayOfWeekSamples    = 10
	dayOfWeekVoteThreshold = 0.6

	aiVoteContextPatterns = 10

	minActionableConfidence = 0.70
	minSimilarForAction     = 10
	minConsensusVotes       = 3

	nearLevelFraction   = 0.005
	proximityPenalty    = 0.7
	stopLossATRMultiple = 1.5

	largePositionConfidence = 0.80
)

// EnsemblePredictorService runs the full prediction pipeline: analyze the
// chart, score it against validated history, collect four independent votes
// and reconcile them into a single actionable recommendation.
type EnsemblePredictorService interface {
	Predict(ctx context.Context, image []byte, mimeType, filename string) (*dto.PredictionResult, error)
}

type ensemblePredictorService struct {
	cfg             *config.Config
	log             *logger.Logger
	redisClient     *goRedis.Client
	chartAnalyzer   ChartAnalyzerService
	observationRepo repository.ChartObservationRepository
	visionRepo      repository.VisionAIRepository
	headlinesRepo   repository.MarketHeadlinesRepository
	telegramBot     telegram.Notifier
}

// NewEnsemblePredictorService creates a new EnsemblePredictorService.
func NewEnsemblePredictorService(cfg *config.Config,
	log *logger.Logger,
	redisClient *goRedis.Client,
	chartAnalyzer ChartAnalyzerService,
	observationRepo repository.ChartObservationRepository,
	visionRepo repository.VisionAIRepository,
	headlinesRepo repository.MarketHeadlinesRepository,
	telegramBot telegram.Notifier) EnsemblePredictorService {
	return &ensemblePredictorService{
		cfg:             cfg,
		log:             log,
		redisClient:     redisClient,
		chartAnalyzer:   chartAnalyzer,
		observationRepo: observationRepo,
		visionRepo:      visionRepo,
		headlinesRepo:   headlinesRepo,
		telegramBot:     telegramBot,
	}
}

func (s *ensemblePredictorService) Predict(ctx context.Context, image []byte, mimeType, filename string) (*dto.PredictionResult, error) {
	analysis, err := s.chartAnalyzer.Analyze(ctx, image, mimeType, filename)
	if err != nil {
		return nil, err
	}
	current := analysis.Observation

	records, err := s.observationRepo.GetValidatedHistory(ctx, minHistoricalConfidence, historicalFetchLimit)
	if err != nil {
		s.log.Error("Failed to load validated history", logger.ErrorField(err))
		records = nil
	}
	history := make([]dto.ChartObservation, 0, len(records))
	for _, r := range records {
		history = append(history, dto.ObservationFromEntity(r))
	}

	similar := s.scoreSimilarPatterns(current, history)

	votes := s.collectVotes(ctx, current, similar)
	direction, confidence, agreeing := reconcileVotes(votes)

	timeframes := engine.AnalyzeTimeframes(
		analysis.Timeframes.TF5Min,
		analysis.Timeframes.TF15Min,
		analysis.Timeframes.TF60Min,
	)

	riskFactors := s.riskFactors(current, timeframes)
	if kind := blockingLevelKind(direction); kind != "" {
		if level, near := nearestKeyLevel(current, kind); near {
			confidence *= proximityPenalty
			riskFactors = append(riskFactors, fmt.Sprintf("price within %.1f%% of %s at %.2f", nearLevelFraction*100, level.Kind, level.Price))
		}
	}

	quality := dto.QualityMetrics{
		ConfidenceGate: confidence >= minActionableConfidence,
		SampleGate:     len(similar) >= minSimilarForAction,
		ConsensusGate:  agreeing >= minConsensusVotes,
		ConsensusRatio: fmt.Sprintf("%d/%d", agreeing, len(votes)),
	}

	recommendation := s.buildRecommendation(current, direction, confidence, quality)

	result := &dto.PredictionResult{
		Observation:     current,
		Direction:       direction,
		Confidence:      confidence,
		Votes:           votes,
		Timeframes:      timeframes,
		Recommendation:  recommendation,
		RiskFactors:     riskFactors,
		Reasoning:       buildReasoning(direction, confidence, votes, len(similar)),
		Quality:         quality,
		HistoricalCount: len(history),
		SimilarCount:    len(similar),
		SimilarPatterns: similar,
		AnalysisDate:    utils.TimeNowET(),
	}

	s.publishFeedback(result)
	s.notifyActionable(result)

	return result, nil
}

// scoreSimilarPatterns scores the current observation against every validated
// historical record and keeps the best matches above the cutoff.
func (s *ensemblePredictorService) scoreSimilarPatterns(current dto.ChartObservation, history []dto.ChartObservation) []dto.ScoredPattern {
	weights := engine.DefaultWeights()

	var scored []dto.ScoredPattern
	for _, h := range history {
		score := engine.Score(current, h, weights)
		if score >= minSimilarityScore {
			scored = append(scored, dto.ScoredPattern{Observation: h, SimilarityScore: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})
	if len(scored) > maxSimilarPatterns {
		scored = scored[:maxSimilarPatterns]
	}
	return scored
}

// collectVotes runs the four voting methods concurrently. Each vote has a
// fixed slot so the output order is deterministic.
func (s *ensemblePredictorService) collectVotes(ctx context.Context, current dto.ChartObservation, similar []dto.ScoredPattern) []dto.Vote {
	votes := make([]dto.Vote, 4)

	var wg sync.WaitGroup
	wg.Add(4)
	utils.GoSafe(func() {
		defer wg.Done()
		votes[0] = patternVote(similar)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		votes[1] = s.dayOfWeekVote(ctx, current.DayOfWeek)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		votes[2] = technicalVote(current)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		votes[3] = s.aiVote(ctx, current, similar)
	})
	wg.Wait()

	return votes
}

// patternVote votes with the realized outcomes of the most similar setups.
func patternVote(similar []dto.ScoredPattern) dto.Vote {
	vote := dto.Vote{Method: "pattern"}
	if len(similar) < minPatternVoteSamples {
		vote.Direction = engine.DirectionNeutral
		vote.Confidence = 0
		vote.Reasoning = "insufficient pattern data"
		return vote
	}

	bullish, bearish := 0, 0
	for _, p := range similar {
		switch directionalLean(p.Observation.ActualOutcome, p.Observation.Direction) {
		case engine.DirectionBullish:
			bullish++
		case engine.DirectionBearish:
			bearish++
		}
	}

	// Fractions are over directional records only; neutral outcomes abstain.
	directional := float64(bullish + bearish)
	bullishRatio, bearishRatio := 0.0, 0.0
	if directional > 0 {
		bullishRatio = float64(bullish) / directional
		bearishRatio = float64(bearish) / directional
	}

	switch {
	case bullishRatio > patternVoteThreshold:
		vote.Direction = engine.DirectionBullish
		vote.Confidence = bullishRatio
		vote.Reasoning = fmt.Sprintf("%d of %d similar setups resolved bullish", bullish, len(similar))
	case bearishRatio > patternVoteThreshold:
		vote.Direction = engine.DirectionBearish
		vote.Confidence = bearishRatio
		vote.Reasoning = fmt.Sprintf("%d of %d similar setups resolved bearish", bearish, len(similar))
	default:
		vote.Direction = engine.DirectionNeutral
		vote.Confidence = 0.5
		vote.Reasoning = "no dominant outcome among similar setups"
	}
	return vote
}

// dayOfWeekVote votes with the historical outcome distribution of the same
// weekday, independent of chart shape.
func (s *ensemblePredictorService) dayOfWeekVote(ctx context.Context, dayOfWeek string) dto.Vote {
	vote := dto.Vote{Method: "day_of_week"}

	records, err := s.observationRepo.GetValidatedByDayOfWeek(ctx, dayOfWeek, dayOfWeekFetchLimit)
	if err != nil {
		s.log.Error("Failed to load day-of-week history", logger.ErrorField(err), logger.StringField("day_of_week", dayOfWeek))
		records = nil
	}
	if len(records) < minDayOfWeekSamples {
		vote.Direction = engine.DirectionNeutral
		vote.Confidence = 0.5
		vote.Reasoning = "insufficient temporal data"
		return vote
	}

	bullish, bearish := 0, 0
	for _, r := range records {
		outcome := ""
		if r.ActualOutcome != nil {
			outcome = *r.ActualOutcome
		}
		switch directionalLean(outcome, r.Direction) {
		case engine.DirectionBullish:
			bullish++
		case engine.DirectionBearish:
			bearish++
		}
	}

	directional := float64(bullish + bearish)
	bullishRatio, bearishRatio := 0.0, 0.0
	if directional > 0 {
		bullishRatio = float64(bullish) / directional
		bearishRatio = float64(bearish) / directional
	}

	switch {
	case bullishRatio > dayOfWeekVoteThreshold:
		vote.Direction = engine.DirectionBullish
		vote.Confidence = bullishRatio
		vote.Reasoning = fmt.Sprintf("%s leans bullish over %d sessions", dayOfWeek, len(records))
	case bearishRatio > dayOfWeekVoteThreshold:
		vote.Direction = engine.DirectionBearish
		vote.Confidence = bearishRatio
		vote.Reasoning = fmt.Sprintf("%s leans bearish over %d sessions", dayOfWeek, len(records))
	default:
		vote.Direction = engine.DirectionNeutral
		vote.Confidence = 0.5
		vote.Reasoning = fmt.Sprintf("%s shows no weekday edge", dayOfWeek)
	}
	return vote
}

// technicalVote votes with the synthesized indicators. Trend-following rules
// take precedence over the mean-reversion extremes.
func technicalVote(current dto.ChartObservation) dto.Vote {
	vote := dto.Vote{Method: "technical"}

	rsi := current.RSI
	macd := current.MACD.Value

	switch {
	case rsi > 65 && macd > 10:
		vote.Direction = engine.DirectionBullish
		vote.Confidence = math.Min(0.85, rsi/100+0.5)
		vote.Reasoning = "momentum confirms the uptrend"
	case rsi < 35 && macd < -10:
		vote.Direction = engine.DirectionBearish
		vote.Confidence = math.Min(0.85, (100-rsi)/100+0.5)
		vote.Reasoning = "momentum confirms the downtrend"
	case rsi > 70:
		vote.Direction = engine.DirectionBearish
		vote.Confidence = 0.65
		vote.Reasoning = "overbought without momentum confirmation"
	case rsi < 30:
		vote.Direction = engine.DirectionBullish
		vote.Confidence = 0.65
		vote.Reasoning = "oversold without momentum confirmation"
	default:
		vote.Direction = engine.DirectionNeutral
		vote.Confidence = 0.6
		vote.Reasoning = "indicators are in a neutral range"
	}
	return vote
}

// aiVote asks the external model for an independent opinion, with recent
// headlines and the best matching setups as context. Any failure degrades to
// a neutral vote so the ensemble keeps working without the model.
func (s *ensemblePredictorService) aiVote(ctx context.Context, current dto.ChartObservation, similar []dto.ScoredPattern) dto.Vote {
	vote := dto.Vote{Method: "ai"}

	voteCtx, cancel := context.WithTimeout(ctx, s.cfg.Predictor.AIVoteTimeout)
	defer cancel()

	var headlines []string
	if s.headlinesRepo != nil {
		var err error
		headlines, err = s.headlinesRepo.GetTopHeadlines(voteCtx, s.cfg.Headlines.Limit)
		if err != nil {
			s.log.Warn("Failed to fetch market headlines", logger.ErrorField(err))
			headlines = nil
		}
	}

	patterns := similar
	if len(patterns) > aiVoteContextPatterns {
		patterns = patterns[:aiVoteContextPatterns]
	}

	result, err := s.visionRepo.EnsembleVote(voteCtx, current, patterns, headlines)
	if err != nil {
		s.log.Warn("AI ensemble vote failed", logger.ErrorField(err))
		vote.Direction = engine.DirectionNeutral
		vote.Confidence = 0.5
		vote.Reasoning = "AI analysis unavailable"
		return vote
	}

	vote.Direction = strings.ToLower(result.Direction)
	vote.Confidence = float64(result.ConfidenceLevel) / 100.0
	vote.Reasoning = result.Reasoning
	return vote
}

// reconcileVotes picks the majority direction when at least three of the four
// votes agree on bullish or bearish, with the mean confidence of the agreeing
// votes. Neutral votes never form a consensus; without one the result is
// neutral at a flat 0.5.
func reconcileVotes(votes []dto.Vote) (string, float64, int) {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, v := range votes {
		if v.Direction != engine.DirectionBullish && v.Direction != engine.DirectionBearish {
			continue
		}
		counts[v.Direction]++
		sums[v.Direction] += v.Confidence
	}

	bestDirection := engine.DirectionBullish
	if counts[engine.DirectionBearish] > counts[engine.DirectionBullish] {
		bestDirection = engine.DirectionBearish
	}
	bestCount := counts[bestDirection]

	if bestCount < minConsensusVotes {
		return engine.DirectionNeutral, 0.5, bestCount
	}
	return bestDirection, sums[bestDirection] / float64(bestCount), bestCount
}

// blockingLevelKind returns the key-level kind that works against the
// predicted direction: resistance caps a bullish move, support cushions a
// bearish one.
func blockingLevelKind(direction string) string {
	switch direction {
	case engine.DirectionBullish:
		return "resistance"
	case engine.DirectionBearish:
		return "support"
	}
	return ""
}

// nearestKeyLevel reports the closest key level of the given kind when it
// sits within the proximity band of the current price.
func nearestKeyLevel(current dto.ChartObservation, kind string) (dto.KeyLevel, bool) {
	if current.CurrentPrice <= 0 {
		return dto.KeyLevel{}, false
	}

	var nearest dto.KeyLevel
	nearestDistance := math.MaxFloat64
	for _, level := range current.KeyLevels {
		if !strings.EqualFold(level.Kind, kind) {
			continue
		}
		distance := math.Abs(level.Price - current.CurrentPrice)
		if distance <= current.CurrentPrice*nearLevelFraction && distance < nearestDistance {
			nearest = level
			nearestDistance = distance
		}
	}
	return nearest, nearestDistance != math.MaxFloat64
}

func (s *ensemblePredictorService) riskFactors(current dto.ChartObservation, timeframes dto.TimeframeAlignment) []string {
	var factors []string
	if current.Volatility == engine.VolatilityHigh {
		factors = append(factors, "high volatility")
	}
	if current.ExtendedFromVWAP {
		factors = append(factors, "price extended from VWAP")
	}
	if !timeframes.AllAligned {
		factors = append(factors, "timeframes not aligned")
	}
	return factors
}

// buildRecommendation turns a reconciled direction into a trade plan. Every
// quality gate must hold and the direction must not be neutral, otherwise the
// action is wait.
func (s *ensemblePredictorService) buildRecommendation(current dto.ChartObservation, direction string, confidence float64, quality dto.QualityMetrics) dto.TradeRecommendation {
	actionable := quality.ConfidenceGate && quality.SampleGate && quality.ConsensusGate &&
		direction != engine.DirectionNeutral
	if !actionable {
		return dto.TradeRecommendation{Action: "wait", PositionSize: "none"}
	}

	entry := current.CurrentPrice
	risk := stopLossATRMultiple * current.ATR

	recommendation := dto.TradeRecommendation{
		EntryPrice:   entry,
		PositionSize: "small",
	}
	if confidence > largePositionConfidence {
		recommendation.PositionSize = "medium"
	}

	if direction == engine.DirectionBullish {
		recommendation.Action = "buy"
		recommendation.StopLoss = entry - risk
	} else {
		recommendation.Action = "sell"
		recommendation.StopLoss = entry + risk
	}
	if target, ok := nearestOpposingLevel(current, blockingLevelKind(direction)); ok {
		recommendation.TakeProfit = target
	}
	return recommendation
}

// nearestOpposingLevel picks the key level of the given kind closest to the
// current price. When the chart shows none the take-profit stays unset so a
// caller can tell a missing level from a computed target.
func nearestOpposingLevel(current dto.ChartObservation, kind string) (float64, bool) {
	best := 0.0
	bestDistance := math.MaxFloat64
	for _, level := range current.KeyLevels {
		if !strings.EqualFold(level.Kind, kind) {
			continue
		}
		distance := math.Abs(level.Price - current.CurrentPrice)
		if distance < bestDistance {
			best = level.Price
			bestDistance = distance
		}
	}
	return best, bestDistance != math.MaxFloat64
}

func buildReasoning(direction string, confidence float64, votes []dto.Vote, similarCount int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Ensemble reconciled to %s at %.0f%% confidence over %d similar setups.", direction, confidence*100, similarCount))
	for _, v := range votes {
		b.WriteString(fmt.Sprintf(" [%s] %s (%.0f%%): %s.", v.Method, v.Direction, v.Confidence*100, v.Reasoning))
	}
	return b.String()
}

// publishFeedback enqueues the prediction on the feedback stream so the
// consumer can persist it and schedule outcome validation. Fire and forget.
func (s *ensemblePredictorService) publishFeedback(result *dto.PredictionResult) {
	if s.redisClient == nil {
		return
	}

	streamData := dto.StreamDataPredictionFeedback{
		ObservationID:  result.Observation.ID,
		Direction:      result.Direction,
		Confidence:     result.Confidence,
		Action:         result.Recommendation.Action,
		EntryPrice:     result.Recommendation.EntryPrice,
		TargetPrice:    result.Recommendation.TakeProfit,
		StopLoss:       result.Recommendation.StopLoss,
		Timeframe:      "intraday",
		PatternCount:   result.HistoricalCount,
		SimilarCount:   result.SimilarCount,
		ConsensusRatio: result.Quality.ConsensusRatio,
		Conditions:     result.Observation,
		ValidateAfter:  result.AnalysisDate.Add(s.cfg.Predictor.ValidationHorizon),
	}

	utils.GoSafe(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		streamDataJSON, err := json.Marshal(streamData)
		if err != nil {
			s.log.Error("Failed to marshal prediction feedback payload", logger.ErrorField(err))
			return
		}

		if err := s.redisClient.XAdd(ctx, &goRedis.XAddArgs{
			Stream: common.RedisStreamPredictionFeedback,
			Values: map[string]interface{}{"payload": streamDataJSON},
		}).Err(); err != nil {
			s.log.Error("Failed to enqueue prediction feedback", logger.ErrorField(err))
		}
	})
}

// notifyActionable sends a Telegram alert for non-wait recommendations.
func (s *ensemblePredictorService) notifyActionable(result *dto.PredictionResult) {
	if s.telegramBot == nil || result.Recommendation.Action == "wait" {
		return
	}

	message := telegram.FormatPredictionMessage(result)
	utils.GoSafe(func() {
		if err := s.telegramBot.SendMessage(message); err != nil {
			s.log.Error("Failed to send prediction alert", logger.ErrorField(err))
		}
	})
}

// directionalLean classifies a historical record by its realized outcome,
// falling back to the predicted direction when the outcome is non-directional.
func directionalLean(outcome, direction string) string {
	switch {
	case isBullishLabel(outcome):
		return engine.DirectionBullish
	case isBearishLabel(outcome):
		return engine.DirectionBearish
	case isBullishLabel(direction):
		return engine.DirectionBullish
	case isBearishLabel(direction):
		return engine.DirectionBearish
	}
	return engine.DirectionNeutral
}

func isBullishLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "bullish") || strings.Contains(l, "up")
}

func isBearishLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "bearish") || strings.Contains(l, "down")
}
