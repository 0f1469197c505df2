package engine

import (
	"math"
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
)

// Weights are the per-dimension contributions to the similarity score.
// The defaults sum to 1.0; the RSI proximity bonus can push a raw score to
// 1.10 before the clamp.
type Weights struct {
	DayOfWeek     float64
	SessionTime   float64
	PricePattern  float64
	Volatility    float64
	VolumeProfile float64
	Momentum      float64
}

// DefaultWeights returns the weights stored historical records were scored
// with. Changing them invalidates comparability with persisted scores.
func DefaultWeights() Weights {
	return Weights{
		DayOfWeek:     0.15,
		SessionTime:   0.20,
		PricePattern:  0.25,
		Volatility:    0.15,
		VolumeProfile: 0.10,
		Momentum:      0.15,
	}
}

const (
	rsiProximityBonus  = 0.10
	rsiProximityWindow = 10.0
)

// Score computes the weighted categorical match between a current and a
// historical observation, clamped to [0, 1]. Each dimension contributes its
// full weight on a match and nothing otherwise.
func Score(current, historical dto.ChartObservation, w Weights) float64 {
	score := 0.0

	if current.DayOfWeek != "" && strings.EqualFold(current.DayOfWeek, historical.DayOfWeek) {
		score += w.DayOfWeek
	}

	currentSession := strings.ToLower(current.SessionType)
	historicalSession := strings.ToLower(historical.SessionType)
	if currentSession != "" && historicalSession != "" &&
		(strings.Contains(currentSession, historicalSession) || strings.Contains(historicalSession, currentSession)) {
		score += w.SessionTime
	}

	if d := primaryDirection(current); d != "" && d == primaryDirection(historical) {
		score += w.PricePattern
	}

	if v := volatilityLabel(current); v != "" && v == volatilityLabel(historical) {
		score += w.Volatility
	}

	currentVolume := strings.ToLower(current.VolumeProfile)
	historicalVolume := strings.ToLower(historical.VolumeProfile)
	if currentVolume != "" && historicalVolume != "" &&
		(strings.Contains(currentVolume, historicalVolume) || strings.Contains(historicalVolume, currentVolume)) {
		score += w.VolumeProfile
	}

	if current.Momentum != "" && strings.EqualFold(current.Momentum, historical.Momentum) {
		score += w.Momentum
	}

	if current.RSI > 0 && historical.RSI > 0 &&
		math.Abs(current.RSI-historical.RSI) < rsiProximityWindow {
		score += rsiProximityBonus
	}

	return math.Min(1.0, score)
}

// primaryDirection reads the sentiment label before the direction label.
// The order matters: it decides which historical records count as a price
// pattern match, so it must stay stable across the stored corpus.
func primaryDirection(o dto.ChartObservation) string {
	if o.Sentiment != "" {
		return strings.ToLower(o.Sentiment)
	}
	return strings.ToLower(o.Direction)
}

// volatilityLabel prefers the classified volatility regime over the raw
// label, same fallback order as primaryDirection.
func volatilityLabel(o dto.ChartObservation) string {
	if o.VolatilityRegime != "" {
		return strings.ToLower(o.VolatilityRegime)
	}
	return strings.ToLower(o.Volatility)
}
