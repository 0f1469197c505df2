package engine

import (
	"testing"

	"golang-chart-predictor/internal/predictor/dto"

	"github.com/stretchr/testify/assert"
)

func fullObservation() dto.ChartObservation {
	return dto.ChartObservation{
		DayOfWeek:     "friday",
		SessionType:   "market-open",
		Direction:     "bullish",
		Volatility:    "high",
		VolumeProfile: "high",
		Momentum:      "strong",
		RSI:           72,
	}
}

func TestScoreSelfSimilarityClampsToOne(t *testing.T) {
	obs := fullObservation()
	// All six dimensions plus the RSI bonus sum to 1.10 raw; the clamp keeps
	// the published score inside [0, 1].
	assert.Equal(t, 1.0, Score(obs, obs, DefaultWeights()))
}

func TestScoreNoMatches(t *testing.T) {
	current := fullObservation()
	historical := dto.ChartObservation{
		DayOfWeek:     "monday",
		SessionType:   "after-hours",
		Direction:     "bearish",
		Volatility:    "low",
		VolumeProfile: "thin",
		Momentum:      "weak",
		RSI:           30,
	}
	assert.Equal(t, 0.0, Score(current, historical, DefaultWeights()))
}

func TestScorePartialMatch(t *testing.T) {
	current := fullObservation()
	historical := fullObservation()
	historical.DayOfWeek = "monday"
	historical.RSI = 40

	// Loses the 0.15 day weight and the 0.10 RSI bonus: 1.10 - 0.25 = 0.85.
	assert.InDelta(t, 0.85, Score(current, historical, DefaultWeights()), 1e-9)
}

func TestScoreRSIProximityWindow(t *testing.T) {
	current := fullObservation()
	near := fullObservation()
	near.RSI = current.RSI + 9.9
	far := fullObservation()
	far.RSI = current.RSI + 10

	assert.Greater(t, Score(current, near, DefaultWeights()), Score(current, far, DefaultWeights()))
}

func TestScoreSentimentTakesPrecedenceOverDirection(t *testing.T) {
	current := fullObservation()

	// Sentiment disagrees with the current direction even though the raw
	// direction field matches, so the price pattern weight must not apply.
	historical := fullObservation()
	historical.Sentiment = "bearish"
	historical.DayOfWeek = "monday"
	historical.RSI = 0

	withSentiment := Score(current, historical, DefaultWeights())
	historical.Sentiment = ""
	withoutSentiment := Score(current, historical, DefaultWeights())

	assert.InDelta(t, 0.25, withoutSentiment-withSentiment, 1e-9)
}

func TestScoreVolatilityRegimeTakesPrecedence(t *testing.T) {
	current := fullObservation()
	current.VolatilityRegime = "high"

	historical := fullObservation()
	historical.VolatilityRegime = "low"
	historical.RSI = 0
	historical.DayOfWeek = "monday"

	mismatched := Score(current, historical, DefaultWeights())
	historical.VolatilityRegime = "high"
	matched := Score(current, historical, DefaultWeights())

	assert.InDelta(t, 0.15, matched-mismatched, 1e-9)
}

func TestScoreSessionSubstringMatch(t *testing.T) {
	current := fullObservation()
	current.SessionType = "market-open"
	historical := fullObservation()
	historical.SessionType = "open"
	historical.DayOfWeek = "monday"
	historical.RSI = 0

	// "open" is a substring of "market-open": the session weight applies.
	withSubstring := Score(current, historical, DefaultWeights())
	historical.SessionType = "lunch"
	without := Score(current, historical, DefaultWeights())

	assert.InDelta(t, 0.20, withSubstring-without, 1e-9)
}

func TestScoreDayOfWeekCaseInsensitive(t *testing.T) {
	current := fullObservation()
	historical := fullObservation()
	historical.DayOfWeek = "Friday"
	historical.RSI = 0
	historical.Momentum = "weak"

	base := Score(current, historical, DefaultWeights())
	historical.DayOfWeek = "saturday"
	assert.InDelta(t, 0.15, base-Score(current, historical, DefaultWeights()), 1e-9)
}
