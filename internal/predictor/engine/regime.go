package engine

import "strings"

const (
	RegimeStrongBull = "strong_bull"
	RegimeWeakBull   = "weak_bull"
	RegimeStrongBear = "strong_bear"
	RegimeWeakBear   = "weak_bear"
	RegimeNeutral    = "neutral"
)

// Regime is the discretized market state derived from categorical labels
// plus the synthesized RSI.
type Regime struct {
	Regime           string
	VolatilityRegime string
	VolumeRegime     string
	Confidence       float64
}

// Classify buckets the observation into a trend, volatility and volume
// regime. The volume regime is a fixed "average": the volume ratio is
// synthesized separately and never fed back into this decision, and the
// behavior is kept for compatibility with stored historical records.
// Confidence is a placeholder constant, not a measured quantity.
func Classify(direction, momentum, volatility string, rsi float64) Regime {
	direction = strings.ToLower(direction)
	momentum = strings.ToLower(momentum)
	volatility = strings.ToLower(volatility)

	regime := RegimeNeutral
	switch {
	case direction == DirectionBullish && momentum == MomentumStrong && rsi > 60:
		regime = RegimeStrongBull
	case direction == DirectionBullish && momentum != MomentumWeak:
		regime = RegimeWeakBull
	case direction == DirectionBearish && momentum == MomentumStrong && rsi < 40:
		regime = RegimeStrongBear
	case direction == DirectionBearish && momentum != MomentumWeak:
		regime = RegimeWeakBear
	}

	volatilityRegime := "normal"
	switch volatility {
	case VolatilityHigh:
		volatilityRegime = "high"
	case VolatilityLow:
		volatilityRegime = "low"
	}

	return Regime{
		Regime:           regime,
		VolatilityRegime: volatilityRegime,
		VolumeRegime:     "average",
		Confidence:       0.75,
	}
}
