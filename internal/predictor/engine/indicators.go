package engine

import (
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
)

const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"

	MomentumStrong   = "strong"
	MomentumModerate = "moderate"
	MomentumWeak     = "weak"

	VolatilityHigh   = "high"
	VolatilityMedium = "medium"
	VolatilityLow    = "low"
)

// SynthesisInput carries the categorical chart descriptors the indicator
// values are derived from. Unknown label values fall through to neutral
// defaults, so Synthesize is total over any input.
type SynthesisInput struct {
	Direction     string
	Momentum      string
	Volatility    string
	VolumeProfile string
	CurrentPrice  float64
	// Extended marks a price stretched away from VWAP, which doubles the
	// synthesized VWAP distance.
	Extended bool
}

// Indicators are the pseudo technical indicators synthesized from
// categorical labels. No real price series is involved.
type Indicators struct {
	RSI              float64
	ATR              float64
	MACD             dto.MACD
	VolumeVsAverage  float64
	DistanceFromVWAP float64
}

// Synthesize maps categorical chart descriptors to numeric indicator values.
func Synthesize(in SynthesisInput) Indicators {
	direction := strings.ToLower(in.Direction)
	momentum := strings.ToLower(in.Momentum)
	volatility := strings.ToLower(in.Volatility)

	return Indicators{
		RSI:              synthesizeRSI(direction, momentum, volatility),
		ATR:              synthesizeATR(volatility, in.CurrentPrice),
		MACD:             synthesizeMACD(direction, momentum),
		VolumeVsAverage:  synthesizeVolumeRatio(in.VolumeProfile),
		DistanceFromVWAP: synthesizeVWAPDistance(direction, in.Extended),
	}
}

// synthesizeRSI starts from the neutral midpoint and shifts it by direction,
// then momentum, then volatility. Momentum and volatility amplify or soften
// the lean the direction already established; they never flip its sign.
func synthesizeRSI(direction, momentum, volatility string) float64 {
	rsi := 50.0

	switch direction {
	case DirectionBullish:
		rsi += 15
	case DirectionBearish:
		rsi -= 15
	}

	switch momentum {
	case MomentumStrong:
		if rsi > 50 {
			rsi += 10
		} else if rsi < 50 {
			rsi -= 10
		}
	case MomentumWeak:
		if rsi > 50 {
			rsi -= 5
		} else if rsi < 50 {
			rsi += 5
		}
	}

	if volatility == VolatilityHigh {
		if rsi > 50 {
			rsi += 5
		} else if rsi < 50 {
			rsi -= 5
		}
	}

	return clamp(rsi, 0, 100)
}

func synthesizeATR(volatility string, currentPrice float64) float64 {
	baseline := currentPrice * 0.002
	switch volatility {
	case VolatilityHigh:
		return baseline * 2.5
	case VolatilityLow:
		return baseline * 0.5
	default:
		return baseline
	}
}

func synthesizeMACD(direction, momentum string) dto.MACD {
	var magnitude float64
	switch momentum {
	case MomentumStrong:
		magnitude = 25
	case MomentumWeak:
		magnitude = 5
	default:
		magnitude = 15
	}

	var value float64
	switch direction {
	case DirectionBullish:
		value = magnitude
	case DirectionBearish:
		value = -magnitude
	}

	signal := value * 0.7
	return dto.MACD{
		Value:     value,
		Signal:    signal,
		Histogram: value - signal,
	}
}

func synthesizeVolumeRatio(volumeProfile string) float64 {
	profile := strings.ToLower(volumeProfile)
	switch {
	case strings.Contains(profile, "high") || strings.Contains(profile, "heavy"):
		return 1.5
	case strings.Contains(profile, "low") || strings.Contains(profile, "light"):
		return 0.6
	default:
		return 1.0
	}
}

func synthesizeVWAPDistance(direction string, extended bool) float64 {
	var distance float64
	switch direction {
	case DirectionBullish:
		distance = 0.003
	case DirectionBearish:
		distance = -0.003
	}
	if extended {
		distance *= 2
	}
	return distance
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
