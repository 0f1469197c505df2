package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeRSIDirection(t *testing.T) {
	bullish := Synthesize(SynthesisInput{Direction: "bullish", Momentum: "moderate", Volatility: "medium", CurrentPrice: 100})
	assert.Equal(t, 65.0, bullish.RSI)

	bearish := Synthesize(SynthesisInput{Direction: "bearish", Momentum: "moderate", Volatility: "medium", CurrentPrice: 100})
	assert.Equal(t, 35.0, bearish.RSI)

	neutral := Synthesize(SynthesisInput{Direction: "neutral", Momentum: "moderate", Volatility: "medium", CurrentPrice: 100})
	assert.Equal(t, 50.0, neutral.RSI)
}

func TestSynthesizeRSIMomentumAndVolatility(t *testing.T) {
	strong := Synthesize(SynthesisInput{Direction: "bullish", Momentum: "strong", Volatility: "medium", CurrentPrice: 100})
	assert.Equal(t, 75.0, strong.RSI)

	weak := Synthesize(SynthesisInput{Direction: "bullish", Momentum: "weak", Volatility: "medium", CurrentPrice: 100})
	assert.Equal(t, 60.0, weak.RSI)

	// High volatility amplifies the existing lean, it never flips it.
	extreme := Synthesize(SynthesisInput{Direction: "bullish", Momentum: "strong", Volatility: "high", CurrentPrice: 100})
	assert.Equal(t, 80.0, extreme.RSI)

	bearExtreme := Synthesize(SynthesisInput{Direction: "bearish", Momentum: "strong", Volatility: "high", CurrentPrice: 100})
	assert.Equal(t, 20.0, bearExtreme.RSI)
}

func TestSynthesizeRSIAlwaysInBounds(t *testing.T) {
	directions := []string{"bullish", "bearish", "neutral", "sideways", ""}
	momenta := []string{"strong", "moderate", "weak", ""}
	volatilities := []string{"high", "medium", "low", ""}

	for _, d := range directions {
		for _, m := range momenta {
			for _, v := range volatilities {
				got := Synthesize(SynthesisInput{Direction: d, Momentum: m, Volatility: v, CurrentPrice: 450})
				assert.GreaterOrEqual(t, got.RSI, 0.0)
				assert.LessOrEqual(t, got.RSI, 100.0)
			}
		}
	}
}

func TestSynthesizeATR(t *testing.T) {
	high := Synthesize(SynthesisInput{Direction: "neutral", Volatility: "high", CurrentPrice: 100})
	assert.InDelta(t, 0.5, high.ATR, 1e-9)

	low := Synthesize(SynthesisInput{Direction: "neutral", Volatility: "low", CurrentPrice: 100})
	assert.InDelta(t, 0.1, low.ATR, 1e-9)

	medium := Synthesize(SynthesisInput{Direction: "neutral", Volatility: "medium", CurrentPrice: 100})
	assert.InDelta(t, 0.2, medium.ATR, 1e-9)
}

func TestSynthesizeMACD(t *testing.T) {
	strong := Synthesize(SynthesisInput{Direction: "bullish", Momentum: "strong", CurrentPrice: 100})
	assert.Equal(t, 25.0, strong.MACD.Value)
	assert.InDelta(t, 17.5, strong.MACD.Signal, 1e-9)
	assert.InDelta(t, 7.5, strong.MACD.Histogram, 1e-9)

	weakBear := Synthesize(SynthesisInput{Direction: "bearish", Momentum: "weak", CurrentPrice: 100})
	assert.Equal(t, -5.0, weakBear.MACD.Value)

	moderateBear := Synthesize(SynthesisInput{Direction: "bearish", Momentum: "moderate", CurrentPrice: 100})
	assert.Equal(t, -15.0, moderateBear.MACD.Value)

	neutral := Synthesize(SynthesisInput{Direction: "neutral", Momentum: "strong", CurrentPrice: 100})
	assert.Equal(t, 0.0, neutral.MACD.Value)
	assert.Equal(t, 0.0, neutral.MACD.Histogram)
}

func TestSynthesizeVolumeRatio(t *testing.T) {
	assert.Equal(t, 1.5, Synthesize(SynthesisInput{VolumeProfile: "high"}).VolumeVsAverage)
	assert.Equal(t, 1.5, Synthesize(SynthesisInput{VolumeProfile: "heavy volume"}).VolumeVsAverage)
	assert.Equal(t, 0.6, Synthesize(SynthesisInput{VolumeProfile: "low"}).VolumeVsAverage)
	assert.Equal(t, 0.6, Synthesize(SynthesisInput{VolumeProfile: "light"}).VolumeVsAverage)
	assert.Equal(t, 1.0, Synthesize(SynthesisInput{VolumeProfile: "normal"}).VolumeVsAverage)
	assert.Equal(t, 1.0, Synthesize(SynthesisInput{VolumeProfile: ""}).VolumeVsAverage)
}

func TestSynthesizeVWAPDistance(t *testing.T) {
	assert.InDelta(t, 0.003, Synthesize(SynthesisInput{Direction: "bullish"}).DistanceFromVWAP, 1e-9)
	assert.InDelta(t, -0.003, Synthesize(SynthesisInput{Direction: "bearish"}).DistanceFromVWAP, 1e-9)
	assert.Equal(t, 0.0, Synthesize(SynthesisInput{Direction: "neutral"}).DistanceFromVWAP)

	extended := Synthesize(SynthesisInput{Direction: "bullish", Extended: true})
	assert.InDelta(t, 0.006, extended.DistanceFromVWAP, 1e-9)
}
