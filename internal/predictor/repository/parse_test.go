package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChartDescriptionStrictJSON(t *testing.T) {
	raw := "```json\n{\"direction\":\"bullish\",\"momentum\":\"strong\",\"volatility\":\"high\",\"volume_profile\":\"high\",\"session_type\":\"market-open\",\"confidence_level\":82,\"current_price\":431.25,\"key_levels\":[{\"kind\":\"resistance\",\"price\":433.5,\"strength\":0.8}]}\n```"

	got := ParseChartDescription(raw)

	assert.Equal(t, "bullish", got.Direction)
	assert.Equal(t, "strong", got.Momentum)
	assert.Equal(t, "high", got.Volatility)
	assert.Equal(t, 82, got.ConfidenceLevel)
	assert.Equal(t, 431.25, got.CurrentPrice)
	assert.Len(t, got.KeyLevels, 1)
	assert.Equal(t, "resistance", got.KeyLevels[0].Kind)
}

func TestParseChartDescriptionFreeTextFallback(t *testing.T) {
	raw := "The chart shows a clearly bearish setup with weak momentum and high volatility. Price is around $98.40 on heavy volume."

	got := ParseChartDescription(raw)

	assert.Equal(t, "bearish", got.Direction)
	assert.Equal(t, "weak", got.Momentum)
	// "volatility" alone is not enough; the extractor keys on the phrasing.
	assert.Equal(t, "high", got.Volatility)
	assert.Equal(t, "high", got.VolumeProfile)
	assert.Equal(t, 98.40, got.CurrentPrice)
	assert.Equal(t, defaultConfidenceLevel, got.ConfidenceLevel)
}

func TestParseChartDescriptionTotalFailureUsesNeutralDefaults(t *testing.T) {
	got := ParseChartDescription("I cannot analyze this image.")

	assert.Equal(t, "neutral", got.Direction)
	assert.Equal(t, "moderate", got.Momentum)
	assert.Equal(t, "medium", got.Volatility)
	assert.Equal(t, "normal", got.VolumeProfile)
	assert.Equal(t, defaultCurrentPrice, got.CurrentPrice)
}

func TestParseChartDescriptionEmptyInput(t *testing.T) {
	got := ParseChartDescription("")

	assert.Equal(t, "neutral", got.Direction)
	assert.Equal(t, defaultCurrentPrice, got.CurrentPrice)
}

func TestParseChartDescriptionPartialJSONFillsDefaults(t *testing.T) {
	raw := "{\"direction\":\"bullish\"}"

	got := ParseChartDescription(raw)

	assert.Equal(t, "bullish", got.Direction)
	assert.Equal(t, "moderate", got.Momentum)
	assert.Equal(t, "medium", got.Volatility)
	assert.Equal(t, "normal", got.VolumeProfile)
	assert.Equal(t, defaultConfidenceLevel, got.ConfidenceLevel)
	assert.Equal(t, defaultCurrentPrice, got.CurrentPrice)
}

func TestExtractPrice(t *testing.T) {
	assert.Equal(t, 431.25, extractPrice("trading at $431.25 right now"))
	assert.Equal(t, 98.0, extractPrice("the price is 98"))
	assert.Equal(t, 0.0, extractPrice("no numbers here"))
}
