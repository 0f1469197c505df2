package repository

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
)

// Neutral defaults applied when a field cannot be recovered from the model
// output. A degraded description must still flow through the pipeline as a
// "no signal" observation rather than failing the prediction.
const (
	defaultDirection     = "neutral"
	defaultMomentum      = "moderate"
	defaultVolatility    = "medium"
	defaultVolumeProfile = "normal"
	// Placeholder price used when none can be read off the chart.
	defaultCurrentPrice = 100.0
	// Boundary scale is 0-100; 50 marks an unquantified description.
	defaultConfidenceLevel = 50
)

var priceRe = regexp.MustCompile(`(?i)(?:price[^0-9$\n]*|\$)\s*([0-9]+(?:\.[0-9]+)?)`)

// ParseChartDescription turns raw model output into a description. It first
// attempts a strict parse of the expected JSON shape; when that fails, each
// field is recovered independently by keyword extraction, and whatever is
// still missing gets its neutral default.
func ParseChartDescription(raw string) *dto.ChartDescriptionResult {
	trimmed := strings.Trim(raw, "`json\n`")

	var result dto.ChartDescriptionResult
	if err := json.Unmarshal([]byte(trimmed), &result); err == nil && result.Direction != "" {
		applyDescriptionDefaults(&result)
		return &result
	}

	lowered := strings.ToLower(raw)
	result = dto.ChartDescriptionResult{
		Direction:       extractLabel(lowered, defaultDirection, "bullish", "bearish"),
		Momentum:        extractLabel(lowered, defaultMomentum, "strong", "weak"),
		Volatility:      extractVolatility(lowered),
		VolumeProfile:   extractVolumeProfile(lowered),
		ConfidenceLevel: defaultConfidenceLevel,
		CurrentPrice:    extractPrice(raw),
	}
	applyDescriptionDefaults(&result)
	return &result
}

func applyDescriptionDefaults(result *dto.ChartDescriptionResult) {
	result.Direction = strings.ToLower(result.Direction)
	result.Momentum = strings.ToLower(result.Momentum)
	result.Volatility = strings.ToLower(result.Volatility)
	result.VolumeProfile = strings.ToLower(result.VolumeProfile)

	if result.Direction == "" {
		result.Direction = defaultDirection
	}
	if result.Momentum == "" {
		result.Momentum = defaultMomentum
	}
	if result.Volatility == "" {
		result.Volatility = defaultVolatility
	}
	if result.VolumeProfile == "" {
		result.VolumeProfile = defaultVolumeProfile
	}
	if result.CurrentPrice <= 0 {
		result.CurrentPrice = defaultCurrentPrice
	}
	if result.ConfidenceLevel <= 0 {
		result.ConfidenceLevel = defaultConfidenceLevel
	}
}

// extractLabel returns the first candidate found in the text, scanning in
// the order given so stronger labels win ties.
func extractLabel(text, fallback string, candidates ...string) string {
	for _, candidate := range candidates {
		if strings.Contains(text, candidate) {
			return candidate
		}
	}
	return fallback
}

func extractVolatility(text string) string {
	switch {
	case strings.Contains(text, "high volatility") || strings.Contains(text, "volatile"):
		return "high"
	case strings.Contains(text, "low volatility") || strings.Contains(text, "calm"):
		return "low"
	default:
		return defaultVolatility
	}
}

func extractVolumeProfile(text string) string {
	switch {
	case strings.Contains(text, "high volume") || strings.Contains(text, "heavy volume"):
		return "high"
	case strings.Contains(text, "low volume") || strings.Contains(text, "light volume"):
		return "low"
	default:
		return defaultVolumeProfile
	}
}

func extractPrice(text string) float64 {
	match := priceRe.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0
	}
	price, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return price
}
