package engine

import (
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
)

// AnalyzeTimeframes compares three timeframe labels. AllAligned requires all
// three to read bullish (or up) or all three bearish (or down); the score
// accumulates per matching pair so partial agreement lands on 0.33 or 0.67.
func AnalyzeTimeframes(tf5, tf15, tf60 string) dto.TimeframeAlignment {
	t5 := strings.ToLower(tf5)
	t15 := strings.ToLower(tf15)
	t60 := strings.ToLower(tf60)

	allAligned := (isBullishLabel(t5) && isBullishLabel(t15) && isBullishLabel(t60)) ||
		(isBearishLabel(t5) && isBearishLabel(t15) && isBearishLabel(t60))

	score := 0.0
	if t5 == t15 {
		score += 0.33
	}
	if t15 == t60 {
		score += 0.33
	}
	if t5 == t60 {
		score += 0.34
	}

	return dto.TimeframeAlignment{
		TF5Min:         t5,
		TF15Min:        t15,
		TF60Min:        t60,
		AlignmentScore: score,
		AllAligned:     allAligned,
	}
}

func isBullishLabel(label string) bool {
	return strings.Contains(label, "bullish") || strings.Contains(label, "up")
}

func isBearishLabel(label string) bool {
	return strings.Contains(label, "bearish") || strings.Contains(label, "down")
}
