package repository

import (
	"fmt"
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
)

// BuildDescribeChartPrompt builds the vision prompt for a chart screenshot.
// The requested shape matches dto.ChartDescriptionResult; the parser still
// assumes the model may ignore it.
func BuildDescribeChartPrompt(filename string) string {
	return fmt.Sprintf(`You are an experienced intraday chart analyst. The attached image (%s) is a screenshot of a price chart with volume. Describe what you see and respond ONLY with JSON in the following structure:

{
  "direction": "bullish | bearish | neutral",
  "sentiment": "bullish | bearish | neutral",
  "momentum": "strong | moderate | weak",
  "volatility": "high | medium | low",
  "volume_profile": "high | normal | low",
  "session_type": "pre-market | market-open | lunch | power-hour | after-hours",
  "confidence_level": <int 0-100>,
  "current_price": <float, the last traded price visible on the chart>,
  "extended": <bool, true when price looks stretched far away from VWAP>,
  "key_levels": [
    {"kind": "support | resistance", "price": <float>, "strength": <float 0.0-1.0>}
  ],
  "timeframes": {
    "tf_5min": "<trend label for the 5 minute timeframe>",
    "tf_15min": "<trend label for the 15 minute timeframe>",
    "tf_60min": "<trend label for the 60 minute timeframe>"
  },
  "reasoning": "<one short paragraph>"
}

Important:
- "direction" is the primary trend of the chart, not your trade opinion.
- List at most 4 key levels, nearest to current price first.
- If a field cannot be determined from the image, use the neutral option.`, filename)
}

// BuildEnsembleVotePrompt builds the prompt for the external-model vote.
func BuildEnsembleVotePrompt(current dto.ChartObservation, patterns []dto.ScoredPattern, headlines []string) string {
	var patternBuilder strings.Builder
	for i, p := range patterns {
		outcome := p.Observation.ActualOutcome
		if outcome == "" {
			outcome = p.Observation.Direction
		}
		patternBuilder.WriteString(fmt.Sprintf(
			"%d. similarity %.2f | %s %s session | direction %s, momentum %s, volatility %s, volume %s | outcome: %s\n",
			i+1, p.SimilarityScore, p.Observation.DayOfWeek, p.Observation.SessionType,
			p.Observation.Direction, p.Observation.Momentum, p.Observation.Volatility,
			p.Observation.VolumeProfile, outcome,
		))
	}

	var headlineBuilder strings.Builder
	for _, h := range headlines {
		headlineBuilder.WriteString("- " + h + "\n")
	}
	if headlineBuilder.Len() == 0 {
		headlineBuilder.WriteString("(none available)\n")
	}

	return fmt.Sprintf(`You are one voter in an ensemble of independent trading heuristics. Based on the current chart conditions and how similar past setups resolved, give your own directional opinion.

Current conditions:
- day of week: %s, session: %s
- direction: %s, momentum: %s, volatility: %s, volume: %s
- synthesized RSI: %.1f, MACD: %.1f, regime: %s
- current price: %.2f

Most similar historical setups (best first):
%s
Recent market headlines:
%s
Respond ONLY with JSON:
{
  "direction": "bullish | bearish | neutral",
  "confidence_level": <int 0-100>,
  "reasoning": "<one short paragraph>"
}`,
		current.DayOfWeek, current.SessionType,
		current.Direction, current.Momentum, current.Volatility, current.VolumeProfile,
		current.RSI, current.MACD.Value, current.Regime,
		current.CurrentPrice,
		patternBuilder.String(),
		headlineBuilder.String(),
	)
}
