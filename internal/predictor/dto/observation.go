package dto

import "time"

// KeyLevel is a support or resistance level read off the chart.
type KeyLevel struct {
	Kind     string  `json:"kind"` // support | resistance
	Price    float64 `json:"price"`
	Strength float64 `json:"strength"`
}

// MACD holds the synthesized MACD triple.
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// ChartObservation is the unit the prediction engine reasons about, either
// the freshly described current chart or a persisted historical record.
// Confidence scores are on the 0-1 scale everywhere inside the engine.
type ChartObservation struct {
	ID              uint       `json:"id,omitempty"`
	Filename        string     `json:"filename,omitempty"`
	Date            time.Time  `json:"date"`
	DayOfWeek       string     `json:"day_of_week"`
	Direction       string     `json:"direction"`
	Sentiment       string     `json:"sentiment,omitempty"`
	Momentum        string     `json:"momentum"`
	Volatility      string     `json:"volatility"`
	VolumeProfile   string     `json:"volume_profile"`
	SessionType     string     `json:"session_type"`
	ConfidenceScore float64    `json:"confidence_score"`
	CurrentPrice    float64    `json:"current_price"`
	KeyLevels       []KeyLevel `json:"key_levels,omitempty"`
	ActualOutcome   string     `json:"actual_outcome,omitempty"`

	// Derived by the engine at analysis time.
	RSI              float64 `json:"rsi,omitempty"`
	ATR              float64 `json:"atr,omitempty"`
	MACD             MACD    `json:"macd"`
	VolumeVsAverage  float64 `json:"volume_vs_average,omitempty"`
	DistanceFromVWAP float64 `json:"distance_from_vwap,omitempty"`
	ExtendedFromVWAP bool    `json:"extended_from_vwap,omitempty"`
	Regime           string  `json:"regime,omitempty"`
	VolatilityRegime string  `json:"volatility_regime,omitempty"`
	VolumeRegime     string  `json:"volume_regime,omitempty"`
}

// AnalysisResult is an enriched observation plus the per-timeframe trend
// labels read off the chart, which are not persisted with the observation.
type AnalysisResult struct {
	Observation ChartObservation `json:"observation"`
	Timeframes  TimeframeTrends  `json:"timeframes"`
}
