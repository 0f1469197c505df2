package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChartObservation is a persisted chart analysis. Once created it is only
// ever updated to attach the validated actual outcome.
type ChartObservation struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Filename        string         `json:"filename"`
	ObservedAt      time.Time      `json:"observed_at"`
	DayOfWeek       string         `json:"day_of_week"`
	Direction       string         `json:"direction"`
	Sentiment       string         `json:"sentiment"`
	Momentum        string         `json:"momentum"`
	Volatility      string         `json:"volatility"`
	VolumeProfile   string         `json:"volume_profile"`
	SessionType     string         `json:"session_type"`
	ConfidenceScore float64        `json:"confidence_score"`
	CurrentPrice    float64        `json:"current_price"`
	KeyLevels       datatypes.JSON `json:"key_levels" gorm:"type:jsonb"`
	ActualOutcome   *string        `json:"actual_outcome"`

	RSI              float64 `json:"rsi"`
	ATR              float64 `json:"atr"`
	MACDValue        float64 `json:"macd_value"`
	MACDSignal       float64 `json:"macd_signal"`
	MACDHistogram    float64 `json:"macd_histogram"`
	VolumeVsAverage  float64 `json:"volume_vs_average"`
	DistanceFromVWAP float64 `json:"distance_from_vwap"`
	Regime           string  `json:"regime"`
	VolatilityRegime string  `json:"volatility_regime"`
	VolumeRegime     string  `json:"volume_regime"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

func (ChartObservation) TableName() string {
	return "chart_observations"
}
