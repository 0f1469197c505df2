package dto

import (
	"encoding/json"

	"golang-chart-predictor/internal/entity"

	"gorm.io/datatypes"
)

// ObservationFromEntity converts a stored observation into the engine DTO.
func ObservationFromEntity(e entity.ChartObservation) ChartObservation {
	var keyLevels []KeyLevel
	if len(e.KeyLevels) > 0 {
		_ = json.Unmarshal(e.KeyLevels, &keyLevels)
	}

	outcome := ""
	if e.ActualOutcome != nil {
		outcome = *e.ActualOutcome
	}

	return ChartObservation{
		ID:              e.ID,
		Filename:        e.Filename,
		Date:            e.ObservedAt,
		DayOfWeek:       e.DayOfWeek,
		Direction:       e.Direction,
		Sentiment:       e.Sentiment,
		Momentum:        e.Momentum,
		Volatility:      e.Volatility,
		VolumeProfile:   e.VolumeProfile,
		SessionType:     e.SessionType,
		ConfidenceScore: e.ConfidenceScore,
		CurrentPrice:    e.CurrentPrice,
		KeyLevels:       keyLevels,
		ActualOutcome:   outcome,

		RSI: e.RSI,
		ATR: e.ATR,
		MACD: MACD{
			Value:     e.MACDValue,
			Signal:    e.MACDSignal,
			Histogram: e.MACDHistogram,
		},
		VolumeVsAverage:  e.VolumeVsAverage,
		DistanceFromVWAP: e.DistanceFromVWAP,
		Regime:           e.Regime,
		VolatilityRegime: e.VolatilityRegime,
		VolumeRegime:     e.VolumeRegime,
	}
}

// ObservationToEntity converts an engine DTO into its stored form.
func ObservationToEntity(o ChartObservation) entity.ChartObservation {
	keyLevelsJSON, _ := json.Marshal(o.KeyLevels)

	var outcome *string
	if o.ActualOutcome != "" {
		v := o.ActualOutcome
		outcome = &v
	}

	return entity.ChartObservation{
		ID:              o.ID,
		Filename:        o.Filename,
		ObservedAt:      o.Date,
		DayOfWeek:       o.DayOfWeek,
		Direction:       o.Direction,
		Sentiment:       o.Sentiment,
		Momentum:        o.Momentum,
		Volatility:      o.Volatility,
		VolumeProfile:   o.VolumeProfile,
		SessionType:     o.SessionType,
		ConfidenceScore: o.ConfidenceScore,
		CurrentPrice:    o.CurrentPrice,
		KeyLevels:       datatypes.JSON(keyLevelsJSON),
		ActualOutcome:   outcome,

		RSI:              o.RSI,
		ATR:              o.ATR,
		MACDValue:        o.MACD.Value,
		MACDSignal:       o.MACD.Signal,
		MACDHistogram:    o.MACD.Histogram,
		VolumeVsAverage:  o.VolumeVsAverage,
		DistanceFromVWAP: o.DistanceFromVWAP,
		Regime:           o.Regime,
		VolatilityRegime: o.VolatilityRegime,
		VolumeRegime:     o.VolumeRegime,
	}
}
