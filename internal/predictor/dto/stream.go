package dto

import "time"

// StreamDataPredictionFeedback is the payload published to the
// prediction.feedback stream after every prediction. Persistence happens on
// the consumer side so a slow or failing write never delays the response.
type StreamDataPredictionFeedback struct {
	ObservationID  uint             `json:"observation_id"`
	Direction      string           `json:"direction"`
	Confidence     float64          `json:"confidence"`
	Action         string           `json:"action"`
	EntryPrice     float64          `json:"entry_price"`
	TargetPrice    float64          `json:"target_price"`
	StopLoss       float64          `json:"stop_loss"`
	Timeframe      string           `json:"timeframe"`
	PatternCount   int              `json:"pattern_count"`
	SimilarCount   int              `json:"similar_count"`
	ConsensusRatio string           `json:"consensus_ratio"`
	Conditions     ChartObservation `json:"conditions"`
	ValidateAfter  time.Time        `json:"validate_after"`
}
