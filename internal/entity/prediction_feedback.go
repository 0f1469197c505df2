package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PredictionFeedback is the stored result of one ensemble prediction,
// written asynchronously so future predictions can be validated against it.
type PredictionFeedback struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	ObservationID  uint           `json:"observation_id"`
	Direction      string         `json:"direction"`
	Confidence     float64        `json:"confidence"`
	Action         string         `json:"action"`
	EntryPrice     float64        `json:"entry_price"`
	TargetPrice    float64        `json:"target_price"`
	StopLoss       float64        `json:"stop_loss"`
	Timeframe      string         `json:"timeframe"`
	PatternCount   int            `json:"pattern_count"`
	SimilarCount   int            `json:"similar_count"`
	ConsensusRatio string         `json:"consensus_ratio"`
	Conditions     datatypes.JSON `json:"conditions" gorm:"type:jsonb"`
	ValidateAfter  time.Time      `json:"validate_after"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at"`
}

func (PredictionFeedback) TableName() string {
	return "prediction_feedbacks"
}
