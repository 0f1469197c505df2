package dto

import "time"

// TimeframeAlignment reports how well the trend labels of three timeframes
// agree with each other.
type TimeframeAlignment struct {
	TF5Min         string  `json:"tf_5min"`
	TF15Min        string  `json:"tf_15min"`
	TF60Min        string  `json:"tf_60min"`
	AlignmentScore float64 `json:"alignment_score"`
	AllAligned     bool    `json:"all_aligned"`
}

// Vote is one independent directional opinion inside the ensemble.
type Vote struct {
	Method     string  `json:"method"`
	Direction  string  `json:"direction"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ScoredPattern pairs a historical observation with its similarity to the
// current one.
type ScoredPattern struct {
	Observation     ChartObservation `json:"observation"`
	SimilarityScore float64          `json:"similarity_score"`
}

// TradeRecommendation is the actionable output of a prediction. Entry, stop
// and take-profit are only populated when the action is not "wait"; the
// take-profit is also omitted when the chart shows no opposing key level.
type TradeRecommendation struct {
	Action       string  `json:"action"` // buy | sell | wait
	EntryPrice   float64 `json:"entry_price,omitempty"`
	StopLoss     float64 `json:"stop_loss,omitempty"`
	TakeProfit   float64 `json:"take_profit,omitempty"`
	PositionSize string  `json:"position_size"`
}

// QualityMetrics records which quality gates held for a prediction.
type QualityMetrics struct {
	ConfidenceGate bool   `json:"confidence_gate"`
	SampleGate     bool   `json:"sample_gate"`
	ConsensusGate  bool   `json:"consensus_gate"`
	ConsensusRatio string `json:"consensus_ratio"`
}

// PredictionResult is the full response of one ensemble prediction run.
type PredictionResult struct {
	Observation     ChartObservation    `json:"observation"`
	Direction       string              `json:"direction"`
	Confidence      float64             `json:"confidence"`
	Votes           []Vote              `json:"votes"`
	Timeframes      TimeframeAlignment  `json:"timeframes"`
	Recommendation  TradeRecommendation `json:"recommendation"`
	RiskFactors     []string            `json:"risk_factors"`
	Reasoning       string              `json:"reasoning"`
	Quality         QualityMetrics      `json:"quality"`
	HistoricalCount int                 `json:"historical_count"`
	SimilarCount    int                 `json:"similar_count"`
	SimilarPatterns []ScoredPattern     `json:"similar_patterns,omitempty"`
	AnalysisDate    time.Time           `json:"analysis_date"`
}

// AttachOutcomeRequest records the realized direction for an observation.
type AttachOutcomeRequest struct {
	Outcome string `json:"outcome"`
}

// ErrorResponse is the generic error payload returned by the API.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}
