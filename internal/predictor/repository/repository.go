package repository

import (
	"context"
	"errors"

	"golang-chart-predictor/internal/predictor/dto"
)

// ErrVisionUnavailable marks the vision service as unreachable, rate limited
// or out of quota. It is the only upstream failure that aborts a prediction;
// callers should surface it with a retryable hint.
var ErrVisionUnavailable = errors.New("vision service unavailable")

// VisionAIRepository is the boundary to the vision-language model.
type VisionAIRepository interface {
	// DescribeChart asks the model to describe a chart screenshot. Malformed
	// model output is recovered into neutral defaults and never returned as
	// an error; only transport-level failures are.
	DescribeChart(ctx context.Context, image []byte, mimeType, filename string) (*dto.ChartDescriptionResult, error)
	// EnsembleVote asks the model for an independent directional opinion
	// given the current observation and its closest historical analogs.
	EnsembleVote(ctx context.Context, current dto.ChartObservation, patterns []dto.ScoredPattern, headlines []string) (*dto.AIVoteResult, error)
}
