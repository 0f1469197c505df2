package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeTimeframesFullyAligned(t *testing.T) {
	got := AnalyzeTimeframes("Bullish", "bullish", "BULLISH")
	assert.True(t, got.AllAligned)
	assert.InDelta(t, 1.0, got.AlignmentScore, 1e-9)
}

func TestAnalyzeTimeframesPartialAlignment(t *testing.T) {
	got := AnalyzeTimeframes("bullish", "bullish", "bearish")
	assert.False(t, got.AllAligned)
	// Only the 5min/15min pair matches.
	assert.InDelta(t, 0.33, got.AlignmentScore, 1e-9)
}

func TestAnalyzeTimeframesOuterPairOnly(t *testing.T) {
	got := AnalyzeTimeframes("bullish", "neutral", "bullish")
	assert.False(t, got.AllAligned)
	assert.InDelta(t, 0.34, got.AlignmentScore, 1e-9)
}

func TestAnalyzeTimeframesSubstringAlignment(t *testing.T) {
	// Alignment is a substring test, so mixed vocabularies still align.
	got := AnalyzeTimeframes("trending up", "bullish continuation", "up")
	assert.True(t, got.AllAligned)
	// Exact string equality still fails for the pairwise score.
	assert.InDelta(t, 0.0, got.AlignmentScore, 1e-9)
}

func TestAnalyzeTimeframesBearishAlignment(t *testing.T) {
	got := AnalyzeTimeframes("bearish", "bearish", "breaking down")
	assert.True(t, got.AllAligned)
	assert.InDelta(t, 0.33, got.AlignmentScore, 1e-9)
}

func TestAnalyzeTimeframesNoAgreement(t *testing.T) {
	got := AnalyzeTimeframes("bullish", "bearish", "neutral")
	assert.False(t, got.AllAligned)
	assert.Equal(t, 0.0, got.AlignmentScore)
}
