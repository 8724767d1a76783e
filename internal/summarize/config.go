package summarize

import "time"

// Config holds the summarization tuning knobs. Zero values are replaced with
// defaults by Normalize.
type Config struct {
	// FrameStrideSeconds is the sampling interval: larger strides decode
	// fewer frames at the cost of temporal resolution.
	FrameStrideSeconds float64

	// SimilarityThreshold is τ: the minimum frame score for a frame to count
	// as matching the query.
	SimilarityThreshold float64

	// MinSceneSeconds drops candidate scenes shorter than this.
	MinSceneSeconds float64

	// MergeGapSeconds merges adjacent candidates separated by less than this,
	// so one stray low-scoring frame does not split a scene in two.
	MergeGapSeconds float64

	// TargetSummarySeconds is the selection budget.
	TargetSummarySeconds float64

	// TrimOverflow trims the final admitted scene to fit the budget exactly
	// instead of admitting it whole.
	TrimOverflow bool

	// ComposeRetries bounds retry attempts for compose-stage failures.
	ComposeRetries int
	ComposeBackoff time.Duration
}

// Normalize fills unset fields with defaults.
func (c Config) Normalize() Config {
	if c.FrameStrideSeconds <= 0 {
		c.FrameStrideSeconds = 1.0
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = 0.30
	}
	if c.MinSceneSeconds <= 0 {
		c.MinSceneSeconds = 1.0
	}
	if c.MergeGapSeconds <= 0 {
		c.MergeGapSeconds = 2 * c.FrameStrideSeconds
	}
	if c.TargetSummarySeconds <= 0 {
		c.TargetSummarySeconds = 60
	}
	if c.ComposeRetries <= 0 {
		c.ComposeRetries = 3
	}
	if c.ComposeBackoff <= 0 {
		c.ComposeBackoff = 500 * time.Millisecond
	}
	return c
}
