package domain

// MaxPromptLength bounds free-text prompt size; CLIP truncates past its token
// window anyway, so longer prompts only waste transport.
const MaxPromptLength = 500

// PercentRange is a caller-supplied interval expressed as percentages of the
// source duration.
type PercentRange struct {
	StartPercent float64 `json:"start_percent"`
	EndPercent   float64 `json:"end_percent"`
}

// SelectionRequest is the tagged variant driving scene selection. Exactly one
// of Prompt, CategoryID, or Ranges is meaningful, keyed by Mode.
type SelectionRequest struct {
	Mode       SummaryMode    `json:"mode"`
	Prompt     string         `json:"prompt,omitempty"`
	CategoryID string         `json:"category_id,omitempty"`
	Ranges     []PercentRange `json:"ranges,omitempty"`
}

// Validate rejects malformed requests synchronously, before any job record is
// created.
func (r SelectionRequest) Validate() error {
	switch r.Mode {
	case ModeTextPrompt:
		if r.Prompt == "" {
			return NewValidationError("prompt must not be empty")
		}
		if len(r.Prompt) > MaxPromptLength {
			return NewValidationError("prompt exceeds %d characters", MaxPromptLength)
		}
	case ModeCategory:
		if _, ok := LookupCategory(r.CategoryID); !ok {
			return NewValidationError("unknown category %q", r.CategoryID)
		}
	case ModeTimeRange:
		if len(r.Ranges) == 0 {
			return NewValidationError("at least one time range is required")
		}
		for i, tr := range r.Ranges {
			if tr.StartPercent < 0 || tr.EndPercent > 100 {
				return NewValidationError("range %d out of bounds: percentages must lie in [0,100]", i)
			}
			if tr.StartPercent >= tr.EndPercent {
				return NewValidationError("range %d invalid: start %.1f%% must precede end %.1f%%", i, tr.StartPercent, tr.EndPercent)
			}
		}
	default:
		return NewValidationError("unsupported mode %q", r.Mode)
	}
	return nil
}

// UsesEmbedding reports whether the request needs frame analysis at all.
// Time-range selection maps percentages directly and never touches the model.
func (r SelectionRequest) UsesEmbedding() bool {
	return r.Mode != ModeTimeRange
}
