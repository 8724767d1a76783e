package summarize

import (
	"fmt"
	"sort"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

// Selector chooses the final non-overlapping, chronologically ordered scene
// list for one selection strategy.
type Selector interface {
	Select(candidates []domain.Scene, sourceDuration float64) ([]domain.Scene, error)
}

// NewSelector dispatches on the request variant. Text-prompt and category
// requests share budgeted selection; time ranges map directly.
func NewSelector(req domain.SelectionRequest, cfg Config) Selector {
	if req.Mode == domain.ModeTimeRange {
		return &timeRangeSelector{ranges: req.Ranges}
	}
	return &budgetSelector{
		budget:       cfg.TargetSummarySeconds,
		trimOverflow: cfg.TrimOverflow,
	}
}

// budgetSelector greedily picks the most confident non-overlapping candidates
// until the duration budget is reached. The candidate that crosses the budget
// is still admitted (selection stops after it), unless trimOverflow is set,
// in which case it is trimmed to the remaining budget.
type budgetSelector struct {
	budget       float64
	trimOverflow bool
}

func (s *budgetSelector) Select(candidates []domain.Scene, sourceDuration float64) ([]domain.Scene, error) {
	if len(candidates) == 0 {
		return nil, domain.NewNoMatchError("no scenes cleared the similarity threshold")
	}

	ranked := append([]domain.Scene(nil), candidates...)
	// Ties in confidence break by earliest start so results are reproducible.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Start < ranked[j].Start
	})

	var selected []domain.Scene
	var total float64
	for _, cand := range ranked {
		if total >= s.budget {
			break
		}
		if overlapsAny(cand, selected) {
			continue
		}
		if s.trimOverflow && total+cand.Duration() > s.budget {
			remaining := s.budget - total
			// Fragments under a second are not worth keeping.
			if remaining < 1.0 {
				break
			}
			cand.End = cand.Start + remaining
		}
		selected = append(selected, cand)
		total += cand.Duration()
	}

	if len(selected) == 0 {
		return nil, domain.NewNoMatchError("no scenes fit the summary budget")
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].Start < selected[j].Start })
	return selected, nil
}

// timeRangeSelector maps percentage ranges straight onto the timeline. It
// never consults candidates, confidence, or the embedding model.
type timeRangeSelector struct {
	ranges []domain.PercentRange
}

func (s *timeRangeSelector) Select(_ []domain.Scene, sourceDuration float64) ([]domain.Scene, error) {
	if sourceDuration <= 0 {
		return nil, domain.NewResourceError("source duration unknown", nil)
	}
	if len(s.ranges) == 0 {
		return nil, domain.NewValidationError("at least one time range is required")
	}

	scenes := make([]domain.Scene, 0, len(s.ranges))
	for i, r := range s.ranges {
		start := clamp(r.StartPercent/100*sourceDuration, 0, sourceDuration)
		end := clamp(r.EndPercent/100*sourceDuration, 0, sourceDuration)
		if start >= end {
			return nil, domain.NewValidationError("range %d collapses after clamping to the source duration", i)
		}
		scenes = append(scenes, domain.Scene{Start: start, End: end, Confidence: 1.0})
	}

	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Start < scenes[j].Start })

	// Overlapping input ranges merge rather than duplicate footage.
	merged := scenes[:1]
	for _, sc := range scenes[1:] {
		last := &merged[len(merged)-1]
		if sc.Start <= last.End {
			if sc.End > last.End {
				last.End = sc.End
			}
			continue
		}
		merged = append(merged, sc)
	}

	for i := range merged {
		merged[i].MatchedLabel = fmt.Sprintf("%.1f%%-%.1f%%",
			merged[i].Start/sourceDuration*100, merged[i].End/sourceDuration*100)
	}
	return merged, nil
}

func overlapsAny(s domain.Scene, accepted []domain.Scene) bool {
	for _, a := range accepted {
		if s.Start < a.End && a.Start < s.End {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
