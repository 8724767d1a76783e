package summarize

import (
	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

// ScoredFrame pairs a sample timestamp with its similarity score against the
// query.
type ScoredFrame struct {
	Timestamp float64
	Score     float64
}

// AggregateOptions configures how per-frame scores become scene candidates.
type AggregateOptions struct {
	Threshold      float64 // τ: frames scoring below are non-matches
	Stride         float64 // sampling interval; a frame covers [ts, ts+stride)
	MergeGap       float64 // candidates closer than this merge into one
	MinSceneLength float64 // candidates shorter than this are dropped
	SourceDuration float64 // scene ends never extend past this
	Label          string  // matched label carried onto every candidate
}

// run is a maximal stretch of consecutive matching frames.
type run struct {
	start    float64
	end      float64 // end of the last matching frame's coverage
	scoreSum float64
	frames   int
}

// AggregateScenes merges consecutive frames scoring at or above the threshold
// into scene candidates. Input must be in temporal order, which makes the
// output non-overlapping and sorted by construction. A candidate's confidence
// is the mean score of its constituent frames.
func AggregateScenes(scored []ScoredFrame, opts AggregateOptions) []domain.Scene {
	var runs []run
	var cur *run

	for _, sf := range scored {
		if sf.Score < opts.Threshold {
			if cur != nil {
				runs = append(runs, *cur)
				cur = nil
			}
			continue
		}
		end := sf.Timestamp + opts.Stride
		if opts.SourceDuration > 0 && end > opts.SourceDuration {
			end = opts.SourceDuration
		}
		if cur == nil {
			cur = &run{start: sf.Timestamp, end: end, scoreSum: sf.Score, frames: 1}
			continue
		}
		cur.end = end
		cur.scoreSum += sf.Score
		cur.frames++
	}
	if cur != nil {
		runs = append(runs, *cur)
	}

	runs = mergeCloseRuns(runs, opts.MergeGap)

	var scenes []domain.Scene
	for _, r := range runs {
		if r.end-r.start < opts.MinSceneLength {
			continue
		}
		scenes = append(scenes, domain.Scene{
			Start:        r.start,
			End:          r.end,
			Confidence:   r.scoreSum / float64(r.frames),
			MatchedLabel: opts.Label,
		})
	}
	return scenes
}

// mergeCloseRuns joins adjacent runs separated by less than gap, so a single
// low-scoring frame in the middle of a matching stretch does not split it.
func mergeCloseRuns(runs []run, gap float64) []run {
	if len(runs) < 2 || gap <= 0 {
		return runs
	}
	merged := runs[:1]
	for _, r := range runs[1:] {
		last := &merged[len(merged)-1]
		if r.start-last.end < gap {
			last.end = r.end
			last.scoreSum += r.scoreSum
			last.frames += r.frames
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
