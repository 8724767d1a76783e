package domain

import "time"

// SummaryMode enumerates the three supported scene selection strategies.
type SummaryMode string

const (
	ModeTextPrompt SummaryMode = "text-prompt"
	ModeCategory   SummaryMode = "category"
	ModeTimeRange  SummaryMode = "time-range"
)

// SummaryStatus enumerates the job lifecycle states.
type SummaryStatus string

const (
	StatusQueued     SummaryStatus = "queued"
	StatusProcessing SummaryStatus = "processing"
	StatusCompleted  SummaryStatus = "completed"
	StatusFailed     SummaryStatus = "failed"
	StatusCancelled  SummaryStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s SummaryStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Scene is one contiguous interval of the source video selected as a unit.
// Times are seconds from the start of the source.
type Scene struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Confidence   float64 `json:"confidence"`
	MatchedLabel string  `json:"matched_label,omitempty"`
}

// Duration returns the scene length in seconds.
func (s Scene) Duration() float64 {
	return s.End - s.Start
}

// Summary encapsulates the lifecycle of one summarization job. Records are
// created queued by the API and mutated only through the SummaryStore; the
// worker owns all transitions out of queued.
type Summary struct {
	ID              string
	VideoID         string
	Title           string
	Mode            SummaryMode
	RequestJSON     []byte
	Status          SummaryStatus
	ProgressPercent int
	CancelRequested bool
	Scenes          []Scene
	StorageKey      string
	FileSizeBytes   int64
	DurationSeconds float64
	ErrorKind       ErrorKind
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CompletionResult carries everything the store records when a job finishes
// successfully.
type CompletionResult struct {
	StorageKey      string
	FileSizeBytes   int64
	DurationSeconds float64
	Scenes          []Scene
}
