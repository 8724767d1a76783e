package domain

import "context"

// SummaryStore is the job-status store: written by the owning worker, read by
// any number of callers. Implementations must make every update atomic with
// respect to concurrent reads, keep progress monotonically non-decreasing, and
// guarantee that ClaimQueued hands a given job to at most one worker.
type SummaryStore interface {
	// Create inserts a queued record. A colliding id yields
	// ErrDuplicateOperation.
	Create(ctx context.Context, s *Summary) error
	Get(ctx context.Context, id string) (*Summary, error)
	ListByVideo(ctx context.Context, videoID string) ([]*Summary, error)

	// ClaimQueued atomically moves the oldest queued job to processing and
	// returns it, or ErrNoJobAvailable when the queue is empty.
	ClaimQueued(ctx context.Context) (*Summary, error)

	// SetProgress raises progress_percent; values below the current one are
	// ignored rather than applied.
	SetProgress(ctx context.Context, id string, percent int) error
	Complete(ctx context.Context, id string, result CompletionResult) error
	Fail(ctx context.Context, id string, kind ErrorKind, message string) error

	// RequestCancel flips the cooperative cancellation flag. Jobs still
	// queued transition straight to cancelled; terminal jobs yield
	// ErrJobNotCancellable.
	RequestCancel(ctx context.Context, id string) error
	CancelRequested(ctx context.Context, id string) (bool, error)
	MarkCancelled(ctx context.Context, id string) error

	// Delete removes the record. Deleting an absent job is not an error.
	Delete(ctx context.Context, id string) error
}
