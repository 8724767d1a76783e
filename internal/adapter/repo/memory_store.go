package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

// MemoryStore is an in-process domain.SummaryStore for tests and
// single-process deployments. All reads return deep copies taken under the
// lock, so a caller never observes a half-applied update.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.Summary
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*domain.Summary)}
}

func (m *MemoryStore) Create(ctx context.Context, s *domain.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[s.ID]; exists {
		return domain.ErrDuplicateOperation
	}
	rec := cloneSummary(s)
	rec.Status = domain.StatusQueued
	rec.ProgressPercent = 0
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSummary(rec), nil
}

func (m *MemoryStore) ListByVideo(ctx context.Context, videoID string) ([]*domain.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Summary
	for _, rec := range m.records {
		if rec.VideoID == videoID {
			out = append(out, cloneSummary(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) ClaimQueued(ctx context.Context) (*domain.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		rec, ok := m.records[id]
		if !ok || rec.Status != domain.StatusQueued {
			continue
		}
		rec.Status = domain.StatusProcessing
		rec.UpdatedAt = time.Now()
		return cloneSummary(rec), nil
	}
	return nil, domain.ErrNoJobAvailable
}

func (m *MemoryStore) SetProgress(ctx context.Context, id string, percent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status != domain.StatusProcessing {
		return nil
	}
	if percent > 100 {
		percent = 100
	}
	if percent > rec.ProgressPercent {
		rec.ProgressPercent = percent
		rec.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MemoryStore) Complete(ctx context.Context, id string, result domain.CompletionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status != domain.StatusProcessing {
		return nil
	}
	rec.Status = domain.StatusCompleted
	rec.ProgressPercent = 100
	rec.StorageKey = result.StorageKey
	rec.FileSizeBytes = result.FileSizeBytes
	rec.DurationSeconds = result.DurationSeconds
	rec.Scenes = append([]domain.Scene(nil), result.Scenes...)
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) Fail(ctx context.Context, id string, kind domain.ErrorKind, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status.Terminal() {
		return nil
	}
	rec.Status = domain.StatusFailed
	rec.ErrorKind = kind
	rec.ErrorMessage = message
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) RequestCancel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch rec.Status {
	case domain.StatusQueued:
		rec.Status = domain.StatusCancelled
		rec.CancelRequested = true
		rec.UpdatedAt = time.Now()
		return nil
	case domain.StatusProcessing:
		rec.CancelRequested = true
		rec.UpdatedAt = time.Now()
		return nil
	default:
		return domain.ErrJobNotCancellable
	}
}

func (m *MemoryStore) CancelRequested(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	return rec.CancelRequested, nil
}

func (m *MemoryStore) MarkCancelled(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status.Terminal() {
		return nil
	}
	rec.Status = domain.StatusCancelled
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func cloneSummary(s *domain.Summary) *domain.Summary {
	out := *s
	out.RequestJSON = append([]byte(nil), s.RequestJSON...)
	out.Scenes = append([]domain.Scene(nil), s.Scenes...)
	return &out
}

var _ domain.SummaryStore = (*MemoryStore)(nil)
