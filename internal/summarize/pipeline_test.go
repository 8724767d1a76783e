package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/adapter/repo"
	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/embedding"
	"github.com/karanamabhishek1402/VDSM/internal/media"
	"github.com/karanamabhishek1402/VDSM/internal/storage"
)

// fakeMedia pretends every source is a 10s mp4 and encodes the timestamp in
// the frame bytes so the fake engine can score by position.
type fakeMedia struct {
	duration    float64
	failFrames  map[float64]bool
	probeErr    error
	clipCalls   int
	concatCalls int
}

func (m *fakeMedia) Probe(ctx context.Context, filePath string) (*media.VideoInfo, error) {
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	return &media.VideoInfo{
		Path:      filePath,
		Container: "mov,mp4,m4a,3gp,3g2,mj2",
		Duration:  m.duration,
		Width:     1280,
		Height:    720,
		FPS:       30,
	}, nil
}

func (m *fakeMedia) ExtractFrame(ctx context.Context, filePath string, ts float64) ([]byte, error) {
	if m.failFrames[ts] {
		return nil, fmt.Errorf("decode failure at %v", ts)
	}
	return []byte(fmt.Sprintf("frame@%.3f", ts)), nil
}

func (m *fakeMedia) ExtractClip(ctx context.Context, input string, opts media.ClipOptions) error {
	m.clipCalls++
	return os.WriteFile(opts.Output, []byte("clip"), 0o644)
}

func (m *fakeMedia) Concat(ctx context.Context, inputs []string, output string, reencode bool) error {
	m.concatCalls++
	return os.WriteFile(output, []byte(strings.Repeat("x", 64)), 0o644)
}

// fakeEngine scores frames whose timestamp falls in [matchFrom, matchTo)
// high against any query and everything else low.
type fakeEngine struct {
	matchFrom float64
	matchTo   float64
	calls     int
}

func (e *fakeEngine) EmbedFrames(ctx context.Context, frames [][]byte) ([]embedding.Vector, error) {
	e.calls++
	out := make([]embedding.Vector, len(frames))
	for i, f := range frames {
		ts, err := strconv.ParseFloat(strings.TrimPrefix(string(f), "frame@"), 64)
		if err != nil {
			return nil, err
		}
		if ts >= e.matchFrom && ts < e.matchTo {
			out[i] = embedding.Vector{1, 0}
		} else {
			out[i] = embedding.Vector{0, 1}
		}
	}
	return out, nil
}

func (e *fakeEngine) EmbedText(ctx context.Context, text string) (embedding.Vector, error) {
	e.calls++
	return embedding.Vector{1, 0}, nil
}

type pipelineFixture struct {
	store  *repo.MemoryStore
	media  *fakeMedia
	engine *fakeEngine
	files  *storage.FileStore
	pipe   *Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	store := repo.NewMemoryStore()
	fm := &fakeMedia{duration: 10}
	fe := &fakeEngine{matchFrom: 3, matchTo: 7}
	pipe := NewPipeline(
		store,
		fe,
		fm,
		files,
		SourceResolverFunc(func(ctx context.Context, videoID string) (string, error) {
			return "/videos/" + videoID + ".mp4", nil
		}),
		Config{
			FrameStrideSeconds:   1.0,
			SimilarityThreshold:  0.5,
			MinSceneSeconds:      1.0,
			TargetSummarySeconds: 60,
		},
		zerolog.Nop(),
	)
	return &pipelineFixture{store: store, media: fm, engine: fe, files: files, pipe: pipe}
}

func (f *pipelineFixture) enqueue(t *testing.T, id string, sel domain.SelectionRequest) *domain.Summary {
	t.Helper()
	payload, err := json.Marshal(sel)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	job := &domain.Summary{
		ID:          id,
		VideoID:     "vid-1",
		Mode:        sel.Mode,
		RequestJSON: payload,
		Status:      domain.StatusQueued,
	}
	if err := f.store.Create(context.Background(), job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	claimed, err := f.store.ClaimQueued(context.Background())
	if err != nil {
		t.Fatalf("claim job: %v", err)
	}
	return claimed
}

func TestPipelineCompletesTextPrompt(t *testing.T) {
	f := newPipelineFixture(t)
	job := f.enqueue(t, "job-1", domain.SelectionRequest{Mode: domain.ModeTextPrompt, Prompt: "a sunset"})

	f.pipe.Run(context.Background(), job)

	got, err := f.store.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %s (%s), want completed", got.Status, got.ErrorMessage)
	}
	if got.ProgressPercent != 100 {
		t.Errorf("progress = %d, want 100", got.ProgressPercent)
	}
	if len(got.Scenes) != 1 {
		t.Fatalf("got %d scenes, want 1: %+v", len(got.Scenes), got.Scenes)
	}
	if got.Scenes[0].Start != 3 || got.Scenes[0].End != 7 {
		t.Errorf("scene bounds = [%v, %v), want [3, 7)", got.Scenes[0].Start, got.Scenes[0].End)
	}
	if got.Scenes[0].MatchedLabel != "a sunset" {
		t.Errorf("matched label = %q, want prompt", got.Scenes[0].MatchedLabel)
	}
	if got.DurationSeconds != 4 {
		t.Errorf("duration = %v, want 4", got.DurationSeconds)
	}
	abs, err := f.files.AbsolutePath(got.StorageKey)
	if err != nil {
		t.Fatalf("artifact key %q invalid: %v", got.StorageKey, err)
	}
	if info, err := os.Stat(abs); err != nil || info.Size() != got.FileSizeBytes {
		t.Errorf("artifact missing or size mismatch: %v", err)
	}
}

func TestPipelineCategoryLabelsScenes(t *testing.T) {
	f := newPipelineFixture(t)
	job := f.enqueue(t, "job-2", domain.SelectionRequest{Mode: domain.ModeCategory, CategoryID: "landscape"})

	f.pipe.Run(context.Background(), job)

	got, _ := f.store.Get(context.Background(), job.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %s (%s), want completed", got.Status, got.ErrorMessage)
	}
	for _, s := range got.Scenes {
		if s.MatchedLabel != "landscape" {
			t.Errorf("scene label = %q, want category id", s.MatchedLabel)
		}
	}
}

func TestPipelineTimeRangeNeverEmbeds(t *testing.T) {
	f := newPipelineFixture(t)
	job := f.enqueue(t, "job-3", domain.SelectionRequest{
		Mode:   domain.ModeTimeRange,
		Ranges: []domain.PercentRange{{StartPercent: 0, EndPercent: 25}, {StartPercent: 50, EndPercent: 75}},
	})

	f.pipe.Run(context.Background(), job)

	got, _ := f.store.Get(context.Background(), job.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %s (%s), want completed", got.Status, got.ErrorMessage)
	}
	if f.engine.calls != 0 {
		t.Errorf("engine called %d times, want 0 for time-range mode", f.engine.calls)
	}
	if len(got.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(got.Scenes))
	}
	// 10s source: 0-25% is [0, 2.5), 50-75% is [5, 7.5).
	if got.Scenes[0].End != 2.5 || got.Scenes[1].Start != 5 {
		t.Errorf("wrong mapping: %+v", got.Scenes)
	}
}

func TestPipelineFailsOnUnresolvableSource(t *testing.T) {
	f := newPipelineFixture(t)
	job := f.enqueue(t, "job-4", domain.SelectionRequest{Mode: domain.ModeTextPrompt, Prompt: "a dog"})
	f.pipe.sources = SourceResolverFunc(func(ctx context.Context, videoID string) (string, error) {
		return "", os.ErrNotExist
	})

	f.pipe.Run(context.Background(), job)

	got, _ := f.store.Get(context.Background(), job.ID)
	if got.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.ErrorKind != domain.ErrKindResource {
		t.Errorf("error kind = %s, want resource", got.ErrorKind)
	}
	if got.ProgressPercent == 100 {
		t.Error("failed job must not report full progress")
	}
}

func TestPipelineFailsWhenNothingMatches(t *testing.T) {
	f := newPipelineFixture(t)
	f.engine.matchFrom, f.engine.matchTo = -1, -1
	job := f.enqueue(t, "job-5", domain.SelectionRequest{Mode: domain.ModeTextPrompt, Prompt: "a unicorn"})

	f.pipe.Run(context.Background(), job)

	got, _ := f.store.Get(context.Background(), job.ID)
	if got.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.ErrorKind != domain.ErrKindNoMatch {
		t.Errorf("error kind = %s, want no_match", got.ErrorKind)
	}
	if f.media.clipCalls != 0 {
		t.Errorf("composition ran despite empty selection")
	}
}

func TestPipelineHonorsCancelRequest(t *testing.T) {
	f := newPipelineFixture(t)
	job := f.enqueue(t, "job-6", domain.SelectionRequest{Mode: domain.ModeTextPrompt, Prompt: "a sunset"})

	if err := f.store.RequestCancel(context.Background(), job.ID); err != nil {
		t.Fatalf("request cancel: %v", err)
	}

	before := countJobTempDirs(t, job.ID)
	f.pipe.Run(context.Background(), job)

	got, _ := f.store.Get(context.Background(), job.ID)
	if got.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	if got.StorageKey != "" {
		t.Error("cancelled job must not persist an artifact")
	}
	if after := countJobTempDirs(t, job.ID); after != before {
		t.Errorf("job left %d temp dirs behind", after-before)
	}
}

func TestPipelineSamplerSkipsBadFrames(t *testing.T) {
	f := newPipelineFixture(t)
	f.media.failFrames = map[float64]bool{4: true}
	job := f.enqueue(t, "job-7", domain.SelectionRequest{Mode: domain.ModeTextPrompt, Prompt: "a sunset"})

	f.pipe.Run(context.Background(), job)

	got, _ := f.store.Get(context.Background(), job.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %s (%s), want completed despite one bad frame", got.Status, got.ErrorMessage)
	}
}

func countJobTempDirs(t *testing.T, jobID string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "vdsm-job-"+jobID+"-*"))
	if err != nil {
		t.Fatalf("glob temp dirs: %v", err)
	}
	return len(matches)
}
