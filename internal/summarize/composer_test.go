package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/media"
)

// flakyMedia fails stream-copy clip extraction and the first N concat
// attempts to exercise the fallback and retry paths.
type flakyMedia struct {
	fakeMedia
	failStreamCopy  bool
	concatFailures  int
	reencodeClips   int
	streamCopyClips int
}

func (m *flakyMedia) ExtractClip(ctx context.Context, input string, opts media.ClipOptions) error {
	if opts.StreamCopy {
		m.streamCopyClips++
		if m.failStreamCopy {
			return errors.New("codec not stream-copyable")
		}
	} else {
		m.reencodeClips++
	}
	return os.WriteFile(opts.Output, []byte("clip"), 0o644)
}

func (m *flakyMedia) Concat(ctx context.Context, inputs []string, output string, reencode bool) error {
	if m.concatFailures > 0 {
		m.concatFailures--
		return errors.New("concat exploded")
	}
	return m.fakeMedia.Concat(ctx, inputs, output, reencode)
}

func composerConfig() Config {
	return Config{ComposeRetries: 2, ComposeBackoff: time.Millisecond}
}

func TestComposeFallsBackToReencode(t *testing.T) {
	m := &flakyMedia{failStreamCopy: true}
	c := NewComposer(m, composerConfig(), zerolog.Nop())

	workDir := t.TempDir()
	out := filepath.Join(workDir, "summary.mp4")
	src := &media.VideoInfo{Path: "/videos/v.mp4", Duration: 100}
	err := c.Compose(context.Background(), src, []domain.Scene{{Start: 0, End: 10}}, workDir, out)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if m.streamCopyClips != 1 || m.reencodeClips != 1 {
		t.Fatalf("stream copy tried %d, re-encode tried %d; want 1 and 1", m.streamCopyClips, m.reencodeClips)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestComposeRetriesTransientFailures(t *testing.T) {
	// Both concat variants fail on the first attempt, then recover.
	m := &flakyMedia{concatFailures: 2}
	c := NewComposer(m, composerConfig(), zerolog.Nop())

	workDir := t.TempDir()
	out := filepath.Join(workDir, "summary.mp4")
	src := &media.VideoInfo{Path: "/videos/v.mp4", Duration: 100}
	err := c.Compose(context.Background(), src, []domain.Scene{{Start: 0, End: 5}}, workDir, out)
	if err != nil {
		t.Fatalf("compose should recover on retry: %v", err)
	}
}

func TestComposeExhaustsRetries(t *testing.T) {
	m := &flakyMedia{concatFailures: 100}
	c := NewComposer(m, composerConfig(), zerolog.Nop())

	workDir := t.TempDir()
	src := &media.VideoInfo{Path: "/videos/v.mp4", Duration: 100}
	err := c.Compose(context.Background(), src, []domain.Scene{{Start: 0, End: 5}}, workDir, filepath.Join(workDir, "out.mp4"))
	if !domain.IsKind(err, domain.ErrKindCompose) {
		t.Fatalf("want compose error after exhausted retries, got %v", err)
	}
}

func TestComposeRejectsEmptySelection(t *testing.T) {
	c := NewComposer(&fakeMedia{}, composerConfig(), zerolog.Nop())
	err := c.Compose(context.Background(), &media.VideoInfo{Duration: 10}, nil, t.TempDir(), "out.mp4")
	if !domain.IsKind(err, domain.ErrKindCompose) {
		t.Fatalf("want compose error, got %v", err)
	}
}
