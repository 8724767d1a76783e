package summarize

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

func drain(t *testing.T, stream *FrameStream) ([]Frame, error) {
	t.Helper()
	var frames []Frame
	for {
		frame, ok, err := stream.Next(context.Background())
		if err != nil {
			return frames, err
		}
		if !ok {
			return frames, nil
		}
		frames = append(frames, frame)
	}
}

func TestSamplerWalksAtStride(t *testing.T) {
	m := &fakeMedia{duration: 5}
	sampler := NewFrameSampler(m, 1.0, zerolog.Nop())
	src, _ := m.Probe(context.Background(), "/v.mp4")

	frames, err := drain(t, sampler.Sample(src))
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("got %d frames, want 5", len(frames))
	}
	for i, f := range frames {
		if f.Timestamp != float64(i) {
			t.Errorf("frame %d at %v, want %d", i, f.Timestamp, i)
		}
	}
}

func TestSamplerSkipsDecodeFailures(t *testing.T) {
	m := &fakeMedia{duration: 5, failFrames: map[float64]bool{1: true, 3: true}}
	sampler := NewFrameSampler(m, 1.0, zerolog.Nop())
	src, _ := m.Probe(context.Background(), "/v.mp4")

	frames, err := drain(t, sampler.Sample(src))
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
}

func TestSamplerFailsWhenNothingDecodes(t *testing.T) {
	m := &fakeMedia{duration: 3, failFrames: map[float64]bool{0: true, 1: true, 2: true}}
	sampler := NewFrameSampler(m, 1.0, zerolog.Nop())
	src, _ := m.Probe(context.Background(), "/v.mp4")

	_, err := drain(t, sampler.Sample(src))
	if !domain.IsKind(err, domain.ErrKindResource) {
		t.Fatalf("want resource error, got %v", err)
	}
}

func TestSamplerPropagatesCancellation(t *testing.T) {
	m := &fakeMedia{duration: 100}
	sampler := NewFrameSampler(m, 1.0, zerolog.Nop())
	src, _ := m.Probe(context.Background(), "/v.mp4")
	stream := sampler.Sample(src)

	ctx, cancel := context.WithCancel(context.Background())
	if _, ok, err := stream.Next(ctx); !ok || err != nil {
		t.Fatalf("first frame: ok=%v err=%v", ok, err)
	}
	cancel()
	if _, _, err := stream.Next(ctx); err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestSamplerGuardsStride(t *testing.T) {
	sampler := NewFrameSampler(&fakeMedia{}, -3, zerolog.Nop())
	if sampler.Stride() != 1.0 {
		t.Fatalf("stride = %v, want default 1.0", sampler.Stride())
	}
}

func TestArtifactExt(t *testing.T) {
	tests := []struct {
		container string
		want      string
	}{
		{"mov,mp4,m4a,3gp,3g2,mj2", ".mp4"},
		{"matroska,webm", ".mkv"},
		{"avi", ".mp4"},
		{"", ".mp4"},
	}
	for _, tt := range tests {
		if got := artifactExt(tt.container); got != tt.want {
			t.Errorf("artifactExt(%q) = %q, want %q", tt.container, got, tt.want)
		}
	}
}
