package summarize

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/media"
)

// Frame is one decoded sample: a timestamp and the encoded image bytes.
// Frames exist only for the duration of a job run.
type Frame struct {
	Timestamp float64
	Data      []byte
}

// FrameSampler walks a source video at a fixed stride and yields decodable
// frames lazily. It knows nothing about selection modes.
type FrameSampler struct {
	media  Media
	stride float64
	logger zerolog.Logger
}

func NewFrameSampler(m Media, strideSeconds float64, logger zerolog.Logger) *FrameSampler {
	if strideSeconds <= 0 {
		strideSeconds = 1.0
	}
	return &FrameSampler{
		media:  m,
		stride: strideSeconds,
		logger: logger.With().Str("component", "sampler").Logger(),
	}
}

// Stride returns the sampling interval in seconds.
func (s *FrameSampler) Stride() float64 { return s.stride }

// Sample starts a fresh pass over [0, duration). Each call returns an
// independent stream, so a consumer can restart from the beginning.
func (s *FrameSampler) Sample(src *media.VideoInfo) *FrameStream {
	return &FrameStream{sampler: s, src: src}
}

// FrameStream is a lazy, finite iterator over sampled frames. Individual
// decode failures are skipped with a warning; only a fully undecodable stream
// is fatal.
type FrameStream struct {
	sampler *FrameSampler
	src     *media.VideoInfo
	next    float64
	decoded int
	skipped int
	done    bool
}

// Next returns the next decodable frame. ok is false once the stream is
// exhausted; if not a single frame decoded, err carries a ResourceError.
func (st *FrameStream) Next(ctx context.Context) (Frame, bool, error) {
	if st.done {
		return Frame{}, false, nil
	}
	for st.next < st.src.Duration {
		if err := ctx.Err(); err != nil {
			return Frame{}, false, err
		}

		ts := st.next
		st.next += st.sampler.stride

		data, err := st.sampler.media.ExtractFrame(ctx, st.src.Path, ts)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Frame{}, false, err
			}
			st.skipped++
			st.sampler.logger.Warn().Err(err).Float64("ts", ts).Msg("skipping undecodable frame")
			continue
		}

		st.decoded++
		return Frame{Timestamp: ts, Data: data}, true, nil
	}

	st.done = true
	if st.decoded == 0 {
		return Frame{}, false, domain.NewResourceError("no decodable frames in source", nil)
	}
	if st.skipped > 0 {
		st.sampler.logger.Warn().Int("skipped", st.skipped).Int("decoded", st.decoded).Msg("sampling finished with skips")
	}
	return Frame{}, false, nil
}
