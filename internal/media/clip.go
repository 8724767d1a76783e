package media

import (
	"context"
	"fmt"
)

// ClipOptions defines one interval extraction.
type ClipOptions struct {
	Start      float64 // seconds
	Duration   float64 // seconds
	Output     string
	StreamCopy bool // -c copy when source and target are compatible
}

// Fallback encode settings for when stream copy is not possible.
const (
	defaultVideoCodec = "libx264"
	defaultAudioCodec = "aac"
	defaultCRF        = "23"
)

// ExtractClip cuts one interval from the source. StreamCopy avoids a
// re-encode and snaps to keyframes; the re-encode path is frame accurate and
// is the correctness fallback.
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	if opts.Duration <= 0 {
		return fmt.Errorf("clip duration must be positive")
	}
	if opts.Output == "" {
		return fmt.Errorf("clip output path is required")
	}

	args := []string{
		"-ss", formatSeconds(opts.Start),
		"-t", formatSeconds(opts.Duration),
		"-i", input,
	}
	if opts.StreamCopy {
		args = append(args, "-c", "copy", "-avoid_negative_ts", "make_zero")
	} else {
		args = append(args,
			"-c:v", defaultVideoCodec,
			"-c:a", defaultAudioCodec,
			"-crf", defaultCRF,
		)
	}
	args = append(args, opts.Output)

	if _, err := e.runFFmpeg(ctx, args...); err != nil {
		return fmt.Errorf("extract clip [%s +%ss]: %w", formatSeconds(opts.Start), formatSeconds(opts.Duration), err)
	}
	return nil
}
