package media

import "context"

// ExtractFrame decodes the single frame nearest to ts and returns it as JPEG
// bytes. Seeking before the input is the fast path; accuracy at the sampling
// stride is more than enough for scoring.
func (e *Executor) ExtractFrame(ctx context.Context, filePath string, ts float64) ([]byte, error) {
	args := []string{
		"-ss", formatSeconds(ts),
		"-i", filePath,
		"-frames:v", "1",
		"-q:v", "3",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	}

	out, err := e.runFFmpeg(ctx, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoFrame
	}
	return out, nil
}
