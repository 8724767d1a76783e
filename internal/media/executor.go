package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Executor shells out to ffmpeg/ffprobe for all media operations. Both
// binaries are resolved once at construction so a missing install fails fast
// instead of mid-job.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
}

// NewExecutor locates ffmpeg and ffprobe on PATH.
func NewExecutor(logger zerolog.Logger) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "media").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}, nil
}

// runFFmpeg executes ffmpeg with common flags prepended and returns stdout.
// On failure the error carries the tail of stderr, which is where ffmpeg
// explains itself.
func (e *Executor) runFFmpeg(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)

	e.logger.Debug().Strs("args", full).Msg("ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, stderrTail(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}

// stderrTail keeps error messages bounded; ffmpeg can be chatty even at
// loglevel error.
func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	const maxLen = 512
	if len(s) > maxLen {
		s = "..." + s[len(s)-maxLen:]
	}
	return s
}

// ErrNoFrame is returned when a single-frame decode produces no data.
var ErrNoFrame = errors.New("no frame decoded")

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
