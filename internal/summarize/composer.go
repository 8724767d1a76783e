package summarize

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/media"
)

// Composer extracts the selected intervals and concatenates them into one
// artifact. Stream copy is tried first for speed; re-encoding is the
// correctness fallback. Compose-class failures are retried a bounded number
// of times with backoff before the job fails.
type Composer struct {
	media   Media
	retries int
	backoff time.Duration
	logger  zerolog.Logger
}

func NewComposer(m Media, cfg Config, logger zerolog.Logger) *Composer {
	cfg = cfg.Normalize()
	return &Composer{
		media:   m,
		retries: cfg.ComposeRetries,
		backoff: cfg.ComposeBackoff,
		logger:  logger.With().Str("component", "composer").Logger(),
	}
}

// Compose writes the concatenation of scenes (in order) to outputPath.
// Per-scene extracts land in workDir; the caller owns workDir's lifetime and
// removes it on every exit path.
func (c *Composer) Compose(ctx context.Context, src *media.VideoInfo, scenes []domain.Scene, workDir, outputPath string) error {
	if len(scenes) == 0 {
		return domain.NewComposeError("no scenes to compose", nil)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("retrying composition")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		if err := c.composeOnce(ctx, src, scenes, workDir, outputPath); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}
		return nil
	}

	return domain.NewComposeError(fmt.Sprintf("composition failed after %d attempts", c.retries+1), lastErr)
}

func (c *Composer) composeOnce(ctx context.Context, src *media.VideoInfo, scenes []domain.Scene, workDir, outputPath string) error {
	clips := make([]string, 0, len(scenes))
	for i, scene := range scenes {
		clipPath := filepath.Join(workDir, fmt.Sprintf("scene_%03d%s", i, filepath.Ext(outputPath)))

		err := c.media.ExtractClip(ctx, src.Path, media.ClipOptions{
			Start:      scene.Start,
			Duration:   scene.Duration(),
			Output:     clipPath,
			StreamCopy: true,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn().Err(err).Int("scene", i).Msg("stream copy failed, re-encoding")
			err = c.media.ExtractClip(ctx, src.Path, media.ClipOptions{
				Start:    scene.Start,
				Duration: scene.Duration(),
				Output:   clipPath,
			})
		}
		if err != nil {
			return fmt.Errorf("extract scene %d: %w", i, err)
		}
		clips = append(clips, clipPath)
	}

	if err := c.media.Concat(ctx, clips, outputPath, false); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn().Err(err).Msg("stream-copy concat failed, re-encoding")
		if err := c.media.Concat(ctx, clips, outputPath, true); err != nil {
			return fmt.Errorf("concat: %w", err)
		}
	}

	c.logger.Info().Int("scenes", len(scenes)).Str("output", outputPath).Msg("composition complete")
	return nil
}
