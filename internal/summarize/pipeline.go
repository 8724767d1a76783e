package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/embedding"
	"github.com/karanamabhishek1402/VDSM/internal/media"
)

// Progress checkpoints, mirrored per stage. Coarse on purpose: callers poll,
// they do not need sub-stage granularity.
const (
	progressClaimed   = 10
	progressSampling  = 20
	progressMapped    = 30
	progressEmbedding = 40
	progressMatching  = 60
	progressComposing = 80
	progressStoring   = 90
)

// errCancelled marks a run stopped by the cooperative cancellation flag.
var errCancelled = &domain.PipelineError{Kind: domain.ErrKindCancelled, Message: "cancelled by caller"}

// Pipeline drives one summarization job through sampling, embedding,
// aggregation, selection, and composition, recording progress and the
// terminal state on the job-status store. It holds no per-job state and is
// shared by all workers in the pool.
type Pipeline struct {
	store     domain.SummaryStore
	engine    embedding.Engine
	media     Media
	artifacts ArtifactStore
	sources   SourceResolver
	cfg       Config
	logger    zerolog.Logger
}

func NewPipeline(
	store domain.SummaryStore,
	engine embedding.Engine,
	m Media,
	artifacts ArtifactStore,
	sources SourceResolver,
	cfg Config,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		store:     store,
		engine:    engine,
		media:     m,
		artifacts: artifacts,
		sources:   sources,
		cfg:       cfg.Normalize(),
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

type runResult struct {
	scenes     []domain.Scene
	storageKey string
	sizeBytes  int64
	duration   float64
}

// Run executes one already-claimed job to its terminal state. Errors never
// escape: they are recorded on the job record, and a panic in a stage is
// contained so one bad job cannot take out its worker.
func (p *Pipeline) Run(ctx context.Context, job *domain.Summary) {
	logger := p.logger.With().Str("job_id", job.ID).Str("mode", string(job.Mode)).Logger()
	logger.Info().Msg("job started")

	var res *runResult
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &domain.PipelineError{Kind: domain.ErrKindInternal, Message: fmt.Sprintf("stage panicked: %v", r)}
			}
		}()
		res, err = p.execute(ctx, job, logger)
	}()

	switch {
	case err == nil:
		if storeErr := p.store.Complete(ctx, job.ID, domain.CompletionResult{
			StorageKey:      res.storageKey,
			FileSizeBytes:   res.sizeBytes,
			DurationSeconds: res.duration,
			Scenes:          res.scenes,
		}); storeErr != nil {
			logger.Error().Err(storeErr).Msg("failed to record completion")
			return
		}
		logger.Info().Int("scenes", len(res.scenes)).Float64("duration", res.duration).Msg("job completed")

	case domain.IsKind(err, domain.ErrKindCancelled):
		if storeErr := p.store.MarkCancelled(context.WithoutCancel(ctx), job.ID); storeErr != nil {
			logger.Error().Err(storeErr).Msg("failed to record cancellation")
		}
		logger.Info().Msg("job cancelled")

	default:
		kind := domain.ErrorKindOf(err)
		if storeErr := p.store.Fail(context.WithoutCancel(ctx), job.ID, kind, err.Error()); storeErr != nil {
			logger.Error().Err(storeErr).Msg("failed to record failure")
		}
		logger.Error().Err(err).Str("kind", string(kind)).Msg("job failed")
	}
}

// execute runs the stages. The job-scoped work directory is removed on every
// exit path before the caller transitions the job out of processing.
func (p *Pipeline) execute(ctx context.Context, job *domain.Summary, logger zerolog.Logger) (*runResult, error) {
	var req domain.SelectionRequest
	if err := json.Unmarshal(job.RequestJSON, &req); err != nil {
		return nil, &domain.PipelineError{Kind: domain.ErrKindInternal, Message: "decode selection request", Err: err}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "vdsm-job-"+job.ID+"-")
	if err != nil {
		return nil, &domain.PipelineError{Kind: domain.ErrKindInternal, Message: "create work dir", Err: err}
	}
	defer os.RemoveAll(workDir)

	p.checkpoint(ctx, job.ID, progressClaimed)
	if p.cancelRequested(ctx, job.ID) {
		return nil, errCancelled
	}

	srcPath, err := p.sources.Resolve(ctx, job.VideoID)
	if err != nil {
		return nil, domain.NewResourceError("source video unavailable", err)
	}
	src, err := p.media.Probe(ctx, srcPath)
	if err != nil {
		return nil, domain.NewResourceError("source video undecodable", err)
	}

	var candidates []domain.Scene
	if req.UsesEmbedding() {
		candidates, err = p.analyze(ctx, job.ID, req, src, logger)
		if err != nil {
			return nil, err
		}
	} else {
		p.checkpoint(ctx, job.ID, progressMapped)
	}

	p.checkpoint(ctx, job.ID, progressMatching)
	if p.cancelRequested(ctx, job.ID) {
		return nil, errCancelled
	}

	scenes, err := NewSelector(req, p.cfg).Select(candidates, src.Duration)
	if err != nil {
		return nil, err
	}

	p.checkpoint(ctx, job.ID, progressComposing)
	if p.cancelRequested(ctx, job.ID) {
		return nil, errCancelled
	}

	outputPath := filepath.Join(workDir, "summary"+artifactExt(src.Container))
	composer := NewComposer(p.media, p.cfg, logger)
	if err := composer.Compose(ctx, src, scenes, workDir, outputPath); err != nil {
		if domain.ErrorKindOf(err) == domain.ErrKindInternal && ctx.Err() != nil {
			return nil, errCancelled
		}
		return nil, err
	}

	p.checkpoint(ctx, job.ID, progressStoring)
	if p.cancelRequested(ctx, job.ID) {
		return nil, errCancelled
	}

	key, size, err := p.artifacts.ImportFile(ctx, "summaries/"+job.ID+artifactExt(src.Container), outputPath)
	if err != nil {
		return nil, &domain.PipelineError{Kind: domain.ErrKindInternal, Message: "store artifact", Err: err}
	}

	var total float64
	for _, s := range scenes {
		total += s.Duration()
	}

	return &runResult{scenes: scenes, storageKey: key, sizeBytes: size, duration: total}, nil
}

// analyze samples frames, embeds them, scores them against the query, and
// aggregates candidate scenes. Only text-prompt and category modes reach it.
func (p *Pipeline) analyze(ctx context.Context, jobID string, req domain.SelectionRequest, src *media.VideoInfo, logger zerolog.Logger) ([]domain.Scene, error) {
	p.checkpoint(ctx, jobID, progressSampling)
	if p.cancelRequested(ctx, jobID) {
		return nil, errCancelled
	}

	sampler := NewFrameSampler(p.media, p.cfg.FrameStrideSeconds, logger)
	stream := sampler.Sample(src)

	var frames []Frame
	for {
		frame, ok, err := stream.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errCancelled
			}
			return nil, err
		}
		if !ok {
			break
		}
		frames = append(frames, frame)
	}
	logger.Debug().Int("frames", len(frames)).Msg("sampling done")

	p.checkpoint(ctx, jobID, progressEmbedding)
	if p.cancelRequested(ctx, jobID) {
		return nil, errCancelled
	}

	images := make([][]byte, len(frames))
	for i, f := range frames {
		images[i] = f.Data
	}
	vectors, err := p.engine.EmbedFrames(ctx, images)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errCancelled
		}
		return nil, &domain.PipelineError{Kind: domain.ErrKindInternal, Message: "frame embedding failed", Err: err}
	}
	if len(vectors) != len(frames) {
		return nil, &domain.PipelineError{Kind: domain.ErrKindInternal,
			Message: fmt.Sprintf("embedding count mismatch: %d vectors for %d frames", len(vectors), len(frames))}
	}

	queries, label, err := p.queryVectors(ctx, req)
	if err != nil {
		return nil, err
	}

	// A frame's score is its best match across the query vectors; a category
	// matches if any of its prompt templates does.
	scored := make([]ScoredFrame, len(frames))
	for i := range frames {
		var best float64
		for _, q := range queries {
			if s := embedding.Similarity(vectors[i], q); s > best {
				best = s
			}
		}
		scored[i] = ScoredFrame{Timestamp: frames[i].Timestamp, Score: best}
	}

	candidates := AggregateScenes(scored, AggregateOptions{
		Threshold:      p.cfg.SimilarityThreshold,
		Stride:         sampler.Stride(),
		MergeGap:       p.cfg.MergeGapSeconds,
		MinSceneLength: p.cfg.MinSceneSeconds,
		SourceDuration: src.Duration,
		Label:          label,
	})
	logger.Debug().Int("candidates", len(candidates)).Msg("aggregation done")
	return candidates, nil
}

// queryVectors embeds the query text: the prompt itself for text-prompt mode,
// every prompt template for category mode.
func (p *Pipeline) queryVectors(ctx context.Context, req domain.SelectionRequest) ([]embedding.Vector, string, error) {
	var texts []string
	var label string

	switch req.Mode {
	case domain.ModeTextPrompt:
		texts = []string{req.Prompt}
		label = req.Prompt
	case domain.ModeCategory:
		cat, ok := domain.LookupCategory(req.CategoryID)
		if !ok {
			return nil, "", domain.NewValidationError("unknown category %q", req.CategoryID)
		}
		texts = cat.Templates
		label = cat.ID
	default:
		return nil, "", domain.NewValidationError("mode %q does not use embeddings", req.Mode)
	}

	vectors := make([]embedding.Vector, 0, len(texts))
	for _, t := range texts {
		v, err := p.engine.EmbedText(ctx, t)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", errCancelled
			}
			return nil, "", &domain.PipelineError{Kind: domain.ErrKindInternal, Message: "text embedding failed", Err: err}
		}
		vectors = append(vectors, v)
	}
	return vectors, label, nil
}

// checkpoint records stage progress; a failed write is logged by the store
// layer and never stops the job.
func (p *Pipeline) checkpoint(ctx context.Context, jobID string, percent int) {
	if err := p.store.SetProgress(ctx, jobID, percent); err != nil {
		p.logger.Warn().Err(err).Str("job_id", jobID).Int("percent", percent).Msg("progress update failed")
	}
}

// cancelRequested reads the cooperative flag. Checked at stage boundaries
// only; never preemptive mid-stage.
func (p *Pipeline) cancelRequested(ctx context.Context, jobID string) bool {
	if ctx.Err() != nil {
		return true
	}
	requested, err := p.store.CancelRequested(ctx, jobID)
	if err != nil {
		return false
	}
	return requested
}

func artifactExt(container string) string {
	// mp4-family containers keep their extension; everything else composes
	// into mp4, ffmpeg's most portable target.
	switch container {
	case "mov,mp4,m4a,3gp,3g2,mj2", "mp4":
		return ".mp4"
	case "matroska,webm":
		return ".mkv"
	default:
		return ".mp4"
	}
}
