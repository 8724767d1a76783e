package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/karanamabhishek1402/VDSM/internal/adapter/repo"
	"github.com/karanamabhishek1402/VDSM/internal/embedding"
	"github.com/karanamabhishek1402/VDSM/internal/infra"
	"github.com/karanamabhishek1402/VDSM/internal/media"
	"github.com/karanamabhishek1402/VDSM/internal/storage"
	"github.com/karanamabhishek1402/VDSM/internal/summarize"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}

	executor, err := media.NewExecutor(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("ffmpeg tooling unavailable")
	}

	engine, err := embedding.NewClient(embedding.ClientOptions{
		BaseURL: cfg.ClipBaseURL,
		Model:   cfg.ClipModel,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("embedding client misconfigured")
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	store := repo.NewSummaryRepository(runner)

	pipeline := summarize.NewPipeline(
		store,
		engine,
		executor,
		files,
		summarize.SourceResolverFunc(files.ResolveSource),
		summarize.Config{
			FrameStrideSeconds:   cfg.FrameStrideSeconds,
			SimilarityThreshold:  cfg.SimilarityThreshold,
			MinSceneSeconds:      cfg.MinSceneSeconds,
			MergeGapSeconds:      cfg.MergeGapSeconds,
			TargetSummarySeconds: cfg.TargetSummarySeconds,
			TrimOverflow:         cfg.TrimOverflow,
			ComposeRetries:       cfg.ComposeRetries,
		},
		logger,
	)

	pool := summarize.NewPool(store, pipeline, cfg.WorkerCount, cfg.JobPollInterval, logger)

	logger.Info().Int("workers", cfg.WorkerCount).Msg("worker pool starting")
	if err := pool.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal().Err(err).Msg("worker pool failed")
	}
	logger.Info().Msg("worker stopped")
}
