package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	StoragePath string

	// CLIP inference sidecar.
	ClipBaseURL string
	ClipModel   string

	// Summarization tuning. Stride trades throughput against accuracy,
	// threshold trades recall against precision, min scene length and merge
	// gap suppress flicker, target duration is the selection budget.
	FrameStrideSeconds   float64
	SimilarityThreshold  float64
	MinSceneSeconds      float64
	MergeGapSeconds      float64
	TargetSummarySeconds float64
	TrimOverflow         bool

	WorkerCount     int
	JobPollInterval time.Duration
	ComposeRetries  int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StoragePath: getEnv("STORAGE_PATH", "./storage"),

		ClipBaseURL: getEnv("CLIP_BASE_URL", "http://localhost:8090"),
		ClipModel:   getEnv("CLIP_MODEL", "ViT-B/32"),

		FrameStrideSeconds:   getEnvFloat("FRAME_STRIDE_SECONDS", 1.0),
		SimilarityThreshold:  getEnvFloat("SIMILARITY_THRESHOLD", 0.30),
		MinSceneSeconds:      getEnvFloat("MIN_SCENE_SECONDS", 1.0),
		MergeGapSeconds:      getEnvFloat("MERGE_GAP_SECONDS", 2.0),
		TargetSummarySeconds: getEnvFloat("TARGET_SUMMARY_SECONDS", 60),
		TrimOverflow:         getEnvBool("TRIM_OVERFLOW", false),

		WorkerCount:     getEnvInt("WORKER_COUNT", 2),
		JobPollInterval: time.Second * time.Duration(getEnvInt("JOB_POLL_INTERVAL_SECONDS", 2)),
		ComposeRetries:  getEnvInt("COMPOSE_RETRIES", 3),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.FrameStrideSeconds <= 0 {
		return nil, fmt.Errorf("FRAME_STRIDE_SECONDS must be positive")
	}

	if cfg.TargetSummarySeconds <= 0 {
		return nil, fmt.Errorf("TARGET_SUMMARY_SECONDS must be positive")
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	return cfg, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
