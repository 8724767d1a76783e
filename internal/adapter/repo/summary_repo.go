package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/infra"
	"github.com/karanamabhishek1402/VDSM/internal/sqlinline"
)

// SummaryRepositoryPG implements domain.SummaryStore on PostgreSQL. Queue
// claims rely on FOR UPDATE SKIP LOCKED so each queued job reaches exactly one
// worker, and progress writes use GREATEST to stay monotonic under races.
type SummaryRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSummaryRepository creates a summary store backed by PostgreSQL.
func NewSummaryRepository(sql infra.SQLExecutor) *SummaryRepositoryPG {
	return &SummaryRepositoryPG{sql: sql}
}

func (r *SummaryRepositoryPG) Create(ctx context.Context, s *domain.Summary) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertSummary,
		s.ID, s.VideoID, s.Title, s.Mode, s.RequestJSON)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateOperation
		}
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (r *SummaryRepositoryPG) Get(ctx context.Context, id string) (*domain.Summary, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectSummary, id)
	return scanSummary(row)
}

func (r *SummaryRepositoryPG) ListByVideo(ctx context.Context, videoID string) ([]*domain.Summary, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectSummariesByVideo, videoID)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []*domain.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SummaryRepositoryPG) ClaimQueued(ctx context.Context) (*domain.Summary, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimQueuedSummary)
	s, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoJobAvailable
		}
		return nil, err
	}
	return s, nil
}

func (r *SummaryRepositoryPG) SetProgress(ctx context.Context, id string, percent int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QSetSummaryProgress, id, clampPercent(percent))
	return err
}

func (r *SummaryRepositoryPG) Complete(ctx context.Context, id string, result domain.CompletionResult) error {
	scenesJSON, err := json.Marshal(result.Scenes)
	if err != nil {
		return fmt.Errorf("encode scenes: %w", err)
	}
	_, err = r.sql.Exec(ctx, sqlinline.QCompleteSummary,
		id, result.StorageKey, result.FileSizeBytes, result.DurationSeconds, scenesJSON)
	return err
}

func (r *SummaryRepositoryPG) Fail(ctx context.Context, id string, kind domain.ErrorKind, message string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QFailSummary, id, string(kind), message)
	return err
}

func (r *SummaryRepositoryPG) RequestCancel(ctx context.Context, id string) error {
	// Queued jobs have no worker watching the flag; they cancel in place.
	var claimed string
	err := r.sql.QueryRow(ctx, sqlinline.QCancelQueuedSummary, id).Scan(&claimed)
	if err == nil {
		return nil
	}
	if !infra.IsNoRows(err) {
		return err
	}

	err = r.sql.QueryRow(ctx, sqlinline.QRequestSummaryCancel, id).Scan(&claimed)
	if err == nil {
		return nil
	}
	if !infra.IsNoRows(err) {
		return err
	}

	if _, getErr := r.Get(ctx, id); getErr != nil {
		return getErr
	}
	return domain.ErrJobNotCancellable
}

func (r *SummaryRepositoryPG) CancelRequested(ctx context.Context, id string) (bool, error) {
	var requested bool
	err := r.sql.QueryRow(ctx, sqlinline.QSelectCancelRequested, id).Scan(&requested)
	if err != nil {
		if infra.IsNoRows(err) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return requested, nil
}

func (r *SummaryRepositoryPG) MarkCancelled(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkSummaryCancelled, id)
	return err
}

func (r *SummaryRepositoryPG) Delete(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteSummary, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*domain.Summary, error) {
	var (
		s          domain.Summary
		scenesJSON []byte
		errKind    *string
	)
	err := row.Scan(
		&s.ID,
		&s.VideoID,
		&s.Title,
		&s.Mode,
		&s.RequestJSON,
		&s.Status,
		&s.ProgressPercent,
		&s.CancelRequested,
		&scenesJSON,
		&s.StorageKey,
		&s.FileSizeBytes,
		&s.DurationSeconds,
		&errKind,
		&s.ErrorMessage,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if errKind != nil {
		s.ErrorKind = domain.ErrorKind(*errKind)
	}
	if len(scenesJSON) > 0 {
		if err := json.Unmarshal(scenesJSON, &s.Scenes); err != nil {
			return nil, fmt.Errorf("decode scenes: %w", err)
		}
	}
	return &s, nil
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

var _ domain.SummaryStore = (*SummaryRepositoryPG)(nil)
