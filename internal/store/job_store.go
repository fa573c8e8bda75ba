package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PortNumber53/agency-site/backend/internal/models"
)

var (
	// ErrJobNotFound is returned when a job id does not exist.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobNotCancellable is returned when a job is processing or already finished.
	ErrJobNotCancellable = errors.New("job cannot be cancelled")
)

const jobColumns = `id, job_type, payload, status, priority, attempts, max_attempts,
       created_at, updated_at, scheduled_for, last_error, retry_after,
       processed_at, completed_at, worker_id`

const priorityOrder = `CASE priority
	WHEN 'high' THEN 3
	WHEN 'normal' THEN 2
	WHEN 'low' THEN 1
END DESC, created_at ASC`

// JobStore is the Postgres-backed notification job queue.
type JobStore struct {
	db *sql.DB
}

// NewJobStore creates a JobStore.
func NewJobStore(db *sql.DB) (*JobStore, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	return &JobStore{db: db}, nil
}

// Enqueue inserts a job.
func (s *JobStore) Enqueue(ctx context.Context, job *models.Job) error {
	return insertJob(ctx, s.db, job)
}

func insertJob(ctx context.Context, q execer, job *models.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}

	err := q.QueryRowContext(ctx, `
INSERT INTO jobs (job_type, payload, status, priority, max_attempts, scheduled_for)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at
`,
		job.JobType, job.Payload, job.Status, job.Priority, job.MaxAttempts, job.ScheduledFor,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

// GetByID returns a job or ErrJobNotFound.
func (s *JobStore) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	return job, nil
}

// ClaimNextJob marks the highest-priority due job as processing by workerID
// and returns it. It returns nil, nil when nothing is due.
func (s *JobStore) ClaimNextJob(ctx context.Context, workerID string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, `
UPDATE jobs
SET status = 'processing',
    worker_id = $1,
    processed_at = NOW(),
    updated_at = NOW(),
    attempts = attempts + 1
WHERE id = (
	SELECT id FROM jobs
	WHERE status = 'pending'
	  AND (scheduled_for IS NULL OR scheduled_for <= NOW())
	  AND (retry_after IS NULL OR retry_after <= NOW())
	ORDER BY `+priorityOrder+`
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING `+jobColumns, workerID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim next job: %w", err)
	}
	return job, nil
}

// MarkCompleted records a successful delivery.
func (s *JobStore) MarkCompleted(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'completed', completed_at = NOW(), updated_at = NOW(), worker_id = NULL
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	return nil
}

// MarkFailed records a permanent failure.
func (s *JobStore) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'failed', last_error = $2, updated_at = NOW(), worker_id = NULL
WHERE id = $1
`, id, errorMsg)
	if err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}

// ScheduleRetry puts a job back to pending, not before retryAfter.
func (s *JobStore) ScheduleRetry(ctx context.Context, id int64, errorMsg string, retryAfter time.Time) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'pending', last_error = $2, retry_after = $3, updated_at = NOW(), worker_id = NULL
WHERE id = $1
`, id, errorMsg, retryAfter)
	if err != nil {
		return fmt.Errorf("schedule job retry: %w", err)
	}
	return nil
}

// CancelJob cancels a pending or failed job.
func (s *JobStore) CancelJob(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'cancelled', updated_at = NOW(), worker_id = NULL
WHERE id = $1 AND status IN ('pending', 'failed')
`, id)
	if err != nil {
		return fmt.Errorf("cancel job: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrJobNotCancellable
	}
	return nil
}

// ReleaseJob returns a processing job to pending, used on shutdown.
func (s *JobStore) ReleaseJob(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'pending', worker_id = NULL, updated_at = NOW()
WHERE id = $1 AND status = 'processing'
`, id)
	if err != nil {
		return fmt.Errorf("release job: %w", err)
	}
	return nil
}

// GetStats counts jobs by status.
func (s *JobStore) GetStats(ctx context.Context) (*models.JobStats, error) {
	stats := &models.JobStats{}
	err := s.db.QueryRowContext(ctx, `
SELECT
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'processing'),
	COUNT(*) FILTER (WHERE status = 'completed'),
	COUNT(*) FILTER (WHERE status = 'failed'),
	COUNT(*) FILTER (WHERE status = 'cancelled'),
	COUNT(*)
FROM jobs
`).Scan(&stats.Pending, &stats.Processing, &stats.Completed, &stats.Failed, &stats.Cancelled, &stats.Total)
	if err != nil {
		return nil, fmt.Errorf("get job stats: %w", err)
	}
	return stats, nil
}

// ListProcessingJobs returns jobs currently claimed by a worker.
func (s *JobStore) ListProcessingJobs(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE status = 'processing'
ORDER BY processed_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list processing jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// ListPendingJobs returns due jobs in the order the worker would claim them.
func (s *JobStore) ListPendingJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE status = 'pending'
  AND (scheduled_for IS NULL OR scheduled_for <= NOW())
  AND (retry_after IS NULL OR retry_after <= NOW())
ORDER BY `+priorityOrder+`
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// CleanupOldJobs deletes finished jobs last updated before olderThan ago.
func (s *JobStore) CleanupOldJobs(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
DELETE FROM jobs
WHERE status IN ('completed', 'failed', 'cancelled')
  AND updated_at < NOW() - INTERVAL '1 second' * $1
`, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}

	affected, _ := result.RowsAffected()
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(
		&job.ID,
		&job.JobType,
		&job.Payload,
		&job.Status,
		&job.Priority,
		&job.Attempts,
		&job.MaxAttempts,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.ScheduledFor,
		&job.LastError,
		&job.RetryAfter,
		&job.ProcessedAt,
		&job.CompletedAt,
		&job.WorkerID,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func scanJobs(rows *sql.Rows) ([]*models.Job, error) {
	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}
