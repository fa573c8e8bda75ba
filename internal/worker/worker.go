// Package worker runs the notification job queue: a pool of processors that
// claim jobs from Postgres, retry failures with backoff, and release claimed
// jobs on shutdown.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/models"
)

// Queue is the job storage the worker drives. *store.JobStore implements it.
type Queue interface {
	Enqueue(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	ClaimNextJob(ctx context.Context, workerID string) (*models.Job, error)
	MarkCompleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
	ScheduleRetry(ctx context.Context, id int64, errorMsg string, retryAfter time.Time) error
	CancelJob(ctx context.Context, id int64) error
	ReleaseJob(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*models.JobStats, error)
}

// Handler processes one job.
type Handler func(ctx context.Context, job *models.Job) error

// Handlers maps job types to their handlers.
type Handlers map[string]Handler

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying; the job fails immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Instrumentation provides hooks for monitoring the job lifecycle.
type Instrumentation struct {
	OnEnqueue   func(job *models.Job)
	OnStart     func(job *models.Job)
	OnComplete  func(job *models.Job, duration time.Duration)
	OnFail      func(job *models.Job, err error, duration time.Duration)
	OnRetry     func(job *models.Job, retryAfter time.Duration)
	OnCancel    func(job *models.Job)
	OnHeartbeat func(workerID string, stats Stats)
}

// Stats are in-process counters since the worker started.
type Stats struct {
	JobsProcessed   int64     `json:"jobs_processed"`
	JobsSucceeded   int64     `json:"jobs_succeeded"`
	JobsFailed      int64     `json:"jobs_failed"`
	JobsRetried     int64     `json:"jobs_retried"`
	ActiveJobs      int       `json:"active_jobs"`
	LastProcessedAt time.Time `json:"last_processed_at"`
}

// Config holds worker configuration.
type Config struct {
	// MaxConcurrent is the number of processor goroutines.
	MaxConcurrent int
	// PollInterval is the wait between polls when the queue is empty.
	PollInterval time.Duration
	// RetryBaseDelay is the delay before the first retry.
	RetryBaseDelay time.Duration
	// RetryMaxDelay caps the backoff.
	RetryMaxDelay time.Duration
	// RetryBackoffMultiplier grows the delay per attempt.
	RetryBackoffMultiplier float64
	// JobTimeout bounds a single handler run.
	JobTimeout time.Duration
	// ShutdownTimeout bounds Stop.
	ShutdownTimeout time.Duration
	// HeartbeatInterval is how often OnHeartbeat fires.
	HeartbeatInterval time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:          2,
		PollInterval:           2 * time.Second,
		RetryBaseDelay:         5 * time.Second,
		RetryMaxDelay:          10 * time.Minute,
		RetryBackoffMultiplier: 2.0,
		JobTimeout:             30 * time.Second,
		ShutdownTimeout:        15 * time.Second,
		HeartbeatInterval:      time.Minute,
	}
}

// Worker is the async job queue processor.
type Worker struct {
	config          Config
	queue           Queue
	logger          *zap.Logger
	instrumentation *Instrumentation

	workerID string
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopped  bool
	mu       sync.RWMutex
	handlers Handlers

	// activeJobs tracks claimed job ids so Stop can release them.
	activeJobs map[int64]context.CancelFunc

	statsMu         sync.RWMutex
	jobsProcessed   int64
	jobsSucceeded   int64
	jobsFailed      int64
	jobsRetried     int64
	lastProcessedAt time.Time
}

// New creates a Worker. Zero config fields take their defaults.
func New(config Config, queue Queue, logger *zap.Logger) *Worker {
	def := DefaultConfig()
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = def.MaxConcurrent
	}
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = def.RetryBaseDelay
	}
	if config.RetryMaxDelay <= 0 {
		config.RetryMaxDelay = def.RetryMaxDelay
	}
	if config.RetryBackoffMultiplier <= 1 {
		config.RetryBackoffMultiplier = def.RetryBackoffMultiplier
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}
	if config.HeartbeatInterval <= 0 {
		config.HeartbeatInterval = def.HeartbeatInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := generateWorkerID()
	return &Worker{
		config:          config,
		queue:           queue,
		logger:          logger.Named("worker").With(zap.String("worker_id", id)),
		handlers:        Handlers{},
		workerID:        id,
		stopCh:          make(chan struct{}),
		activeJobs:      make(map[int64]context.CancelFunc),
		instrumentation: &Instrumentation{},
	}
}

// ID returns the worker id recorded on claimed jobs.
func (w *Worker) ID() string { return w.workerID }

// RegisterHandler sets the handler for a job type.
func (w *Worker) RegisterHandler(jobType string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = h
}

// SetInstrumentation sets the instrumentation hooks. Call before Start.
func (w *Worker) SetInstrumentation(inst *Instrumentation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.instrumentation = inst
}

// Start launches the processors. They run until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting", zap.Int("max_concurrent", w.config.MaxConcurrent))

	if w.instrumentation.OnHeartbeat != nil {
		w.wg.Add(1)
		go w.heartbeat(ctx)
	}

	for i := 0; i < w.config.MaxConcurrent; i++ {
		w.wg.Add(1)
		go w.processor(ctx, i)
	}
}

// Stop cancels running jobs, releases them back to pending and waits for the
// processors to exit.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, w.config.ShutdownTimeout)
	defer cancel()

	w.releaseActiveJobs(shutdownCtx)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("worker: shutdown timeout exceeded")
	}
}

func (w *Worker) processor(ctx context.Context, id int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("processor", id))

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		default:
		}

		claimed, err := w.processNextJob(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Warn("claim failed", zap.Error(err))
		}
		if !claimed {
			w.wait(ctx)
		}
	}
}

func (w *Worker) wait(ctx context.Context) {
	t := time.NewTimer(w.config.PollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-w.stopCh:
	case <-t.C:
	}
}

// processNextJob claims and runs one job. It reports whether a job was found.
func (w *Worker) processNextJob(ctx context.Context) (bool, error) {
	job, err := w.queue.ClaimNextJob(ctx, w.workerID)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.processJob(ctx, job)
	return true, nil
}

func (w *Worker) processJob(ctx context.Context, job *models.Job) {
	start := time.Now()

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	w.trackActiveJob(job.ID, cancel)
	defer w.untrackActiveJob(job.ID)

	if w.instrumentation.OnStart != nil {
		w.instrumentation.OnStart(job)
	}

	w.logger.Debug("processing job",
		zap.Int64("job_id", job.ID), zap.String("type", job.JobType),
		zap.Int("attempt", job.Attempts), zap.Int("max_attempts", job.MaxAttempts))

	w.mu.RLock()
	handler, ok := w.handlers[job.JobType]
	w.mu.RUnlock()

	// Bookkeeping runs on ctx so a timed-out handler still records its outcome.
	if !ok {
		w.handleError(ctx, job, Permanent(fmt.Errorf("no handler registered for job type %q", job.JobType)), start)
		return
	}

	if err := handler(jobCtx, job); err != nil {
		w.handleError(ctx, job, err, start)
		return
	}
	w.handleSuccess(ctx, job, start)
}

// retryDelay is the backoff before the given attempt is retried, with ±20%
// jitter.
func (w *Worker) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := float64(w.config.RetryBaseDelay) * math.Pow(w.config.RetryBackoffMultiplier, float64(attempt-1))
	delay := min(base, float64(w.config.RetryMaxDelay))
	return time.Duration(delay * (0.8 + 0.4*rand.Float64()))
}

func (w *Worker) handleError(ctx context.Context, job *models.Job, err error, start time.Time) {
	duration := time.Since(start)

	w.statsMu.Lock()
	w.jobsProcessed++
	w.jobsFailed++
	w.lastProcessedAt = time.Now()
	w.statsMu.Unlock()

	if w.instrumentation.OnFail != nil {
		w.instrumentation.OnFail(job, err, duration)
	}

	if job.CanRetry() && !IsPermanent(err) {
		delay := w.retryDelay(job.Attempts)

		w.statsMu.Lock()
		w.jobsRetried++
		w.statsMu.Unlock()

		if w.instrumentation.OnRetry != nil {
			w.instrumentation.OnRetry(job, delay)
		}

		w.logger.Warn("job failed; retry scheduled",
			zap.Int64("job_id", job.ID), zap.Error(err), zap.Duration("retry_in", delay),
			zap.Int("attempt", job.Attempts), zap.Int("max_attempts", job.MaxAttempts))

		if serr := w.queue.ScheduleRetry(ctx, job.ID, err.Error(), time.Now().Add(delay)); serr != nil {
			w.logger.Error("schedule retry failed", zap.Int64("job_id", job.ID), zap.Error(serr))
		}
		return
	}

	w.logger.Error("job failed permanently",
		zap.Int64("job_id", job.ID), zap.String("type", job.JobType), zap.Error(err), zap.Int("attempts", job.Attempts))

	if merr := w.queue.MarkFailed(ctx, job.ID, err.Error()); merr != nil {
		w.logger.Error("mark failed failed", zap.Int64("job_id", job.ID), zap.Error(merr))
	}
}

func (w *Worker) handleSuccess(ctx context.Context, job *models.Job, start time.Time) {
	duration := time.Since(start)

	w.statsMu.Lock()
	w.jobsProcessed++
	w.jobsSucceeded++
	w.lastProcessedAt = time.Now()
	w.statsMu.Unlock()

	if w.instrumentation.OnComplete != nil {
		w.instrumentation.OnComplete(job, duration)
	}

	w.logger.Info("job completed",
		zap.Int64("job_id", job.ID), zap.String("type", job.JobType), zap.Duration("duration", duration))

	if err := w.queue.MarkCompleted(ctx, job.ID); err != nil {
		w.logger.Error("mark completed failed", zap.Int64("job_id", job.ID), zap.Error(err))
	}
}

func (w *Worker) trackActiveJob(jobID int64, cancel context.CancelFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activeJobs[jobID] = cancel
}

func (w *Worker) untrackActiveJob(jobID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.activeJobs, jobID)
}

func (w *Worker) releaseActiveJobs(ctx context.Context) {
	w.mu.Lock()
	jobIDs := make([]int64, 0, len(w.activeJobs))
	for id, cancel := range w.activeJobs {
		jobIDs = append(jobIDs, id)
		cancel()
	}
	w.mu.Unlock()

	for _, id := range jobIDs {
		if err := w.queue.ReleaseJob(ctx, id); err != nil {
			w.logger.Error("release job failed", zap.Int64("job_id", id), zap.Error(err))
		} else {
			w.logger.Info("released job back to pending", zap.Int64("job_id", id))
		}
	}
}

func (w *Worker) heartbeat(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.instrumentation.OnHeartbeat(w.workerID, w.Stats())
		}
	}
}

// Stats returns the in-process counters.
func (w *Worker) Stats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()

	w.mu.RLock()
	active := len(w.activeJobs)
	w.mu.RUnlock()

	return Stats{
		JobsProcessed:   w.jobsProcessed,
		JobsSucceeded:   w.jobsSucceeded,
		JobsFailed:      w.jobsFailed,
		JobsRetried:     w.jobsRetried,
		ActiveJobs:      active,
		LastProcessedAt: w.lastProcessedAt,
	}
}

// Enqueue adds a job to the queue.
func (w *Worker) Enqueue(ctx context.Context, job *models.Job) error {
	if err := w.queue.Enqueue(ctx, job); err != nil {
		return err
	}

	if w.instrumentation.OnEnqueue != nil {
		w.instrumentation.OnEnqueue(job)
	}

	w.logger.Info("enqueued job",
		zap.Int64("job_id", job.ID), zap.String("type", job.JobType), zap.String("priority", string(job.Priority)))
	return nil
}

// CancelJob cancels a pending or failed job.
func (w *Worker) CancelJob(ctx context.Context, jobID int64) error {
	if err := w.queue.CancelJob(ctx, jobID); err != nil {
		return err
	}

	if w.instrumentation.OnCancel != nil {
		if job, err := w.queue.GetByID(ctx, jobID); err == nil {
			w.instrumentation.OnCancel(job)
		}
	}

	w.logger.Info("cancelled job", zap.Int64("job_id", jobID))
	return nil
}

func generateWorkerID() string {
	return fmt.Sprintf("worker-%d-%d", time.Now().UnixNano(), rand.Intn(10000))
}
