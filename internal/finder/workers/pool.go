package workers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/finder"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

// JobResult represents the result of a discovery job
type JobResult struct {
	Response  *models.FindEmailResponse
	Error     error
	RequestID string
	Duration  time.Duration
}

// FindJob represents a discovery job to be processed by workers
type FindJob struct {
	ID         string
	Job        *models.JobRecord
	Options    *models.FindOptions
	ResultChan chan JobResult
	Context    context.Context
	CreatedAt  time.Time
}

// Worker represents a single worker goroutine
type Worker struct {
	ID       int
	JobChan  chan FindJob
	QuitChan chan bool
	Pool     *WorkerPool
	logger   types.Logger
}

// WorkerPool manages multiple worker goroutines and the job queue
type WorkerPool struct {
	config      *config.Config
	workers     []*Worker
	jobQueue    chan FindJob
	dispatcher  *Dispatcher
	rateLimiter *RateLimiter
	finder      *finder.Finder
	logger      types.Logger
	mu          sync.RWMutex
	running     bool
	stats       *PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	mu                    sync.RWMutex
	JobsQueued            int64         `json:"jobs_queued"`
	JobsProcessed         int64         `json:"jobs_processed"`
	JobsSuccessful        int64         `json:"jobs_successful"`
	JobsFailed            int64         `json:"jobs_failed"`
	TotalProcessingTime   time.Duration `json:"total_processing_time"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
}

// NewWorkerPool creates a new worker pool instance
func NewWorkerPool(cfg *config.Config, emailFinder *finder.Finder) *WorkerPool {
	logger := logging.GetGlobalLogger()

	pool := &WorkerPool{
		config:      cfg,
		jobQueue:    make(chan FindJob, cfg.Workers.QueueSize),
		rateLimiter: NewRateLimiter(cfg),
		finder:      emailFinder,
		logger:      logger,
		stats:       &PoolStats{},
	}

	pool.workers = make([]*Worker, cfg.Workers.PoolSize)
	for i := 0; i < cfg.Workers.PoolSize; i++ {
		worker := &Worker{
			ID:       i + 1,
			JobChan:  make(chan FindJob),
			QuitChan: make(chan bool),
			Pool:     pool,
			logger:   logger.WithField("worker_id", i+1),
		}
		pool.workers[i] = worker
	}

	pool.dispatcher = NewDispatcher(pool.jobQueue, pool.workers)

	logger.Info("Worker pool initialized", map[string]interface{}{
		"pool_size": cfg.Workers.PoolSize,
	})
	return pool
}

// Start starts the worker pool
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return fmt.Errorf("worker pool is already running")
	}

	wp.logger.Info("Starting worker pool", nil)

	wp.dispatcher.Start()
	for _, worker := range wp.workers {
		go worker.Start()
	}

	wp.running = true
	wp.logger.Info("Worker pool started successfully", map[string]interface{}{
		"workers": len(wp.workers),
	})
	return nil
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return nil
	}

	wp.logger.Info("Stopping worker pool", nil)

	wp.dispatcher.Stop()
	for _, worker := range wp.workers {
		worker.Stop()
	}
	close(wp.jobQueue)

	wp.running = false
	wp.logger.Info("Worker pool stopped successfully", nil)
	return nil
}

// SubmitJob submits a new discovery job to the pool and waits for its result
func (wp *WorkerPool) SubmitJob(ctx context.Context, jobRecord *models.JobRecord, options *models.FindOptions) (*JobResult, error) {
	if !wp.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	key := limiterKey(jobRecord)
	if !wp.rateLimiter.Allow(key) {
		return nil, fmt.Errorf("rate limit exceeded for company: %s", key)
	}

	job := FindJob{
		ID:         utils.GenerateRequestID(),
		Job:        jobRecord,
		Options:    options,
		ResultChan: make(chan JobResult, 1),
		Context:    ctx,
		CreatedAt:  time.Now(),
	}

	wp.stats.mu.Lock()
	wp.stats.JobsQueued++
	wp.stats.mu.Unlock()

	select {
	case wp.jobQueue <- job:
		wp.logger.Info("Job submitted to queue", map[string]interface{}{
			"job_id":  job.ID,
			"company": jobRecord.CompanyName,
		})
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("job queue is full, request timed out")
	}

	select {
	case result := <-job.ResultChan:
		return &result, nil
	case <-time.After(wp.config.Workers.Timeout):
		return nil, fmt.Errorf("job processing timed out after %v", wp.config.Workers.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsRunning returns true if the worker pool is running
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

// GetStats returns current pool statistics
func (wp *WorkerPool) GetStats() PoolStats {
	wp.stats.mu.RLock()
	defer wp.stats.mu.RUnlock()

	stats := PoolStats{
		JobsQueued:          wp.stats.JobsQueued,
		JobsProcessed:       wp.stats.JobsProcessed,
		JobsSuccessful:      wp.stats.JobsSuccessful,
		JobsFailed:          wp.stats.JobsFailed,
		TotalProcessingTime: wp.stats.TotalProcessingTime,
	}
	if stats.JobsProcessed > 0 {
		stats.AverageProcessingTime = stats.TotalProcessingTime / time.Duration(stats.JobsProcessed)
	}
	return stats
}

// Start starts the worker goroutine
func (w *Worker) Start() {
	w.logger.Info("Worker started", nil)

	for {
		select {
		case job := <-w.JobChan:
			w.processJob(job)
		case <-w.QuitChan:
			w.logger.Info("Worker stopping", nil)
			return
		}
	}
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.QuitChan <- true
}

// processJob runs one discovery job through the finder
func (w *Worker) processJob(job FindJob) {
	startTime := time.Now()

	w.logger.Debug("Processing job", map[string]interface{}{
		"job_id":  job.ID,
		"company": job.Job.CompanyName,
	})

	w.Pool.stats.mu.Lock()
	w.Pool.stats.JobsProcessed++
	w.Pool.stats.mu.Unlock()

	result := JobResult{RequestID: job.ID}
	key := limiterKey(job.Job)

	response, err := w.Pool.finder.FindCompanyEmailDetailed(job.Context, job.Job, job.Options)
	if err != nil {
		result.Error = err
		w.Pool.rateLimiter.RecordFailure(key, err)
	} else {
		response.RequestID = job.ID
		result.Response = response
		w.Pool.rateLimiter.RecordSuccess(key)
	}

	processingTime := time.Since(startTime)
	result.Duration = processingTime

	w.Pool.stats.mu.Lock()
	w.Pool.stats.TotalProcessingTime += processingTime
	if result.Error != nil {
		w.Pool.stats.JobsFailed++
	} else {
		w.Pool.stats.JobsSuccessful++
	}
	w.Pool.stats.mu.Unlock()

	select {
	case job.ResultChan <- result:
		w.logger.Info("Job completed", map[string]interface{}{
			"job_id":          job.ID,
			"worker_id":       w.ID,
			"processing_time": processingTime.String(),
			"success":         result.Error == nil,
		})
	case <-time.After(100 * time.Millisecond):
		w.logger.Debug("Result channel timeout - client may have disconnected", map[string]interface{}{
			"job_id":    job.ID,
			"worker_id": w.ID,
		})
	}
}

// limiterKey picks the rate-limit bucket for a job: the posting's host when
// present, otherwise the company name.
func limiterKey(job *models.JobRecord) string {
	if host := utils.StripWWW(utils.HostnameFromURL(job.SourceURL)); host != "" {
		return host
	}
	return strings.ToLower(strings.TrimSpace(job.CompanyName))
}
