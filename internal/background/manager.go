package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobreach-utils/internal/callback"
	"jobreach-utils/internal/config"
	"jobreach-utils/internal/finder/workers"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
)

// Task manager configuration constants
const (
	// Default configuration values
	DefaultMaxWorkers   = 10
	DefaultMaxQueueSize = 100

	// Minimum configuration values to prevent misconfiguration
	MinWorkers   = 1
	MinQueueSize = 1

	// Maximum configuration values for safety
	MaxWorkers   = 1000
	MaxQueueSize = 10000
)

// TaskManager defines the interface for managing background tasks
type TaskManager interface {
	// Start starts the task manager
	Start(ctx context.Context) error

	// Stop stops the task manager gracefully
	Stop(ctx context.Context) error

	// SubmitFindTask submits an email discovery task for background processing
	SubmitFindTask(ctx context.Context, processID string, request models.FindEmailRequest, poolManager *workers.PoolManager) error

	// GetTaskResult retrieves the result of a task by process ID
	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)

	// GetTaskStatus retrieves the status of a task by process ID
	GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error)

	// ListTasks lists all active tasks (for monitoring)
	ListTasks(ctx context.Context) ([]*TaskResult, error)

	// IsHealthy checks if the task manager is healthy
	IsHealthy() bool
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	config       *config.Config
	store        TaskStore
	logger       *TaskCompletionLogger
	appLogger    types.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	running      bool
	taskChan     chan *TaskExecution
	maxWorkers   int
	maxQueueSize int
}

// TaskExecution represents a task execution context
type TaskExecution struct {
	ProcessID   string
	Type        TaskType
	Context     context.Context
	Cancel      context.CancelFunc
	ExecuteFunc func(context.Context) (*TaskResult, error)
}

// validateTaskManagerConfig validates and returns safe configuration values
func validateTaskManagerConfig(cfg *config.Config) (maxWorkers, maxQueueSize int, err error) {
	maxWorkers = cfg.Workers.PoolSize
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers < MinWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) is below minimum (%d)", maxWorkers, MinWorkers)
	} else if maxWorkers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) exceeds maximum (%d)", maxWorkers, MaxWorkers)
	}

	maxQueueSize = cfg.Workers.QueueSize
	if maxQueueSize <= 0 {
		maxQueueSize = DefaultMaxQueueSize
	} else if maxQueueSize < MinQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) is below minimum (%d)", maxQueueSize, MinQueueSize)
	} else if maxQueueSize > MaxQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) exceeds maximum (%d)", maxQueueSize, MaxQueueSize)
	}

	return maxWorkers, maxQueueSize, nil
}

// NewTaskManager creates a new task manager. The callback client may be nil,
// in which case completed tasks are only logged, not delivered.
func NewTaskManager(cfg *config.Config, callbackClient *callback.Client) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	maxWorkers, maxQueueSize, err := validateTaskManagerConfig(cfg)
	if err != nil {
		logger.Warn("Task manager configuration validation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		maxWorkers = DefaultMaxWorkers
		maxQueueSize = DefaultMaxQueueSize
	}

	logger.Info("Task manager configuration initialized", map[string]interface{}{
		"max_workers":      maxWorkers,
		"max_queue_size":   maxQueueSize,
		"callback_enabled": callbackClient != nil,
		"using_defaults":   err != nil,
	})

	completionLogger := NewTaskCompletionLogger()
	if callbackClient != nil {
		completionLogger = NewTaskCompletionLoggerWithCallback(callbackClient)
	}

	return &TaskManagerImpl{
		config:       cfg,
		store:        NewInMemoryTaskStore(),
		logger:       completionLogger,
		appLogger:    logger,
		maxWorkers:   maxWorkers,
		maxQueueSize: maxQueueSize,
		taskChan:     make(chan *TaskExecution, maxQueueSize),
	}
}

// Start starts the task manager
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.appLogger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop stops the task manager gracefully
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.appLogger.Info("Stopping task manager...", map[string]interface{}{})

	tm.cancel()
	close(tm.taskChan)

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.appLogger.Info("Task manager stopped gracefully", map[string]interface{}{})
	case <-ctx.Done():
		tm.appLogger.Warn("Task manager shutdown timed out", map[string]interface{}{})
	}

	tm.running = false
	return nil
}

// SubmitFindTask submits an email discovery task for background processing
func (tm *TaskManagerImpl) SubmitFindTask(ctx context.Context, processID string, request models.FindEmailRequest, poolManager *workers.PoolManager) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      TaskTypeFindEmail,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata: map[string]interface{}{
			"company":   request.Job.CompanyName,
			"job_title": request.Job.Title,
		},
	}

	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	tm.logger.LogTaskAccepted(processID, TaskTypeFindEmail)

	// Derived context keeps the task alive after the HTTP request returns
	taskCtx, cancelFunc := context.WithCancel(tm.ctx)
	execution := &TaskExecution{
		ProcessID: processID,
		Type:      TaskTypeFindEmail,
		Context:   taskCtx,
		Cancel:    cancelFunc,
		ExecuteFunc: func(execCtx context.Context) (*TaskResult, error) {
			return tm.executeFindTask(execCtx, processID, request, poolManager)
		},
	}

	select {
	case tm.taskChan <- execution:
		return nil
	case <-ctx.Done():
		cancelFunc()
		return ctx.Err()
	default:
		cancelFunc()
		return fmt.Errorf("task queue is full")
	}
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// GetTaskStatus retrieves the status of a task by process ID
func (tm *TaskManagerImpl) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks lists all active tasks (for monitoring)
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

// worker processes tasks from the task channel
func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	tm.appLogger.Info("Task worker started", map[string]interface{}{
		"worker_id": workerID,
	})

	for {
		select {
		case <-tm.ctx.Done():
			tm.appLogger.Info("Task worker stopping", map[string]interface{}{
				"worker_id": workerID,
			})
			return
		case task, ok := <-tm.taskChan:
			if !ok {
				tm.appLogger.Info("Task channel closed, worker stopping", map[string]interface{}{
					"worker_id": workerID,
				})
				return
			}

			tm.processTask(workerID, task)
		}
	}
}

// processTask processes a single task
func (tm *TaskManagerImpl) processTask(workerID int, task *TaskExecution) {
	startTime := time.Now()

	tm.appLogger.Info("Processing task", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.ProcessID,
		"task_type":  task.Type,
	})

	if err := tm.updateTaskStatus(task.ProcessID, TaskStatusProcessing); err != nil {
		tm.appLogger.Error("Failed to update task status to processing", map[string]interface{}{
			"error": err.Error(),
		})
	}

	tm.logger.LogTaskStart(task.ProcessID, task.Type)

	result, err := task.ExecuteFunc(task.Context)
	processingTime := time.Since(startTime)

	if err != nil {
		tm.appLogger.Error("Task execution failed", map[string]interface{}{
			"worker_id":       workerID,
			"process_id":      task.ProcessID,
			"task_type":       task.Type,
			"processing_time": processingTime,
			"error":           err.Error(),
		})

		// Preserve the original CreatedAt when recording the failure
		existingResult, getErr := tm.store.Get(task.Context, task.ProcessID)
		if getErr != nil {
			result = &TaskResult{
				ProcessID:      task.ProcessID,
				Type:           task.Type,
				Status:         TaskStatusFailure,
				Error:          err.Error(),
				CreatedAt:      time.Now(),
				ProcessingTime: &processingTime,
			}
		} else {
			existingResult.Status = TaskStatusFailure
			existingResult.Error = err.Error()
			existingResult.ProcessingTime = &processingTime
			result = existingResult
		}

		tm.logger.LogTaskError(task.ProcessID, task.Type, err)
	} else {
		tm.appLogger.Info("Task execution completed successfully", map[string]interface{}{
			"worker_id":       workerID,
			"process_id":      task.ProcessID,
			"task_type":       task.Type,
			"processing_time": processingTime,
		})

		result.Status = TaskStatusSuccess
		result.ProcessingTime = &processingTime
		completedAt := time.Now()
		result.CompletedAt = &completedAt

		tm.logger.LogTaskSuccess(task.ProcessID, task.Type, processingTime)
	}

	if err := tm.store.Update(task.Context, result); err != nil {
		tm.appLogger.Error("Failed to store task result", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := tm.logger.LogTaskCompletion(result); err != nil {
		tm.appLogger.Error("Failed to log task completion", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if task.Cancel != nil {
		task.Cancel()
	}
}

// updateTaskStatus updates the status of a task
func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus) error {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return err
	}

	result.Status = status
	return tm.store.Update(context.Background(), result)
}

// cleanupRoutine periodically cleans up old task results
func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			maxAge := 24 * time.Hour // Keep results for 24 hours
			if err := tm.store.Cleanup(context.Background(), maxAge); err != nil {
				tm.appLogger.Error("Failed to cleanup old task results", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// executeFindTask executes an email discovery task in the background
func (tm *TaskManagerImpl) executeFindTask(ctx context.Context, processID string, request models.FindEmailRequest, poolManager *workers.PoolManager) (*TaskResult, error) {
	existingResult, err := tm.store.Get(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve existing task result: %w", err)
	}

	jobResult, err := poolManager.SubmitJob(ctx, &request.Job, request.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to submit discovery job: %w", err)
	}

	if jobResult.Error != nil {
		return nil, jobResult.Error
	}

	if jobResult.Response == nil {
		return nil, fmt.Errorf("discovery completed but no result was returned")
	}

	existingResult.Status = TaskStatusSuccess
	existingResult.Data = &FindTaskData{
		Response: jobResult.Response,
		Company:  request.Job.CompanyName,
		Strategy: jobResult.Response.Strategy,
	}
	existingResult.Metadata = map[string]interface{}{
		"company":     request.Job.CompanyName,
		"job_title":   request.Job.Title,
		"strategy":    jobResult.Response.Strategy,
		"disposition": string(jobResult.Response.Disposition),
	}

	return existingResult, nil
}
