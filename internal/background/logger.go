package background

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobreach-utils/internal/callback"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

// TaskCompletionLogger handles structured logging for task completion
type TaskCompletionLogger struct {
	logger          types.Logger
	callbackClient  *callback.Client
	callbackEnabled bool
}

// NewTaskCompletionLogger creates a new task completion logger
func NewTaskCompletionLogger() *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger: logging.GetGlobalLogger(),
	}
}

// NewTaskCompletionLoggerWithCallback creates a new task completion logger with webhook callback support
func NewTaskCompletionLoggerWithCallback(callbackClient *callback.Client) *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger:          logging.GetGlobalLogger(),
		callbackClient:  callbackClient,
		callbackEnabled: callbackClient != nil,
	}
}

// TaskCompletionLog represents the structured log entry for task completion
type TaskCompletionLog struct {
	ProcessID      string                 `json:"processId"`
	Status         string                 `json:"status"`
	Data           interface{}            `json:"data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	Operation      string                 `json:"operation"`
	ProcessingTime string                 `json:"processing_time"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// LogTaskCompletion logs task completion to stdout in structured JSON format
// and forwards the outcome to the callback webhook when one is configured.
func (l *TaskCompletionLogger) LogTaskCompletion(result *TaskResult) error {
	var processingTimeStr string
	if result.ProcessingTime != nil {
		processingTimeStr = utils.FormatDuration(*result.ProcessingTime)
	} else {
		processingTimeStr = "0s"
	}

	logEntry := TaskCompletionLog{
		ProcessID:      result.ProcessID,
		Status:         string(result.Status),
		Data:           result.Data,
		Error:          result.Error,
		Timestamp:      time.Now(),
		Operation:      string(result.Type),
		ProcessingTime: processingTimeStr,
		Metadata:       result.Metadata,
	}

	jsonData, err := json.Marshal(logEntry)
	if err != nil {
		l.logger.Error("Failed to marshal task completion log", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to marshal task completion log: %w", err)
	}

	// Print to stdout (this will be captured by container orchestrators)
	fmt.Println(string(jsonData))

	l.logger.Info("Background task completed", map[string]interface{}{
		"process_id":      result.ProcessID,
		"status":          result.Status,
		"operation":       result.Type,
		"processing_time": processingTimeStr,
	})

	if l.callbackEnabled && l.callbackClient != nil {
		if err := l.sendTaskCallback(context.Background(), result); err != nil {
			l.logger.Error("Failed to send task callback", map[string]interface{}{
				"process_id": result.ProcessID,
				"error":      err.Error(),
			})
			// Don't return error here as logging succeeded, just callback failed
		}
	}

	return nil
}

// LogTaskStart logs when a task starts processing
func (l *TaskCompletionLogger) LogTaskStart(processID string, taskType TaskType) {
	l.logger.Info("Background task started", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     "PROCESSING",
	})
}

// LogTaskAccepted logs when a task is accepted for processing
func (l *TaskCompletionLogger) LogTaskAccepted(processID string, taskType TaskType) {
	l.logger.Info("Background task accepted", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     "ACCEPTED",
	})
}

// LogTaskError logs task errors during processing
func (l *TaskCompletionLogger) LogTaskError(processID string, taskType TaskType, err error) {
	l.logger.Error("Background task failed", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     "FAILURE",
		"error":      err.Error(),
	})
}

// LogTaskSuccess logs successful task completion
func (l *TaskCompletionLogger) LogTaskSuccess(processID string, taskType TaskType, processingTime time.Duration) {
	l.logger.Info("Background task completed successfully", map[string]interface{}{
		"process_id":      processID,
		"operation":       taskType,
		"status":          "SUCCESS",
		"processing_time": utils.FormatDuration(processingTime),
	})
}

// sendTaskCallback forwards a finished find-email task to the webhook
func (l *TaskCompletionLogger) sendTaskCallback(ctx context.Context, result *TaskResult) error {
	callbackData := &callback.CallbackData{
		ProcessID: result.ProcessID,
		Status:    string(result.Status),
		Operation: string(result.Type),
		Error:     result.Error,
		Timestamp: time.Now(),
		Metadata:  result.Metadata,
	}

	if result.ProcessingTime != nil {
		callbackData.ProcessingTime = result.ProcessingTime.String()
	}

	if result.Data != nil {
		if findData, ok := result.Data.(*FindTaskData); ok {
			callbackData.Data = findData.Response
		} else if response, ok := result.Data.(*models.FindEmailResponse); ok {
			callbackData.Data = response
		}
	}

	return l.callbackClient.SendTaskCallback(ctx, callbackData)
}
