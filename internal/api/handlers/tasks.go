package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobreach-utils/internal/background"
	"jobreach-utils/internal/finder/workers"
	"jobreach-utils/internal/logging"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

// AsyncFindResponse is the immediate acknowledgement for an async discovery
// request. The caller polls the task endpoint (or receives a webhook) for the
// outcome.
type AsyncFindResponse struct {
	ProcessID string    `json:"processId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AsyncFindEmailHandler accepts a discovery request and queues it for
// background processing, returning 202 with a process ID
func AsyncFindEmailHandler(taskManager background.TaskManager, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.FindEmailRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind async request", map[string]interface{}{
				"error": err.Error(),
			})
			return errorJSON(c, "invalid_request", requestID, utils.NewBadRequestError("Invalid request format"))
		}

		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, "validation_failed", requestID, utils.NewValidationError(err.Error()))
		}

		if req.Job.CompanyName == "" {
			return errorJSON(c, "validation_failed", requestID, utils.NewValidationError("job.company_name is required"))
		}

		processID := utils.GenerateFindProcessID()

		logger.Info("Submitting discovery task for background processing", map[string]interface{}{
			"process_id": processID,
			"company":    req.Job.CompanyName,
		})

		if err := taskManager.SubmitFindTask(c.Request().Context(), processID, req, poolManager); err != nil {
			logger.Error("Failed to submit background discovery task", map[string]interface{}{
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "task_submission_failed",
				Message:   "Failed to queue discovery task for background processing",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusAccepted, AsyncFindResponse{
			ProcessID: processID,
			Status:    string(background.TaskStatusAccepted),
			Message:   "Discovery request accepted for background processing",
			Timestamp: time.Now(),
		})
	}
}

// TaskStatusHandler returns the stored result for a background task
func TaskStatusHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		processID := c.Param("processId")

		if processID == "" {
			return errorJSON(c, "missing_process_id", requestID,
				utils.NewBadRequestError("processId path parameter is required"))
		}

		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:     "task_not_found",
				Message:   "No task found for the given process ID",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, result)
	}
}
