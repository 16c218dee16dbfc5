package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler"
	"jobreach-utils/internal/finder/workers"
	"jobreach-utils/internal/logging"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

var validate = validator.New()

// errorJSON writes a CustomError as the standard error envelope, using the
// error's own HTTP status code.
func errorJSON(c echo.Context, code, requestID string, appErr *utils.CustomError) error {
	return c.JSON(appErr.Code, models.ErrorResponse{
		Error:     code,
		Message:   appErr.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// discoveryError maps a pipeline failure onto a CustomError, keeping an
// explicit status when a strategy already classified the failure.
func discoveryError(err error) *utils.CustomError {
	var appErr *utils.CustomError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.NewTimeoutError("Discovery timed out")
	}
	return utils.NewInternalServerError(fmt.Sprintf("Failed to find company email: %v", err))
}

// FindEmailHandler handles email discovery requests using the worker pool
func FindEmailHandler(cfg *config.Config, poolManager *workers.PoolManager) echo.HandlerFunc {
	supportedEngines := crawler.NewEngineFactory(cfg).GetSupportedEngines()

	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Find-email request received", nil)

		var req models.FindEmailRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind request", map[string]interface{}{
				"error": err.Error(),
			})
			return errorJSON(c, "invalid_request", requestID, utils.NewBadRequestError("Invalid request format"))
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{
				"error": err.Error(),
			})
			return errorJSON(c, "validation_failed", requestID, utils.NewValidationError(err.Error()))
		}

		if req.Job.CompanyName == "" {
			return errorJSON(c, "validation_failed", requestID, utils.NewValidationError("job.company_name is required"))
		}

		if req.Options != nil && req.Options.Engine != "" && !utils.Contains(supportedEngines, req.Options.Engine) {
			return errorJSON(c, "validation_failed", requestID,
				utils.NewValidationError(fmt.Sprintf("unsupported engine %q", req.Options.Engine)))
		}

		logger.Info("Processing find-email request", map[string]interface{}{
			"company": req.Job.CompanyName,
			"title":   req.Job.Title,
		})

		ctx := c.Request().Context()
		result, err := poolManager.SubmitJob(ctx, &req.Job, req.Options)
		if err != nil {
			logger.Error("Failed to submit job to worker pool", map[string]interface{}{
				"error": err.Error(),
			})
			return errorJSON(c, "job_submission_failed", requestID,
				utils.NewInternalServerError(fmt.Sprintf("Failed to submit discovery job: %v", err)))
		}

		if result.Error != nil {
			logger.Error("Discovery job failed", map[string]interface{}{
				"error": result.Error.Error(),
			})
			return errorJSON(c, "discovery_failed", requestID, discoveryError(result.Error))
		}

		response := result.Response
		response.RequestID = requestID
		response.ProcessingTime = time.Since(startTime)

		logger.Info("Find-email request completed", map[string]interface{}{
			"company":         req.Job.CompanyName,
			"disposition":     string(response.Disposition),
			"strategy":        response.Strategy,
			"emails_found":    len(response.Emails),
			"processing_time": utils.FormatDuration(response.ProcessingTime),
		})

		return c.JSON(http.StatusOK, response)
	}
}

// DispositionHandler returns the disposition log for a job record identified
// by query parameters
func DispositionHandler(store *utils.DispositionStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		job := models.JobRecord{
			CompanyName: c.QueryParam("company"),
			Title:       c.QueryParam("title"),
			SourceURL:   c.QueryParam("source_url"),
		}
		if job.CompanyName == "" {
			return errorJSON(c, "missing_company", requestID,
				utils.NewBadRequestError("company query parameter is required"))
		}

		entries, err := store.Get(c.Request().Context(), job)
		if err != nil {
			logger.Error("Failed to read disposition log", map[string]interface{}{
				"company": job.CompanyName,
				"error":   err.Error(),
			})
			return errorJSON(c, "disposition_unavailable", requestID,
				utils.NewInternalServerError("Disposition log is not available"))
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":      true,
			"company":      job.CompanyName,
			"dispositions": entries,
			"request_id":   requestID,
			"timestamp":    time.Now(),
		})
	}
}
