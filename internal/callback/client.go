// Package callback delivers async task outcomes to an external consumer over
// HTTP. The job-application backend registers one webhook URL; every finished
// background task is POSTed there as JSON.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/retry"
)

// CallbackData is the webhook payload for a completed task.
type CallbackData struct {
	ProcessID      string                     `json:"processId"`
	Status         string                     `json:"status"`
	Operation      string                     `json:"operation"`
	Data           *models.FindEmailResponse  `json:"data,omitempty"`
	Error          string                     `json:"error,omitempty"`
	ProcessingTime string                     `json:"processing_time,omitempty"`
	Timestamp      time.Time                  `json:"timestamp"`
	Metadata       map[string]interface{}     `json:"metadata,omitempty"`
}

// Client posts task callbacks to the configured webhook URL
type Client struct {
	url        string
	httpClient *http.Client
	policy     retry.Policy
	logger     types.Logger
}

// NewClient creates a new callback client. It returns nil when no callback
// URL is configured; callers treat a nil client as "callbacks disabled".
func NewClient(cfg *config.Config) *Client {
	if cfg.Callback.URL == "" {
		return nil
	}

	policy := retry.DefaultPolicy()
	if cfg.Callback.MaxRetries > 0 {
		policy.MaxAttempts = cfg.Callback.MaxRetries
	}

	return &Client{
		url:        cfg.Callback.URL,
		httpClient: &http.Client{Timeout: cfg.Callback.Timeout},
		policy:     policy,
		logger:     logging.GetGlobalLogger().WithField("component", "callback"),
	}
}

// SendTaskCallback posts the task outcome to the webhook, retrying transient
// failures. A 2xx response is success; anything else is an error.
func (c *Client) SendTaskCallback(ctx context.Context, data *CallbackData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal callback payload: %w", err)
	}

	c.logger.Info("Sending task callback", map[string]interface{}{
		"process_id": data.ProcessID,
		"status":     data.Status,
		"operation":  data.Operation,
	})

	err = c.policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("callback endpoint returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Failed to send task callback", map[string]interface{}{
			"process_id": data.ProcessID,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to send callback: %w", err)
	}

	c.logger.Info("Task callback sent successfully", map[string]interface{}{
		"process_id": data.ProcessID,
	})
	return nil
}
