package models

import "time"

// Disposition is the terminal state of one discovery run, recorded by the
// disposition log. An empty email list is a normal outcome, not an error.
type Disposition string

const (
	DispositionFound    Disposition = "found"
	DispositionSkipped  Disposition = "skipped"   // placeholder/masked company, no work done
	DispositionNoResult Disposition = "no_result" // searched but nothing passed validation
)

// FindEmailResponse represents the response from a find-email request.
type FindEmailResponse struct {
	Success        bool               `json:"success"`
	Emails         []string           `json:"emails"`
	Results        []ValidationResult `json:"results,omitempty"`
	Disposition    Disposition        `json:"disposition"`
	Strategy       string             `json:"strategy,omitempty"` // which strategy produced the result
	Domain         string             `json:"domain,omitempty"`
	ProcessingTime time.Duration      `json:"processing_time"`
	RequestID      string             `json:"request_id"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
