package llm

import (
	"context"

	"jobreach-utils/pkg/models"
)

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// SuggestEmails proposes likely hiring-contact addresses for the company
	// behind a job record, constrained to the given domain when known
	SuggestEmails(ctx context.Context, job *models.JobRecord, domain string) ([]string, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
