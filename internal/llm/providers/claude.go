package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
)

var emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger types.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// SuggestEmails asks Claude for likely hiring-contact addresses at the
// company. Suggestions are only hints; every address still goes through the
// validator before it can be returned to a caller.
func (cp *ClaudeProvider) SuggestEmails(ctx context.Context, job *models.JobRecord, domain string) ([]string, error) {
	startTime := time.Now()

	cp.logger.Info("Requesting email suggestions from Claude", map[string]interface{}{
		"company":  job.CompanyName,
		"domain":   domain,
		"provider": "claude",
	})

	prompt := cp.buildSuggestionPrompt(job, domain)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	emails, err := cp.parseSuggestionResponse(response, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	cp.logger.Info("Email suggestions received", map[string]interface{}{
		"company":         job.CompanyName,
		"suggestions":     len(emails),
		"processing_time": time.Since(startTime).String(),
		"provider":        "claude",
	})

	return emails, nil
}

// buildSuggestionPrompt creates the prompt for Claude to suggest contact emails
func (cp *ClaudeProvider) buildSuggestionPrompt(job *models.JobRecord, domain string) string {
	var b strings.Builder
	b.WriteString("You are helping a job applicant find a hiring contact email address.\n\n")
	fmt.Fprintf(&b, "Company: %s\n", job.CompanyName)
	if job.Title != "" {
		fmt.Fprintf(&b, "Job title: %s\n", job.Title)
	}
	if domain != "" {
		fmt.Fprintf(&b, "Company website domain: %s\n", domain)
	}
	if job.Description != "" {
		desc := job.Description
		if len(desc) > 1500 {
			desc = desc[:1500] + "..."
		}
		fmt.Fprintf(&b, "Job description excerpt:\n%s\n", desc)
	}
	b.WriteString(`
Suggest up to 5 email addresses where an application for this job would most likely be read, ordered from most to least likely.

IMPORTANT RULES:
1. Return ONLY a valid JSON array of strings, no additional text or explanation
2. Prefer addresses at the company's own domain
3. Prefer recruiting-oriented addresses (careers@, jobs@, hr@, recruiting@) over generic ones
4. Never suggest noreply or auto-responder addresses
5. If any address appears verbatim in the job description, put it first
6. Return [] if you cannot suggest anything plausible`)
	return b.String()
}

// parseSuggestionResponse extracts the suggestion list from the Claude response
func (cp *ClaudeProvider) parseSuggestionResponse(response *anthropic.Message, domain string) ([]string, error) {
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in Claude response")
	}

	// Strip markdown code fences if present
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	var raw []string
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w, response: %s", err, responseText)
	}

	var emails []string
	seen := make(map[string]bool)
	for _, suggestion := range raw {
		email := strings.ToLower(strings.TrimSpace(suggestion))
		if !emailShape.MatchString(email) || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
