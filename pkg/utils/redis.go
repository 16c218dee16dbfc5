package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/logging"
	"jobreach-utils/pkg/models"
)

// DispositionStore records the terminal state of every discovery run in an
// append-only log keyed by the job record's content hash. It is the logging
// collaborator for the finder: the mail sender reads dispositions, the finder
// only ever appends.
type DispositionStore struct {
	client *redis.Client
	config *config.Config
	logger logging.Logger
}

// DispositionEntry is a single appended record for a job.
type DispositionEntry struct {
	Disposition models.Disposition `json:"disposition"`
	Emails      []string           `json:"emails,omitempty"`
	Strategy    string             `json:"strategy,omitempty"`
	Company     string             `json:"company"`
	Title       string             `json:"title"`
	RecordedAt  time.Time          `json:"recorded_at"`
}

// NewDispositionStore creates a new redis-backed disposition store.
func NewDispositionStore(cfg *config.Config) *DispositionStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &DispositionStore{
		client: redis.NewClient(opts),
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the redis connection
func (s *DispositionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis connection
func (s *DispositionStore) Close() error {
	return s.client.Close()
}

// Record appends a disposition entry for the given job.
func (s *DispositionStore) Record(ctx context.Context, job models.JobRecord, entry DispositionEntry) error {
	entry.Company = job.CompanyName
	entry.Title = job.Title
	entry.RecordedAt = time.Now()

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal disposition entry: %w", err)
	}

	key := s.dispositionKey(job)
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		s.logger.Error("Failed to record disposition", map[string]interface{}{
			"company":     job.CompanyName,
			"disposition": string(entry.Disposition),
			"error":       err.Error(),
		})
		return fmt.Errorf("failed to record disposition: %w", err)
	}

	return nil
}

// Get returns every disposition entry recorded for the job, oldest first.
func (s *DispositionStore) Get(ctx context.Context, job models.JobRecord) ([]DispositionEntry, error) {
	key := s.dispositionKey(job)

	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read disposition log: %w", err)
	}

	entries := make([]DispositionEntry, 0, len(raw))
	for _, item := range raw {
		var entry DispositionEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal disposition entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// WasProcessed reports whether the job already has at least one recorded
// disposition, so callers can skip duplicate discovery work.
func (s *DispositionStore) WasProcessed(ctx context.Context, job models.JobRecord) (bool, error) {
	count, err := s.client.Exists(ctx, s.dispositionKey(job)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check disposition log: %w", err)
	}
	return count > 0, nil
}

// IsHealthy checks if redis is connected and healthy
func (s *DispositionStore) IsHealthy(ctx context.Context) error {
	return s.Ping(ctx)
}

func (s *DispositionStore) dispositionKey(job models.JobRecord) string {
	return fmt.Sprintf("disposition:%s", job.ContentHash())
}
