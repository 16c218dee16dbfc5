package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Workers struct {
		PoolSize  int           `yaml:"pool_size" default:"10"`
		QueueSize int           `yaml:"queue_size" default:"100"`
		RateLimit int           `yaml:"rate_limit" default:"60"` // requests per minute per domain
		Timeout   time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"workers"`

	Crawler struct {
		Engine      string        `yaml:"engine" default:"native"`
		MaxDepth    int           `yaml:"max_depth" default:"2"`
		MaxPages    int           `yaml:"max_pages" default:"15"`
		PageTimeout time.Duration `yaml:"page_timeout" default:"5s"`
		TimeBudget  time.Duration `yaml:"time_budget" default:"60s"`
		UserAgent   string        `yaml:"user_agent"`
	} `yaml:"crawler"`

	Finder struct {
		MaxResults   int           `yaml:"max_results" default:"3"`
		ProbeTimeout time.Duration `yaml:"probe_timeout" default:"3s"`
	} `yaml:"finder"`

	Search struct {
		APIKey     string        `yaml:"api_key"`
		EngineID   string        `yaml:"engine_id"`
		Timeout    time.Duration `yaml:"timeout" default:"10s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
	} `yaml:"search"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens   int           `yaml:"max_tokens" default:"1024"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"llm"`

	Firecrawl struct {
		APIKey  string        `yaml:"api_key"`
		APIURL  string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Timeout time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"firecrawl"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Callback struct {
		URL        string        `yaml:"url"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
	} `yaml:"callback"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Workers.PoolSize = 10
	config.Workers.QueueSize = 100
	config.Workers.RateLimit = 60
	config.Workers.Timeout = 120 * time.Second

	config.Crawler.Engine = "native"
	config.Crawler.MaxDepth = 2
	config.Crawler.MaxPages = 15
	config.Crawler.PageTimeout = 5 * time.Second
	config.Crawler.TimeBudget = 60 * time.Second
	config.Crawler.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.Finder.MaxResults = 3
	config.Finder.ProbeTimeout = 3 * time.Second

	config.Search.Timeout = 10 * time.Second
	config.Search.MaxRetries = 3

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-haiku-20240307"
	config.LLM.MaxTokens = 1024
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 30 * time.Second

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Timeout = 60 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Callback.Timeout = 30 * time.Second
	config.Callback.MaxRetries = 3

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if engine := os.Getenv("CRAWLER_ENGINE"); engine != "" {
		c.Crawler.Engine = engine
	}

	if depth := os.Getenv("CRAWLER_MAX_DEPTH"); depth != "" {
		if d, err := strconv.Atoi(depth); err == nil {
			c.Crawler.MaxDepth = d
		}
	}

	if pages := os.Getenv("CRAWLER_MAX_PAGES"); pages != "" {
		if p, err := strconv.Atoi(pages); err == nil {
			c.Crawler.MaxPages = p
		}
	}

	if timeout := os.Getenv("CRAWLER_PAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Crawler.PageTimeout = d
		}
	}

	if budget := os.Getenv("CRAWLER_TIME_BUDGET"); budget != "" {
		if d, err := time.ParseDuration(budget); err == nil {
			c.Crawler.TimeBudget = d
		}
	}

	if userAgent := os.Getenv("CRAWLER_USER_AGENT"); userAgent != "" {
		c.Crawler.UserAgent = userAgent
	}

	if maxResults := os.Getenv("FINDER_MAX_RESULTS"); maxResults != "" {
		if n, err := strconv.Atoi(maxResults); err == nil {
			c.Finder.MaxResults = n
		}
	}

	if probeTimeout := os.Getenv("FINDER_PROBE_TIMEOUT"); probeTimeout != "" {
		if d, err := time.ParseDuration(probeTimeout); err == nil {
			c.Finder.ProbeTimeout = d
		}
	}

	if apiKey := os.Getenv("GOOGLE_SEARCH_API_KEY"); apiKey != "" {
		c.Search.APIKey = apiKey
	}

	if engineID := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); engineID != "" {
		c.Search.EngineID = engineID
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if callbackURL := os.Getenv("CALLBACK_URL"); callbackURL != "" {
		c.Callback.URL = callbackURL
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}
}
