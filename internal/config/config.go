package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"newsdesk/internal/region"
)

type Config struct {
	// Headline source settings
	NewsAPIKey      string
	PageSize        int
	SourceCacheTTL  time.Duration
	FeedsConfigPath string // RSS fallback feed list

	// AI settings
	AIProvider       string // "gemini" or "openai"
	AIModel          string
	GeminiAPIKey     string
	OpenAIAPIKey     string
	MaxAICalls       int // maximum LLM calls per day (0 = unlimited)
	ClassifyCacheTTL time.Duration

	// Filter criteria
	Language       string
	Countries      []string
	Categories     []string
	BannedSources  []string
	PreferenceText string

	// Pipeline settings
	TopicLookback       time.Duration
	ClassifyConcurrency int
	RequestTimeout      time.Duration
	RetryAttempts       int
	RetryDelay          time.Duration

	Debug bool
}

// criteriaFile mirrors the optional YAML criteria document. Countries
// and languages may be names or 2-letter codes.
type criteriaFile struct {
	Language      string   `yaml:"language"`
	Countries     []string `yaml:"countries"`
	Categories    []string `yaml:"categories"`
	BannedSources []string `yaml:"banned_sources"`
	Preference    string   `yaml:"preference"`
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		PageSize:            20,
		SourceCacheTTL:      time.Hour,
		AIProvider:          "gemini",
		ClassifyCacheTTL:    time.Hour,
		Language:            "en",
		TopicLookback:       7 * 24 * time.Hour,
		ClassifyConcurrency: 10,
		RequestTimeout:      60 * time.Second,
		RetryAttempts:       3,
		RetryDelay:          2 * time.Second,
	}

	cfg.NewsAPIKey = os.Getenv("NEWSAPI_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.FeedsConfigPath = os.Getenv("FEEDS_CONFIG_PATH")

	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		cfg.AIProvider = strings.ToLower(provider)
	}
	cfg.AIModel = os.Getenv("AI_MODEL")
	cfg.MaxAICalls = getEnvIntOrDefault("MAX_AI_CALLS", 0)
	cfg.PageSize = getEnvIntOrDefault("PAGE_SIZE", cfg.PageSize)
	cfg.ClassifyConcurrency = getEnvIntOrDefault("CLASSIFY_CONCURRENCY", cfg.ClassifyConcurrency)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.SourceCacheTTL = getEnvDurationOrDefault("SOURCE_CACHE_TTL", cfg.SourceCacheTTL)
	cfg.ClassifyCacheTTL = getEnvDurationOrDefault("CLASSIFY_CACHE_TTL", cfg.ClassifyCacheTTL)
	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)
	cfg.TopicLookback = getEnvDurationOrDefault("TOPIC_LOOKBACK", cfg.TopicLookback)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	// Criteria: YAML file first, env overrides on top.
	criteriaPath := getEnvOrDefault("CRITERIA_CONFIG_PATH", "configs/criteria.yaml")
	if err := cfg.loadCriteriaFile(criteriaPath); err != nil {
		return nil, err
	}
	if lang := os.Getenv("NEWS_LANGUAGE"); lang != "" {
		cfg.Language = lang
	}
	if countries := os.Getenv("NEWS_COUNTRIES"); countries != "" {
		cfg.Countries = splitList(countries)
	}
	if categories := os.Getenv("NEWS_CATEGORIES"); categories != "" {
		cfg.Categories = splitList(categories)
	}
	if banned := os.Getenv("BANNED_SOURCES"); banned != "" {
		cfg.BannedSources = splitList(banned)
	}
	if pref := os.Getenv("NEWS_PREFERENCE"); pref != "" {
		cfg.PreferenceText = pref
	}

	cfg.resolveRegions()
	return cfg, cfg.Validate()
}

// loadCriteriaFile merges the YAML criteria document if it exists. A
// missing file is fine; a malformed one is not.
func (c *Config) loadCriteriaFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening criteria file: %w", err)
	}
	defer f.Close()

	var criteria criteriaFile
	if err := yaml.NewDecoder(f).Decode(&criteria); err != nil {
		return fmt.Errorf("parsing criteria file %s: %w", path, err)
	}

	if criteria.Language != "" {
		c.Language = criteria.Language
	}
	if len(criteria.Countries) > 0 {
		c.Countries = criteria.Countries
	}
	if len(criteria.Categories) > 0 {
		c.Categories = criteria.Categories
	}
	if len(criteria.BannedSources) > 0 {
		c.BannedSources = criteria.BannedSources
	}
	if criteria.Preference != "" {
		c.PreferenceText = criteria.Preference
	}
	return nil
}

// resolveRegions converts country and language names to API codes,
// leaving already-valid codes untouched.
func (c *Config) resolveRegions() {
	if code, ok := region.LanguageCode(c.Language); ok {
		c.Language = code
	}
	for i, country := range c.Countries {
		if code, ok := region.CountryCode(country); ok {
			c.Countries[i] = code
		}
	}
	for i, cat := range c.Categories {
		c.Categories[i] = strings.ToLower(strings.TrimSpace(cat))
	}
}

func (c *Config) Validate() error {
	if c.NewsAPIKey == "" && c.FeedsConfigPath == "" {
		return fmt.Errorf("either NEWSAPI_KEY or FEEDS_CONFIG_PATH is required")
	}
	switch c.AIProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("AI_PROVIDER must be 'gemini' or 'openai', got %q", c.AIProvider)
	}
	if len(c.Language) != 2 {
		return fmt.Errorf("language %q is neither a known language nor a 2-letter code", c.Language)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
