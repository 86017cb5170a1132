package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Gmail      GmailConfig      `json:"gmail"`
	Search     SearchConfig     `json:"search"`
	Sheets     SheetsConfig     `json:"sheets"`
	Processing ProcessingConfig `json:"processing"`
	LLM        LLMConfig        `json:"llm"`
	Log        LogConfig        `json:"log"`
}

// GmailConfig holds Gmail API credentials and request limits.
type GmailConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	RefreshToken string `json:"-"`
	AccessToken  string `json:"-"`
	UserEmail    string `json:"user_email"`

	MaxResults     int64         `json:"max_results"`
	RequestTimeout time.Duration `json:"request_timeout"`
	RateLimitDelay time.Duration `json:"rate_limit_delay"`
}

// SearchConfig controls which emails one run looks at.
type SearchConfig struct {
	// Query overrides the default inbox scan when set.
	Query     string `json:"query"`
	AfterDays int    `json:"after_days"`
}

// SheetsConfig identifies the target spreadsheet.
type SheetsConfig struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetName     string `json:"sheet_name"`
}

// ProcessingConfig controls the pipeline run.
type ProcessingConfig struct {
	StateDBPath         string        `json:"state_db_path"`
	ConfidenceThreshold float64       `json:"confidence_threshold"`
	DryRun              bool          `json:"dry_run"`
	DeleteProcessed     bool          `json:"delete_processed"`
	LockFile            string        `json:"lock_file"`
	LockTimeout         time.Duration `json:"lock_timeout"`
}

// LLMConfig configures the optional OpenRouter extraction stage. An empty
// API key disables it.
type LLMConfig struct {
	APIKey      string        `json:"-"`
	Model       string        `json:"model"`
	Endpoint    string        `json:"endpoint"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Timeout     time.Duration `json:"timeout"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `json:"level"`
}

// LoadWithViper loads configuration using the given Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	setupEnvBinding(v)

	if err := loadConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := unmarshalConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Load loads configuration using a fresh Viper instance.
func Load() (*Config, error) {
	v := viper.New()
	return LoadWithViper(v)
}

// LoadWithFile loads configuration from a specific file.
func LoadWithFile(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	return LoadWithViper(v)
}

// setDefaults sets default values for all configuration keys.
func setDefaults(v *viper.Viper) {
	// Gmail defaults
	v.SetDefault("gmail.max_results", 100)
	v.SetDefault("gmail.request_timeout", "30s")
	v.SetDefault("gmail.rate_limit_delay", "100ms")

	// Search defaults
	v.SetDefault("search.query", "")
	v.SetDefault("search.after_days", 7)

	// Sheets defaults
	v.SetDefault("sheets.sheet_name", "Applications")

	// Processing defaults
	v.SetDefault("processing.state_db_path", "./job-tracker.db")
	v.SetDefault("processing.confidence_threshold", 0.5)
	v.SetDefault("processing.dry_run", false)
	v.SetDefault("processing.delete_processed", true)
	v.SetDefault("processing.lock_file", "/tmp/job-tracker.lock")
	v.SetDefault("processing.lock_timeout", "10s")

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "google/gemini-2.0-flash-001")
	v.SetDefault("llm.endpoint", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.max_tokens", 150)
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", "10s")

	// Log defaults
	v.SetDefault("log.level", "info")
}

// setupEnvBinding binds environment variables for all configuration keys.
func setupEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix("JOB_TRACKER")
	v.AutomaticEnv()

	envBindings := map[string]string{
		// Gmail
		"gmail.client_id":        "GMAIL_CLIENT_ID",
		"gmail.client_secret":    "GMAIL_CLIENT_SECRET",
		"gmail.refresh_token":    "GMAIL_REFRESH_TOKEN",
		"gmail.access_token":     "GMAIL_ACCESS_TOKEN",
		"gmail.user_email":       "GMAIL_USER_EMAIL",
		"gmail.max_results":      "GMAIL_MAX_RESULTS",
		"gmail.request_timeout":  "GMAIL_REQUEST_TIMEOUT",
		"gmail.rate_limit_delay": "GMAIL_RATE_LIMIT_DELAY",

		// Search
		"search.query":      "SEARCH_QUERY",
		"search.after_days": "SEARCH_AFTER_DAYS",

		// Sheets
		"sheets.spreadsheet_id": "SHEETS_SPREADSHEET_ID",
		"sheets.sheet_name":     "SHEETS_SHEET_NAME",

		// Processing
		"processing.state_db_path":        "PROCESSING_STATE_DB_PATH",
		"processing.confidence_threshold": "PROCESSING_CONFIDENCE_THRESHOLD",
		"processing.dry_run":              "PROCESSING_DRY_RUN",
		"processing.delete_processed":     "PROCESSING_DELETE_PROCESSED",
		"processing.lock_file":            "PROCESSING_LOCK_FILE",
		"processing.lock_timeout":         "PROCESSING_LOCK_TIMEOUT",

		// LLM
		"llm.api_key":     "LLM_API_KEY",
		"llm.model":       "LLM_MODEL",
		"llm.endpoint":    "LLM_ENDPOINT",
		"llm.max_tokens":  "LLM_MAX_TOKENS",
		"llm.temperature": "LLM_TEMPERATURE",
		"llm.timeout":     "LLM_TIMEOUT",

		// Log
		"log.level": "LOG_LEVEL",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, "JOB_TRACKER_"+envSuffix)
	}

	// Bare variable names for compatibility with existing deployments.
	legacyBindings := map[string]string{
		"gmail.client_id":       "GMAIL_CLIENT_ID",
		"gmail.client_secret":   "GMAIL_CLIENT_SECRET",
		"gmail.refresh_token":   "GMAIL_REFRESH_TOKEN",
		"gmail.access_token":    "GMAIL_ACCESS_TOKEN",
		"sheets.spreadsheet_id": "SPREADSHEET_ID",
		"sheets.sheet_name":     "SHEET_NAME",
		"llm.api_key":           "OPENROUTER_API_KEY",
		"llm.model":             "OPENROUTER_MODEL",
		"log.level":             "LOG_LEVEL",
	}

	for configKey, envVar := range legacyBindings {
		v.BindEnv(configKey, envVar)
	}
}

// loadConfigFile reads the configuration file if one exists. A missing file
// is not an error; credentials can come entirely from the environment.
func loadConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.job-tracker")
		v.SetConfigName("job-tracker")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return err
		}
	}

	return nil
}

// unmarshalConfig copies Viper values into the Config struct.
func unmarshalConfig(v *viper.Viper, config *Config) error {
	config.Gmail.ClientID = v.GetString("gmail.client_id")
	config.Gmail.ClientSecret = v.GetString("gmail.client_secret")
	config.Gmail.RefreshToken = v.GetString("gmail.refresh_token")
	config.Gmail.AccessToken = v.GetString("gmail.access_token")
	config.Gmail.UserEmail = v.GetString("gmail.user_email")
	config.Gmail.MaxResults = v.GetInt64("gmail.max_results")

	var err error
	config.Gmail.RequestTimeout, err = time.ParseDuration(v.GetString("gmail.request_timeout"))
	if err != nil {
		return fmt.Errorf("invalid gmail request timeout: %w", err)
	}

	config.Gmail.RateLimitDelay, err = time.ParseDuration(v.GetString("gmail.rate_limit_delay"))
	if err != nil {
		return fmt.Errorf("invalid gmail rate limit delay: %w", err)
	}

	config.Search.Query = v.GetString("search.query")
	config.Search.AfterDays = v.GetInt("search.after_days")

	config.Sheets.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	config.Sheets.SheetName = v.GetString("sheets.sheet_name")

	config.Processing.StateDBPath = v.GetString("processing.state_db_path")
	config.Processing.ConfidenceThreshold = v.GetFloat64("processing.confidence_threshold")
	config.Processing.DryRun = v.GetBool("processing.dry_run")
	config.Processing.DeleteProcessed = v.GetBool("processing.delete_processed")
	config.Processing.LockFile = v.GetString("processing.lock_file")

	config.Processing.LockTimeout, err = time.ParseDuration(v.GetString("processing.lock_timeout"))
	if err != nil {
		return fmt.Errorf("invalid lock timeout: %w", err)
	}

	config.LLM.APIKey = v.GetString("llm.api_key")
	config.LLM.Model = v.GetString("llm.model")
	config.LLM.Endpoint = v.GetString("llm.endpoint")
	config.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	config.LLM.Temperature = v.GetFloat64("llm.temperature")

	config.LLM.Timeout, err = time.ParseDuration(v.GetString("llm.timeout"))
	if err != nil {
		return fmt.Errorf("invalid LLM timeout: %w", err)
	}

	config.Log.Level = v.GetString("log.level")

	return nil
}

// validate checks that required values are present and sane.
func (c *Config) validate() error {
	if c.Gmail.ClientID == "" {
		return errors.New("gmail client_id is required")
	}
	if c.Gmail.ClientSecret == "" {
		return errors.New("gmail client_secret is required")
	}
	if c.Gmail.RefreshToken == "" {
		return errors.New("gmail refresh_token is required")
	}
	if !c.Processing.DryRun && c.Sheets.SpreadsheetID == "" {
		return errors.New("sheets spreadsheet_id is required")
	}
	if c.Processing.ConfidenceThreshold < 0 || c.Processing.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be between 0 and 1, got %v",
			c.Processing.ConfidenceThreshold)
	}
	if c.Search.AfterDays < 0 {
		return fmt.Errorf("search after_days must not be negative, got %d", c.Search.AfterDays)
	}
	if c.Processing.StateDBPath == "" {
		return errors.New("processing state_db_path is required")
	}

	return nil
}

// LLMEnabled reports whether the LLM extraction stage is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.APIKey != ""
}
