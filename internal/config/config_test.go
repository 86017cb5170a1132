package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum credentials every load needs.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GMAIL_CLIENT_ID", "test-client-id")
	t.Setenv("GMAIL_CLIENT_SECRET", "test-client-secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "test-refresh-token")
	t.Setenv("SPREADSHEET_ID", "test-spreadsheet")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	config, err := LoadWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, int64(100), config.Gmail.MaxResults)
	assert.Equal(t, 30*time.Second, config.Gmail.RequestTimeout)
	assert.Equal(t, 100*time.Millisecond, config.Gmail.RateLimitDelay)
	assert.Equal(t, 7, config.Search.AfterDays)
	assert.Equal(t, "Applications", config.Sheets.SheetName)
	assert.Equal(t, "./job-tracker.db", config.Processing.StateDBPath)
	assert.Equal(t, 0.5, config.Processing.ConfidenceThreshold)
	assert.False(t, config.Processing.DryRun)
	assert.True(t, config.Processing.DeleteProcessed)
	assert.Equal(t, "/tmp/job-tracker.lock", config.Processing.LockFile)
	assert.Equal(t, 10*time.Second, config.Processing.LockTimeout)
	assert.Equal(t, "google/gemini-2.0-flash-001", config.LLM.Model)
	assert.Equal(t, 150, config.LLM.MaxTokens)
	assert.Equal(t, 10*time.Second, config.LLM.Timeout)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoad_LegacyEnvironmentVariables(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "test-llm-key")

	config, err := LoadWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "test-client-id", config.Gmail.ClientID)
	assert.Equal(t, "test-spreadsheet", config.Sheets.SpreadsheetID)
	assert.Equal(t, "test-llm-key", config.LLM.APIKey)
	assert.True(t, config.LLMEnabled())
}

func TestLoad_PrefixedEnvironmentVariables(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JOB_TRACKER_SEARCH_AFTER_DAYS", "14")
	t.Setenv("JOB_TRACKER_PROCESSING_DRY_RUN", "true")
	t.Setenv("JOB_TRACKER_LLM_TIMEOUT", "30s")

	config, err := LoadWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 14, config.Search.AfterDays)
	assert.True(t, config.Processing.DryRun)
	assert.Equal(t, 30*time.Second, config.LLM.Timeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	setRequiredEnv(t)

	configFile := filepath.Join(t.TempDir(), "job-tracker.yaml")
	content := `
sheets:
  spreadsheet_id: file-spreadsheet
  sheet_name: Tracker
processing:
  confidence_threshold: 0.7
search:
  after_days: 3
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	config, err := LoadWithFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "Tracker", config.Sheets.SheetName)
	assert.Equal(t, 0.7, config.Processing.ConfidenceThreshold)
	assert.Equal(t, 3, config.Search.AfterDays)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JOB_TRACKER_SEARCH_AFTER_DAYS", "30")

	configFile := filepath.Join(t.TempDir(), "job-tracker.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("search:\n  after_days: 3\n"), 0644))

	config, err := LoadWithFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, 30, config.Search.AfterDays)
}

func TestLoad_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		prepare func(t *testing.T)
		wantErr string
	}{
		{
			name: "missing client id",
			prepare: func(t *testing.T) {
				t.Setenv("GMAIL_CLIENT_SECRET", "secret")
				t.Setenv("GMAIL_REFRESH_TOKEN", "token")
				t.Setenv("SPREADSHEET_ID", "sheet")
			},
			wantErr: "client_id",
		},
		{
			name: "missing refresh token",
			prepare: func(t *testing.T) {
				t.Setenv("GMAIL_CLIENT_ID", "id")
				t.Setenv("GMAIL_CLIENT_SECRET", "secret")
				t.Setenv("SPREADSHEET_ID", "sheet")
			},
			wantErr: "refresh_token",
		},
		{
			name: "missing spreadsheet id",
			prepare: func(t *testing.T) {
				t.Setenv("GMAIL_CLIENT_ID", "id")
				t.Setenv("GMAIL_CLIENT_SECRET", "secret")
				t.Setenv("GMAIL_REFRESH_TOKEN", "token")
			},
			wantErr: "spreadsheet_id",
		},
		{
			name: "confidence threshold out of range",
			prepare: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("JOB_TRACKER_PROCESSING_CONFIDENCE_THRESHOLD", "1.5")
			},
			wantErr: "confidence threshold",
		},
		{
			name: "negative after days",
			prepare: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("JOB_TRACKER_SEARCH_AFTER_DAYS", "-1")
			},
			wantErr: "after_days",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.prepare(t)

			_, err := LoadWithViper(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_DryRunAllowsMissingSpreadsheet(t *testing.T) {
	t.Setenv("GMAIL_CLIENT_ID", "id")
	t.Setenv("GMAIL_CLIENT_SECRET", "secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "token")
	t.Setenv("JOB_TRACKER_PROCESSING_DRY_RUN", "true")

	config, err := LoadWithViper(viper.New())
	require.NoError(t, err)
	assert.True(t, config.Processing.DryRun)
}

func TestLLMEnabled(t *testing.T) {
	setRequiredEnv(t)

	config, err := LoadWithViper(viper.New())
	require.NoError(t, err)
	assert.False(t, config.LLMEnabled())
}
