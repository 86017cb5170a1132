// Copyright 2025 Job Application Tracker
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"job-tracker/internal/config"
	"job-tracker/internal/dedupe"
	"job-tracker/internal/email"
	"job-tracker/internal/parser"
	"job-tracker/internal/pipeline"
	"job-tracker/internal/sheets"
)

const Version = "1.0.0"

var (
	configFile string
	dryRun     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "job-tracker",
	Short: "Extracts job applications from Gmail into a spreadsheet",
	Long: `Job Application Tracker v1.0.0

DESCRIPTION:
    Scans a Gmail inbox for job application confirmation emails, extracts
    the company, position and application date, and appends one row per
    application to a Google Sheet. Rejections, incomplete-application
    reminders and duplicates are filtered out. Processed emails are moved
    to the trash.

CONFIGURATION:
    Configuration comes from a job-tracker.yaml file (searched in ., ./config
    and $HOME/.job-tracker) and environment variables:

    Gmail API (required):
        GMAIL_CLIENT_ID         - OAuth2 client ID
        GMAIL_CLIENT_SECRET     - OAuth2 client secret
        GMAIL_REFRESH_TOKEN     - OAuth2 refresh token
        GMAIL_ACCESS_TOKEN      - OAuth2 access token (optional)

    Google Sheets:
        SPREADSHEET_ID          - Target spreadsheet ID (required unless --dry-run)
        SHEET_NAME              - Sheet tab name (default: Applications)

    LLM extraction (optional):
        OPENROUTER_API_KEY      - OpenRouter API key; empty disables the LLM stage
        OPENROUTER_MODEL        - Model name (default: google/gemini-2.0-flash-001)

    All keys can also be set with a JOB_TRACKER_ prefix, e.g.
    JOB_TRACKER_SEARCH_AFTER_DAYS, JOB_TRACKER_PROCESSING_DRY_RUN.

EXAMPLES:
    # Scan the last week of inbox mail and record applications
    export GMAIL_CLIENT_ID="your-client-id"
    export GMAIL_CLIENT_SECRET="your-client-secret"
    export GMAIL_REFRESH_TOKEN="your-refresh-token"
    export SPREADSHEET_ID="your-spreadsheet-id"
    job-tracker

    # Parse without writing to the sheet or trashing emails
    job-tracker --dry-run

    # With a specific config file
    job-tracker --config=./config/job-tracker.yaml`,
	Version: Version,
	RunE:    runTracker,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is job-tracker.yaml, auto-discovered)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse emails but do not write to the sheet or trash anything")
}

// loadConfiguration loads config and applies CLI flag overrides.
func loadConfiguration() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return nil, err
	}

	if dryRun {
		cfg.Processing.DryRun = true
	}

	return cfg, nil
}

// runTracker is the main execution function: acquire the single-instance
// lock, wire the collaborators, run one pipeline pass.
func runTracker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	logger.Info("starting job application tracker",
		"version", Version,
		"dry_run", cfg.Processing.DryRun,
		"llm_enabled", cfg.LLMEnabled())

	// Single-instance guard. Cron can fire a run while the previous one is
	// still talking to the Gmail API.
	fileLock := flock.New(cfg.Processing.LockFile)

	lockCtx, cancel := context.WithTimeout(cmd.Context(), cfg.Processing.LockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, 500*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to acquire lock %s: %w", cfg.Processing.LockFile, err)
	}
	if !locked {
		logger.Warn("could not acquire lock, another instance is running",
			"lock_file", cfg.Processing.LockFile)
		return nil
	}
	defer fileLock.Unlock()

	logger.Info("acquired lock, starting pipeline", "lock_file", cfg.Processing.LockFile)

	stats, err := runPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("pipeline complete",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"parsed", stats.Parsed,
		"no_result", stats.NoResult,
		"low_confidence", stats.LowConfidence,
		"duplicates", stats.Duplicates,
		"added", stats.Added,
		"deleted", stats.Deleted,
		"errors", stats.Errors)

	if stats.Errors > 0 {
		return fmt.Errorf("pipeline completed with %d errors", stats.Errors)
	}

	return nil
}

// runPipeline wires the collaborators and executes one pass.
func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Stats, error) {
	gmailClient, err := email.NewGmailClient(&email.GmailConfig{
		ClientID:       cfg.Gmail.ClientID,
		ClientSecret:   cfg.Gmail.ClientSecret,
		RefreshToken:   cfg.Gmail.RefreshToken,
		AccessToken:    cfg.Gmail.AccessToken,
		UserEmail:      cfg.Gmail.UserEmail,
		MaxResults:     cfg.Gmail.MaxResults,
		RequestTimeout: cfg.Gmail.RequestTimeout,
		RateLimitDelay: cfg.Gmail.RateLimitDelay,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}
	defer gmailClient.Close()

	store, err := dedupe.NewStore(cfg.Processing.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	defer store.Close()

	logger.Info("state database opened", "path", store.Path())

	var sheet pipeline.SheetAppender
	if cfg.Processing.DryRun {
		sheet = noopSheet{}
	} else {
		sheetClient, err := sheets.NewClient(&sheets.Config{
			ClientID:      cfg.Gmail.ClientID,
			ClientSecret:  cfg.Gmail.ClientSecret,
			RefreshToken:  cfg.Gmail.RefreshToken,
			AccessToken:   cfg.Gmail.AccessToken,
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			SheetName:     cfg.Sheets.SheetName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Sheets client: %w", err)
		}
		sheet = sheetClient
	}

	llm := parser.NewLLMExtractor(&parser.LLMConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Endpoint:    cfg.LLM.Endpoint,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})

	appParser := parser.NewApplicationParser(llm, logger)

	query := email.BuildSearchQuery(cfg.Search.AfterDays, cfg.Search.Query)

	p := pipeline.New(gmailClient, store, sheet, appParser, &pipeline.Config{
		Query:               query,
		ConfidenceThreshold: cfg.Processing.ConfidenceThreshold,
		DryRun:              cfg.Processing.DryRun,
		DeleteProcessed:     cfg.Processing.DeleteProcessed,
	}, logger)

	return p.Run(ctx)
}

// noopSheet satisfies the appender interface for dry runs, where no
// spreadsheet is configured.
type noopSheet struct{}

func (noopSheet) Append(apps []*parser.JobApplication) (int, error) {
	return 0, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
