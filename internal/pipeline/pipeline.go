package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"job-tracker/internal/email"
	"job-tracker/internal/parser"
)

// MailSource is the slice of the email client the pipeline consumes.
type MailSource interface {
	Search(query string) ([]email.EmailMessage, error)
	Trash(id string) error
}

// Store is the dedupe state the pipeline consults and updates.
type Store interface {
	IsProcessed(emailID string) (bool, error)
	MarkProcessed(emailID string, app *parser.JobApplication) error
	IsDuplicate(company, position string, dateApplied time.Time) (bool, error)
}

// SheetAppender records accepted applications in the spreadsheet.
type SheetAppender interface {
	Append(apps []*parser.JobApplication) (int, error)
}

// ApplicationParser turns one email into an application record, or nil.
type ApplicationParser interface {
	Parse(ctx context.Context, msg *email.EmailMessage) *parser.JobApplication
}

// Config holds the per-run pipeline settings.
type Config struct {
	// Query is the Gmail search query for this run.
	Query string

	// ConfidenceThreshold is the minimum aggregate confidence an
	// application needs to be recorded.
	ConfidenceThreshold float64

	// DryRun skips the spreadsheet append and the trash step.
	DryRun bool

	// DeleteProcessed moves handled emails to the trash after the
	// spreadsheet write succeeds.
	DeleteProcessed bool
}

// Stats summarizes one pipeline run.
type Stats struct {
	Fetched       int `json:"fetched"`
	Skipped       int `json:"skipped"`
	Parsed        int `json:"parsed"`
	NoResult      int `json:"no_result"`
	LowConfidence int `json:"low_confidence"`
	Duplicates    int `json:"duplicates"`
	Added         int `json:"added"`
	Deleted       int `json:"deleted"`
	Errors        int `json:"errors"`
}

// Pipeline runs one scan: fetch, filter, parse, dedupe, record, clean up.
type Pipeline struct {
	mail    MailSource
	store   Store
	sheet   SheetAppender
	parser  ApplicationParser
	config  *Config
	logger  *slog.Logger
}

// New creates a pipeline over the given collaborators.
func New(mail MailSource, store Store, sheet SheetAppender, appParser ApplicationParser, config *Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		mail:   mail,
		store:  store,
		sheet:  sheet,
		parser: appParser,
		config: config,
		logger: logger,
	}
}

// Run executes one pass over the inbox and returns the run statistics.
// Per-email failures are counted and logged but do not abort the run; only
// a search failure or a spreadsheet write failure is fatal.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	messages, err := p.mail.Search(p.config.Query)
	if err != nil {
		return stats, fmt.Errorf("email search failed: %w", err)
	}
	stats.Fetched = len(messages)

	var accepted []*parser.JobApplication
	var acceptedIDs []string

	for i := range messages {
		msg := &messages[i]

		processed, err := p.store.IsProcessed(msg.ID)
		if err != nil {
			p.logger.Error("state lookup failed", "id", msg.ID, "error", err)
			stats.Errors++
			continue
		}
		if processed {
			stats.Skipped++
			continue
		}

		app := p.parser.Parse(ctx, msg)
		if app == nil {
			stats.NoResult++
			continue
		}
		stats.Parsed++

		if app.Confidence < p.config.ConfidenceThreshold {
			p.logger.Info("skipping low-confidence application",
				"company", app.Company,
				"confidence", app.Confidence,
				"threshold", p.config.ConfidenceThreshold)
			stats.LowConfidence++
			// Handled even though no row is written.
			if err := p.store.MarkProcessed(msg.ID, app); err != nil {
				p.logger.Error("failed to mark email as processed", "id", msg.ID, "error", err)
				stats.Errors++
			}
			continue
		}

		duplicate, err := p.store.IsDuplicate(app.Company, app.Position, app.DateApplied)
		if err != nil {
			p.logger.Error("duplicate lookup failed", "id", msg.ID, "error", err)
			stats.Errors++
			continue
		}
		if duplicate {
			p.logger.Info("skipping duplicate application",
				"company", app.Company, "position", app.Position)
			stats.Duplicates++
			if err := p.store.MarkProcessed(msg.ID, app); err != nil {
				p.logger.Error("failed to mark duplicate as processed", "id", msg.ID, "error", err)
				stats.Errors++
			}
			continue
		}

		// Mark before the sheet write so a crash cannot double-append on
		// the next run.
		if err := p.store.MarkProcessed(msg.ID, app); err != nil {
			p.logger.Error("failed to mark email as processed", "id", msg.ID, "error", err)
			stats.Errors++
			continue
		}

		accepted = append(accepted, app)
		acceptedIDs = append(acceptedIDs, msg.ID)
	}

	if p.config.DryRun {
		p.logger.Info("dry run: skipping spreadsheet append and cleanup",
			"would_add", len(accepted))
		return stats, nil
	}

	if len(accepted) > 0 {
		added, err := p.sheet.Append(accepted)
		if err != nil {
			stats.Errors++
			return stats, fmt.Errorf("spreadsheet append failed: %w", err)
		}
		stats.Added = added
	}

	if p.config.DeleteProcessed {
		for _, id := range acceptedIDs {
			if err := p.mail.Trash(id); err != nil {
				// Leaving an email in the inbox is harmless; the state
				// store prevents re-processing it.
				p.logger.Warn("failed to trash email", "id", id, "error", err)
				continue
			}
			stats.Deleted++
		}
	}

	return stats, nil
}
