package parser

import (
	"time"
)

// JobApplication is a parsed job-application record extracted from one
// email. Immutable after construction; ownership passes to the pipeline,
// which decides whether to keep it.
type JobApplication struct {
	Company       string    `json:"company"`
	Position      string    `json:"position"`
	DateApplied   time.Time `json:"date_applied"`
	SourceEmailID string    `json:"source_email_id"`
	Confidence    float64   `json:"confidence"`
	Source        string    `json:"source,omitempty"` // sender domain
	Notes         string    `json:"notes,omitempty"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// ToRow converts the record to its spreadsheet row form:
// Position, Company, Date Applied.
func (j *JobApplication) ToRow() []string {
	return []string{
		j.Position,
		j.Company,
		j.DateApplied.Format("2006-01-02"),
	}
}

// candidate is a per-field extraction attempt: a value plus the confidence
// tier of the strategy that produced it. Consumed immediately by the
// merger, never persisted.
type candidate struct {
	value      string
	confidence float64
}
