package dedupe

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"job-tracker/internal/parser"
)

// Store tracks processed emails and already-recorded applications in
// SQLite. It answers two questions: has this message id been handled, and
// does a near-identical application (same company and position within one
// day) already exist.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and if needed initializes) the dedupe database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS processed_emails (
		email_id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		position TEXT NOT NULL,
		date_applied TEXT NOT NULL,
		confidence REAL NOT NULL,
		source TEXT,
		processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_company_position_date
	ON processed_emails (company, position, date_applied);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsProcessed checks whether an email id has already been handled.
func (s *Store) IsProcessed(emailID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM processed_emails WHERE email_id = ?", emailID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if email is processed: %w", err)
	}

	return count > 0, nil
}

// MarkProcessed records an email as handled, together with the application
// it yielded. Written synchronously after each classification so a crash
// mid-run never causes re-processing.
func (s *Store) MarkProcessed(emailID string, app *parser.JobApplication) error {
	query := `
		INSERT OR REPLACE INTO processed_emails
		(email_id, company, position, date_applied, confidence, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		emailID,
		app.Company,
		app.Position,
		app.DateApplied.Format("2006-01-02"),
		app.Confidence,
		app.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to mark email as processed: %w", err)
	}

	return nil
}

// IsDuplicate checks whether a similar application already exists: same
// company and position (case-insensitive) dated within one day either way.
func (s *Store) IsDuplicate(company, position string, dateApplied time.Time) (bool, error) {
	dateBefore := dateApplied.AddDate(0, 0, -1).Format("2006-01-02")
	dateAfter := dateApplied.AddDate(0, 0, 1).Format("2006-01-02")

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM processed_emails
		WHERE LOWER(company) = LOWER(?)
		AND LOWER(position) = LOWER(?)
		AND date_applied BETWEEN ? AND ?
	`, company, position, dateBefore, dateAfter).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate: %w", err)
	}

	return count > 0, nil
}

// Count returns the total number of processed emails.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM processed_emails").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count processed emails: %w", err)
	}
	return count, nil
}

// Application is one recorded row, as returned by RecentApplications.
type Application struct {
	Company     string
	Position    string
	DateApplied string
	Confidence  float64
	ProcessedAt time.Time
}

// RecentApplications returns the most recently processed applications.
func (s *Store) RecentApplications(limit int) ([]Application, error) {
	rows, err := s.db.Query(`
		SELECT company, position, date_applied, confidence, processed_at
		FROM processed_emails
		ORDER BY processed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var app Application
		if err := rows.Scan(&app.Company, &app.Position, &app.DateApplied, &app.Confidence, &app.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return apps, nil
}

// Cleanup removes entries processed before the cutoff.
func (s *Store) Cleanup(olderThan time.Time) error {
	result, err := s.db.Exec(
		"DELETE FROM processed_emails WHERE processed_at < ?", olderThan,
	)
	if err != nil {
		return fmt.Errorf("failed to cleanup old entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		// Best effort.
		_, _ = s.db.Exec("VACUUM")
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
