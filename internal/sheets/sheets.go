package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"job-tracker/internal/parser"
)

// HeaderRow is the fixed header written to the spreadsheet's first row.
var HeaderRow = []string{"Position", "Company", "Date Applied"}

// Config holds Google Sheets API configuration. Credentials are the same
// OAuth2 material used for Gmail.
type Config struct {
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	AccessToken   string
	SpreadsheetID string
	SheetName     string
}

// Client appends parsed applications to a Google Sheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewClient creates a Sheets API client.
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	ctx := context.Background()

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       []string{sheets.SpreadsheetsScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	sheetName := config.SheetName
	if sheetName == "" {
		sheetName = "Applications"
	}

	return &Client{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// EnsureHeaders writes the header row when the sheet does not already
// carry it.
func (c *Client) EnsureHeaders() error {
	readRange := fmt.Sprintf("%s!A1:C1", c.sheetName)

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(resp.Values) > 0 && headersMatch(resp.Values[0]) {
		return nil
	}

	row := make([]interface{}, len(HeaderRow))
	for i, h := range HeaderRow {
		row[i] = h
	}

	_, err = c.service.Spreadsheets.Values.Update(c.spreadsheetID, readRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	c.logger.Info("added headers to spreadsheet")
	return nil
}

func headersMatch(existing []interface{}) bool {
	if len(existing) != len(HeaderRow) {
		return false
	}
	for i, h := range HeaderRow {
		if s, ok := existing[i].(string); !ok || s != h {
			return false
		}
	}
	return true
}

// Append appends one row per application and returns the number written.
func (c *Client) Append(apps []*parser.JobApplication) (int, error) {
	if len(apps) == 0 {
		return 0, nil
	}

	if err := c.EnsureHeaders(); err != nil {
		return 0, err
	}

	values := BuildRows(apps)

	appendRange := fmt.Sprintf("%s!A:C", c.sheetName)
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, appendRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append rows: %w", err)
	}

	c.logger.Info("appended rows to spreadsheet", "count", len(values))
	return len(values), nil
}

// BuildRows converts applications to their spreadsheet row form.
func BuildRows(apps []*parser.JobApplication) [][]interface{} {
	values := make([][]interface{}, 0, len(apps))
	for _, app := range apps {
		row := app.ToRow()
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}
	return values
}
