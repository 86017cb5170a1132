package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailClient implements EmailClient for the Gmail API.
type GmailClient struct {
	service *gmail.Service
	userID  string
	config  *GmailConfig
	logger  *slog.Logger
}

// GmailConfig holds Gmail API configuration.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
	UserEmail    string

	// Request limits
	MaxResults     int64
	RequestTimeout time.Duration
	RateLimitDelay time.Duration
}

// NewGmailClient creates a new Gmail API client and verifies the
// connection.
func NewGmailClient(config *GmailConfig, logger *slog.Logger) (*GmailClient, error) {
	ctx := context.Background()

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       []string{gmail.GmailModifyScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	userID := "me"
	if config.UserEmail != "" {
		userID = config.UserEmail
	}

	client := &GmailClient{
		service: service,
		userID:  userID,
		config:  config,
		logger:  logger,
	}

	if err := client.HealthCheck(); err != nil {
		return nil, fmt.Errorf("Gmail client health check failed: %w", err)
	}

	return client, nil
}

// Search performs a Gmail search query and fetches the full content of
// every match.
func (g *GmailClient) Search(query string) ([]EmailMessage, error) {
	g.logger.Info("searching Gmail", "query", query)

	time.Sleep(g.config.RateLimitDelay)

	req := g.service.Users.Messages.List(g.userID).Q(query)
	if g.config.MaxResults > 0 {
		req = req.MaxResults(g.config.MaxResults)
	}

	resp, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("Gmail search failed: %w", err)
	}

	g.logger.Info("found messages", "count", len(resp.Messages))

	var messages []EmailMessage
	for _, msg := range resp.Messages {
		// Rate limiting between requests
		time.Sleep(g.config.RateLimitDelay)

		fullMessage, err := g.GetMessage(msg.Id)
		if err != nil {
			g.logger.Warn("failed to get message", "id", msg.Id, "error", err)
			continue
		}

		messages = append(messages, *fullMessage)
	}

	return messages, nil
}

// GetMessage retrieves the full content of a specific message.
func (g *GmailClient) GetMessage(id string) (*EmailMessage, error) {
	msg, err := g.service.Users.Messages.Get(g.userID, id).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	return parseGmailMessage(msg), nil
}

// Trash moves a message to the trash.
func (g *GmailClient) Trash(id string) error {
	if _, err := g.service.Users.Messages.Trash(g.userID, id).Do(); err != nil {
		return fmt.Errorf("failed to trash message %s: %w", id, err)
	}

	g.logger.Info("moved message to trash", "id", id)
	return nil
}

// HealthCheck verifies the Gmail connection is working.
func (g *GmailClient) HealthCheck() error {
	profile, err := g.service.Users.GetProfile(g.userID).Do()
	if err != nil {
		return fmt.Errorf("failed to get Gmail profile: %w", err)
	}

	g.logger.Info("connected to Gmail account", "email", profile.EmailAddress)
	return nil
}

// Close cleans up resources.
func (g *GmailClient) Close() error {
	// Gmail API client doesn't require explicit cleanup
	return nil
}

// parseGmailMessage converts a Gmail API message to an EmailMessage,
// keeping only the headers the parser consumes.
func parseGmailMessage(msg *gmail.Message) *EmailMessage {
	emailMsg := &EmailMessage{
		ID:      msg.Id,
		Headers: make(map[string]string),
	}

	for _, header := range msg.Payload.Headers {
		name := strings.ToLower(header.Name)
		switch name {
		case "from", "to", "subject", "date":
			emailMsg.Headers[name] = header.Value
		}
	}

	emailMsg.From = emailMsg.Headers["from"]
	emailMsg.To = emailMsg.Headers["to"]
	emailMsg.Subject = emailMsg.Headers["subject"]
	emailMsg.Date = emailMsg.Headers["date"]
	emailMsg.Body = extractBody(msg.Payload)

	return emailMsg
}

// extractBody returns the best available payload: a text/plain or
// text/html part, recursing one level into multipart sub-parts, falling
// back to the top-level payload body.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	for _, part := range payload.Parts {
		if text := decodePart(part); text != "" {
			return text
		}
		for _, subpart := range part.Parts {
			if text := decodePart(subpart); text != "" {
				return text
			}
		}
	}

	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBase64(payload.Body.Data)
	}

	return ""
}

// decodePart decodes a single text part, or returns "" for non-text parts.
func decodePart(part *gmail.MessagePart) string {
	if part == nil || part.Body == nil || part.Body.Data == "" {
		return ""
	}
	if part.MimeType != "text/plain" && part.MimeType != "text/html" {
		return ""
	}
	return decodeBase64(part.Body.Data)
}

func decodeBase64(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	// Gmail omits padding on some payloads.
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}

// BuildSearchQuery constructs the Gmail search query for one pipeline run.
// A custom query overrides the default inbox scan.
func BuildSearchQuery(afterDays int, customQuery string) string {
	if customQuery != "" {
		return customQuery
	}

	parts := []string{"in:inbox"}
	if afterDays > 0 {
		afterDate := time.Now().AddDate(0, 0, -afterDays).Format("2006/1/2")
		parts = append(parts, fmt.Sprintf("after:%s", afterDate))
	}

	return strings.Join(parts, " ")
}
