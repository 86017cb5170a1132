package email

// EmailMessage is one fetched email with the headers and body payload the
// parser needs. The header map is restricted to from/to/subject/date.
type EmailMessage struct {
	ID      string            `json:"id"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	Date    string            `json:"date"` // raw Date header value
	Headers map[string]string `json:"headers"`

	// Best available payload: text/plain when present, text/html
	// otherwise. May still contain markup; normalization happens in the
	// parser.
	Body string `json:"body"`
}

// EmailClient defines the mail source contract.
type EmailClient interface {
	// Search performs a Gmail search query and returns full messages.
	Search(query string) ([]EmailMessage, error)

	// Trash moves a processed message to the trash.
	Trash(id string) error

	// HealthCheck verifies the client connection is working.
	HealthCheck() error

	// Close cleans up resources.
	Close() error
}
