package email

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func encodeBody(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func textPart(mimeType, content string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: mimeType,
		Body:     &gmail.MessagePartBody{Data: encodeBody(content)},
	}
}

func TestExtractBody(t *testing.T) {
	testCases := []struct {
		name     string
		payload  *gmail.MessagePart
		expected string
	}{
		{
			name:     "nil payload",
			payload:  nil,
			expected: "",
		},
		{
			name: "plain text part",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					textPart("text/plain", "hello plain"),
				},
			},
			expected: "hello plain",
		},
		{
			name: "first decodable part wins",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					textPart("text/plain", "plain body"),
					textPart("text/html", "<p>html body</p>"),
				},
			},
			expected: "plain body",
		},
		{
			name: "non-text parts skipped",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					textPart("image/png", "binarydata"),
					textPart("text/html", "<p>html body</p>"),
				},
			},
			expected: "<p>html body</p>",
		},
		{
			name: "nested multipart alternative",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							textPart("text/plain", "nested plain"),
						},
					},
				},
			},
			expected: "nested plain",
		},
		{
			name: "top-level body fallback",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encodeBody("top level body")},
			},
			expected: "top level body",
		},
		{
			name: "nothing decodable",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					{MimeType: "image/png", Body: &gmail.MessagePartBody{}},
				},
			},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractBody(tc.payload))
		})
	}
}

func TestDecodeBase64_UnpaddedData(t *testing.T) {
	// Gmail sometimes omits padding; both forms must decode.
	padded := base64.URLEncoding.EncodeToString([]byte("hello"))
	unpadded := base64.RawURLEncoding.EncodeToString([]byte("hello"))

	assert.Equal(t, "hello", decodeBase64(padded))
	assert.Equal(t, "hello", decodeBase64(unpadded))
	assert.Equal(t, "", decodeBase64("!!not base64!!"))
}

func TestParseGmailMessage(t *testing.T) {
	msg := &gmail.Message{
		Id: "msg-123",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Acme Careers <no-reply@acme.com>"},
				{Name: "To", Value: "jane@example.com"},
				{Name: "Subject", Value: "Thanks for applying"},
				{Name: "Date", Value: "Fri, 15 Mar 2024 10:30:00 +0000"},
				{Name: "X-Mailer", Value: "should be dropped"},
			},
			Parts: []*gmail.MessagePart{
				textPart("text/plain", "Thank you for applying to Acme Corp."),
			},
		},
	}

	parsed := parseGmailMessage(msg)

	assert.Equal(t, "msg-123", parsed.ID)
	assert.Equal(t, "Acme Careers <no-reply@acme.com>", parsed.From)
	assert.Equal(t, "jane@example.com", parsed.To)
	assert.Equal(t, "Thanks for applying", parsed.Subject)
	assert.Equal(t, "Fri, 15 Mar 2024 10:30:00 +0000", parsed.Date)
	assert.Equal(t, "Thank you for applying to Acme Corp.", parsed.Body)

	_, hasExtra := parsed.Headers["x-mailer"]
	assert.False(t, hasExtra)
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("custom query overrides default", func(t *testing.T) {
		query := BuildSearchQuery(7, "from:careers@acme.com")
		assert.Equal(t, "from:careers@acme.com", query)
	})

	t.Run("default inbox scan with date window", func(t *testing.T) {
		query := BuildSearchQuery(7, "")

		expected := fmt.Sprintf("in:inbox after:%s",
			time.Now().AddDate(0, 0, -7).Format("2006/1/2"))
		assert.Equal(t, expected, query)
	})

	t.Run("zero days omits date filter", func(t *testing.T) {
		query := BuildSearchQuery(0, "")
		assert.Equal(t, "in:inbox", query)
		assert.False(t, strings.Contains(query, "after:"))
	})
}
