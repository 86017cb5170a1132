package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text unchanged",
			input:    "Thank you for applying to Acme Corp.",
			expected: "Thank you for applying to Acme Corp.",
		},
		{
			name:     "br tags become spaces after collapse",
			input:    "line one<br>line two<br/>line three",
			expected: "line one line two line three",
		},
		{
			name:     "paragraph tags dropped",
			input:    "<p>Thank you for applying.</p><p>We received your application.</p>",
			expected: "Thank you for applying. We received your application.",
		},
		{
			name:     "attributes inside tags removed",
			input:    `<p style="margin:0">Hello</p><a href="https://x.test">link</a>`,
			expected: "Hello link",
		},
		{
			name:     "entities decoded",
			input:    "Johnson &amp; Johnson &lt;careers&gt;",
			expected: "Johnson & Johnson <careers>",
		},
		{
			name:     "whitespace collapsed",
			input:    "Thank   you\t\tfor\n\n\napplying",
			expected: "Thank you for applying",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  \n hello \n  ",
			expected: "hello",
		},
		{
			name:     "full html email",
			input:    `<html><body><div class="wrapper"><p>Hi Jane,</p><p>Thank you for applying to <b>Acme Corp</b>!</p></div></body></html>`,
			expected: "Hi Jane, Thank you for applying to Acme Corp !",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripHTML(tc.input))
		})
	}
}
