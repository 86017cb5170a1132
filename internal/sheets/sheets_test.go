package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"job-tracker/internal/parser"
)

func TestBuildRows(t *testing.T) {
	apps := []*parser.JobApplication{
		{
			Company:     "Acme Corp",
			Position:    "Software Engineer Intern",
			DateApplied: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			Company:     "Globex",
			Position:    "N/A",
			DateApplied: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	rows := BuildRows(apps)

	assert.Equal(t, [][]interface{}{
		{"Software Engineer Intern", "Acme Corp", "2024-03-14"},
		{"N/A", "Globex", "2024-03-15"},
	}, rows)
}

func TestBuildRows_Empty(t *testing.T) {
	assert.Empty(t, BuildRows(nil))
}

func TestHeadersMatch(t *testing.T) {
	testCases := []struct {
		name     string
		existing []interface{}
		expected bool
	}{
		{
			name:     "exact match",
			existing: []interface{}{"Position", "Company", "Date Applied"},
			expected: true,
		},
		{
			name:     "wrong order",
			existing: []interface{}{"Company", "Position", "Date Applied"},
			expected: false,
		},
		{
			name:     "too short",
			existing: []interface{}{"Position"},
			expected: false,
		},
		{
			name:     "non-string cell",
			existing: []interface{}{1.0, "Company", "Date Applied"},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, headersMatch(tc.existing))
		})
	}
}
