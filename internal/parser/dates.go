package parser

import (
	"net/mail"
	"regexp"
	"time"
)

// Date substring patterns, tried in order against the body text.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
}

// Layouts tried for each matched date substring, first parse wins.
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// Confidence tiers for the date fallback chain.
const (
	dateTextConfidence     = 0.8
	dateHeaderConfidence   = 0.6
	dateFallbackConfidence = 0.3
)

// extractDate recovers the application date. It searches the body text for
// a recognizable date first, then the email's Date header, and finally
// falls back to "now" so the pipeline never fails on this field alone.
func extractDate(text, dateHeader string, now func() time.Time) (time.Time, float64) {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, m[1]); err == nil {
				return parsed, dateTextConfidence
			}
		}
	}

	if dateHeader != "" {
		if parsed, err := mail.ParseDate(dateHeader); err == nil {
			return parsed, dateHeaderConfidence
		}
	}

	return now(), dateFallbackConfidence
}

// extractSource returns the sender's @-domain verbatim, or "" when the
// sender string carries no address.
func extractSource(sender string) string {
	if m := senderDomainRe.FindStringSubmatch(sender); m != nil {
		return m[1]
	}
	return ""
}
