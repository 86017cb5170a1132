package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Sender patterns for the ATS services that mail on a company's behalf,
// e.g. `"Acme Corp" via Greenhouse <...>` or `Acme Careers <...>`.
var senderCompanyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]+)" via .+`),
	regexp.MustCompile(`(?i)([A-Za-z0-9\s&.]+)\s+Careers?\s*<`),
	regexp.MustCompile(`(?i)([A-Za-z0-9\s&.]+)\s+Recruiting\s*<`),
	regexp.MustCompile(`(?i)([A-Za-z0-9\s&.]+)\s+Talent\s*<`),
	regexp.MustCompile(`(?i)([A-Za-z0-9\s&.]+)\s+Jobs?\s*<`),
	regexp.MustCompile(`(?i)([A-Za-z0-9\s&.]+)\s+HR\s*<`),
}

// Body phrase patterns. Case-sensitive on purpose: the capture requires a
// leading capital, which is what separates company names from mid-sentence
// noise.
var bodyCompanyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:applying|applied|application)\s+(?:to|at|for(?:\s+a\s+position\s+at)?)\s+([A-Z][A-Za-z0-9\s&.'-]+?)(?:\.|,|!|\s+for|\s+and|\s+as)`),
	regexp.MustCompile(`interest\s+in\s+(?:joining\s+)?([A-Z][A-Za-z0-9\s&.'-]+?)(?:\.|,|!|\s+and)`),
	regexp.MustCompile(`Thank\s+you\s+for\s+applying\s+to\s+([A-Z][A-Za-z0-9\s&.'-]+)`),
	regexp.MustCompile(`at\s+([A-Z][A-Za-z0-9\s&.'-]+?)\s+for\s+the`),
	regexp.MustCompile(`with\s+([A-Z][A-Za-z0-9\s&.'-]+?)\s+for\s+(?:the|our)`),
}

var (
	senderNameRe       = regexp.MustCompile(`^([^<]+)<`)
	senderRoleSuffixRe = regexp.MustCompile(`(?i)\s+(Careers?|Recruiting|Talent|Jobs?|HR|Team|via\s+.+)$`)
	senderDomainRe     = regexp.MustCompile(`@([a-zA-Z0-9.-]+)`)
)

// extractCompany attempts to recover the company name, trying strategies in
// order and stopping at the first success. Returns "" when every strategy
// comes up empty.
func extractCompany(text, subject, sender string) string {
	// Strategy 1: ATS patterns in the sender string.
	for _, re := range senderCompanyPatterns {
		if m := re.FindStringSubmatch(sender); m != nil {
			company := strings.TrimSpace(m[1])
			if len(company) > 1 && len(company) < 50 {
				return company
			}
		}
	}

	// Strategy 2: "applying to COMPANY" style phrases in body, then subject.
	for _, candidate := range []string{text, subject} {
		for _, re := range bodyCompanyPatterns {
			m := re.FindStringSubmatch(candidate)
			if m == nil {
				continue
			}
			company := strings.TrimSpace(m[1])
			if genericCompanyWords[strings.ToLower(company)] {
				continue
			}
			if len(company) > 1 && len(company) < 50 {
				return company
			}
		}
	}

	// Strategy 3: sender display name with role suffixes stripped.
	if m := senderNameRe.FindStringSubmatch(sender); m != nil {
		name := strings.Trim(strings.TrimSpace(m[1]), `"`)
		name = senderRoleSuffixRe.ReplaceAllString(name, "")
		if len(name) > 1 && !genericSenderNames[strings.ToLower(name)] {
			return name
		}
	}

	// Strategy 4: first label of the sender domain.
	if m := senderDomainRe.FindStringSubmatch(sender); m != nil {
		parts := strings.Split(m[1], ".")
		if len(parts) >= 2 {
			label := parts[0]
			if !genericDomainLabels[label] {
				return titleCase(strings.ReplaceAll(label, "-", " "))
			}
		}
	}

	return ""
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
