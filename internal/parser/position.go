package parser

import (
	"regexp"
	"strings"
)

// titleMatcher holds the precompiled patterns for one catalogue title: the
// bare title plus the level/specialization forms that can sit next to it.
type titleMatcher struct {
	title    string
	bare     *regexp.Regexp
	levelPre *regexp.Regexp
	levelSuf *regexp.Regexp
	specPre  *regexp.Regexp
}

var (
	titleMatchers   []titleMatcher
	compoundTitleRe *regexp.Regexp

	// Lookup from lower-cased match back to catalogue casing.
	canonicalLevel = map[string]string{}
	canonicalSpec  = map[string]string{}
)

func init() {
	levelAlt := quoteAlternation(jobLevels)
	specAlt := quoteAlternation(specializations)

	for _, level := range jobLevels {
		canonicalLevel[strings.ToLower(level)] = level
	}
	for _, spec := range specializations {
		canonicalSpec[strings.ToLower(spec)] = spec
	}

	titleMatchers = make([]titleMatcher, 0, len(techJobTitles))
	for _, title := range techJobTitles {
		quoted := regexp.QuoteMeta(title)
		titleMatchers = append(titleMatchers, titleMatcher{
			title:    title,
			bare:     regexp.MustCompile(`(?i)\b` + quoted + `\b`),
			levelPre: regexp.MustCompile(`(?i)\b(` + levelAlt + `)\s+` + quoted + `\b`),
			levelSuf: regexp.MustCompile(`(?i)\b` + quoted + `\s+(` + levelAlt + `)\b`),
			specPre:  regexp.MustCompile(`(?i)\b(` + specAlt + `)\s+` + quoted + `\b`),
		})
	}

	compoundTitleRe = regexp.MustCompile(
		`(?i)\b(` + levelAlt + `)\s+(` + specAlt + `)\s+(Engineer|Developer|Scientist|Analyst|Designer|Manager)\b`)
}

func quoteAlternation(terms []string) string {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(term)
	}
	return strings.Join(quoted, "|")
}

// matchJobTitle tries to find a known technical job title in the text,
// widening the match to an adjacent seniority level or specialization when
// one sits inside a small window around the title (50 chars before, 20
// after). Returns "" when nothing in the catalogue matches.
func matchJobTitle(text string) string {
	for _, tm := range titleMatchers {
		loc := tm.bare.FindStringIndex(text)
		if loc == nil {
			continue
		}

		start := loc[0] - 50
		if start < 0 {
			start = 0
		}
		end := loc[1] + 20
		if end > len(text) {
			end = len(text)
		}
		context := text[start:end]

		if m := tm.levelPre.FindStringSubmatch(context); m != nil {
			return canonicalLevel[strings.ToLower(m[1])] + " " + tm.title
		}
		if m := tm.levelSuf.FindStringSubmatch(context); m != nil {
			return tm.title + " " + canonicalLevel[strings.ToLower(m[1])]
		}
		if m := tm.specPre.FindStringSubmatch(context); m != nil {
			return canonicalSpec[strings.ToLower(m[1])] + " " + tm.title
		}

		return tm.title
	}

	// No catalogue title: try "[Level] [Specialization] [Role]" compounds
	// like "Senior Backend Engineer".
	if m := compoundTitleRe.FindStringSubmatch(text); m != nil {
		return canonicalLevel[strings.ToLower(m[1])] + " " +
			canonicalSpec[strings.ToLower(m[2])] + " " + m[3]
	}

	return ""
}
