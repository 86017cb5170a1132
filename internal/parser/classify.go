package parser

import "strings"

// isRejection reports whether the email reads as a rejection. Evaluated
// before any confirmation logic: a rejection is never a confirmation even
// when confirmation keywords are also present.
func isRejection(text, subject string) bool {
	combined := strings.ToLower(text + " " + subject)
	for _, indicator := range rejectionIndicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}
	return false
}

// isIncompleteApplication reports whether the email is a reminder about a
// started-but-not-submitted application. Only consulted after the
// rejection check has come back false.
func isIncompleteApplication(text, subject string) bool {
	combined := strings.ToLower(text + " " + subject)
	for _, indicator := range incompleteIndicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}
	return false
}
