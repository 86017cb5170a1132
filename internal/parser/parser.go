package parser

import (
	"context"
	"log/slog"
	"math"
	"time"

	"job-tracker/internal/email"
)

// Confidence tiers for merged fields. The LLM answer outranks the regex
// strategies; the regex strategies within one field are not differentiated.
const (
	llmFieldConfidence        = 0.9
	regexCompanyConfidence    = 0.7
	regexPositionConfidence   = 0.8
	defaultPositionConfidence = 0.5
)

// placeholderPosition is used when no strategy resolves a title. A missing
// title is not a parse failure; applications may simply omit it.
const placeholderPosition = "N/A"

// ApplicationParser turns raw email messages into JobApplication records.
// Each Parse call is independent; the parser is safe for concurrent use as
// long as the LLM extractor and logger are.
type ApplicationParser struct {
	llm    LLMExtractor
	logger *slog.Logger
	now    func() time.Time
}

// NewApplicationParser creates a parser. A nil llm disables the LLM stage.
func NewApplicationParser(llm LLMExtractor, logger *slog.Logger) *ApplicationParser {
	if llm == nil {
		llm = &NoOpLLMExtractor{}
	}
	return &ApplicationParser{
		llm:    llm,
		logger: logger,
		now:    time.Now,
	}
}

// Parse extracts a job application record from one email message. It
// returns nil when the email is filtered out (rejection or incomplete
// application) or when no strategy can resolve the company. Extraction
// failures never propagate past this boundary; they degrade to missing
// values for the affected field.
func (p *ApplicationParser) Parse(ctx context.Context, msg *email.EmailMessage) *JobApplication {
	text := StripHTML(msg.Body)
	subject := msg.Subject
	sender := msg.From

	p.logger.Debug("parsing email", "id", msg.ID, "subject", truncate(subject, 50))

	// Classification gate. Rejection language wins over anything that
	// looks like a confirmation, so it is checked first.
	if isRejection(text, subject) {
		p.logger.Info("skipping rejection email", "id", msg.ID, "subject", truncate(subject, 50))
		return nil
	}
	if isIncompleteApplication(text, subject) {
		p.logger.Info("skipping incomplete application email", "id", msg.ID, "subject", truncate(subject, 50))
		return nil
	}

	// Regex extraction runs unconditionally; the LLM result is merged on
	// top when available.
	regexCompany := extractCompany(text, subject, sender)
	regexPosition := matchJobTitle(text)
	if regexPosition == "" {
		regexPosition = matchJobTitle(subject)
	}
	dateApplied, dateConf := extractDate(text, msg.Date, p.now)
	source := extractSource(sender)

	var llmResult *LLMResult
	if p.llm.IsEnabled() {
		result, err := p.llm.Extract(ctx, text, subject, sender)
		if err != nil {
			p.logger.Warn("LLM extraction failed", "id", msg.ID, "error", err)
		} else {
			llmResult = result
		}
	}

	company, position := p.mergeFields(llmResult, regexCompany, regexPosition)

	if company.value == "" {
		p.logger.Warn("could not extract company from email", "id", msg.ID)
		return nil
	}

	if position.value == "" {
		position = candidate{value: placeholderPosition, confidence: defaultPositionConfidence}
	}

	confidence := round2((company.confidence + position.confidence + dateConf) / 3)

	notes := ""
	if subject != "" {
		notes = "Subject: " + truncate(subject, 100)
	}

	app := &JobApplication{
		Company:       company.value,
		Position:      position.value,
		DateApplied:   dateApplied,
		SourceEmailID: msg.ID,
		Confidence:    confidence,
		Source:        source,
		Notes:         notes,
		ExtractedAt:   p.now(),
	}

	p.logger.Info("parsed application",
		"company", app.Company,
		"position", app.Position,
		"confidence", app.Confidence)

	return app
}

// mergeFields applies the fixed preference order per field: LLM result if
// present, else the regex result, else empty.
func (p *ApplicationParser) mergeFields(llmResult *LLMResult, regexCompany, regexPosition string) (company, position candidate) {
	if llmResult != nil {
		if llmResult.Company != "" {
			company = candidate{value: llmResult.Company, confidence: llmFieldConfidence}
		}
		if llmResult.Position != "" {
			position = candidate{value: llmResult.Position, confidence: llmFieldConfidence}
		}
	}

	if company.value == "" && regexCompany != "" {
		company = candidate{value: regexCompany, confidence: regexCompanyConfidence}
	}
	if position.value == "" && regexPosition != "" {
		position = candidate{value: regexPosition, confidence: regexPositionConfidence}
	}

	return company, position
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
