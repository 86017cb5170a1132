package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenRouterEndpoint is the chat completions endpoint used when the
// configuration does not override it.
const DefaultOpenRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// llmTextLimit caps how much body text is sent to the model.
const llmTextLimit = 3000

// LLMConfig configures the optional LLM extraction stage.
type LLMConfig struct {
	APIKey      string        `json:"-"`
	Model       string        `json:"model"`
	Endpoint    string        `json:"endpoint"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Timeout     time.Duration `json:"timeout"`
}

// LLMResult is the structured answer from the model. Empty fields mean the
// model returned null for them.
type LLMResult struct {
	Company  string `json:"company"`
	Position string `json:"position"`
}

// LLMExtractor sends normalized email text to a language model and parses
// a company/position pair out of the reply. Implementations must be safe
// for concurrent use.
type LLMExtractor interface {
	Extract(ctx context.Context, text, subject, sender string) (*LLMResult, error)
	IsEnabled() bool
}

// NewLLMExtractor returns an OpenRouter-backed extractor when an API key is
// configured, or a no-op extractor otherwise. Missing credentials are not
// an error; the stage is simply skipped.
func NewLLMExtractor(config *LLMConfig) LLMExtractor {
	if config == nil || config.APIKey == "" {
		return &NoOpLLMExtractor{}
	}
	return newOpenRouterExtractor(config)
}

// NoOpLLMExtractor is used when no API key is configured.
type NoOpLLMExtractor struct{}

// Extract returns no result.
func (n *NoOpLLMExtractor) Extract(ctx context.Context, text, subject, sender string) (*LLMResult, error) {
	return nil, nil
}

// IsEnabled returns false.
func (n *NoOpLLMExtractor) IsEnabled() bool {
	return false
}

// OpenRouterExtractor calls the OpenRouter chat completions API.
type OpenRouterExtractor struct {
	config     *LLMConfig
	httpClient *http.Client
}

func newOpenRouterExtractor(config *LLMConfig) *OpenRouterExtractor {
	cfg := *config
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOpenRouterEndpoint
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 150
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &OpenRouterExtractor{
		config: &cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// IsEnabled returns true.
func (o *OpenRouterExtractor) IsEnabled() bool {
	return true
}

// Extract asks the model for a strict-JSON company/position pair. Any
// failure is returned as an error for the caller to log and treat as
// "no data"; it never aborts the parse.
func (o *OpenRouterExtractor) Extract(ctx context.Context, text, subject, sender string) (*LLMResult, error) {
	prompt := buildExtractionPrompt(text, subject, sender)

	content, err := o.callModel(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseModelResponse(content)
}

// buildExtractionPrompt builds the fixed extraction prompt, truncating the
// body to keep the request inside the token budget.
func buildExtractionPrompt(text, subject, sender string) string {
	if len(text) > llmTextLimit {
		text = text[:llmTextLimit]
	}

	return fmt.Sprintf(`Extract job application details from this confirmation email. Return ONLY valid JSON.

Rules:
- company: The actual company you applied to (NOT "LinkedIn" or "Indeed" - those are job platforms, extract the real company name)
- position: The job title (e.g. "Software Engineer Intern", "Data Analyst"). Look in the subject line and body.
- If this is NOT a job application confirmation (e.g. just a notification, newsletter, or job recommendation), return {"company": null, "position": null}

Email subject: %s
From: %s

Email body:
%s

Return valid JSON only:
{"company": "Company Name", "position": "Job Title"}`, subject, sender, text)
}

// callModel performs the chat completions request and returns the raw
// completion text.
func (o *OpenRouterExtractor) callModel(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": o.config.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  o.config.MaxTokens,
		"temperature": o.config.Temperature,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.config.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// parseModelResponse strips markdown code fences and decodes the JSON
// answer. A JSON array (several jobs in one email) yields its first
// element.
func parseModelResponse(content string) (*LLMResult, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "[") {
		var results []LLMResult
		if err := json.Unmarshal([]byte(content), &results); err != nil {
			return nil, fmt.Errorf("failed to parse JSON array: %w", err)
		}
		if len(results) == 0 {
			return nil, nil
		}
		return &results[0], nil
	}

	var result LLMResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &result, nil
}
