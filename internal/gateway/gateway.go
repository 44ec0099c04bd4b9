// Package gateway wraps the external generative-AI service behind two
// operations: ranking the user's principles against a situation (with one
// reflection question per selected principle) and synthesizing final advice
// from the answered reflections. It owns prompt construction, response-schema
// validation, and the defensive filtering of model output.
//
// Remote failures never leak provider detail to the caller: each operation
// re-signals them as a single opaque error, with the underlying cause going
// to the log only.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harrison/compass/internal/config"
	"github.com/harrison/compass/internal/logger"
	"github.com/harrison/compass/internal/models"
)

// Sentinel errors. ErrNoCredential is a precondition failure and is signaled
// distinctly from remote failures so callers can redirect to credential
// entry instead of showing a retry message.
var (
	ErrNoCredential    = errors.New("no API credential configured")
	ErrAnalysisFailed  = errors.New("situation analysis failed")
	ErrSynthesisFailed = errors.New("advice synthesis failed")
)

// FallbackAdvice is returned when the model produces an empty synthesis
// response, rather than failing the whole workflow pass.
const FallbackAdvice = "No advice could be generated for this situation. " +
	"Re-read your own answers above; they usually already point at the decision."

// credentialHeader carries the API key out-of-band, never in prompt text.
const credentialHeader = "x-goog-api-key"

// Client is a reusable gateway client. Create once, use many times.
// Thread-safe for concurrent use, though the workflow only ever has one
// outstanding call at a time.
type Client struct {
	// BaseURL is the API root of the model provider.
	BaseURL string

	// Model is the model identifier used for both operations.
	Model string

	// Locale is the language code for all generated natural-language output.
	Locale string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// HTTPClient can be overridden for tests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives failure detail that is not surfaced to the user.
	// Can be nil for silent operation.
	Logger logger.Logger
}

// NewClient creates a Client from gateway configuration.
func NewClient(cfg config.GatewayConfig, locale string, log logger.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Model:   cfg.Model,
		Locale:  locale,
		Timeout: cfg.Timeout,
		Logger:  log,
	}
}

// generateContent request/response wire types.

type generateRequest struct {
	SystemInstruction *contentBlock   `json:"systemInstruction,omitempty"`
	Contents          []contentBlock  `json:"contents"`
	GenerationConfig  *generationConf `json:"generationConfig,omitempty"`
}

type contentBlock struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConf struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content contentBlock `json:"content"`
	} `json:"candidates"`
}

// analysisResult is the schema-constrained shape of the ranking response.
type analysisResult struct {
	Analysis []analysisItem `json:"analysis"`
}

type analysisItem struct {
	PrincipleID        string `json:"principleId"`
	ReflectionQuestion string `json:"reflectionQuestion"`
}

// analysisSchema constrains the ranking response to
// {analysis:[{principleId, reflectionQuestion}]}.
var analysisSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"analysis": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"principleId": {"type": "string"},
					"reflectionQuestion": {"type": "string"}
				},
				"required": ["principleId", "reflectionQuestion"]
			}
		}
	},
	"required": ["analysis"]
}`)

// ValidateCredential issues a minimal probe request with the candidate
// credential. It returns true only on a well-formed success response; any
// transport, auth, or parse failure yields false. It never returns an error.
func (c *Client) ValidateCredential(ctx context.Context, candidate string) bool {
	if candidate == "" {
		return false
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models?pageSize=1", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logError(fmt.Sprintf("credential probe: build request: %v", err))
		return false
	}
	req.Header.Set(credentialHeader, candidate)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logError(fmt.Sprintf("credential probe: %v", err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logWarn(fmt.Sprintf("credential probe rejected: status %d", resp.StatusCode))
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logError(fmt.Sprintf("credential probe: read body: %v", err))
		return false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		c.logError(fmt.Sprintf("credential probe: malformed body: %v", err))
		return false
	}

	return true
}

// AnalyzeSituation asks the model to select the 3-4 principles most relevant
// to the situation and to produce one reflection question per selection.
//
// Items whose principleId does not match any caller-supplied principle are
// silently dropped; the model occasionally invents ids and a shorter list is
// better than a corrupted one. Result order follows the model's order. An
// empty result is a valid outcome, not an error.
func (c *Client) AnalyzeSituation(ctx context.Context, credential, situation string, principles []models.Principle) ([]models.Reflection, error) {
	if credential == "" {
		return nil, ErrNoCredential
	}
	if strings.TrimSpace(situation) == "" {
		return nil, fmt.Errorf("situation text is required")
	}
	if len(principles) == 0 {
		return nil, fmt.Errorf("at least one principle is required")
	}

	req := generateRequest{
		SystemInstruction: &contentBlock{
			Parts: []part{{Text: analysisSystemPrompt(c.Locale)}},
		},
		Contents: []contentBlock{{
			Role:  "user",
			Parts: []part{{Text: analysisPrompt(situation, principles)}},
		}},
		GenerationConfig: &generationConf{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}

	text, err := c.generate(ctx, credential, req)
	if err != nil {
		c.logError(fmt.Sprintf("analysis request failed: %v", err))
		return nil, ErrAnalysisFailed
	}

	var result analysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		// The schema is enforced server-side, but some responses still
		// arrive fenced or wrapped in prose.
		extracted := ExtractJSON(text)
		if extracted == "" {
			c.logError(fmt.Sprintf("analysis response not decodable: %v (content: %s)", err, truncate(text, 200)))
			return nil, ErrAnalysisFailed
		}
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			c.logError(fmt.Sprintf("analysis response malformed: %v (content: %s)", err, truncate(text, 200)))
			return nil, ErrAnalysisFailed
		}
	}

	byID := make(map[string]models.Principle, len(principles))
	for _, p := range principles {
		byID[p.ID] = p
	}

	reflections := make([]models.Reflection, 0, len(result.Analysis))
	for _, item := range result.Analysis {
		p, ok := byID[item.PrincipleID]
		if !ok {
			c.logWarn(fmt.Sprintf("analysis returned unknown principle id %q, dropped", item.PrincipleID))
			continue
		}
		reflections = append(reflections, models.Reflection{
			PrincipleID:          p.ID,
			PrincipleTitle:       p.Title,
			PrincipleDescription: p.Description,
			Question:             item.ReflectionQuestion,
		})
	}

	return reflections, nil
}

// SynthesizeAdvice asks the model for final advice grounded in the answered
// reflections. The caller enforces that every answer is non-empty before
// invoking. Returns FallbackAdvice when the model response is empty.
func (c *Client) SynthesizeAdvice(ctx context.Context, credential, situation string, reflections []models.Reflection) (string, error) {
	if credential == "" {
		return "", ErrNoCredential
	}

	req := generateRequest{
		SystemInstruction: &contentBlock{
			Parts: []part{{Text: synthesisSystemPrompt(c.Locale)}},
		},
		Contents: []contentBlock{{
			Role:  "user",
			Parts: []part{{Text: synthesisPrompt(situation, reflections)}},
		}},
	}

	text, err := c.generate(ctx, credential, req)
	if err != nil {
		c.logError(fmt.Sprintf("synthesis request failed: %v", err))
		return "", ErrSynthesisFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.logWarn("synthesis returned empty response, using fallback advice")
		return FallbackAdvice, nil
	}

	return text, nil
}

// generate performs a generateContent call and returns the joined text of
// the first candidate.
func (c *Client) generate(ctx context.Context, credential string, greq generateRequest) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	payload, err := json.Marshal(greq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(credentialHeader, credential)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var gresp generateResponse
	if err := json.Unmarshal(body, &gresp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gresp.Candidates) == 0 {
		return "", fmt.Errorf("response contains no candidates")
	}

	var sb strings.Builder
	for _, p := range gresp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// withTimeout derives a context bounded by c.Timeout when set.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logError(message string) {
	if c.Logger != nil {
		c.Logger.LogError(message)
	}
}

func (c *Client) logWarn(message string) {
	if c.Logger != nil {
		c.Logger.LogWarn(message)
	}
}

// ExtractJSON attempts to extract a JSON object from mixed content.
// It finds the first '{' and last '}' to extract the JSON substring.
// Returns empty string if no valid JSON boundaries found.
func ExtractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return ""
}

// truncate returns s truncated to maxLen characters with "..." suffix if needed.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
