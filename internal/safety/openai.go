package safety

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/langbridge/internal/chunker"
)

const (
	// DefaultMaxChunkChars is the largest text classified in one request.
	// Longer texts are chunked and the per-chunk verdicts merged.
	DefaultMaxChunkChars = 10000

	// severityThreshold is the severity score above which content is
	// rejected even without a flagged category.
	severityThreshold = 0.3
)

const moderationSystemPrompt = `You are a professional content moderation AI. Your job is to analyze text content and identify any inappropriate material.

Analyze the provided text for the following categories of inappropriate content:
1. VULGAR: Profanity, crude language, offensive words
2. SEXUAL: Sexual content, adult themes, inappropriate sexual references
3. HATEFUL: Hate speech, discrimination, harassment based on race, gender, religion, etc.
4. VIOLENT: Graphic violence, threats, harmful content
5. HARASSMENT: Bullying, personal attacks, intimidation
6. ILLEGAL: Content promoting illegal activities
7. SPAM: Repetitive, promotional, or spam-like content
8. MISINFORMATION: False or misleading information that could cause harm

Respond with a JSON object containing:
{
    "analysis": "Detailed analysis of the content",
    "inappropriate_categories": ["list", "of", "flagged", "categories"],
    "severity_score": 0.0-1.0,
    "confidence": 0.0-1.0,
    "explanation": "Clear explanation of why content was flagged or approved"
}

Be thorough but fair. Consider context and intent. Minor profanity in casual conversation may be acceptable, but hate speech or explicit sexual content should be flagged.`

// OpenAIClassifier implements Service on the OpenAI chat completions API.
type OpenAIClassifier struct {
	apiKey        string
	model         string
	baseURL       string
	maxChunkChars int
	client        *http.Client
}

func NewOpenAIClassifier(apiKey, model, baseURL string) *OpenAIClassifier {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClassifier{
		apiKey:        apiKey,
		model:         model,
		baseURL:       baseURL,
		maxChunkChars: DefaultMaxChunkChars,
		client:        &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// Classify moderates text, chunking it when it exceeds the per-request
// limit. Chunk verdicts merge conservatively: one rejected chunk rejects
// the whole text, categories are unioned, and the lowest confidence wins.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*Verdict, error) {
	chunks := chunker.Chunk(text, c.maxChunkChars)

	if len(chunks) == 1 {
		return c.classifyChunk(ctx, chunks[0])
	}

	merged := &Verdict{Approved: true, Confidence: 1.0}
	seen := make(map[string]bool)
	var rationales []string

	for i, chunk := range chunks {
		v, err := c.classifyChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}

		if !v.Approved {
			merged.Approved = false
		}
		for _, cat := range v.Categories {
			if !seen[cat] {
				seen[cat] = true
				merged.Categories = append(merged.Categories, cat)
			}
		}
		if v.Severity > merged.Severity {
			merged.Severity = v.Severity
		}
		if v.Confidence < merged.Confidence {
			merged.Confidence = v.Confidence
		}
		if v.Rationale != "" {
			rationales = append(rationales, v.Rationale)
		}
	}

	merged.Rationale = strings.Join(rationales, " ")
	return merged, nil
}

func (c *OpenAIClassifier) classifyChunk(ctx context.Context, text string) (*Verdict, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}

	openaiReq := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": moderationSystemPrompt},
			{"role": "user", "content": fmt.Sprintf("Please analyze this text for inappropriate content:\n\n%s", text)},
		},
		"temperature":     0.1,
		"max_tokens":      1000,
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonData, err := json.Marshal(openaiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", c.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("API returned status %d: %v", resp.StatusCode, errResp)
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	return parseVerdict(openaiResp.Choices[0].Message.Content)
}

// parseVerdict converts the model's JSON analysis into a Verdict. A reply
// that is not valid JSON degrades to an unflagged, half-confidence verdict
// rather than failing the call: the model answered, just not in shape.
func parseVerdict(content string) (*Verdict, error) {
	var parsed struct {
		Analysis                string   `json:"analysis"`
		InappropriateCategories []string `json:"inappropriate_categories"`
		SeverityScore           float64  `json:"severity_score"`
		Confidence              float64  `json:"confidence"`
		Explanation             string   `json:"explanation"`
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return &Verdict{
			Approved:   true,
			Confidence: 0.5,
			Rationale:  "Analysis completed but response format was unexpected",
		}, nil
	}

	approved := len(parsed.InappropriateCategories) == 0 && parsed.SeverityScore < severityThreshold

	rationale := parsed.Explanation
	if rationale == "" {
		rationale = parsed.Analysis
	}

	return &Verdict{
		Approved:   approved,
		Categories: parsed.InappropriateCategories,
		Rationale:  rationale,
		Severity:   parsed.SeverityScore,
		Confidence: parsed.Confidence,
	}, nil
}
