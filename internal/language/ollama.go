package language

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/langbridge/internal/postprocess"
)

var DefaultOllamaModels = []string{
	"llama3.2",
	"gemma2:2b",
	"qwen2.5:3b",
	"mistral:7b",
}

// OllamaService implements Service against a self-hosted Ollama instance.
// Detection asks the model for a JSON verdict; translation uses a plain
// prompt. Output passes through the postprocess cleaner in both cases.
type OllamaService struct {
	baseURL string
	models  []string
	client  *http.Client
}

func NewOllamaService(baseURL string, models []string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if len(models) == 0 {
		models = DefaultOllamaModels
	}
	return &OllamaService{
		baseURL: baseURL,
		models:  models,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *OllamaService) Name() string {
	return "ollama"
}

func (s *OllamaService) getRandomModel() string {
	if len(s.models) == 0 {
		return "llama3.2"
	}
	return s.models[rand.Intn(len(s.models))]
}

func (s *OllamaService) generate(ctx context.Context, prompt string, jsonFormat bool) (string, error) {
	ollamaReq := map[string]interface{}{
		"model":  s.getRandomModel(),
		"prompt": prompt,
		"stream": false,
	}
	if jsonFormat {
		ollamaReq["format"] = "json"
	}

	jsonData, err := json.Marshal(ollamaReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return ollamaResp.Response, nil
}

func (s *OllamaService) Detect(ctx context.Context, text string) (*Detection, error) {
	prompt := fmt.Sprintf(`Identify the language of the following text.
Respond ONLY in JSON:
{
  "code": "ISO 639-1 code, lowercase",
  "name": "English name of the language",
  "confidence": 0.0-1.0
}

Text: "%s"`, text)

	raw, err := s.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Code       string  `json:"code"`
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse detection response as JSON: %w", err)
	}
	if parsed.Code == "" {
		return nil, fmt.Errorf("no language code in detection response")
	}

	return &Detection{
		Code:       strings.ToLower(parsed.Code),
		Name:       parsed.Name,
		Confidence: parsed.Confidence,
	}, nil
}

func (s *OllamaService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "the detected language"
	}

	prompt := fmt.Sprintf(`Translate the following text from %s to %s.
Only respond with the translation, nothing else.

Text: "%s"

Translation:`, sourceLang, targetLang, text)

	raw, err := s.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}

	translated := postprocess.Clean(raw)
	if translated == "" {
		return "", fmt.Errorf("empty translation returned")
	}
	return translated, nil
}

func (s *OllamaService) Languages(ctx context.Context) (map[string]string, error) {
	return map[string]string{
		"en": "English", "es": "Spanish", "fr": "French", "de": "German",
		"it": "Italian", "pt": "Portuguese", "ru": "Russian", "zh": "Chinese",
		"ja": "Japanese", "ko": "Korean", "ar": "Arabic", "uk": "Ukrainian",
	}, nil
}

// IsAvailable reports whether the Ollama server is reachable.
func (s *OllamaService) IsAvailable(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/tags", s.baseURL), nil)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}
	return nil
}
