package language

import (
	"context"
	"fmt"
	"strings"

	translate "cloud.google.com/go/translate"
	xlang "golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService implements Service on the Google Cloud Translation v2 API.
type GoogleService struct {
	credentials string
}

// NewGoogleService creates a Google-backed language service. credentials is
// an optional path to a service account JSON file; when empty the
// GOOGLE_APPLICATION_CREDENTIALS environment variable is used.
func NewGoogleService(credentials string) *GoogleService {
	return &GoogleService{credentials: credentials}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) newClient(ctx context.Context) (*translate.Client, error) {
	opts := []option.ClientOption{}
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *GoogleService) Detect(ctx context.Context, text string) (*Detection, error) {
	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	detections, err := client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return nil, fmt.Errorf("no detection returned")
	}

	best := detections[0][0]
	code := strings.ToLower(best.Language.String())

	name := s.languageName(ctx, client, code)

	return &Detection{
		Code:       code,
		Name:       name,
		Confidence: best.Confidence,
	}, nil
}

// languageName resolves a language code to its English display name via the
// supported-languages listing. Falls back to "Language (<code>)" when the
// code is not listed, matching how unknown codes are surfaced to users.
func (s *GoogleService) languageName(ctx context.Context, client *translate.Client, code string) string {
	langs, err := client.SupportedLanguages(ctx, xlang.English)
	if err != nil {
		return fmt.Sprintf("Language (%s)", code)
	}
	for _, l := range langs {
		if strings.EqualFold(l.Tag.String(), code) {
			return l.Name
		}
	}
	return fmt.Sprintf("Language (%s)", code)
}

func (s *GoogleService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	targetTag, err := xlang.Parse(targetLang)
	if err != nil {
		return "", fmt.Errorf("invalid target language: %w", err)
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	var translations []translate.Translation
	if sourceLang == "" || sourceLang == "auto" {
		translations, err = client.Translate(ctx, []string{text}, targetTag, nil)
	} else {
		sourceTag, parseErr := xlang.Parse(sourceLang)
		if parseErr != nil {
			return "", fmt.Errorf("invalid source language: %w", parseErr)
		}
		translations, err = client.Translate(ctx, []string{text}, targetTag, &translate.Options{
			Source: sourceTag,
		})
	}

	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return translations[0].Text, nil
}

func (s *GoogleService) Languages(ctx context.Context) (map[string]string, error) {
	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	langs, err := client.SupportedLanguages(ctx, xlang.English)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	out := make(map[string]string, len(langs))
	for _, l := range langs {
		out[strings.ToLower(l.Tag.String())] = l.Name
	}
	return out, nil
}
