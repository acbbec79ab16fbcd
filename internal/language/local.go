package language

import (
	"context"

	"github.com/valpere/langbridge/internal/detector"
)

// LocalService is an offline, detect-only implementation backed by the
// lingua-go detector. Translate always fails with ErrTranslateUnsupported,
// so it only completes pipeline runs whose input is already canonical.
type LocalService struct {
	det *detector.Detector
}

func NewLocalService() *LocalService {
	return &LocalService{det: detector.New()}
}

func (s *LocalService) Name() string {
	return "local"
}

func (s *LocalService) Detect(ctx context.Context, text string) (*Detection, error) {
	code, name, confidence, ok := s.det.DetectWithConfidence(text)
	if !ok {
		// Ambiguous input: report an unconfident guess rather than failing,
		// the pipeline surfaces low confidence to the caller.
		return &Detection{Code: DefaultCanonical, Name: "English", Confidence: 0}, nil
	}
	return &Detection{Code: code, Name: name, Confidence: confidence}, nil
}

func (s *LocalService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return "", ErrTranslateUnsupported
}

func (s *LocalService) Languages(ctx context.Context) (map[string]string, error) {
	return detector.Languages(), nil
}
