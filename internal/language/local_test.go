package language

import (
	"context"
	"errors"
	"testing"
)

func TestLocalService_Detect(t *testing.T) {
	svc := NewLocalService()

	det, err := svc.Detect(context.Background(), "Bonjour, ceci est un test en français.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.Code != "fr" {
		t.Errorf("expected fr, got %q", det.Code)
	}
	if det.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %f", det.Confidence)
	}
}

func TestLocalService_Detect_Ambiguous(t *testing.T) {
	svc := NewLocalService()

	det, err := svc.Detect(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.Confidence != 0 {
		t.Errorf("expected zero confidence for ambiguous input, got %f", det.Confidence)
	}
	if det.Code != DefaultCanonical {
		t.Errorf("expected canonical fallback code, got %q", det.Code)
	}
}

func TestLocalService_Translate_Unsupported(t *testing.T) {
	svc := NewLocalService()

	_, err := svc.Translate(context.Background(), "Hello", "en", "fr")
	if !errors.Is(err, ErrTranslateUnsupported) {
		t.Errorf("expected ErrTranslateUnsupported, got %v", err)
	}
}

func TestLocalService_Languages(t *testing.T) {
	svc := NewLocalService()

	langs, err := svc.Languages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if langs["en"] != "English" {
		t.Errorf("expected en → English, got %q", langs["en"])
	}
}
