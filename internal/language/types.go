// Package language abstracts language detection and translation behind a
// single Service interface with Google Cloud, Ollama, and offline
// implementations.
package language

import (
	"context"
	"errors"
)

// DefaultCanonical is the working language all safety evaluation runs in.
const DefaultCanonical = "en"

// ErrTranslateUnsupported is returned by detect-only services.
var ErrTranslateUnsupported = errors.New("service does not support translation")

// Detection is the result of identifying the language of a text.
type Detection struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Service is the capability surface the pipeline depends on. Implementations
// are safe for concurrent use and hold no per-request state.
type Service interface {
	Name() string
	Detect(ctx context.Context, text string) (*Detection, error)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	Languages(ctx context.Context) (map[string]string, error)
}
