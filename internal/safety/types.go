// Package safety abstracts content moderation behind a Service interface
// with an OpenAI-backed classifier implementation.
package safety

import "context"

// Verdict is the structured outcome of classifying a text.
type Verdict struct {
	Approved   bool     `json:"approved"`
	Categories []string `json:"categories"`
	Rationale  string   `json:"rationale"`
	Severity   float64  `json:"severity"`
	Confidence float64  `json:"confidence"`
}

// Service classifies canonical-language text for safety. Implementations
// are safe for concurrent use and hold no per-request state.
type Service interface {
	Name() string
	Classify(ctx context.Context, text string) (*Verdict, error)
}
