package pipeline

import (
	"time"

	"github.com/valpere/langbridge/internal/language"
)

// Step is the furthest pipeline stage successfully completed.
type Step int

const (
	StepStart Step = iota
	StepValidated
	StepLanguageDetected
	StepTranslatedIn
	StepModerated
	StepTranslatedOut
	StepFailed
)

var stepNames = map[Step]string{
	StepStart:            "START",
	StepValidated:        "VALIDATED",
	StepLanguageDetected: "LANGUAGE_DETECTED",
	StepTranslatedIn:     "TRANSLATED_IN",
	StepModerated:        "MODERATED",
	StepTranslatedOut:    "TRANSLATED_OUT",
	StepFailed:           "FAILED",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Step) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ErrorDetail is the caller-facing form of a fatal pipeline error.
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the immutable outcome of one pipeline run. It is fully
// determined by the run's final state; assembling it performs no I/O.
//
// A blocked message (Success=true, Approved=false) and a failed run
// (Success=false, Error set) are distinct outcomes and never conflated.
type Result struct {
	Success              bool               `json:"success"`
	InputText            string             `json:"input_text"`
	DetectedLanguage     language.Detection `json:"detected_language"`
	LowConfidence        bool               `json:"low_confidence"`
	WorkingText          string             `json:"working_text"`
	IsCanonical          bool               `json:"is_english_equivalent"`
	Approved             bool               `json:"approved"`
	ModerationCategories []string           `json:"moderation_categories"`
	ModerationRationale  string             `json:"moderation_rationale"`
	OutputText           string             `json:"output_text"`
	TranslatedBack       bool               `json:"translated_back"`
	ProcessingStep       Step               `json:"processing_step"`
	Error                *ErrorDetail       `json:"error,omitempty"`
	DurationMS           int64              `json:"duration_ms"`
}

// assemble merges the run state into the final Result.
func assemble(st *runState, runErr *Error, started time.Time) *Result {
	res := &Result{
		Success:          runErr == nil,
		InputText:        st.input,
		DetectedLanguage: st.detected,
		LowConfidence:    st.lowConfidence,
		WorkingText:      st.working,
		IsCanonical:      st.isCanonical,
		OutputText:       st.output,
		TranslatedBack:   st.translatedBack,
		ProcessingStep:   st.step,
		DurationMS:       time.Since(started).Milliseconds(),
	}

	if st.verdict != nil {
		res.Approved = st.verdict.Approved
		res.ModerationCategories = st.verdict.Categories
		res.ModerationRationale = st.verdict.Rationale
	}

	if runErr != nil {
		res.Error = &ErrorDetail{Kind: string(runErr.Kind), Message: runErr.Message}
	}

	return res
}

// Blocked reports whether the run completed but moderation rejected the
// content.
func (r *Result) Blocked() bool {
	return r.Success && !r.Approved
}
