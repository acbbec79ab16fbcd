// Package pipeline sequences language detection, translation, and content
// moderation into a staged state machine with per-stage retry policy:
//
//	START → VALIDATED → LANGUAGE_DETECTED → TRANSLATED_IN → MODERATED → TRANSLATED_OUT
//
// A fatal stage error stops the run and surfaces as a typed *Error;
// translate-out failures degrade to canonical-language output instead.
// Moderation is mandatory: no run emits output without a completed verdict.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/langbridge/internal/language"
	"github.com/valpere/langbridge/internal/placeholder"
	"github.com/valpere/langbridge/internal/postprocess"
	"github.com/valpere/langbridge/internal/safety"
	"github.com/valpere/langbridge/internal/validator"
)

const (
	// maxRetryDelay caps the exponential backoff between attempts.
	maxRetryDelay = 2 * time.Second

	// minCleanedRunes guards TranslateBack against formatting cleanup
	// stripping a reply down to nothing.
	minCleanedRunes = 10
)

// Config tunes one Pipeline. Zero values take the documented defaults.
type Config struct {
	// Canonical is the working language for safety evaluation (default "en").
	Canonical string
	// MaxInputChars rejects longer inputs as TooLong (default 30000).
	MaxInputChars int
	// ConfidenceFloor flags detections below it as low-confidence (default 0.5).
	ConfidenceFloor float64
	// CallTimeout bounds each external call (default 10s).
	CallTimeout time.Duration
	// RunTimeout bounds a whole pipeline run (default 30s).
	RunTimeout time.Duration
	// MaxAttempts is the total tries per retryable call, including the
	// first (default 3, i.e. up to 2 retries).
	MaxAttempts int
	// RetryDelay is the base backoff delay, doubled per retry (default 250ms).
	RetryDelay time.Duration
	// SkipOutputCheck disables the lingua-based language check on
	// translate-back output.
	SkipOutputCheck bool
	// Logger receives retry and degradation events (default zap.NewNop()).
	Logger *zap.Logger
}

func (c *Config) applyDefaults() {
	if c.Canonical == "" {
		c.Canonical = language.DefaultCanonical
	}
	if c.MaxInputChars <= 0 {
		c.MaxInputChars = 30000
	}
	if c.ConfidenceFloor <= 0 {
		c.ConfidenceFloor = 0.5
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 250 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Pipeline coordinates the stages over two injected collaborators. It holds
// no per-request state and is safe to invoke concurrently; every run owns
// its state exclusively.
type Pipeline struct {
	lang   language.Service
	safety safety.Service
	cfg    Config
	log    *zap.Logger
	check  *validator.Validator
}

func New(lang language.Service, safetySvc safety.Service, cfg Config) *Pipeline {
	cfg.applyDefaults()

	p := &Pipeline{
		lang:   lang,
		safety: safetySvc,
		cfg:    cfg,
		log:    cfg.Logger,
	}
	if !cfg.SkipOutputCheck {
		p.check = validator.New()
	}
	return p
}

// runState is the per-run working state threaded through the stages.
// It lives for exactly one run and is never shared.
type runState struct {
	input          string
	normalized     string
	detected       language.Detection
	lowConfidence  bool
	isCanonical    bool
	working        string
	verdict        *safety.Verdict
	output         string
	translatedBack bool
	step           Step
}

// Process runs input through the full pipeline and assembles the result.
// It never panics on collaborator failure: fatal errors surface in
// Result.Error, blocked content as Success=true with Approved=false.
func (p *Pipeline) Process(ctx context.Context, input string) *Result {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RunTimeout)
	defer cancel()

	st := &runState{input: input, step: StepStart}

	if err := p.validate(st); err != nil {
		return assemble(st, err, started)
	}
	if err := p.detect(ctx, st); err != nil {
		return assemble(st, err, started)
	}
	if err := p.translateIn(ctx, st); err != nil {
		return assemble(st, err, started)
	}
	if err := p.moderate(ctx, st); err != nil {
		return assemble(st, err, started)
	}
	p.translateOut(ctx, st)

	return assemble(st, nil, started)
}

// validate rejects empty or oversized input and normalizes whitespace.
// Not retryable: the input cannot get shorter by asking again.
func (p *Pipeline) validate(st *runState) *Error {
	trimmed := strings.TrimSpace(st.input)
	if trimmed == "" {
		return newError(KindEmptyInput, nil, "input text is empty or contains only whitespace")
	}
	if n := len([]rune(trimmed)); n > p.cfg.MaxInputChars {
		return newError(KindTooLong, nil, "input text is too long: %d characters (maximum %d)", n, p.cfg.MaxInputChars)
	}

	st.normalized = postprocess.CollapseWhitespace(trimmed)
	st.step = StepValidated
	return nil
}

// detect identifies the input language. Low confidence is flagged, not
// fatal: an uncertain guess is still actionable, but callers must be able
// to warn users.
func (p *Pipeline) detect(ctx context.Context, st *runState) *Error {
	var det *language.Detection
	err := p.withRetry(ctx, "detect", func(callCtx context.Context) error {
		var callErr error
		det, callErr = p.lang.Detect(callCtx, st.normalized)
		return callErr
	})
	if err != nil {
		return newError(KindDetectionUnavailable, err, "language detection failed")
	}

	st.detected = *det
	st.lowConfidence = det.Confidence < p.cfg.ConfidenceFloor
	st.isCanonical = strings.EqualFold(det.Code, p.cfg.Canonical)
	st.step = StepLanguageDetected

	if st.lowConfidence {
		p.log.Debug("low-confidence language detection",
			zap.String("code", det.Code),
			zap.Float64("confidence", det.Confidence),
			zap.Float64("floor", p.cfg.ConfidenceFloor))
	}
	return nil
}

// translateIn produces the canonical working text. Canonical input passes
// through verbatim: no network round trip, no translation drift. A failed
// translation is fatal — moderation must not run on text it cannot
// evaluate reliably.
func (p *Pipeline) translateIn(ctx context.Context, st *runState) *Error {
	if st.isCanonical {
		st.working = st.normalized
		st.step = StepTranslatedIn
		return nil
	}

	var translated string
	err := p.withRetry(ctx, "translate_in", func(callCtx context.Context) error {
		var callErr error
		translated, callErr = p.lang.Translate(callCtx, st.normalized, st.detected.Code, p.cfg.Canonical)
		return callErr
	})
	if err != nil {
		return newError(KindTranslationFailed, err, "translation from %s to %s failed", st.detected.Code, p.cfg.Canonical)
	}

	st.working = translated
	st.step = StepTranslatedIn
	return nil
}

// moderate classifies the working text. Mandatory on every non-failed
// path; on classifier outage the pipeline fails closed rather than
// releasing unmoderated output. An unapproved verdict is a valid terminal
// state, not an error.
func (p *Pipeline) moderate(ctx context.Context, st *runState) *Error {
	if st.working == "" {
		return newError(KindInternalInvariant, nil, "empty working text reached moderation")
	}

	var verdict *safety.Verdict
	err := p.withRetry(ctx, "moderate", func(callCtx context.Context) error {
		var callErr error
		verdict, callErr = p.safety.Classify(callCtx, st.working)
		return callErr
	})
	if err != nil {
		return newError(KindModerationUnavailable, err, "content moderation failed")
	}

	st.verdict = verdict
	st.step = StepModerated
	return nil
}

// translateOut returns the approved working text in the user's language.
// Skipped when blocked (no output is emitted at all) or canonical.
// Failure degrades to canonical text rather than failing the run.
func (p *Pipeline) translateOut(ctx context.Context, st *runState) {
	if st.verdict == nil || !st.verdict.Approved {
		return
	}
	if st.isCanonical {
		st.output = st.working
		return
	}

	// Canonical fallback stands until translation succeeds.
	st.output = st.working

	var translated string
	err := p.withRetry(ctx, "translate_out", func(callCtx context.Context) error {
		var callErr error
		translated, callErr = p.lang.Translate(callCtx, st.working, p.cfg.Canonical, st.detected.Code)
		return callErr
	})
	if err != nil {
		p.log.Warn("translate-back failed, returning canonical text",
			zap.String("target", st.detected.Code),
			zap.Error(err))
		return
	}

	if p.check != nil {
		if ok, checkErr := p.check.IsValid(translated, st.detected.Code); !ok {
			p.log.Warn("translate-back output failed language check", zap.Error(checkErr))
		}
	}

	st.output = translated
	st.translatedBack = true
	st.step = StepTranslatedOut
}

// TranslateBack translates a caller-supplied canonical-language reply into
// targetLang, stripping formatting that does not survive machine
// translation and protecting code spans and markup with placeholders.
// It never fails: on error the untranslated reply is returned with false.
func (p *Pipeline) TranslateBack(ctx context.Context, reply, targetLang string) (string, bool) {
	if reply == "" || targetLang == "" || strings.EqualFold(targetLang, p.cfg.Canonical) {
		return reply, false
	}

	// Protect code spans and markup before stripping, or the markdown
	// rendering would erase the very markers worth preserving.
	protected, markers := placeholder.Protect(reply)

	cleaned := postprocess.StripFormatting(protected)
	if len([]rune(cleaned)) < minCleanedRunes {
		// Cleanup removed nearly everything; translate the protected text.
		cleaned = protected
	}

	var translated string
	err := p.withRetry(ctx, "translate_back", func(callCtx context.Context) error {
		var callErr error
		translated, callErr = p.lang.Translate(callCtx, cleaned, p.cfg.Canonical, targetLang)
		return callErr
	})
	if err != nil {
		p.log.Warn("reply translation failed, returning canonical reply",
			zap.String("target", targetLang),
			zap.Error(err))
		return reply, false
	}

	if missing := placeholder.Validate(translated, markers); len(missing) > 0 {
		p.log.Warn("translation dropped placeholders", zap.Ints("missing", missing))
	}

	return placeholder.Restore(translated, markers), true
}

// Canonical returns the configured canonical language code.
func (p *Pipeline) Canonical() string {
	return p.cfg.Canonical
}

// withRetry runs fn under the per-call deadline, retrying with bounded
// exponential backoff. Safe because detect, translate, and classify are
// pure functions of their input. Gives up early when the run context ends.
func (p *Pipeline) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	delay := p.cfg.RetryDelay

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
		err = fn(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		if attempt == p.cfg.MaxAttempts {
			break
		}

		p.log.Debug("call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}

	return err
}
