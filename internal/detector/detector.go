// Package detector wraps the lingua-go statistical language detector.
// It backs the offline language service and the post-translation
// language check. Building the detector is expensive; reuse instances.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lowercase ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectWithConfidence returns the ISO 639-1 code, English language name and
// the detector's confidence in [0,1] for the most likely language of text.
func (d *Detector) DetectWithConfidence(text string) (code, name string, confidence float64, ok bool) {
	lang, found := d.Detect(text)
	if !found {
		return "", "", 0, false
	}

	for _, cv := range d.detector.ComputeLanguageConfidenceValues(text) {
		if cv.Language() == lang {
			confidence = cv.Value()
			break
		}
	}

	return strings.ToLower(lang.IsoCode639_1().String()), lang.String(), confidence, true
}

// Languages returns every language lingua can detect as a code → name map.
func Languages() map[string]string {
	langs := lingua.AllLanguages()
	out := make(map[string]string, len(langs))
	for _, l := range langs {
		out[strings.ToLower(l.IsoCode639_1().String())] = l.String()
	}
	return out
}
