// Package chunker splits long texts into pieces that fit a downstream
// service's size limit while preserving sentence and paragraph integrity.
// The safety classifier uses it to moderate working texts longer than its
// per-request limit; LLM-backed translators use ExtractContext for a
// sliding-window continuity snippet.
package chunker

import (
	"strings"
	"unicode"
)

const (
	// DefaultContextWords is the default number of words extracted by
	// ExtractContext for use as a sliding-window context.
	DefaultContextWords = 25
)

// Chunk splits text into pieces each no longer than maxChars unicode
// code points. Splits are attempted (in order of preference) at:
//  1. Paragraph boundaries (\n\n or \r\n\r\n)
//  2. Sentence-ending punctuation (. ! ?)
//  3. Whitespace (word boundary)
//  4. Hard cut at maxChars if no suitable boundary is found
//
// If text fits entirely within maxChars, a single-element slice is returned.
// If maxChars ≤ 0 it is treated as unlimited (returns the whole text).
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return []string{text}
	}

	var chunks []string
	remaining := text

	for len([]rune(remaining)) > maxChars {
		split := findSplit(remaining, maxChars)
		chunk := strings.TrimSpace(remaining[:split])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = strings.TrimSpace(remaining[split:])
	}

	if strings.TrimSpace(remaining) != "" {
		chunks = append(chunks, strings.TrimSpace(remaining))
	}

	return chunks
}

// findSplit returns the byte index within text at which to split, aiming for
// at most maxChars runes. It searches backwards from maxChars for the best
// split boundary.
func findSplit(text string, maxChars int) int {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return len(text)
	}

	candidate := runes[:maxChars]

	// 1. Paragraph boundary — search backwards in candidate.
	candidateStr := string(candidate)
	if idx := strings.LastIndex(candidateStr, "\r\n\r\n"); idx > 0 {
		return idx + 4
	}
	if idx := strings.LastIndex(candidateStr, "\n\n"); idx > 0 {
		return idx + 2 // include the blank line in the consumed part
	}

	// 2. Sentence-ending punctuation followed by a space.
	for i := len(candidate) - 1; i > 0; i-- {
		r := candidate[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(candidate) && unicode.IsSpace(candidate[i+1]) {
			return len(string(candidate[:i+1]))
		}
	}

	// 3. Whitespace word boundary.
	for i := len(candidate) - 1; i > 0; i-- {
		if unicode.IsSpace(candidate[i]) {
			return len(string(candidate[:i]))
		}
	}

	// 4. Hard cut.
	return len(candidateStr)
}

// ExtractContext returns the last wordCount words of text, joined by a single
// space. It is intended as a sliding-window context snippet passed to LLM
// translators so they can maintain continuity across chunk boundaries.
// If text has fewer words than wordCount, the entire text is returned.
// If wordCount ≤ 0, DefaultContextWords is used.
func ExtractContext(text string, wordCount int) string {
	if wordCount <= 0 {
		wordCount = DefaultContextWords
	}
	words := strings.Fields(text)
	if len(words) <= wordCount {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[len(words)-wordCount:], " ")
}
