// Package postprocess cleans text before and after external service calls.
//
// Clean removes common LLM artifacts from the raw output of LLM-backed
// services. CollapseWhitespace normalizes user input ahead of detection.
// StripFormatting prepares a canonical-language reply for translation by
// removing markup and symbols that do not survive machine translation.
package postprocess

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Clean removes LLM artifacts from text in three phases and returns the
// trimmed result:
//  1. Thinking / reasoning block removal
//  2. Instruction echo removal (prompt leakage)
//  3. Quote wrapping removal
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEchoes(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
// Flags: i = case-insensitive, s = dot matches newline.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// --- Phase 2: instruction echoes ---

// echoPatterns match introductory phrases that LLMs sometimes prepend even
// when instructed not to. Each pattern is anchored to the start of the string
// and requires a colon to reduce false positives on legitimate content.
var echoPatterns = []*regexp.Regexp{
	// "Here is / Here's [the] [translated] translation:"
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? (?:translated )?(?:translation|text|detection|result)\s*:`),
	// "[The] [translation|translated text|result]:"
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text|result)\s*:`),
	// "Certainly / Sure / Of course[,] here is [the] translation:"
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.]? here(?:'s| is)(?: the)? (?:translated )?(?:translation|text)\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// --- Phase 3: quote wrapping ---

// removeQuoteWrapping strips a matching pair of outer quotes when the entire
// text is wrapped in them (a common LLM artifact).  Supported pairs:
//
//	"…"  '…'  «…»  "…"  '…'
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') || // " "
		(first == '‘' && last == '’') { //  ' '
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}

// --- Input normalization ---

var (
	multiSpaceRe   = regexp.MustCompile(`[ \t]+`)
	multiNewlineRe = regexp.MustCompile(`\n\s*\n`)
)

// CollapseWhitespace trims text and collapses redundant whitespace: runs of
// spaces and tabs become a single space and stacked blank lines become one
// paragraph break. Semantic content is not altered.
func CollapseWhitespace(text string) string {
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// --- Reply formatting cleanup ---

// emojiRe matches pictographic characters that machine translation tends to
// mangle or drop: emoticons, symbols, transport glyphs, flags, dingbats.
var emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}]`)

// StripFormatting converts a markdown-formatted reply into plain text suited
// for machine translation: markdown structure is rendered away, emoji and
// decorative symbols are removed, and whitespace is collapsed.
func StripFormatting(text string) string {
	text = markdownToPlain(text)
	text = emojiRe.ReplaceAllString(text, "")
	return CollapseWhitespace(text)
}

func markdownToPlain(md string) string {
	opts := html.RendererOptions{Flags: html.CommonFlags}
	renderer := html.NewRenderer(opts)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	return stripHTMLTags(string(markdown.Render(doc, renderer)))
}

func stripHTMLTags(htmlContent string) string {
	var result strings.Builder
	inTag := false

	for _, ch := range htmlContent {
		switch ch {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				result.WriteRune(ch)
			}
		}
	}

	return result.String()
}
