package postprocess

import (
	"strings"
	"testing"
)

func TestClean_ThinkingBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "complete thinking block",
			in:   "<thinking>let me reason</thinking>Bonjour",
			want: "Bonjour",
		},
		{
			name: "think variant",
			in:   "<think>hmm</think>Hola",
			want: "Hola",
		},
		{
			name: "truncated thinking block",
			in:   "Hallo<reasoning>cut off mid",
			want: "Hallo",
		},
		{
			name: "no blocks",
			in:   "Plain text",
			want: "Plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean_InstructionEchoes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Here is the translation: Bonjour", "Bonjour"},
		{"Translation: Hola", "Hola"},
		{"Sure, here is the translation: Hallo", "Hallo"},
		{"The result: done", "done"},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClean_QuoteWrapping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"Bonjour"`, "Bonjour"},
		{"«Привіт»", "Привіт"},
		{"“Hola”", "Hola"},
		{`"unbalanced`, `"unbalanced`},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "multiple spaces",
			in:   "hello    world",
			want: "hello world",
		},
		{
			name: "tabs",
			in:   "hello\t\tworld",
			want: "hello world",
		},
		{
			name: "stacked blank lines keep one paragraph break",
			in:   "para one\n\n\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  text  ",
			want: "text",
		},
		{
			name: "content untouched",
			in:   "déjà vu 123",
			want: "déjà vu 123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseWhitespace(tt.in); got != tt.want {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripFormatting_Markdown(t *testing.T) {
	got := StripFormatting("**Great job!** Here is your answer.")

	if strings.Contains(got, "*") {
		t.Errorf("expected markdown removed, got %q", got)
	}
	if !strings.Contains(got, "Great job!") {
		t.Errorf("expected content preserved, got %q", got)
	}
}

func TestStripFormatting_Emoji(t *testing.T) {
	got := StripFormatting("Well done ✅🎉 keep going 🚀")

	if strings.ContainsAny(got, "✅🎉🚀") {
		t.Errorf("expected emoji removed, got %q", got)
	}
	if !strings.Contains(got, "Well done") || !strings.Contains(got, "keep going") {
		t.Errorf("expected text preserved, got %q", got)
	}
}

func TestStripFormatting_PreservesAccentedText(t *testing.T) {
	got := StripFormatting("Très bien, félicitations !")

	if !strings.Contains(got, "Très bien") {
		t.Errorf("expected accented text preserved, got %q", got)
	}
}
