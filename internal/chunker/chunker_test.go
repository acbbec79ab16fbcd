package chunker

import (
	"strings"
	"testing"
)

func TestChunk_FitsInOne(t *testing.T) {
	text := "Short text."
	chunks := Chunk(text, 100)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected unchanged text, got %q", chunks[0])
	}
}

func TestChunk_UnlimitedWhenZero(t *testing.T) {
	text := strings.Repeat("word ", 100)
	chunks := Chunk(text, 0)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for maxChars=0, got %d", len(chunks))
	}
}

func TestChunk_ParagraphBoundary(t *testing.T) {
	para1 := "First paragraph with several words in it."
	para2 := "Second paragraph that should end up separate."
	text := para1 + "\n\n" + para2

	chunks := Chunk(text, len([]rune(text))-5)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != para1 {
		t.Errorf("expected first paragraph, got %q", chunks[0])
	}
	if chunks[1] != para2 {
		t.Errorf("expected second paragraph, got %q", chunks[1])
	}
}

func TestChunk_SentenceBoundary(t *testing.T) {
	text := "One sentence here. Another sentence there. And one more to push the length over."

	chunks := Chunk(text, 50)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("expected first chunk to end at a sentence, got %q", chunks[0])
	}
}

func TestChunk_RespectsMaxChars(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 50)

	chunks := Chunk(text, 100)

	for i, c := range chunks {
		if got := len([]rune(c)); got > 100 {
			t.Errorf("chunk %d has %d runes, exceeds max 100", i, got)
		}
	}
}

func TestChunk_HardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("x", 250)

	chunks := Chunk(text, 100)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
}

func TestChunk_Multibyte(t *testing.T) {
	text := strings.Repeat("привіт світ ", 30)

	chunks := Chunk(text, 50)

	for i, c := range chunks {
		if got := len([]rune(c)); got > 50 {
			t.Errorf("chunk %d has %d runes, exceeds max 50", i, got)
		}
	}
	joined := strings.Join(chunks, " ")
	if strings.Count(joined, "привіт") != 30 {
		t.Error("expected no content lost across chunks")
	}
}

func TestExtractContext(t *testing.T) {
	text := "one two three four five six seven eight nine ten"

	got := ExtractContext(text, 3)
	if got != "eight nine ten" {
		t.Errorf("expected last 3 words, got %q", got)
	}
}

func TestExtractContext_ShorterThanWindow(t *testing.T) {
	text := "just a few words"

	got := ExtractContext(text, 25)
	if got != text {
		t.Errorf("expected whole text, got %q", got)
	}
}

func TestExtractContext_DefaultWindow(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = "w"
	}
	text := strings.Join(words, " ")

	got := ExtractContext(text, 0)
	if n := len(strings.Fields(got)); n != DefaultContextWords {
		t.Errorf("expected %d words, got %d", DefaultContextWords, n)
	}
}
