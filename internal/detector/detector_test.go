package detector

import (
	"testing"
)

func TestDetector_DetectISO(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{
			name:     "empty text",
			text:     "",
			wantCode: "",
			wantOK:   false,
		},
		{
			name:     "english text",
			text:     "Hello, this is a test in English.",
			wantCode: "en",
			wantOK:   true,
		},
		{
			name:     "ukrainian text",
			text:     "Привіт, це тест українською мовою.",
			wantCode: "uk",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Hallo, das ist ein Test auf Deutsch.",
			wantCode: "de",
			wantOK:   true,
		},
		{
			name:     "french text",
			text:     "Bonjour, ceci est un test en français.",
			wantCode: "fr",
			wantOK:   true,
		},
		{
			name:     "spanish text",
			text:     "Hola, esto es una prueba en español.",
			wantCode: "es",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && code != tt.wantCode {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_DetectWithConfidence(t *testing.T) {
	d := New()

	code, name, conf, ok := d.DetectWithConfidence("Bonjour, ceci est un test en français.")
	if !ok {
		t.Fatal("expected detection to succeed")
	}
	if code != "fr" {
		t.Errorf("expected code fr, got %q", code)
	}
	if name != "French" {
		t.Errorf("expected name French, got %q", name)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("expected confidence in (0,1], got %f", conf)
	}
}

func TestDetector_DetectWithConfidence_Empty(t *testing.T) {
	d := New()

	_, _, _, ok := d.DetectWithConfidence("")
	if ok {
		t.Error("expected no detection for empty text")
	}
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	if len(langs) == 0 {
		t.Fatal("expected non-empty language map")
	}
	if langs["en"] != "English" {
		t.Errorf("expected en → English, got %q", langs["en"])
	}
}

func TestDetector_ShortText(t *testing.T) {
	d := New()

	code, ok := d.DetectISO("Hi")
	// Short text may or may not be detected, just check it doesn't panic
	_ = code
	_ = ok
}
