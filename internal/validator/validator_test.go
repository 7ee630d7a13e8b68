package validator

import (
	"testing"

	"github.com/valpere/scriptran/internal/detector"
)

var det = detector.New("en", "fr", "de", "es", "ru", "ja", "zh")

func TestIsValid_EmptyTargetLang(t *testing.T) {
	v := New(det)

	valid, err := v.IsValid("Some translated text", "")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true for empty targetLang")
	}
}

func TestIsValid_EmptyTranslation(t *testing.T) {
	v := New(det)

	for _, text := range []string{"", "   "} {
		valid, err := v.IsValid(text, "fr")
		if err == nil {
			t.Errorf("expected error for %q", text)
		}
		if valid {
			t.Errorf("expected valid=false for %q", text)
		}
	}
}

func TestIsValid_ShortText(t *testing.T) {
	v := New(det)

	valid, err := v.IsValid("Salut", "de")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true for short text (below threshold)")
	}
}

func TestIsValid_MatchingLanguage(t *testing.T) {
	v := New(det)

	text := "Ceci est un texte assez long qui devrait être détecté comme du français."
	valid, err := v.IsValid(text, "FR")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true when detecting French as French")
	}
}

func TestIsValid_MismatchedLanguage(t *testing.T) {
	v := New(det)

	englishText := "This is a longer piece of text that should be detected as English."
	valid, err := v.IsValid(englishText, "de")
	if err == nil {
		t.Error("expected error for mismatched language")
	}
	if valid {
		t.Error("expected valid=false when detecting English but expecting German")
	}
}
