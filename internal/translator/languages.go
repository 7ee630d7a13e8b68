package translator

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// targetLanguages is the fixed set offered to the user, in display order.
var targetLanguages = []string{"fr", "es", "de", "zh", "hi", "ta", "te", "ar", "ru", "ja"}

// Languages returns the target language codes accepted for translation.
func Languages() []string {
	return slices.Clone(targetLanguages)
}

// NormalizeTarget parses code as a BCP 47 tag and returns its base language
// if it is one of the supported targets.
func NormalizeTarget(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("target language is required")
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", code, err)
	}

	base, _ := tag.Base()
	if !slices.Contains(targetLanguages, base.String()) {
		return "", fmt.Errorf("unsupported target language %q (supported: %s)", code, strings.Join(targetLanguages, ", "))
	}
	return base.String(), nil
}

// NormalizeSource validates an optional source language. Empty and "auto"
// both mean the service detects it.
func NormalizeSource(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "auto") {
		return "", nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid source language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// DisplayName returns the English and native names for a language code,
// e.g. "German (Deutsch)".
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	english := display.English.Languages().Name(tag)
	native := display.Self.Name(tag)
	if english == "" {
		return code
	}
	if native == "" || native == english {
		return english
	}
	return fmt.Sprintf("%s (%s)", english, native)
}
