// Package detector guesses the language of recognised or translated text.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detection struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the given ISO 639-1 codes, or over every
// language lingua knows when fewer than two usable codes are passed.
// Building the models is slow; reuse the instance.
func New(codes ...string) *Detector {
	var isoCodes []lingua.IsoCode639_1
	for _, c := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(c)))
		if iso != lingua.UnknownIsoCode639_1 {
			isoCodes = append(isoCodes, iso)
		}
	}

	builder := lingua.NewLanguageDetectorBuilder()
	var detector lingua.LanguageDetector
	if len(isoCodes) >= 2 {
		detector = builder.FromIsoCodes639_1(isoCodes...).Build()
	} else {
		detector = builder.FromAllLanguages().Build()
	}

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text's language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

func (d *Detector) DetectWithConfidence(text string) (Detection, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return Detection{}, false
	}
	return Detection{
		Code:       strings.ToLower(lang.IsoCode639_1().String()),
		Name:       lang.String(),
		Confidence: d.detector.ComputeLanguageConfidence(text, lang),
	}, true
}
