package translator

import (
	"context"
	"time"
)

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string        `json:"service_name"`
	TranslatedText string        `json:"translated_text"`
	DetectedLang   string        `json:"detected_lang,omitempty"`
	Confidence     float64       `json:"confidence"`
	Latency        time.Duration `json:"latency"`
	Cached         bool          `json:"cached,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}
