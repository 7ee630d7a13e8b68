package translator

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/scriptran/internal/apierr"
)

// GoogleService is an alternative backend using Cloud Translation (v2 API).
// It accepts the same target languages as AzureService.
type GoogleService struct {
	credentials string
	opts        []option.ClientOption
}

func NewGoogleService(credentials string, opts ...option.ClientOption) *GoogleService {
	return &GoogleService{credentials: credentials, opts: opts}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if strings.TrimSpace(req.Text) == "" {
		return nil, apierr.InvalidInput(apierr.OpTranslate, "text to translate is empty")
	}

	target, err := NormalizeTarget(req.TargetLang)
	if err != nil {
		return nil, apierr.New(apierr.OpTranslate, apierr.KindInvalidInput, err)
	}
	source, err := NormalizeSource(req.SourceLang)
	if err != nil {
		return nil, apierr.New(apierr.OpTranslate, apierr.KindInvalidInput, err)
	}

	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return nil, apierr.New(apierr.OpTranslate, apierr.KindCredentialOrRequest, fmt.Errorf("failed to create client: %w", err))
	}
	defer client.Close()

	var opts *translate.Options
	if source != "" {
		opts = &translate.Options{Source: language.Make(source), Format: translate.Text}
	} else {
		opts = &translate.Options{Format: translate.Text}
	}

	translations, err := client.Translate(ctx, []string{req.Text}, language.Make(target), opts)
	if err != nil {
		return nil, apierr.New(apierr.OpTranslate, apierr.KindCredentialOrRequest, err)
	}
	if len(translations) == 0 {
		return nil, apierr.Malformed(apierr.OpTranslate, "", fmt.Errorf("no translation returned"))
	}

	result.TranslatedText = html.UnescapeString(translations[0].Text)
	result.Confidence = 1.0
	if translations[0].Source != language.Und {
		result.DetectedLang = translations[0].Source.String()
	} else {
		result.DetectedLang = source
	}

	return result, nil
}

func (s *GoogleService) clientOptions() []option.ClientOption {
	opts := append([]option.ClientOption{}, s.opts...)
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}
	return opts
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return Languages(), nil
}
