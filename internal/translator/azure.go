package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/azure"
)

const (
	DefaultAzureEndpoint = "https://api.cognitive.microsofttranslator.com"
	azureAPIVersion      = "3.0"
)

// AzureService calls the Azure AI Translator v3 REST API. Each Translate
// call sends exactly one request; failures are not retried.
type AzureService struct {
	endpoint string
	client   *azure.Client
}

func NewAzureService(endpoint string, client *azure.Client) *AzureService {
	if endpoint == "" {
		endpoint = DefaultAzureEndpoint
	}
	return &AzureService{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
	}
}

func (s *AzureService) Name() string {
	return "azure"
}

type azureTextItem struct {
	Text string `json:"text"`
}

type azureTranslateResponse []struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (s *AzureService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
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

	body, err := json.Marshal([]azureTextItem{{Text: req.Text}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.client.Post(ctx, s.translateURL(target, source), "application/json", body)
	if err != nil {
		return nil, apierr.New(apierr.OpTranslate, apierr.KindCredentialOrRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.Status(apierr.OpTranslate, resp.StatusCode, string(resp.Body))
	}

	var out azureTranslateResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, apierr.Malformed(apierr.OpTranslate, string(resp.Body), err)
	}
	if len(out) == 0 || len(out[0].Translations) == 0 {
		return nil, apierr.Malformed(apierr.OpTranslate, string(resp.Body), fmt.Errorf("no translations in response"))
	}

	result.TranslatedText = out[0].Translations[0].Text
	result.Confidence = 1.0
	if dl := out[0].DetectedLanguage; dl != nil {
		result.DetectedLang = dl.Language
		result.Confidence = dl.Score
	} else if source != "" {
		result.DetectedLang = source
	}

	return result, nil
}

func (s *AzureService) translateURL(target, source string) string {
	q := url.Values{}
	q.Set("api-version", azureAPIVersion)
	q.Set("to", target)
	if source != "" {
		q.Set("from", source)
	}
	return s.endpoint + "/translate?" + q.Encode()
}

// IsAvailable queries the unauthenticated languages endpoint.
func (s *AzureService) IsAvailable(ctx context.Context) error {
	resp, err := s.client.Get(ctx, s.endpoint+"/languages?api-version="+azureAPIVersion+"&scope=translation")
	if err != nil {
		return fmt.Errorf("Azure Translator unreachable: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Azure Translator returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *AzureService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return Languages(), nil
}
