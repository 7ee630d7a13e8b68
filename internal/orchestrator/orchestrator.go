package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valpere/scriptran/internal"
	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/recognizer"
	"github.com/valpere/scriptran/internal/translator"
	"github.com/valpere/scriptran/internal/validator"
)

type Submitter interface {
	Submit(ctx context.Context, image []byte) (*recognizer.Job, error)
}

type Poller interface {
	Poll(ctx context.Context, job *recognizer.Job) (*recognizer.Result, error)
}

// Cache is the translation memory. *store.Store implements it.
type Cache interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang, service string) (string, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, serviceUsed string) error
}

// History records recognition attempts. *store.Store implements it.
type History interface {
	SaveRecognition(ctx context.Context, rec internal.RecognitionRecord) error
}

type OrchestratorConfig struct {
	// Timeout bounds one whole operation (all requests and waits). Zero
	// means no limit beyond the HTTP client timeout.
	Timeout time.Duration
}

// Outcome is the result of RecognizeAndTranslate. Recognition is set even
// when the translation step fails.
type Outcome struct {
	Recognition *recognizer.Result
	Translation *translator.ServiceResult
}

type Orchestrator struct {
	translator translator.TranslationService
	submitter  Submitter
	poller     Poller
	cache      Cache
	history    History
	validator  *validator.Validator
	config     OrchestratorConfig
	logger     *zap.SugaredLogger
	newID      func() string
}

type Option func(o *Orchestrator)

func WithTranslator(svc translator.TranslationService) Option {
	return func(o *Orchestrator) { o.translator = svc }
}

func WithRecognition(s Submitter, p Poller) Option {
	return func(o *Orchestrator) {
		o.submitter = s
		o.poller = p
	}
}

func WithCache(c Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

func WithHistory(h History) Option {
	return func(o *Orchestrator) { o.history = h }
}

// WithValidator enables a post-translation language check. A mismatch is
// logged as a warning; the translation is still returned.
func WithValidator(v *validator.Validator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func New(config OrchestratorConfig, options ...Option) *Orchestrator {
	o := &Orchestrator{
		config: config,
		logger: zap.NewNop().Sugar(),
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.config.Timeout > 0 {
		return context.WithTimeout(ctx, o.config.Timeout)
	}
	return context.WithCancel(ctx)
}

// Translate sends one translation request, consulting the translation
// memory first when one is configured.
func (o *Orchestrator) Translate(ctx context.Context, req translator.TranslateRequest) (*translator.ServiceResult, error) {
	if o.translator == nil {
		return nil, fmt.Errorf("no translation service configured")
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	service := o.translator.Name()
	if cached, ok := o.lookup(ctx, req, service); ok {
		o.logger.Infow("using cached translation", "service", service, "target", req.TargetLang)
		return cached, nil
	}

	res, err := o.translator.Translate(ctx, req)
	if err != nil {
		o.logger.Errorw("translation failed", "service", service, "target", req.TargetLang, "kind", apierr.KindOf(err).String(), "error", err)
		return nil, fmt.Errorf("%s: %w", service, err)
	}

	o.logger.Infow("translated text",
		"service", service,
		"target", req.TargetLang,
		"detected", res.DetectedLang,
		"latency", res.Latency.String(),
	)

	if o.validator != nil {
		if ok, verr := o.validator.IsValid(res.TranslatedText, req.TargetLang); !ok {
			o.logger.Warnw("translation language check failed", "service", service, "error", verr)
		}
	}

	if o.cache != nil {
		if err := o.cache.SaveToMemory(ctx, req.Text, req.SourceLang, req.TargetLang, res.TranslatedText, service); err != nil {
			o.logger.Warnw("failed to save translation memory", "error", err)
		}
	}

	return res, nil
}

func (o *Orchestrator) lookup(ctx context.Context, req translator.TranslateRequest, service string) (*translator.ServiceResult, bool) {
	if o.cache == nil || strings.TrimSpace(req.Text) == "" {
		return nil, false
	}
	text, found, err := o.cache.GetCachedTranslation(ctx, req.Text, req.SourceLang, req.TargetLang, service)
	if err != nil {
		o.logger.Warnw("translation memory lookup failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &translator.ServiceResult{
		ServiceName:    service,
		TranslatedText: text,
		Confidence:     1.0,
		Cached:         true,
	}, true
}

// Recognize submits image and polls the job to a terminal state.
func (o *Orchestrator) Recognize(ctx context.Context, image []byte) (*recognizer.Result, error) {
	if o.submitter == nil || o.poller == nil {
		return nil, fmt.Errorf("no recognition service configured")
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	sum := sha256.Sum256(image)
	rec := internal.RecognitionRecord{
		ID:          o.newID(),
		ImageSHA256: hex.EncodeToString(sum[:]),
		ImageSize:   len(image),
		Timestamp:   time.Now().UTC(),
	}
	log := o.logger.With("recognitionID", rec.ID, "size", len(image))

	job, err := o.submitter.Submit(ctx, image)
	if err != nil {
		log.Errorw("image submission failed", "kind", apierr.KindOf(err).String(), "error", err)
		o.record(ctx, rec, nil, err)
		return nil, err
	}
	rec.OperationURL = job.OperationURL
	log.Infow("image submitted", "operation", job.OperationURL)

	result, err := o.poller.Poll(ctx, job)
	o.record(ctx, rec, result, err)
	if err != nil {
		log.Errorw("recognition did not complete", "kind", apierr.KindOf(err).String(), "error", err)
		return nil, err
	}

	log.Infow("recognition complete", "attempts", result.Attempts, "lines", len(result.Lines))
	return result, nil
}

func (o *Orchestrator) record(ctx context.Context, rec internal.RecognitionRecord, result *recognizer.Result, err error) {
	if o.history == nil {
		return
	}
	if result != nil {
		rec.Status = result.Status.String()
		rec.Text = result.Text
		rec.Attempts = result.Attempts
	} else {
		rec.Status = historyStatus(err)
		rec.Error = apierr.UserMessage(err)
	}
	// History is best effort and must outlive an expired operation context.
	if herr := o.history.SaveRecognition(context.WithoutCancel(ctx), rec); herr != nil {
		o.logger.Warnw("failed to save recognition history", "error", herr)
	}
}

func historyStatus(err error) string {
	switch apierr.KindOf(err) {
	case apierr.KindRecognitionFailed:
		return "failed"
	case apierr.KindTimeout:
		return "timeout"
	case apierr.KindMalformedResponse:
		return "malformed"
	default:
		return "error"
	}
}

// RecognizeAndTranslate recognises image and, if any text was found,
// translates it per req (req.Text is ignored).
func (o *Orchestrator) RecognizeAndTranslate(ctx context.Context, image []byte, req translator.TranslateRequest) (*Outcome, error) {
	recognition, err := o.Recognize(ctx, image)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Recognition: recognition}
	if strings.TrimSpace(recognition.Text) == "" {
		o.logger.Infow("no text recognised, skipping translation")
		return out, nil
	}

	req.Text = recognition.Text
	out.Translation, err = o.Translate(ctx, req)
	if err != nil {
		return out, err
	}
	return out, nil
}
