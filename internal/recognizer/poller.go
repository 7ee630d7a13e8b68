package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/azure"
)

const (
	DefaultMaxAttempts = 10
	DefaultDelay       = time.Second
)

var (
	errMissingOperationLocation = errors.New("response has no Operation-Location header")
	errMissingStatus            = errors.New("response has no status field")
)

type PollerConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// Poller checks a Read operation until it succeeds, fails or the attempt
// budget runs out. It sends at most MaxAttempts requests and does not sleep
// after the last one.
type Poller struct {
	client  *azure.Client
	config  PollerConfig
	sleeper Sleeper
	logger  *zap.SugaredLogger
}

type PollerOption func(p *Poller)

func WithSleeper(s Sleeper) PollerOption {
	return func(p *Poller) {
		p.sleeper = s
	}
}

func WithLogger(l *zap.SugaredLogger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPoller(client *azure.Client, config PollerConfig, options ...PollerOption) *Poller {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.Delay < 0 {
		config.Delay = DefaultDelay
	}

	p := &Poller{
		client:  client,
		config:  config,
		sleeper: TimerSleeper(),
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *Poller) Poll(ctx context.Context, job *Job) (*Result, error) {
	if job == nil || job.OperationURL == "" {
		return nil, apierr.InvalidInput(apierr.OpPoll, "job has no operation URL")
	}

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		op, err := p.fetch(ctx, job.OperationURL)
		if err != nil {
			return nil, err
		}

		status := ParseStatus(*op.Status)
		p.logger.Debugw("polled read operation", "attempt", attempt, "status", *op.Status)

		switch status {
		case StatusSucceeded:
			lines := op.lines()
			return &Result{
				Status:   StatusSucceeded,
				Text:     strings.TrimSpace(strings.Join(lines, " ")),
				Lines:    lines,
				Attempts: attempt,
			}, nil
		case StatusFailed:
			return nil, apierr.New(apierr.OpPoll, apierr.KindRecognitionFailed, fmt.Errorf("after %d attempt(s)", attempt))
		}

		if attempt == p.config.MaxAttempts {
			break
		}
		if err := p.sleeper.Sleep(ctx, p.config.Delay); err != nil {
			return nil, fmt.Errorf("polling interrupted: %w", err)
		}
	}

	return nil, apierr.New(apierr.OpPoll, apierr.KindTimeout, fmt.Errorf("still running after %d attempts", p.config.MaxAttempts))
}

func (p *Poller) fetch(ctx context.Context, url string) (*readOperation, error) {
	resp, err := p.client.Get(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("polling interrupted: %w", ctx.Err())
		}
		return nil, apierr.New(apierr.OpPoll, apierr.KindCredentialOrRequest, err)
	}

	var op readOperation
	if err := json.Unmarshal(resp.Body, &op); err != nil {
		return nil, apierr.Malformed(apierr.OpPoll, string(resp.Body), err)
	}
	if op.Status == nil {
		p.logger.Warnw("unexpected response format", "statusCode", resp.StatusCode, "body", string(resp.Body))
		return nil, apierr.Malformed(apierr.OpPoll, string(resp.Body), errMissingStatus)
	}
	return &op, nil
}
