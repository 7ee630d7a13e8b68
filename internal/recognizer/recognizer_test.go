package recognizer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/azure"
)

const (
	running     = `{"status":"running"}`
	notStarted  = `{"status":"notStarted"}`
	failed      = `{"status":"failed"}`
	twoLinesDoc = `{"status":"succeeded","analyzeResult":{"readResults":[
		{"page":1,"lines":[{"text":"Hello"}]},
		{"page":2,"lines":[{"text":"world "}]}]}}`
)

// scriptedServer answers the n-th poll with bodies[n], repeating the last body.
func scriptedServer(t *testing.T, bodies ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-key", r.Header.Get(azure.HeaderSubscriptionKey))
		n := int(polls.Add(1)) - 1
		if n >= len(bodies) {
			n = len(bodies) - 1
		}
		w.Write([]byte(bodies[n]))
	}))
	t.Cleanup(server.Close)
	return server, &polls
}

type countingSleeper struct {
	calls  int
	delays []time.Duration
}

func (s *countingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.calls++
	s.delays = append(s.delays, d)
	return nil
}

func newTestPoller(server *httptest.Server, sleeper Sleeper, attempts int) *Poller {
	client := azure.NewClient("test-key", azure.WithHTTPClient(server.Client()))
	return NewPoller(client, PollerConfig{MaxAttempts: attempts, Delay: time.Second}, WithSleeper(sleeper))
}

func TestPoller_SucceedsAfterRunning(t *testing.T) {
	server, polls := scriptedServer(t, running, notStarted, twoLinesDoc)
	sleeper := &countingSleeper{}

	result, err := newTestPoller(server, sleeper, 10).Poll(context.Background(), &Job{OperationURL: server.URL + "/op/1"})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", result.Text)
	assert.Equal(t, []string{"Hello", "world "}, result.Lines)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int32(3), polls.Load())
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeper.delays)
}

func TestPoller_SucceededWithoutLines(t *testing.T) {
	server, _ := scriptedServer(t, `{"status":"succeeded"}`)

	result, err := newTestPoller(server, &countingSleeper{}, 10).Poll(context.Background(), &Job{OperationURL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "", result.Text)
	assert.Equal(t, 1, result.Attempts)
}

func TestPoller_TimesOutAfterMaxAttempts(t *testing.T) {
	server, polls := scriptedServer(t, running)
	sleeper := &countingSleeper{}

	result, err := newTestPoller(server, sleeper, 10).Poll(context.Background(), &Job{OperationURL: server.URL})
	require.Error(t, err)
	assert.Nil(t, result)

	assert.True(t, errors.Is(err, apierr.ErrTimeout))
	assert.Equal(t, apierr.MsgTimeout, apierr.UserMessage(err))
	assert.Equal(t, int32(10), polls.Load(), "no 11th request")
	assert.Equal(t, 9, sleeper.calls, "no sleep after the last attempt")
}

func TestPoller_UnknownStatusKeepsPolling(t *testing.T) {
	server, polls := scriptedServer(t, `{"status":"queued"}`)

	_, err := newTestPoller(server, &countingSleeper{}, 3).Poll(context.Background(), &Job{OperationURL: server.URL})
	assert.True(t, errors.Is(err, apierr.ErrTimeout))
	assert.Equal(t, int32(3), polls.Load())
}

func TestPoller_FailedStopsImmediately(t *testing.T) {
	server, polls := scriptedServer(t, running, failed, twoLinesDoc)
	sleeper := &countingSleeper{}

	_, err := newTestPoller(server, sleeper, 10).Poll(context.Background(), &Job{OperationURL: server.URL})
	require.Error(t, err)

	assert.True(t, errors.Is(err, apierr.ErrRecognitionFailed))
	assert.Equal(t, apierr.MsgRecognitionFailed, apierr.UserMessage(err))
	assert.Equal(t, int32(2), polls.Load())
	assert.Equal(t, 1, sleeper.calls)
}

func TestPoller_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing status", `{"analyzeResult":{}}`},
		{"error envelope", `{"error":{"code":"InvalidImage","message":"bad"}}`},
		{"not json", `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, polls := scriptedServer(t, tt.body, twoLinesDoc)
			sleeper := &countingSleeper{}

			_, err := newTestPoller(server, sleeper, 10).Poll(context.Background(), &Job{OperationURL: server.URL})
			require.Error(t, err)

			assert.True(t, errors.Is(err, apierr.ErrMalformedResponse))
			assert.False(t, errors.Is(err, apierr.ErrRecognitionFailed))
			assert.Equal(t, apierr.MsgMalformed, apierr.UserMessage(err))
			assert.Equal(t, int32(1), polls.Load())
			assert.Equal(t, 0, sleeper.calls)
		})
	}
}

func TestPoller_SleepInterrupted(t *testing.T) {
	server, polls := scriptedServer(t, running)
	ctx, cancel := context.WithCancel(context.Background())

	sleeper := SleeperFunc(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})

	_, err := newTestPoller(server, sleeper, 10).Poll(ctx, &Job{OperationURL: server.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), polls.Load())
}

func TestPoller_NilJob(t *testing.T) {
	p := NewPoller(azure.NewClient("k"), PollerConfig{})

	_, err := p.Poll(context.Background(), nil)
	assert.True(t, errors.Is(err, apierr.ErrInvalidInput))
}

func TestNewPoller_Defaults(t *testing.T) {
	p := NewPoller(azure.NewClient("k"), PollerConfig{Delay: -1})

	assert.Equal(t, DefaultMaxAttempts, p.config.MaxAttempts)
	assert.Equal(t, DefaultDelay, p.config.Delay)
}

func TestSubmitter_Submit_Accepted(t *testing.T) {
	payloads := [][]byte{{0xFF, 0xD8, 0xFF}, []byte("any bytes at all"), make([]byte, 4096)}

	for _, payload := range payloads {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/vision/v3.2/read/analyze", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get(azure.HeaderSubscriptionKey))
			assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, payload, body)

			w.Header().Set(azure.HeaderOperationLocation, "https://vision.example/vision/v3.2/read/analyzeResults/abc-123")
			w.WriteHeader(http.StatusAccepted)
		}))

		client := azure.NewClient("test-key", azure.WithHTTPClient(server.Client()))
		job, err := NewSubmitter(server.URL+"/", client).Submit(context.Background(), payload)
		server.Close()

		require.NoError(t, err)
		assert.Equal(t, "https://vision.example/vision/v3.2/read/analyzeResults/abc-123", job.OperationURL)
		assert.False(t, job.SubmittedAt.IsZero())
	}
}

func TestSubmitter_Submit_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(azure.HeaderOperationLocation, "https://ignored")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"401"}}`))
	}))
	defer server.Close()

	client := azure.NewClient("test-key", azure.WithHTTPClient(server.Client()))
	job, err := NewSubmitter(server.URL, client).Submit(context.Background(), []byte("img"))

	require.Error(t, err)
	assert.Nil(t, job)
	assert.True(t, errors.Is(err, apierr.ErrCredentialOrRequest))
	assert.Equal(t, `Error recognizing text: 401, {"error":{"code":"401"}}`, apierr.UserMessage(err))
}

func TestSubmitter_Submit_MissingHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := azure.NewClient("test-key", azure.WithHTTPClient(server.Client()))
	_, err := NewSubmitter(server.URL, client).Submit(context.Background(), []byte("img"))

	assert.True(t, errors.Is(err, apierr.ErrMalformedResponse))
}

func TestSubmitter_Submit_EmptyImage(t *testing.T) {
	_, err := NewSubmitter("http://unused", azure.NewClient("k")).Submit(context.Background(), nil)
	assert.True(t, errors.Is(err, apierr.ErrInvalidInput))
}

func TestSubmitThenPoll(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/vision/v3.2/read/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(azure.HeaderOperationLocation, server.URL+"/vision/v3.2/read/analyzeResults/42")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/vision/v3.2/read/analyzeResults/42", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 2 {
			w.Write([]byte(running))
			return
		}
		w.Write([]byte(twoLinesDoc))
	})

	client := azure.NewClient("test-key", azure.WithHTTPClient(server.Client()))

	job, err := NewSubmitter(server.URL, client).Submit(context.Background(), []byte("img"))
	require.NoError(t, err)

	poller := NewPoller(client, PollerConfig{MaxAttempts: 5}, WithSleeper(&countingSleeper{}))
	result, err := poller.Poll(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", result.Text)
	assert.Equal(t, 2, result.Attempts)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusRunning, ParseStatus("notStarted"))
	assert.Equal(t, StatusRunning, ParseStatus("running"))
	assert.Equal(t, StatusSucceeded, ParseStatus("succeeded"))
	assert.Equal(t, StatusFailed, ParseStatus("failed"))
	assert.Equal(t, StatusUnknown, ParseStatus(""))
	assert.Equal(t, "succeeded", StatusSucceeded.String())
}

func TestTimerSleeper_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := TimerSleeper().Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
