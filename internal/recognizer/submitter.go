package recognizer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/azure"
)

const analyzePath = "/vision/v3.2/read/analyze"

// Submitter starts Read operations on a Computer Vision resource.
type Submitter struct {
	endpoint string
	client   *azure.Client
	now      func() time.Time
}

func NewSubmitter(endpoint string, client *azure.Client) *Submitter {
	return &Submitter{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		now:      time.Now,
	}
}

// Submit uploads image and returns the job handle from the
// Operation-Location header of the 202 response.
func (s *Submitter) Submit(ctx context.Context, image []byte) (*Job, error) {
	if len(image) == 0 {
		return nil, apierr.InvalidInput(apierr.OpSubmit, "image is empty")
	}

	resp, err := s.client.Post(ctx, s.endpoint+analyzePath, "application/octet-stream", image)
	if err != nil {
		return nil, apierr.New(apierr.OpSubmit, apierr.KindCredentialOrRequest, err)
	}

	if resp.StatusCode != http.StatusAccepted {
		return nil, apierr.Status(apierr.OpSubmit, resp.StatusCode, string(resp.Body))
	}

	location := strings.TrimSpace(resp.Header.Get(azure.HeaderOperationLocation))
	if location == "" {
		return nil, apierr.Malformed(apierr.OpSubmit, string(resp.Body), errMissingOperationLocation)
	}

	return &Job{OperationURL: location, SubmittedAt: s.now()}, nil
}
