// Package recognizer drives the asynchronous Computer Vision Read API:
// an image is submitted, and the returned operation is polled until the
// recognised text is available.
package recognizer

import (
	"strings"
	"time"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseStatus maps the Read API status field. notStarted is reported
// before the job is picked up and counts as running.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notstarted", "running":
		return StatusRunning
	case "succeeded":
		return StatusSucceeded
	case "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Job is a submitted Read operation.
type Job struct {
	OperationURL string    `json:"operation_url"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type Result struct {
	Status   Status   `json:"status"`
	Text     string   `json:"text"`
	Lines    []string `json:"lines"`
	Attempts int      `json:"attempts"`
}

// readOperation is the body returned by GET on the Operation-Location URL.
type readOperation struct {
	Status        *string `json:"status"`
	AnalyzeResult *struct {
		ReadResults []struct {
			Page  int `json:"page"`
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

// lines returns every recognised line in the order the service reports
// pages and lines.
func (op *readOperation) lines() []string {
	if op.AnalyzeResult == nil {
		return nil
	}
	var out []string
	for _, rr := range op.AnalyzeResult.ReadResults {
		for _, l := range rr.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}
