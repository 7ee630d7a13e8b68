package internal

import "time"

// RecognitionRecord is one image submitted for handwriting recognition.
type RecognitionRecord struct {
	ID           string    `json:"id"`
	ImageSHA256  string    `json:"image_sha256"`
	ImageSize    int       `json:"image_size"`
	OperationURL string    `json:"operation_url,omitempty"`
	Status       string    `json:"status"`
	Text         string    `json:"text,omitempty"`
	Attempts     int       `json:"attempts"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
