package storage

import (
	"context"
	"io"
)

// UploadResult describes one archived export object.
type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location,omitempty"`
	ETag     string `json:"etag,omitempty"`
}

// FileUploader archives generated CSV exports to object storage. The
// server runs without one when archiving is not configured.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
}
