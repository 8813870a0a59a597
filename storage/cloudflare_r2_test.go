package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewR2UploaderRequiresCredentials(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), R2Config{AccountID: "acct"})
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	u := &r2Uploader{baseURL: "https://files.example.com/exports/"}

	assert.Equal(t, "https://files.example.com/exports/results-20260830.csv",
		u.publicURL("results-20260830.csv"))
	// Keys stored with a leading slash resolve the same way.
	assert.Equal(t, "https://files.example.com/exports/field.csv",
		u.publicURL("/field.csv"))

	assert.Empty(t, u.publicURL(""))
	assert.Empty(t, (&r2Uploader{}).publicURL("field.csv"))
}
