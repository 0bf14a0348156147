package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltahost/portal-service/internal/config"
)

func validS3Config() config.S3Config {
	return config.S3Config{
		Endpoint:      "https://s3.example.com",
		Region:        "us-east-1",
		AccessKey:     "AKIA_TEST",
		SecretKey:     "secret",
		Bucket:        "portal-uploads",
		PublicBaseURL: "https://cdn.example.com",
	}
}

func TestNewUploader(t *testing.T) {
	u, err := NewUploader(validS3Config())
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestNewUploaderRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.S3Config)
	}{
		{"missing bucket", func(cfg *config.S3Config) { cfg.Bucket = "" }},
		{"missing region", func(cfg *config.S3Config) { cfg.Region = "" }},
		{"missing access key", func(cfg *config.S3Config) { cfg.AccessKey = "" }},
		{"missing secret key", func(cfg *config.S3Config) { cfg.SecretKey = "" }},
		{"missing public base url", func(cfg *config.S3Config) { cfg.PublicBaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validS3Config()
			tt.mutate(&cfg)

			_, err := NewUploader(cfg)
			assert.Error(t, err)
		})
	}
}

func TestExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantExt     string
		wantOK      bool
	}{
		{"image/png", ".png", true},
		{"image/jpeg", ".jpg", true},
		{"image/jpg", ".jpg", true},
		{"IMAGE/PNG", ".png", true},
		{"image/webp", ".webp", true},
		{"image/gif", ".gif", true},
		{"application/pdf", "", false},
		{"text/html", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			ext, ok := extensionFromContentType(tt.contentType)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
