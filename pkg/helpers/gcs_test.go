package helpers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/xrays/cases/p1/a.png", PublicURL("xrays", "cases/p1/a.png"))
}

func TestGCSUploader_NotConfigured(t *testing.T) {
	var nilUploader *GCSUploader
	_, err := nilUploader.Upload(context.Background(), "cases/x.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrGCSNotConfigured)

	_, err = NewGCSUploader(nil, "bucket").Upload(context.Background(), "cases/x.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrGCSNotConfigured)
}

func TestNewRedisClient_EmptyAddrDisables(t *testing.T) {
	assert.Nil(t, NewRedisClient("", "", 0))
}
