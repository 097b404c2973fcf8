package qrcode

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_RenderPNG(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.RenderPNG("2@abcDEF123,pairing-ref,server-key")
	require.NoError(t, err)
	require.NotEmpty(t, qrBytes)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_RenderPNG_EmptyPayload(t *testing.T) {
	service := NewQRCodeService(256, "M")

	_, err := service.RenderPNG("")
	assert.Error(t, err)
}

func TestQRCodeService_RenderDataURI(t *testing.T) {
	service := NewQRCodeService(128, "L")

	uri, err := service.RenderDataURI("pairing-payload")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, dataURIPrefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPrefix))
	require.NoError(t, err)
	assert.Equal(t, byte(0x89), decoded[0])
}
