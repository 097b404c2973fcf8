package qrcode

import (
	"encoding/base64"
	"fmt"

	"courier/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const dataURIPrefix = "data:image/png;base64,"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// RenderPNG encodes a pairing payload as a PNG image
func (s *qrcodeService) RenderPNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty QR payload")
	}

	qrCode, err := qrcode.New(payload, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// RenderDataURI encodes a pairing payload as an inline PNG data URI
func (s *qrcodeService) RenderDataURI(payload string) (string, error) {
	pngBytes, err := s.RenderPNG(payload)
	if err != nil {
		return "", err
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes), nil
}
