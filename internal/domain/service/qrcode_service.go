package service

// QRCodeService renders pairing payloads as scannable images
type QRCodeService interface {
	// RenderPNG encodes the payload as a PNG image.
	RenderPNG(payload string) ([]byte, error)

	// RenderDataURI encodes the payload as a base64 PNG data URI.
	RenderDataURI(payload string) (string, error)
}
