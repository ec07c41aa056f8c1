package paylink

import (
	"encoding/base64"

	"github.com/chackchack-dev/chackchack-backend/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// Renderer turns payment URLs into embeddable QR images.
type Renderer struct {
	// Size is the output image edge in pixels.
	Size int
	// Border is the quiet-zone width; zero drops the quiet zone entirely.
	Border int
}

// NewRenderer returns a renderer with sane bounds applied.
func NewRenderer(size, border int) Renderer {
	if size <= 0 {
		size = 400
	}
	return Renderer{Size: size, Border: border}
}

// DataURL encodes the payment URL into a PNG QR image and returns it as a
// base64 data URL ready for an <img> src attribute.
func (r Renderer) DataURL(paymentURL string) (string, error) {
	if paymentURL == "" {
		return "", errors.New(errors.CodeValidation, "payment url is empty")
	}

	code, err := qrcode.New(paymentURL, qrcode.Medium)
	if err != nil {
		return "", errors.Wrap(errors.CodeValidation, err, "encoding payment url into QR")
	}
	code.DisableBorder = r.Border == 0

	png, err := code.PNG(r.Size)
	if err != nil {
		return "", errors.Wrap(errors.CodeValidation, err, "rendering QR image")
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
