package signing

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

const dataURLPrefix = "data:image/png;base64,"

// Canvas limits for a captured signature. Larger images are rejected before
// their pixels are decoded.
const (
	MaxWidth  = 2000
	MaxHeight = 1000
)

// ErrInvalidSignature is returned when a payload is not a PNG data URL.
var ErrInvalidSignature = errors.New("signing: invalid signature payload")

// Signature is the captured handwritten signature image. The zero value is
// the empty signature.
type Signature struct {
	png    []byte
	bounds image.Rectangle
}

// ParseDataURL decodes a data:image/png;base64 URL. An empty string yields the
// empty signature. A canvas with no opaque pixels also counts as empty.
func ParseDataURL(raw string) (Signature, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Signature{}, nil
	}
	if !strings.HasPrefix(raw, dataURLPrefix) {
		return Signature{}, fmt.Errorf("%w: expected %s prefix", ErrInvalidSignature, strings.TrimSuffix(dataURLPrefix, ","))
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, dataURLPrefix))
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return ParsePNG(payload)
}

// ParsePNG wraps raw PNG bytes no larger than MaxWidth x MaxHeight.
func ParsePNG(payload []byte) (Signature, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxWidth || cfg.Height > MaxHeight {
		return Signature{}, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidSignature, cfg.Width, cfg.Height, MaxWidth, MaxHeight)
	}
	img, err := png.Decode(bytes.NewReader(payload))
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if blank(img) {
		return Signature{}, nil
	}
	return Signature{png: append([]byte(nil), payload...), bounds: img.Bounds()}, nil
}

// IsEmpty reports whether no signature has been drawn.
func (s Signature) IsEmpty() bool {
	return len(s.png) == 0
}

// PNG returns a copy of the encoded image.
func (s Signature) PNG() []byte {
	return append([]byte(nil), s.png...)
}

// Bounds returns the image dimensions.
func (s Signature) Bounds() image.Rectangle {
	return s.bounds
}

// DataURL re-encodes the signature for embedding in markup.
func (s Signature) DataURL() string {
	if s.IsEmpty() {
		return ""
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(s.png)
}

func blank(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				return false
			}
		}
	}
	return true
}
