package compositor

import (
	"bytes"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/plateforge/plateforge/pkg/errors"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat normalizes a format string.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return errors.New(errors.ErrCodeInvalidImage, "cannot encode empty image")
	}
	switch format {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(92))
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", format)
}

// EncodeBytes renders img into a byte slice.
func EncodeBytes(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads an image back from r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	return img, nil
}

// Save writes img to path, picking the format from the extension.
func Save(img image.Image, path string) error {
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return errors.New(errors.ErrCodeInvalidImage, "cannot save empty image")
	}
	return imaging.Save(img, path)
}
